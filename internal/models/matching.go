package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AccommodationMatch is the result of matching one accommodation seeker.
// Providers come back in repository order; no ranking is applied.
type AccommodationMatch struct {
	Seeker              *ParticipantRecord  `json:"seeker"`
	TotalNeeded         int                 `json:"totalNeeded"`
	CompatibleProviders []ParticipantRecord `json:"compatibleProviders"`
}

// SeekerSummary is the part of a ride seeker echoed back with its matches.
type SeekerSummary struct {
	ID         primitive.ObjectID `json:"id"`
	Name       string             `json:"name"`
	GroupSize  int                `json:"groupSize"`
	TravelDate *time.Time         `json:"travelDate,omitempty"`
	Mode       string             `json:"mode,omitempty"`
	PostalCode string             `json:"postalCode,omitempty"`
	District   string             `json:"district,omitempty"`
	State      string             `json:"state,omitempty"`
}

// RideCandidate is a vehicle provider that passed the distance gate, with the
// values computed for it.
type RideCandidate struct {
	ID             primitive.ObjectID    `json:"id"`
	Name           string                `json:"name"`
	Email          string                `json:"email,omitempty"`
	Phone          string                `json:"phone,omitempty"`
	WhatsApp       string                `json:"whatsapp,omitempty"`
	Transportation TransportationDetails `json:"transportation"`

	Distance                int  `json:"distance"`
	CompatibilityScore      int  `json:"compatibilityScore"`
	AvailableSeats          int  `json:"availableSeats"`
	CanAccommodateFullGroup bool `json:"canAccommodateFullGroup"`
}

// RideMatch is the ranked result of matching one ride seeker.
type RideMatch struct {
	Seeker          SeekerSummary   `json:"seeker"`
	CompatibleRides []RideCandidate `json:"compatibleRides"`
	TotalMatches    int             `json:"totalMatches"`
}

// RideSearchOptions are the caller-tunable knobs of a ride search.
type RideSearchOptions struct {
	MaxDistance  int    `json:"maxDistance"`
	SameDateOnly bool   `json:"sameDateOnly"`
	Mode         string `json:"mode,omitempty"`
}

// CategoryStats is one row of a grouped aggregation. TotalCapacity sums
// provider capacity (beds or vehicle seats); TotalNeeded sums seeker demand
// (needed beds or group sizes).
type CategoryStats struct {
	Category      string `bson:"_id" json:"category"`
	Count         int    `bson:"count" json:"count"`
	TotalCapacity int    `bson:"totalCapacity" json:"totalCapacity"`
	TotalNeeded   int    `bson:"totalNeeded" json:"totalNeeded"`
}

// DashboardStats bundles both domains for the dashboard stat cards.
type DashboardStats struct {
	Accommodation  []CategoryStats `json:"accommodation"`
	Transportation []CategoryStats `json:"transportation"`
}
