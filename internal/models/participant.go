package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Accommodation categories.
const (
	CategoryProvideAccommodation = "provide-accommodation"
	CategoryNeedAccommodation    = "need-accommodation"
	CategoryHotelRequest         = "hotel-request"
)

// Transportation categories. These are derived from the transportation
// sub-document rather than stored.
const (
	CategoryVehicleProvider = "vehicle-provider"
	CategoryRideSeeker      = "ride-seeker"
)

// Gender preferences an accommodation provider can declare.
const (
	GenderMaleOnly   = "male-only"
	GenderFemaleOnly = "female-only"
	GenderAnyone     = "anyone"
)

// ParticipantRecord is a registration entry as seen by the matching component.
// It is read-only: nothing in this module creates or mutates records.
type ParticipantRecord struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id" yaml:"id"`
	Name     string             `bson:"name" json:"name" yaml:"name"`
	Email    string             `bson:"email,omitempty" json:"email,omitempty" yaml:"email,omitempty"`
	Phone    string             `bson:"phone,omitempty" json:"phone,omitempty" yaml:"phone,omitempty"`
	WhatsApp string             `bson:"whatsapp,omitempty" json:"whatsapp,omitempty" yaml:"whatsapp,omitempty"`

	Accommodation  AccommodationDetails  `bson:"accommodation" json:"accommodation" yaml:"accommodation"`
	Transportation TransportationDetails `bson:"transportation" json:"transportation" yaml:"transportation"`
}

// AccommodationDetails holds the accommodation half of a registration.
// Capacity and GenderPreference only mean something for providers,
// NeededCounts only for seekers.
type AccommodationDetails struct {
	Category         string       `bson:"category,omitempty" json:"category,omitempty" yaml:"category,omitempty"`
	Capacity         int          `bson:"capacity" json:"capacity" yaml:"capacity"`
	GenderPreference string       `bson:"genderPreference,omitempty" json:"genderPreference,omitempty" yaml:"genderPreference,omitempty"`
	NeededCounts     NeededCounts `bson:"neededCounts" json:"neededCounts" yaml:"neededCounts"`
	LocationDistrict string       `bson:"locationDistrict,omitempty" json:"locationDistrict,omitempty" yaml:"locationDistrict,omitempty"`
	PostalCode       string       `bson:"postalCode,omitempty" json:"postalCode,omitempty" yaml:"postalCode,omitempty"`
}

// NeededCounts is how many people of each kind a seeker needs beds for.
type NeededCounts struct {
	Male   int `bson:"male" json:"male" yaml:"male"`
	Female int `bson:"female" json:"female" yaml:"female"`
	Other  int `bson:"other" json:"other" yaml:"other"`
}

// Total returns male + female + other, counting negative entries as zero.
func (n NeededCounts) Total() int {
	return nonNegative(n.Male) + nonNegative(n.Female) + nonNegative(n.Other)
}

// TransportationDetails holds the transportation half of a registration.
type TransportationDetails struct {
	IsTravelling    bool       `bson:"isTravelling" json:"isTravelling" yaml:"isTravelling"`
	ReadyToShare    bool       `bson:"readyToShare" json:"readyToShare" yaml:"readyToShare"`
	VehicleCapacity int        `bson:"vehicleCapacity" json:"vehicleCapacity" yaml:"vehicleCapacity"`
	GroupSize       int        `bson:"groupSize" json:"groupSize" yaml:"groupSize"`
	TravelDate      *time.Time `bson:"travelDate,omitempty" json:"travelDate,omitempty" yaml:"travelDate,omitempty"`
	Mode            string     `bson:"mode,omitempty" json:"mode,omitempty" yaml:"mode,omitempty"`
	PostalCode      string     `bson:"postalCode,omitempty" json:"postalCode,omitempty" yaml:"postalCode,omitempty"`
	District        string     `bson:"district,omitempty" json:"district,omitempty" yaml:"district,omitempty"`
	State           string     `bson:"state,omitempty" json:"state,omitempty" yaml:"state,omitempty"`
}

// Category derives the transportation category: a travelling participant who is
// ready to share a vehicle with free seats is a provider, any other travelling
// participant is a seeker. Non-travellers have no category.
func (t TransportationDetails) Category() string {
	if !t.IsTravelling {
		return ""
	}
	if t.ReadyToShare && t.VehicleCapacity > 0 {
		return CategoryVehicleProvider
	}
	return CategoryRideSeeker
}

// EffectiveGroupSize returns GroupSize, defaulting to 1 when unset.
func (t TransportationDetails) EffectiveGroupSize() int {
	if t.GroupSize <= 0 {
		return 1
	}
	return t.GroupSize
}

func nonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
