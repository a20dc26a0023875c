package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Domain selects which half of a registration a query or aggregation is about.
type Domain string

const (
	DomainAccommodation  Domain = "accommodation"
	DomainTransportation Domain = "transportation"
)

// Filter is the structural predicate a repository evaluates when fetching a
// candidate set. Zero-valued fields do not constrain the result.
type Filter struct {
	// AccommodationCategories restricts accommodation.category to one of these values.
	AccommodationCategories []string
	// MinCapacity requires accommodation.capacity >= MinCapacity.
	MinCapacity int

	// Travelling requires transportation.isTravelling.
	Travelling bool
	// ReadyToShare requires transportation.readyToShare.
	ReadyToShare bool
	// MinVehicleCapacity requires transportation.vehicleCapacity >= MinVehicleCapacity.
	MinVehicleCapacity int

	// Domain picks the half of the record District and State are read from.
	// Accommodation compares accommodation.locationDistrict and ignores State;
	// transportation compares transportation.district and transportation.state.
	// With no domain, District matches either half and State the transportation half.
	Domain   Domain
	District string
	State    string

	ExcludeID primitive.ObjectID
}

// Matches reports whether r satisfies every constraint in f. Repositories that
// cannot push the predicate down to their storage engine filter with it after a
// full scan.
func (f Filter) Matches(r *ParticipantRecord) bool {
	if !f.ExcludeID.IsZero() && r.ID == f.ExcludeID {
		return false
	}
	if len(f.AccommodationCategories) > 0 && !contains(f.AccommodationCategories, r.Accommodation.Category) {
		return false
	}
	if f.MinCapacity > 0 && r.Accommodation.Capacity < f.MinCapacity {
		return false
	}
	t := r.Transportation
	if f.Travelling && !t.IsTravelling {
		return false
	}
	if f.ReadyToShare && !t.ReadyToShare {
		return false
	}
	if f.MinVehicleCapacity > 0 && t.VehicleCapacity < f.MinVehicleCapacity {
		return false
	}
	switch f.Domain {
	case DomainAccommodation:
		if f.District != "" && r.Accommodation.LocationDistrict != f.District {
			return false
		}
	case DomainTransportation:
		if f.District != "" && t.District != f.District {
			return false
		}
		if f.State != "" && t.State != f.State {
			return false
		}
	default:
		if f.District != "" && r.Accommodation.LocationDistrict != f.District && t.District != f.District {
			return false
		}
		if f.State != "" && t.State != f.State {
			return false
		}
	}
	return true
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
