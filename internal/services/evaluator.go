package services

import (
	"time"

	"github.com/Ashin-Amanulla/unma-2nd-anniversary-sub002/internal/models"
)

// Transportation score weights.
const (
	baseScore          = 100
	sameDateBonus      = 20
	sameDistrictBonus  = 15
	sameStateBonus     = 10
	fullGroupBonus     = 25
	partialGroupMalus  = 10
	MaxCompatibility   = baseScore + sameDateBonus + sameDistrictBonus + sameStateBonus + fullGroupBonus
	travelDateLayout   = "2006-01-02"
	driverReservedSeat = 1
)

// IsAccommodationEligible reports whether provider can host everyone seeker
// needs a bed for, under the provider's gender preference. Location never
// gates accommodation.
func IsAccommodationEligible(seeker, provider *models.ParticipantRecord) bool {
	needed := seeker.Accommodation.NeededCounts
	if capacityOf(provider.Accommodation.Capacity) < needed.Total() {
		return false
	}
	return genderCompatible(provider.Accommodation.GenderPreference, needed)
}

func genderCompatible(preference string, needed models.NeededCounts) bool {
	switch preference {
	case models.GenderAnyone:
		return true
	case models.GenderMaleOnly:
		return needed.Male > 0 && needed.Female <= 0
	case models.GenderFemaleOnly:
		return needed.Female > 0 && needed.Male <= 0
	default:
		return false
	}
}

func capacityOf(c int) int {
	if c < 0 {
		return 0
	}
	return c
}

// TransportEvaluator decides and scores (ride seeker, vehicle provider) pairs.
type TransportEvaluator struct {
	distance DistanceStrategy
	location *time.Location
}

// NewTransportEvaluator builds an evaluator. Travel dates are compared as
// calendar days in loc; a nil strategy or location falls back to
// PostalCodeDistance and time.Local.
func NewTransportEvaluator(distance DistanceStrategy, loc *time.Location) *TransportEvaluator {
	if distance == nil {
		distance = PostalCodeDistance{}
	}
	if loc == nil {
		loc = time.Local
	}
	return &TransportEvaluator{distance: distance, location: loc}
}

// Distance returns the strategy's distance between the two postal codes.
func (e *TransportEvaluator) Distance(seeker, provider *models.ParticipantRecord) int {
	return e.distance.Distance(seeker.Transportation.PostalCode, provider.Transportation.PostalCode)
}

// IsEligible reports whether provider can be offered to seeker at all: the
// provider shares a vehicle with seats and sits within maxDistance.
func (e *TransportEvaluator) IsEligible(seeker, provider *models.ParticipantRecord, maxDistance int) bool {
	t := provider.Transportation
	if !t.ReadyToShare || capacityOf(t.VehicleCapacity) <= 0 {
		return false
	}
	return e.Distance(seeker, provider) <= maxDistance
}

// Score ranks an eligible pair. The result is always within [0, MaxCompatibility].
func (e *TransportEvaluator) Score(seeker, provider *models.ParticipantRecord) int {
	s, p := seeker.Transportation, provider.Transportation

	score := baseScore - e.Distance(seeker, provider)
	if e.SameTravelDate(s.TravelDate, p.TravelDate) {
		score += sameDateBonus
	}
	if sameText(s.District, p.District) {
		score += sameDistrictBonus
	}
	if sameText(s.State, p.State) {
		score += sameStateBonus
	}
	if availableSeats(p) >= s.EffectiveGroupSize() {
		score += fullGroupBonus
	} else {
		score -= partialGroupMalus
	}

	if score < 0 {
		return 0
	}
	return score
}

// Evaluate returns the ride candidate for provider and true, or false when
// provider is not eligible for seeker.
func (e *TransportEvaluator) Evaluate(seeker, provider *models.ParticipantRecord, maxDistance int) (models.RideCandidate, bool) {
	if !e.IsEligible(seeker, provider, maxDistance) {
		return models.RideCandidate{}, false
	}
	seats := availableSeats(provider.Transportation)
	return models.RideCandidate{
		ID:                      provider.ID,
		Name:                    provider.Name,
		Email:                   provider.Email,
		Phone:                   provider.Phone,
		WhatsApp:                provider.WhatsApp,
		Transportation:          provider.Transportation,
		Distance:                e.Distance(seeker, provider),
		CompatibilityScore:      e.Score(seeker, provider),
		AvailableSeats:          seats,
		CanAccommodateFullGroup: seats >= seeker.Transportation.EffectiveGroupSize(),
	}, true
}

// SameTravelDate compares two travel dates by their calendar day in the
// evaluator's location. Missing dates never match.
func (e *TransportEvaluator) SameTravelDate(a, b *time.Time) bool {
	if a == nil || b == nil || a.IsZero() || b.IsZero() {
		return false
	}
	return a.In(e.location).Format(travelDateLayout) == b.In(e.location).Format(travelDateLayout)
}

// sameText is an exact comparison in which two blanks do not count as a match.
func sameText(a, b string) bool {
	return a != "" && a == b
}

// availableSeats keeps one seat for the driver.
func availableSeats(t models.TransportationDetails) int {
	return capacityOf(t.VehicleCapacity) - driverReservedSeat
}
