package services

import (
	"strconv"
	"strings"
)

// UnknownDistance is returned when a postal code is missing or not numeric.
// It is far beyond any sensible search radius.
const UnknownDistance = 999

// DistanceStrategy measures how far apart two postal codes are, as a
// non-negative integer in the same unit as RideSearchOptions.MaxDistance.
type DistanceStrategy interface {
	Distance(a, b string) int
}

// PostalCodeDistance approximates distance from the arithmetic difference of
// two numeric postal codes: floor(|a-b| / 1000). It is a rough proxy for
// Indian PIN codes, not a geodesic distance.
type PostalCodeDistance struct{}

// Distance implements DistanceStrategy.
func (PostalCodeDistance) Distance(a, b string) int {
	na, okA := parsePostalCode(a)
	nb, okB := parsePostalCode(b)
	if !okA || !okB {
		return UnknownDistance
	}
	diff := na - nb
	if diff < 0 {
		diff = -diff
	}
	return int(diff / 1000)
}

func parsePostalCode(pc string) (int64, bool) {
	pc = strings.TrimSpace(pc)
	if pc == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(pc, 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
