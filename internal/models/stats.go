package models

// GroupByCategory is the in-process form of AggregateByCategory for
// repositories that cannot group inside their storage engine. Records without a
// category in the given domain are skipped.
func GroupByCategory(domain Domain, records []ParticipantRecord) []CategoryStats {
	index := make(map[string]int)
	var stats []CategoryStats
	for i := range records {
		category, capacity, needed := categoryFigures(domain, &records[i])
		if category == "" {
			continue
		}
		pos, ok := index[category]
		if !ok {
			pos = len(stats)
			index[category] = pos
			stats = append(stats, CategoryStats{Category: category})
		}
		stats[pos].Count++
		stats[pos].TotalCapacity += capacity
		stats[pos].TotalNeeded += needed
	}
	return stats
}

func categoryFigures(domain Domain, r *ParticipantRecord) (category string, capacity, needed int) {
	switch domain {
	case DomainAccommodation:
		a := r.Accommodation
		switch a.Category {
		case CategoryProvideAccommodation:
			return a.Category, nonNegative(a.Capacity), 0
		case "":
			return "", 0, 0
		default:
			return a.Category, 0, a.NeededCounts.Total()
		}
	case DomainTransportation:
		t := r.Transportation
		switch category := t.Category(); category {
		case CategoryVehicleProvider:
			return category, nonNegative(t.VehicleCapacity), 0
		case CategoryRideSeeker:
			return category, 0, t.EffectiveGroupSize()
		}
	}
	return "", 0, 0
}
