package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Ashin-Amanulla/unma-2nd-anniversary-sub002/internal/models"
	"github.com/Ashin-Amanulla/unma-2nd-anniversary-sub002/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statsFixture() *memory.Store {
	return memory.NewStore(
		models.ParticipantRecord{
			Accommodation:  models.AccommodationDetails{Category: models.CategoryProvideAccommodation, Capacity: 4, LocationDistrict: "Ernakulam"},
			Transportation: models.TransportationDetails{IsTravelling: true, ReadyToShare: true, VehicleCapacity: 5, District: "Ernakulam", State: "Kerala"},
		},
		models.ParticipantRecord{
			Accommodation:  models.AccommodationDetails{Category: models.CategoryNeedAccommodation, NeededCounts: models.NeededCounts{Male: 2, Female: 1}, LocationDistrict: "Kannur"},
			Transportation: models.TransportationDetails{IsTravelling: true, GroupSize: 3, District: "Kannur", State: "Kerala"},
		},
		models.ParticipantRecord{
			Accommodation:  models.AccommodationDetails{Category: models.CategoryHotelRequest, NeededCounts: models.NeededCounts{Other: 2}},
			Transportation: models.TransportationDetails{IsTravelling: true, State: "Karnataka"},
		},
		models.ParticipantRecord{
			Accommodation: models.AccommodationDetails{Category: models.CategoryProvideAccommodation, Capacity: 2, LocationDistrict: "Kannur"},
		},
	)
}

func TestStatsService_AccommodationStats(t *testing.T) {
	service := NewStatsService(statsFixture(), time.Second)

	stats, err := service.AccommodationStats(context.Background(), models.Filter{})
	require.NoError(t, err)
	assert.Equal(t, []models.CategoryStats{
		{Category: models.CategoryHotelRequest, Count: 1, TotalNeeded: 2},
		{Category: models.CategoryNeedAccommodation, Count: 1, TotalNeeded: 3},
		{Category: models.CategoryProvideAccommodation, Count: 2, TotalCapacity: 6},
	}, stats)
}

func TestStatsService_TransportationStats(t *testing.T) {
	service := NewStatsService(statsFixture(), time.Second)

	stats, err := service.TransportationStats(context.Background(), models.Filter{State: "Kerala"})
	require.NoError(t, err)
	assert.Equal(t, []models.CategoryStats{
		{Category: models.CategoryRideSeeker, Count: 1, TotalNeeded: 3},
		{Category: models.CategoryVehicleProvider, Count: 1, TotalCapacity: 5},
	}, stats)
}

func TestStatsService_DashboardStats(t *testing.T) {
	service := NewStatsService(statsFixture(), time.Second)

	t.Run("district filter applies to both domains", func(t *testing.T) {
		stats, err := service.DashboardStats(context.Background(), models.Filter{District: "Kannur"})
		require.NoError(t, err)

		assert.Equal(t, []models.CategoryStats{
			{Category: models.CategoryNeedAccommodation, Count: 1, TotalNeeded: 3},
			{Category: models.CategoryProvideAccommodation, Count: 1, TotalCapacity: 2},
		}, stats.Accommodation)
		assert.Equal(t, []models.CategoryStats{
			{Category: models.CategoryRideSeeker, Count: 1, TotalNeeded: 3},
		}, stats.Transportation)
	})

	t.Run("nothing matches", func(t *testing.T) {
		stats, err := service.DashboardStats(context.Background(), models.Filter{District: "Wayanad"})
		require.NoError(t, err)
		assert.NotNil(t, stats.Accommodation)
		assert.Empty(t, stats.Accommodation)
		assert.Empty(t, stats.Transportation)
	})
}

func TestStatsService_RepositoryFailures(t *testing.T) {
	t.Run("unavailable", func(t *testing.T) {
		service := NewStatsService(failingRepo{err: errors.New("no reachable servers")}, time.Second)
		_, err := service.DashboardStats(context.Background(), models.Filter{})
		assert.ErrorIs(t, err, ErrRepositoryUnavailable)
	})

	t.Run("timeout", func(t *testing.T) {
		service := NewStatsService(blockingRepo{}, 20*time.Millisecond)
		_, err := service.AccommodationStats(context.Background(), models.Filter{})
		assert.ErrorIs(t, err, ErrTimeout)
	})
}

func TestStatsService_LocationFilterFollowsDomain(t *testing.T) {
	// One participant hosts in Kannur but drives out of Ernakulam.
	store := memory.NewStore(models.ParticipantRecord{
		Accommodation:  models.AccommodationDetails{Category: models.CategoryProvideAccommodation, Capacity: 2, LocationDistrict: "Kannur"},
		Transportation: models.TransportationDetails{IsTravelling: true, ReadyToShare: true, VehicleCapacity: 4, District: "Ernakulam", State: "Kerala"},
	})
	service := NewStatsService(store, time.Second)
	ctx := context.Background()
	host := []models.CategoryStats{{Category: models.CategoryProvideAccommodation, Count: 1, TotalCapacity: 2}}
	driver := []models.CategoryStats{{Category: models.CategoryVehicleProvider, Count: 1, TotalCapacity: 4}}

	tests := []struct {
		name   string
		domain models.Domain
		filter models.Filter
		want   []models.CategoryStats
	}{
		{"transport by host district", models.DomainTransportation, models.Filter{District: "Kannur"}, []models.CategoryStats{}},
		{"transport by travel district", models.DomainTransportation, models.Filter{District: "Ernakulam"}, driver},
		{"transport by state", models.DomainTransportation, models.Filter{State: "Kerala"}, driver},
		{"accommodation by travel district", models.DomainAccommodation, models.Filter{District: "Ernakulam"}, []models.CategoryStats{}},
		{"accommodation by host district", models.DomainAccommodation, models.Filter{District: "Kannur"}, host},
		{"accommodation ignores state", models.DomainAccommodation, models.Filter{State: "Tamil Nadu"}, host},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stats []models.CategoryStats
			var err error
			if tt.domain == models.DomainAccommodation {
				stats, err = service.AccommodationStats(ctx, tt.filter)
			} else {
				stats, err = service.TransportationStats(ctx, tt.filter)
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, stats)
		})
	}

	t.Run("dashboard splits one filter per domain", func(t *testing.T) {
		stats, err := service.DashboardStats(ctx, models.Filter{District: "Kannur"})
		require.NoError(t, err)
		assert.Equal(t, host, stats.Accommodation)
		assert.Empty(t, stats.Transportation)
	})
}
