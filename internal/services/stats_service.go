package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Ashin-Amanulla/unma-2nd-anniversary-sub002/internal/models"
	"golang.org/x/sync/errgroup"
)

// StatsService produces the dashboard counts. Each figure is computed by the
// repository as one grouped query; nothing is cached between calls.
type StatsService struct {
	repo    Repository
	timeout time.Duration
}

// NewStatsService creates a StatsService whose repository calls are bounded by
// timeout (zero means unbounded).
func NewStatsService(repo Repository, timeout time.Duration) *StatsService {
	return &StatsService{repo: repo, timeout: timeout}
}

// AccommodationStats groups accommodation registrations by category.
func (s *StatsService) AccommodationStats(ctx context.Context, filter models.Filter) ([]models.CategoryStats, error) {
	return s.aggregate(ctx, models.DomainAccommodation, filter)
}

// TransportationStats groups travelling registrations by derived category.
func (s *StatsService) TransportationStats(ctx context.Context, filter models.Filter) ([]models.CategoryStats, error) {
	return s.aggregate(ctx, models.DomainTransportation, filter)
}

// DashboardStats runs both aggregations concurrently.
func (s *StatsService) DashboardStats(ctx context.Context, filter models.Filter) (*models.DashboardStats, error) {
	var out models.DashboardStats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stats, err := s.AccommodationStats(gctx, filter)
		out.Accommodation = stats
		return err
	})
	g.Go(func() error {
		stats, err := s.TransportationStats(gctx, filter)
		out.Transportation = stats
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *StatsService) aggregate(ctx context.Context, domain models.Domain, filter models.Filter) ([]models.CategoryStats, error) {
	ctx, cancel := withQueryTimeout(ctx, s.timeout)
	defer cancel()

	filter.Domain = domain
	stats, err := s.repo.AggregateByCategory(ctx, domain, filter)
	if err != nil {
		return nil, repositoryError(ctx, fmt.Sprintf("aggregate %s stats", domain), err)
	}
	if stats == nil {
		stats = make([]models.CategoryStats, 0)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Category < stats[j].Category })
	return stats, nil
}
