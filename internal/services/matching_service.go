package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Ashin-Amanulla/unma-2nd-anniversary-sub002/internal/metrics"
	"github.com/Ashin-Amanulla/unma-2nd-anniversary-sub002/internal/models"
	"github.com/google/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MatchingConfig tunes the matcher.
type MatchingConfig struct {
	// DefaultMaxDistance is used by DefaultRideOptions.
	DefaultMaxDistance int
	// ResultLimit caps the number of ranked rides returned.
	ResultLimit int
	// QueryTimeout bounds every repository call. Zero disables the bound.
	QueryTimeout time.Duration
	// Location is the time zone travel dates are compared in.
	Location *time.Location
}

// DefaultMatchingConfig returns the matcher defaults.
func DefaultMatchingConfig() MatchingConfig {
	return MatchingConfig{
		DefaultMaxDistance: 50,
		ResultLimit:        20,
		QueryTimeout:       10 * time.Second,
		Location:           time.Local,
	}
}

// MatchingService pairs accommodation and ride seekers with compatible
// providers. It holds no per-request state and is safe for concurrent use.
//
// Candidate sets are fetched with a structural filter and then evaluated one by
// one in memory; nothing is indexed, so latency grows with the candidate pool.
type MatchingService struct {
	repo      Repository
	evaluator *TransportEvaluator
	config    MatchingConfig
}

// NewMatchingService creates a MatchingService. A nil distance strategy means
// PostalCodeDistance.
func NewMatchingService(repo Repository, distance DistanceStrategy, config MatchingConfig) *MatchingService {
	if config.ResultLimit <= 0 {
		config.ResultLimit = DefaultMatchingConfig().ResultLimit
	}
	return &MatchingService{
		repo:      repo,
		evaluator: NewTransportEvaluator(distance, config.Location),
		config:    config,
	}
}

// DefaultRideOptions returns the ride search defaults: the configured max
// distance and same-date matching.
func (s *MatchingService) DefaultRideOptions() models.RideSearchOptions {
	return models.RideSearchOptions{
		MaxDistance:  s.config.DefaultMaxDistance,
		SameDateOnly: true,
	}
}

// ParseID converts a hex participant id, failing with ErrInvalidInput.
func ParseID(raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(raw))
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("participant id %q: %w", raw, ErrInvalidInput)
	}
	return id, nil
}

// FindCompatibleAccommodation lists the providers that can host everything the
// seeker needs. The list is unranked and keeps repository order.
func (s *MatchingService) FindCompatibleAccommodation(ctx context.Context, seekerID string) (result *models.AccommodationMatch, err error) {
	started, candidates := time.Now(), -1
	defer func() {
		metrics.ObserveMatch(string(models.DomainAccommodation), outcome(err), started, candidates)
	}()

	id, err := ParseID(seekerID)
	if err != nil {
		return nil, err
	}
	seeker, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if seeker == nil || seeker.Accommodation.Category != models.CategoryNeedAccommodation {
		return nil, fmt.Errorf("accommodation seeker %s: %w", seekerID, ErrNotFound)
	}

	totalNeeded := seeker.Accommodation.NeededCounts.Total()
	result = &models.AccommodationMatch{
		Seeker:              seeker,
		TotalNeeded:         totalNeeded,
		CompatibleProviders: make([]models.ParticipantRecord, 0),
	}
	if totalNeeded < 1 {
		logger.Infof("Accommodation seeker %s needs no beds, skipping match", seekerID)
		return result, nil
	}

	providers, err := s.query(ctx, models.Filter{
		AccommodationCategories: []string{models.CategoryProvideAccommodation},
		MinCapacity:             totalNeeded,
	})
	if err != nil {
		return nil, err
	}
	candidates = len(providers)

	for i := range providers {
		if IsAccommodationEligible(seeker, &providers[i]) {
			result.CompatibleProviders = append(result.CompatibleProviders, providers[i])
		} else {
			logger.V(1).Infof("Provider %s rejected for seeker %s (preference %q)",
				providers[i].ID.Hex(), seekerID, providers[i].Accommodation.GenderPreference)
		}
	}
	logger.Infof("Accommodation seeker %s: %d of %d providers compatible", seekerID, len(result.CompatibleProviders), candidates)
	return result, nil
}

// FindCompatibleRides ranks the vehicle providers within reach of the seeker,
// best first, keeping at most ResultLimit of them.
func (s *MatchingService) FindCompatibleRides(ctx context.Context, seekerID string, opts models.RideSearchOptions) (result *models.RideMatch, err error) {
	started, candidates := time.Now(), -1
	defer func() {
		metrics.ObserveMatch(string(models.DomainTransportation), outcome(err), started, candidates)
	}()

	if opts.MaxDistance < 0 {
		return nil, fmt.Errorf("maxDistance %d must not be negative: %w", opts.MaxDistance, ErrInvalidInput)
	}
	id, err := ParseID(seekerID)
	if err != nil {
		return nil, err
	}
	seeker, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if seeker == nil || !seeker.Transportation.IsTravelling {
		return nil, fmt.Errorf("ride seeker %s: %w", seekerID, ErrNotFound)
	}

	providers, err := s.query(ctx, models.Filter{
		Travelling:         true,
		ReadyToShare:       true,
		MinVehicleCapacity: 1,
		ExcludeID:          seeker.ID,
	})
	if err != nil {
		return nil, err
	}
	candidates = len(providers)

	rides := make([]models.RideCandidate, 0, len(providers))
	for i := range providers {
		p := &providers[i]
		if opts.SameDateOnly && seeker.Transportation.TravelDate != nil &&
			!s.evaluator.SameTravelDate(seeker.Transportation.TravelDate, p.Transportation.TravelDate) {
			continue
		}
		if opts.Mode != "" && !strings.EqualFold(p.Transportation.Mode, opts.Mode) {
			continue
		}
		ride, ok := s.evaluator.Evaluate(seeker, p, opts.MaxDistance)
		if !ok {
			logger.V(1).Infof("Provider %s out of range for seeker %s", p.ID.Hex(), seekerID)
			continue
		}
		rides = append(rides, ride)
	}

	sort.SliceStable(rides, func(i, j int) bool {
		return rides[i].CompatibilityScore > rides[j].CompatibilityScore
	})
	if len(rides) > s.config.ResultLimit {
		rides = rides[:s.config.ResultLimit]
	}

	t := seeker.Transportation
	logger.Infof("Ride seeker %s: %d rides from %d candidates", seekerID, len(rides), candidates)
	return &models.RideMatch{
		Seeker: models.SeekerSummary{
			ID:         seeker.ID,
			Name:       seeker.Name,
			GroupSize:  t.EffectiveGroupSize(),
			TravelDate: t.TravelDate,
			Mode:       t.Mode,
			PostalCode: t.PostalCode,
			District:   t.District,
			State:      t.State,
		},
		CompatibleRides: rides,
		TotalMatches:    len(rides),
	}, nil
}

func (s *MatchingService) findByID(ctx context.Context, id primitive.ObjectID) (*models.ParticipantRecord, error) {
	ctx, cancel := withQueryTimeout(ctx, s.config.QueryTimeout)
	defer cancel()

	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repositoryError(ctx, "find participant "+id.Hex(), err)
	}
	return rec, nil
}

func (s *MatchingService) query(ctx context.Context, filter models.Filter) ([]models.ParticipantRecord, error) {
	ctx, cancel := withQueryTimeout(ctx, s.config.QueryTimeout)
	defer cancel()

	recs, err := s.repo.Query(ctx, filter)
	if err != nil {
		return nil, repositoryError(ctx, "query candidates", err)
	}
	return recs, nil
}

func withQueryTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// repositoryError classifies a failed repository call. An expired deadline is a
// timeout; caller cancellation passes through; anything else means the store is
// unavailable.
func repositoryError(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		logger.Warningf("%s: deadline exceeded", op)
		return fmt.Errorf("%s: %w", op, ErrTimeout)
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("%s: %w", op, err)
	default:
		logger.Errorf("%s: %v", op, err)
		return fmt.Errorf("%s: %w: %w", op, ErrRepositoryUnavailable, err)
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	default:
		return "error"
	}
}
