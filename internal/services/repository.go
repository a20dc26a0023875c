package services

import (
	"context"

	"github.com/Ashin-Amanulla/unma-2nd-anniversary-sub002/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Repository is the read-only view of registration records the matcher needs.
//
// FindByID returns (nil, nil) when no record has the given id. Query returns
// records in a stable storage order, which the matcher relies on to break ties.
// AggregateByCategory groups the records matching the filter by the domain's
// category and sums capacity and demand in a single query.
type Repository interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.ParticipantRecord, error)
	Query(ctx context.Context, filter models.Filter) ([]models.ParticipantRecord, error)
	AggregateByCategory(ctx context.Context, domain models.Domain, filter models.Filter) ([]models.CategoryStats, error)
}
