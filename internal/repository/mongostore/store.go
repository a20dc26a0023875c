// Package mongostore reads registration records from the MongoDB collection the
// registration intake writes to.
package mongostore

import (
	"context"
	"errors"
	"fmt"

	"github.com/Ashin-Amanulla/unma-2nd-anniversary-sub002/internal/models"
	"github.com/google/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store is a read-only view over one collection.
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// Connect dials uri, checks the connection and binds to database.collection.
func Connect(ctx context.Context, uri, database, collection string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to reach mongodb: %w", err)
	}
	logger.Infof("Connected to MongoDB, using %s.%s", database, collection)
	return &Store{client: client, coll: client.Database(database).Collection(collection)}, nil
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// FindByID returns the record with the given _id, or nil.
func (s *Store) FindByID(ctx context.Context, id primitive.ObjectID) (*models.ParticipantRecord, error) {
	var rec models.ParticipantRecord
	err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Query returns the matching records in _id order.
func (s *Store) Query(ctx context.Context, filter models.Filter) ([]models.ParticipantRecord, error) {
	cur, err := s.coll.Find(ctx, FilterDocument(filter), options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]models.ParticipantRecord, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AggregateByCategory runs a single $match/$group pipeline.
func (s *Store) AggregateByCategory(ctx context.Context, domain models.Domain, filter models.Filter) ([]models.CategoryStats, error) {
	pipeline, err := AggregationPipeline(domain, filter)
	if err != nil {
		return nil, err
	}
	cur, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var stats []models.CategoryStats
	if err := cur.All(ctx, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// FilterDocument translates a Filter into a find filter.
func FilterDocument(f models.Filter) bson.D {
	doc := bson.D{}
	if !f.ExcludeID.IsZero() {
		doc = append(doc, bson.E{Key: "_id", Value: bson.D{{Key: "$ne", Value: f.ExcludeID}}})
	}
	if len(f.AccommodationCategories) > 0 {
		doc = append(doc, bson.E{Key: "accommodation.category", Value: bson.D{{Key: "$in", Value: f.AccommodationCategories}}})
	}
	if f.MinCapacity > 0 {
		doc = append(doc, bson.E{Key: "accommodation.capacity", Value: bson.D{{Key: "$gte", Value: f.MinCapacity}}})
	}
	if f.Travelling {
		doc = append(doc, bson.E{Key: "transportation.isTravelling", Value: true})
	}
	if f.ReadyToShare {
		doc = append(doc, bson.E{Key: "transportation.readyToShare", Value: true})
	}
	if f.MinVehicleCapacity > 0 {
		doc = append(doc, bson.E{Key: "transportation.vehicleCapacity", Value: bson.D{{Key: "$gte", Value: f.MinVehicleCapacity}}})
	}
	switch f.Domain {
	case models.DomainAccommodation:
		if f.District != "" {
			doc = append(doc, bson.E{Key: "accommodation.locationDistrict", Value: f.District})
		}
	case models.DomainTransportation:
		if f.District != "" {
			doc = append(doc, bson.E{Key: "transportation.district", Value: f.District})
		}
		if f.State != "" {
			doc = append(doc, bson.E{Key: "transportation.state", Value: f.State})
		}
	default:
		if f.District != "" {
			doc = append(doc, bson.E{Key: "$or", Value: bson.A{
				bson.D{{Key: "accommodation.locationDistrict", Value: f.District}},
				bson.D{{Key: "transportation.district", Value: f.District}},
			}})
		}
		if f.State != "" {
			doc = append(doc, bson.E{Key: "transportation.state", Value: f.State})
		}
	}
	return doc
}

// AggregationPipeline builds the grouped count+sum pipeline for domain. The
// figures follow models.GroupByCategory: providers contribute capacity, every
// other category contributes demand.
func AggregationPipeline(domain models.Domain, filter models.Filter) (mongo.Pipeline, error) {
	var match bson.D
	var category, capacity, needed any
	filter.Domain = domain
	switch domain {
	case models.DomainAccommodation:
		match = FilterDocument(filter)
		if len(filter.AccommodationCategories) == 0 {
			match = append(match, bson.E{Key: "accommodation.category", Value: bson.D{
				{Key: "$exists", Value: true},
				{Key: "$nin", Value: bson.A{"", nil}},
			}})
		}
		isProvider := bson.D{{Key: "$eq", Value: bson.A{"$accommodation.category", models.CategoryProvideAccommodation}}}
		category = "$accommodation.category"
		capacity = cond(isProvider, nonNegative("$accommodation.capacity"), 0)
		needed = cond(isProvider, 0, bson.D{{Key: "$add", Value: bson.A{
			nonNegative("$accommodation.neededCounts.male"),
			nonNegative("$accommodation.neededCounts.female"),
			nonNegative("$accommodation.neededCounts.other"),
		}}})
	case models.DomainTransportation:
		filter.Travelling = true
		match = FilterDocument(filter)
		isProvider := bson.D{{Key: "$and", Value: bson.A{
			bson.D{{Key: "$eq", Value: bson.A{"$transportation.readyToShare", true}}},
			bson.D{{Key: "$gt", Value: bson.A{"$transportation.vehicleCapacity", 0}}},
		}}}
		category = cond(isProvider, models.CategoryVehicleProvider, models.CategoryRideSeeker)
		capacity = cond(isProvider, "$transportation.vehicleCapacity", 0)
		needed = cond(isProvider, 0, cond(
			bson.D{{Key: "$gt", Value: bson.A{"$transportation.groupSize", 0}}},
			"$transportation.groupSize", 1))
	default:
		return nil, fmt.Errorf("unknown domain %q", domain)
	}

	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: category},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "totalCapacity", Value: bson.D{{Key: "$sum", Value: capacity}}},
			{Key: "totalNeeded", Value: bson.D{{Key: "$sum", Value: needed}}},
		}}},
	}, nil
}

func cond(ifExpr, then, otherwise any) bson.D {
	return bson.D{{Key: "$cond", Value: bson.A{ifExpr, then, otherwise}}}
}

// nonNegative clamps a numeric field at zero; a missing field counts as zero.
func nonNegative(field string) bson.D {
	return bson.D{{Key: "$max", Value: bson.A{bson.D{{Key: "$ifNull", Value: bson.A{field, 0}}}, 0}}}
}
