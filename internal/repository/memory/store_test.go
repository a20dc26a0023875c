package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Ashin-Amanulla/unma-2nd-anniversary-sub002/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func mustID(t *testing.T, hex string) primitive.ObjectID {
	t.Helper()
	id, err := primitive.ObjectIDFromHex(hex)
	require.NoError(t, err)
	return id
}

func TestLoadFile_YAML(t *testing.T) {
	store, err := LoadFile(filepath.Join("testdata", "registrations.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 3, store.Len())

	rec, err := store.FindByID(context.Background(), mustID(t, "65a1f0c2e4b0a1b2c3d4e502"))
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "Anil", rec.Name)
	assert.Equal(t, "9847000000", rec.Phone)
	assert.Equal(t, 3, rec.Accommodation.Capacity)
	assert.Equal(t, "682001", rec.Transportation.PostalCode)
	assert.Equal(t, "car", rec.Transportation.Mode)
	require.NotNil(t, rec.Transportation.TravelDate)
	assert.Equal(t, 2025, rec.Transportation.TravelDate.Year())

	all, err := store.Query(context.Background(), models.Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Meera", all[2].Name)
	assert.False(t, all[2].ID.IsZero(), "records without an id get one")
}

func TestLoadFile_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registrations.json")
	data := `[
		{"id": "65a1f0c2e4b0a1b2c3d4e501", "name": "Rahul",
		 "accommodation": {"category": "need-accommodation", "neededCounts": {"male": 1, "female": 0, "other": 0}}},
		{"name": "Anil",
		 "transportation": {"isTravelling": true, "readyToShare": true, "vehicleCapacity": 4, "travelDate": "2025-01-10T00:00:00Z"}}
	]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	store, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, store.Len())

	rec, err := store.FindByID(context.Background(), mustID(t, "65a1f0c2e4b0a1b2c3d4e501"))
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 1, rec.Accommodation.NeededCounts.Total())
}

func TestLoadFile_Errors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	_, err = LoadFile(path)
	assert.Error(t, err)
}

func TestStore_Query(t *testing.T) {
	hostA := models.ParticipantRecord{Name: "A", Accommodation: models.AccommodationDetails{Category: models.CategoryProvideAccommodation, Capacity: 2}}
	seeker := models.ParticipantRecord{Name: "S", Accommodation: models.AccommodationDetails{Category: models.CategoryNeedAccommodation}}
	hostB := models.ParticipantRecord{Name: "B", Accommodation: models.AccommodationDetails{Category: models.CategoryProvideAccommodation, Capacity: 5}}

	store := NewStore(hostA, seeker, hostB)
	ctx := context.Background()

	recs, err := store.Query(ctx, models.Filter{AccommodationCategories: []string{models.CategoryProvideAccommodation}})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "A", recs[0].Name, "insertion order is kept")
	assert.Equal(t, "B", recs[1].Name)

	recs, err = store.Query(ctx, models.Filter{MinCapacity: 3})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "B", recs[0].Name)
}

func TestStore_FindByID(t *testing.T) {
	store := NewStore(models.ParticipantRecord{Name: "A"})
	ctx := context.Background()

	rec, err := store.FindByID(ctx, primitive.NewObjectID())
	require.NoError(t, err)
	assert.Nil(t, rec)

	all, err := store.Query(ctx, models.Filter{})
	require.NoError(t, err)
	rec, err = store.FindByID(ctx, all[0].ID)
	require.NoError(t, err)
	require.NotNil(t, rec)

	rec.Name = "changed"
	again, err := store.FindByID(ctx, all[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "A", again.Name, "callers get a copy")
}

func TestStore_CanceledContext(t *testing.T) {
	store := NewStore(models.ParticipantRecord{Name: "A"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Query(ctx, models.Filter{})
	assert.ErrorIs(t, err, context.Canceled)
	_, err = store.FindByID(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStore_AggregateByCategory(t *testing.T) {
	store, err := LoadFile(filepath.Join("testdata", "registrations.yaml"))
	require.NoError(t, err)

	stats, err := store.AggregateByCategory(context.Background(), models.DomainTransportation, models.Filter{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []models.CategoryStats{
		{Category: models.CategoryRideSeeker, Count: 1, TotalNeeded: 2},
		{Category: models.CategoryVehicleProvider, Count: 1, TotalCapacity: 5},
	}, stats)
}
