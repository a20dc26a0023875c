// Package memory is an in-process registration store, loaded from a fixture
// file or built directly in tests.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Ashin-Amanulla/unma-2nd-anniversary-sub002/internal/models"
	"github.com/google/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gopkg.in/yaml.v3"
)

// Store keeps records in insertion order, which is the order Query returns.
type Store struct {
	mu      sync.RWMutex
	records []models.ParticipantRecord
}

// NewStore creates a Store holding a copy of records. Records without an id
// are given a fresh ObjectID.
func NewStore(records ...models.ParticipantRecord) *Store {
	s := &Store{}
	s.Replace(records)
	return s
}

// LoadFile builds a Store from a YAML or JSON fixture file holding a list of
// records. The format is picked by extension.
func LoadFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture file: %w", err)
	}

	var records []models.ParticipantRecord
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &records)
	default:
		err = yaml.Unmarshal(data, &records)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse fixture file %s: %w", path, err)
	}

	logger.Infof("Loaded %d participant records from %s", len(records), path)
	return NewStore(records...), nil
}

// Replace swaps the whole record set.
func (s *Store) Replace(records []models.ParticipantRecord) {
	copied := make([]models.ParticipantRecord, len(records))
	copy(copied, records)
	for i := range copied {
		if copied[i].ID.IsZero() {
			copied[i].ID = primitive.NewObjectID()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = copied
}

// Len returns the number of records held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// FindByID returns a copy of the record with the given id, or nil.
func (s *Store) FindByID(ctx context.Context, id primitive.ObjectID) (*models.ParticipantRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.records {
		if s.records[i].ID == id {
			rec := s.records[i]
			return &rec, nil
		}
	}
	return nil, nil
}

// Query scans every record and keeps those matching filter.
func (s *Store) Query(ctx context.Context, filter models.Filter) ([]models.ParticipantRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.ParticipantRecord, 0)
	for i := range s.records {
		if filter.Matches(&s.records[i]) {
			out = append(out, s.records[i])
		}
	}
	return out, nil
}

// AggregateByCategory groups the matching records in process.
func (s *Store) AggregateByCategory(ctx context.Context, domain models.Domain, filter models.Filter) ([]models.CategoryStats, error) {
	filter.Domain = domain
	recs, err := s.Query(ctx, filter)
	if err != nil {
		return nil, err
	}
	return models.GroupByCategory(domain, recs), nil
}
