// Package postgres reads registration records kept as JSONB documents in a
// PostgreSQL table:
//
//	CREATE TABLE registrations (id TEXT PRIMARY KEY, doc JSONB NOT NULL);
//
// where id is the 24-hex-digit ObjectID of the record.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Ashin-Amanulla/unma-2nd-anniversary-sub002/internal/models"
	"github.com/google/logger"
	"github.com/lib/pq"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store scans the whole table and filters in process. There is no index on
// the document fields.
type Store struct {
	db        *sql.DB
	selectAll string
	selectOne string
}

// Open connects with dsn and checks the connection.
func Open(ctx context.Context, dsn, table string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to reach postgres: %w", err)
	}
	logger.Infof("Connected to PostgreSQL, using table %s", table)
	return New(db, table), nil
}

// New wraps an existing connection pool.
func New(db *sql.DB, table string) *Store {
	t := pq.QuoteIdentifier(table)
	return &Store{
		db:        db,
		selectAll: "SELECT id, doc FROM " + t + " ORDER BY id",
		selectOne: "SELECT id, doc FROM " + t + " WHERE id = $1",
	}
}

// Close closes the pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// FindByID returns the record stored under id, or nil.
func (s *Store) FindByID(ctx context.Context, id primitive.ObjectID) (*models.ParticipantRecord, error) {
	var rawID string
	var doc []byte
	err := s.db.QueryRowContext(ctx, s.selectOne, id.Hex()).Scan(&rawID, &doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeRow(rawID, doc)
}

// Query reads every row in id order and keeps those matching filter. A row
// whose id or document cannot be decoded fails the whole query, as it does
// in FindByID.
func (s *Store) Query(ctx context.Context, filter models.Filter) ([]models.ParticipantRecord, error) {
	rows, err := s.db.QueryContext(ctx, s.selectAll)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows, filter)
}

// rowScanner is the part of *sql.Rows collect reads from.
type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func collect(rows rowScanner, filter models.Filter) ([]models.ParticipantRecord, error) {
	out := make([]models.ParticipantRecord, 0)
	for rows.Next() {
		var rawID string
		var doc []byte
		if err := rows.Scan(&rawID, &doc); err != nil {
			return nil, err
		}
		rec, err := decodeRow(rawID, doc)
		if err != nil {
			return nil, err
		}
		if filter.Matches(rec) {
			out = append(out, *rec)
		}
	}
	return out, rows.Err()
}

// AggregateByCategory groups the matching rows in process.
func (s *Store) AggregateByCategory(ctx context.Context, domain models.Domain, filter models.Filter) ([]models.CategoryStats, error) {
	filter.Domain = domain
	recs, err := s.Query(ctx, filter)
	if err != nil {
		return nil, err
	}
	return models.GroupByCategory(domain, recs), nil
}

func decodeRow(rawID string, doc []byte) (*models.ParticipantRecord, error) {
	id, err := primitive.ObjectIDFromHex(rawID)
	if err != nil {
		return nil, fmt.Errorf("registration row %q: bad id: %w", rawID, err)
	}
	var rec models.ParticipantRecord
	if err := json.Unmarshal(doc, &rec); err != nil {
		return nil, fmt.Errorf("registration row %s: bad document: %w", rawID, err)
	}
	rec.ID = id
	return &rec, nil
}
