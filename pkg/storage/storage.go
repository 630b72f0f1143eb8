// Package storage persists generated parks so they can be listed, fetched
// and re-rendered later.
//
// Two backends satisfy [Store]:
//   - [FileStore]: one JSON file per park, for the CLI
//   - [MongoStore]: a MongoDB collection, for the HTTP API
//
// Records are addressed by a random UUID assigned on save.
package storage

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/parkgen/pkg/cache"
	"github.com/matzehuels/parkgen/pkg/errors"
	"github.com/matzehuels/parkgen/pkg/park"
)

// DefaultListLimit bounds List when the caller passes a non-positive limit.
const DefaultListLimit = 20

// Record is a stored park.
type Record struct {
	ID        string     `json:"id" bson:"_id"`
	CreatedAt time.Time  `json:"created_at" bson:"created_at"`
	Hash      string     `json:"hash" bson:"hash"`
	Park      *park.Park `json:"park" bson:"park"`
}

// Summary describes a record without its geometry.
type Summary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Seed      uint64    `json:"seed"`
	CreatedAt time.Time `json:"created_at"`
	Paths     int       `json:"paths"`
	Benches   int       `json:"benches"`
	Lamps     int       `json:"lamps"`
	Trees     int       `json:"trees"`
}

// Summary extracts the listing fields of r.
func (r *Record) Summary() Summary {
	s := Summary{ID: r.ID, CreatedAt: r.CreatedAt}
	if p := r.Park; p != nil {
		s.Name, s.Seed = p.Name, p.Seed
		s.Paths, s.Benches, s.Lamps, s.Trees = len(p.Paths), len(p.Benches), len(p.Lamps), len(p.Trees)
	}
	return s
}

// NewRecord wraps p in a record with a fresh ID.
func NewRecord(p *park.Park) (*Record, error) {
	doc, err := park.Marshal(p)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode park")
	}
	return &Record{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
		Hash:      cache.Hash(doc),
		Park:      p,
	}, nil
}

// Store persists park records.
type Store interface {
	// Save stores p under a new ID and returns the record.
	Save(ctx context.Context, p *park.Park) (*Record, error)

	// Get returns the record with id, or a NOT_FOUND error.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns up to limit records, newest first.
	List(ctx context.Context, limit int) ([]*Record, error)

	// Delete removes id. Deleting a missing record is a NOT_FOUND error.
	Delete(ctx context.Context, id string) error

	Close() error
}

// validID rejects anything that is not a UUID before it reaches a file
// path or a query.
func validID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.New(errors.ErrCodeNotFound, "park %q not found", id)
	}
	return nil
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeNotFound, "park %q not found", id)
}
