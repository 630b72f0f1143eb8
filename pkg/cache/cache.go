// Package cache stores generated parks and rendered artifacts by content key.
//
// Three backends satisfy [Cache]: [NullCache] disables caching, [FileCache]
// keeps entries under a local directory for the CLI, and [RedisCache] shares
// entries between API replicas. Keys come from a [Keyer] so every entry
// point derives the same key from the same generation options.
package cache

import (
	"context"
	"time"
)

// Default time-to-live per entry type. Parks are deterministic in their
// options, so they only expire to bound disk and memory use.
const (
	TTLPark     = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// ParkKeyOpts are the generation options that determine a park. Two option
// sets that produce the same park must produce the same key.
type ParkKeyOpts struct {
	Width          int     `json:"w"`
	Height         int     `json:"h"`
	Paths          int     `json:"p"`
	Benches        int     `json:"b"`
	Trees          int     `json:"t"`
	LampDensity    int     `json:"ld"`
	LampSeparation float64 `json:"ls"`
	Seed           uint64  `json:"s"`
	Subdivisions   int     `json:"sd"`

	TerrainSamples  int     `json:"ts"`
	MagnitudeMin    float64 `json:"mmin"`
	MagnitudeMax    float64 `json:"mmax"`
	FalloffMin      float64 `json:"fmin"`
	FalloffMax      float64 `json:"fmax"`
	ExclusionRadius float64 `json:"ex"`
}

// Keyer derives cache keys.
type Keyer interface {
	// ParkKey addresses a generated park document.
	ParkKey(opts ParkKeyOpts) string

	// ArtifactKey addresses one rendered format of the park whose JSON
	// encoding hashes to parkHash.
	ArtifactKey(parkHash, format string) string
}

// DefaultKeyer hashes options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) ParkKey(opts ParkKeyOpts) string {
	return hashKey("park", opts)
}

func (DefaultKeyer) ArtifactKey(parkHash, format string) string {
	return hashKey("artifact", parkHash, format)
}
