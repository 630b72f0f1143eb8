// Package pipeline generates parks. It is the single entry point the CLI and
// the HTTP API share.
//
// # Stages
//
// [Generate] drives a [scene.Host] through a fixed sequence:
//
//  1. Terrain: create the ground mesh and cache its vertices
//  2. Paths: synthesize the path network between domain edges
//  3. Placement: benches, trees, then lamps with separation pruning
//  4. Realize: extrude paths and instantiate every object in the scene
//  5. Perturb: bump the ground everywhere except under benches
//  6. Resnap: lift every object onto the deformed ground
//
// One seeded RNG feeds every random draw, so the same [Options] always
// produce the same park.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.DefaultOptions()
//	opts.Seed = 7
//	opts.Formats = []string{pipeline.FormatSVG}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts[pipeline.FormatSVG]
package pipeline

import (
	"fmt"
	"io"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/parkgen/pkg/cache"
	"github.com/matzehuels/parkgen/pkg/errors"
	"github.com/matzehuels/parkgen/pkg/park"
	"github.com/matzehuels/parkgen/pkg/placement"
	"github.com/matzehuels/parkgen/pkg/terrain"
)

// Defaults shared by the CLI, the config loader and the API.
const (
	DefaultName         = "park"
	DefaultWidth        = 4000
	DefaultHeight       = 4000
	DefaultPaths        = 4
	DefaultBenches      = 5
	DefaultTrees        = 10
	DefaultLampDensity  = 5
	DefaultSeed         = uint64(42)
	DefaultSubdivisions = terrain.DefaultSubdivisions
)

// Upper bounds on option sizes. Ground memory grows with Subdivisions²
// and lamp pruning is cubic in the lamp count.
const (
	MaxExtent       = 100_000
	MaxCount        = 10_000
	MaxSubdivisions = 1000
)

// Output formats.
const (
	FormatJSON    = "json"
	FormatSVG     = "svg"
	FormatDOT     = "dot"
	FormatNetwork = "network"
)

// ValidFormats lists the supported formats in display order.
var ValidFormats = []string{FormatJSON, FormatSVG, FormatDOT, FormatNetwork}

// Extension returns the file suffix an artifact of format is written with.
func Extension(format string) string {
	if format == FormatNetwork {
		return ".network.svg"
	}
	return "." + format
}

// Options configures one generation. The zero value of most fields means
// "use the default"; start from [DefaultOptions] to override selectively.
type Options struct {
	Name string `json:"name,omitempty" toml:"name" yaml:"name"`

	Width  int `json:"width" toml:"width" yaml:"width"`
	Height int `json:"height" toml:"height" yaml:"height"`

	Paths       int `json:"paths" toml:"paths" yaml:"paths"`
	Benches     int `json:"benches" toml:"benches" yaml:"benches"`
	Trees       int `json:"trees" toml:"trees" yaml:"trees"`
	LampDensity int `json:"lamp_density" toml:"lamp_density" yaml:"lamp_density"`

	// LampSeparation is the minimum distance kept between lamps.
	LampSeparation float64 `json:"lamp_separation,omitempty" toml:"lamp_separation" yaml:"lamp_separation"`

	// Seed selects the random stream. Zero means DefaultSeed, so seed 0
	// itself cannot be requested.
	Seed         uint64                 `json:"seed,omitempty" toml:"seed" yaml:"seed"`
	Subdivisions int                    `json:"subdivisions,omitempty" toml:"subdivisions" yaml:"subdivisions"`
	Terrain      terrain.PerturbOptions `json:"terrain" toml:"terrain" yaml:"terrain"`

	Formats []string `json:"formats,omitempty" toml:"formats" yaml:"formats"`
	Labels  bool     `json:"labels,omitempty" toml:"labels" yaml:"labels"`

	// Runtime options
	Refresh bool        `json:"refresh,omitempty" toml:"-" yaml:"-"`
	Logger  *log.Logger `json:"-" toml:"-" yaml:"-"`
}

// DefaultOptions returns the stock park: 4000×4000 with four paths, five
// benches, ten trees and a lamp every fifth sample.
func DefaultOptions() Options {
	return Options{
		Name:           DefaultName,
		Width:          DefaultWidth,
		Height:         DefaultHeight,
		Paths:          DefaultPaths,
		Benches:        DefaultBenches,
		Trees:          DefaultTrees,
		LampDensity:    DefaultLampDensity,
		LampSeparation: placement.LampSeparation,
		Seed:           DefaultSeed,
		Subdivisions:   DefaultSubdivisions,
		Terrain:        terrain.DefaultPerturbOptions,
		Formats:        []string{FormatJSON},
	}
}

// Result is the output of [Runner.Execute].
type Result struct {
	Park      *park.Park
	ParkHash  string
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats summarizes a run.
type Stats struct {
	Paths        int
	Benches      int
	Lamps        int
	Trees        int
	Bumps        int
	GenerateTime time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks which stages were served from cache.
type CacheInfo struct {
	ParkHit   bool
	RenderHit bool
}

// ValidateFormat checks a single output format.
func ValidateFormat(format string) error {
	if !slices.Contains(ValidFormats, format) {
		return errors.New(errors.ErrCodeInvalidFormat,
			"unknown format %q (must be one of: json, svg, dot, network)", format)
	}
	return nil
}

// ValidateFormats checks every output format.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults fills zero fields with defaults and rejects
// invalid values. It runs before any scene call, so a bad configuration
// never leaves a half-built scene behind. Every call re-checks all fields,
// so options edited after a first call (a config file overlaid with flags)
// are still validated.
func (o *Options) ValidateAndSetDefaults() error {
	o.SetDefaults()
	return o.Validate()
}

// SetDefaults fills zero-valued tuning fields. Counts and extents are not
// defaulted: a zero count is a configuration error.
func (o *Options) SetDefaults() {
	if o.Name == "" {
		o.Name = DefaultName
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Subdivisions == 0 {
		o.Subdivisions = DefaultSubdivisions
	}
	if o.LampSeparation == 0 {
		o.LampSeparation = placement.LampSeparation
	}
	if o.Terrain == (terrain.PerturbOptions{}) {
		o.Terrain = terrain.DefaultPerturbOptions
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate checks every field without modifying o.
func (o *Options) Validate() error {
	checks := []error{
		errors.ValidateDimension("width", o.Width),
		errors.ValidateDimension("height", o.Height),
		errors.ValidateAtMost("width", o.Width, MaxExtent),
		errors.ValidateAtMost("height", o.Height, MaxExtent),
		errors.ValidateCount("paths", o.Paths),
		errors.ValidateCount("benches", o.Benches),
		errors.ValidateCount("trees", o.Trees),
		errors.ValidateAtMost("paths", o.Paths, MaxCount),
		errors.ValidateAtMost("benches", o.Benches, MaxCount),
		errors.ValidateAtMost("trees", o.Trees, MaxCount),
		errors.ValidateCount("lamp density", o.LampDensity),
		errors.ValidateNonNegative("lamp separation", o.LampSeparation),
		errors.ValidateCount("subdivisions", o.Subdivisions),
		errors.ValidateAtMost("subdivisions", o.Subdivisions, MaxSubdivisions),
		o.Terrain.Validate(),
		errors.ValidateAtMost("terrain samples", o.Terrain.Samples, MaxCount),
		ValidateFormats(o.Formats),
	}
	for _, err := range checks {
		if err != nil {
			return err
		}
	}
	return nil
}

// ParkKeyOpts returns the cache key inputs that determine the park.
func (o *Options) ParkKeyOpts() cache.ParkKeyOpts {
	return cache.ParkKeyOpts{
		Width:           o.Width,
		Height:          o.Height,
		Paths:           o.Paths,
		Benches:         o.Benches,
		Trees:           o.Trees,
		LampDensity:     o.LampDensity,
		LampSeparation:  o.LampSeparation,
		Seed:            o.Seed,
		Subdivisions:    o.Subdivisions,
		TerrainSamples:  o.Terrain.Samples,
		MagnitudeMin:    o.Terrain.MagnitudeMin,
		MagnitudeMax:    o.Terrain.MagnitudeMax,
		FalloffMin:      o.Terrain.FalloffMin,
		FalloffMax:      o.Terrain.FalloffMax,
		ExclusionRadius: o.Terrain.ExclusionRadius,
	}
}

// NewRNG returns the generator every stage draws from.
func NewRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

func (s Stats) String() string {
	return fmt.Sprintf("%d paths, %d benches, %d lamps, %d trees, %d bumps",
		s.Paths, s.Benches, s.Lamps, s.Trees, s.Bumps)
}
