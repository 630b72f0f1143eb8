package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/parkgen/pkg/cache"
	"github.com/matzehuels/parkgen/pkg/observability"
	"github.com/matzehuels/parkgen/pkg/park"
	"github.com/matzehuels/parkgen/pkg/scene"
	"github.com/matzehuels/parkgen/pkg/scene/memory"
)

// Runner wraps [Generate] and [Render] with caching. It holds no per-run
// state, so one Runner may serve concurrent requests; each run gets its own
// scene from NewHost.
type Runner struct {
	Cache   cache.Cache
	Keyer   cache.Keyer
	Logger  *log.Logger
	NewHost func() scene.Host
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// uses the default, and a nil logger uses log.Default.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:   c,
		Keyer:   keyer,
		Logger:  logger,
		NewHost: func() scene.Host { return memory.New() },
	}
}

// Execute generates (or loads) the park and renders every requested format.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	start := time.Now()
	p, hit, err := r.ParkWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Park = p
	result.CacheInfo.ParkHit = hit
	result.Stats = Stats{
		Paths:        len(p.Paths),
		Benches:      len(p.Benches),
		Lamps:        len(p.Lamps),
		Trees:        len(p.Trees),
		Bumps:        len(p.Terrain.Bumps),
		GenerateTime: time.Since(start),
	}
	r.Logger.Info("generated park",
		"name", p.Name,
		"seed", p.Seed,
		"paths", len(p.Paths),
		"lamps", len(p.Lamps),
		"cached", hit,
		"duration", result.Stats.GenerateTime)

	start = time.Now()
	artifacts, hash, hit, err := r.RenderWithCacheInfo(ctx, p, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.ParkHash = hash
	result.CacheInfo.RenderHit = hit
	result.Stats.RenderTime = time.Since(start)
	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ParkWithCacheInfo returns the park for opts and whether it came from the
// cache. Refresh skips the lookup but still stores the new park.
func (r *Runner) ParkWithCacheInfo(ctx context.Context, opts Options) (*park.Park, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	key := r.Keyer.ParkKey(opts.ParkKeyOpts())

	if !opts.Refresh {
		data, hit, err := r.Cache.Get(ctx, key)
		switch {
		case err != nil:
			r.Logger.Warn("park cache lookup failed", "err", err)
		case hit:
			if p, err := park.Unmarshal(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "park")
				p.Name = opts.Name
				return p, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "park")
	}

	p, err := Generate(ctx, r.NewHost(), opts)
	if err != nil {
		return nil, false, err
	}

	if data, err := park.Marshal(p); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLPark); err != nil {
			r.Logger.Warn("park cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "park", len(data))
		}
	}
	return p, false, nil
}

// RenderWithCacheInfo renders opts.Formats for p. It reports a hit only when
// every format came from the cache. The returned hash identifies p's
// content.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, p *park.Park, opts Options) (map[string][]byte, string, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, "", false, err
	}
	doc, err := park.Marshal(p)
	if err != nil {
		return nil, "", false, fmt.Errorf("encode park: %w", err)
	}
	hash := cache.Hash(doc)
	labels := "plain"
	if opts.Labels {
		labels = "labels"
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, hit, err := r.Cache.Get(ctx, r.Keyer.ArtifactKey(hash, format+":"+labels))
		if err != nil || !hit {
			break
		}
		artifacts[format] = data
	}
	if len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return artifacts, hash, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	var rendered map[string][]byte
	err = observability.Track(ctx, observability.StageRender, func() error {
		var err error
		rendered, err = Render(ctx, p, opts.Formats, opts.Labels)
		return err
	})
	if err != nil {
		return nil, "", false, err
	}
	for format, data := range rendered {
		if err := r.Cache.Set(ctx, r.Keyer.ArtifactKey(hash, format+":"+labels), data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return rendered, hash, false, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
