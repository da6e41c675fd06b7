package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/neuroscene/pkg/cache"
	"github.com/matzehuels/neuroscene/pkg/errors"
	"github.com/matzehuels/neuroscene/pkg/observability"
	"github.com/matzehuels/neuroscene/pkg/scene"
)

// Cache key types reported to the cache hooks.
const (
	keyTypeScene    = "scene"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger. It never stores
// scenes, so multiple goroutines can share one Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides the per-type expiry of new entries when positive.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete generate → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	result := &Result{}

	// Stage 1: Generate
	genStart := time.Now()
	s, hit, clamped, err := r.generateScene(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	result.Scene = s
	result.Stats.GenerateTime = time.Since(genStart)
	result.Stats.NodeCount = len(s.Nodes)
	result.Stats.EdgeCount = len(s.Edges)
	result.Stats.LabelCount = len(s.Labels)
	result.Stats.Clamped = clamped
	result.CacheInfo.SceneHit = hit

	opts.Logger.Info("generated scene",
		"topology", s.Topology,
		"nodes", len(s.Nodes),
		"edges", len(s.Edges),
		"seed", s.Seed,
		"duration", result.Stats.GenerateTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, hash, renderHit, err := r.renderScene(ctx, s, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.SceneHash = hash
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// GenerateWithCacheInfo builds a scene and reports whether it came from cache.
//
// Out-of-range parameters are clamped and logged at warn level, never
// rejected. Only pinned seeds are cached; see the package documentation.
func (r *Runner) GenerateWithCacheInfo(ctx context.Context, opts Options) (*scene.Scene, bool, error) {
	if err := opts.ValidateForGenerate(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)
	s, hit, _, err := r.generateScene(ctx, opts)
	return s, hit, err
}

// Generate is a convenience wrapper that calls GenerateWithCacheInfo and discards the cache hit info.
func (r *Runner) Generate(ctx context.Context, opts Options) (*scene.Scene, error) {
	s, _, err := r.GenerateWithCacheInfo(ctx, opts)
	return s, err
}

func (r *Runner) generateScene(ctx context.Context, opts Options) (s *scene.Scene, hit bool, clamped []string, err error) {
	hooks := observability.Pipeline()
	hooks.OnGenerateStart(ctx, string(opts.Topology))
	start := time.Now()
	defer func() {
		var nodes, edges int
		if s != nil {
			nodes, edges = len(s.Nodes), len(s.Edges)
		}
		hooks.OnGenerateComplete(ctx, string(opts.Topology), nodes, edges, time.Since(start), err)
	}()

	p, clamped := opts.Params.Clamped()
	if len(clamped) > 0 {
		opts.Logger.Warn("clamped out-of-range parameters", "fields", clamped, "params", p.String())
	}

	pinned := opts.Seed != 0
	var cacheKey string
	if pinned {
		cacheKey = r.Keyer.SceneKey(string(opts.Topology), opts.SceneKeyOpts(p))
		if !opts.Refresh {
			if cached, ok := r.cachedScene(ctx, cacheKey, opts.Logger); ok {
				return cached, true, clamped, nil
			}
		}
	}

	seed := opts.Seed
	if !pinned {
		seed = FreshSeed()
	}
	built, err := Build(opts.Topology, p, seed)
	if err != nil {
		return nil, false, clamped, err
	}
	built.ID = uuid.NewString()
	if built.Empty() {
		opts.Logger.Warn("scene has no nodes", "code", errors.ErrCodeDegenerateTopology, "topology", built.Topology)
	}

	if pinned {
		r.store(ctx, cacheKey, keyTypeScene, cache.TTLScene, opts.Logger, func() ([]byte, error) {
			return scene.Marshal(built)
		})
	}
	return &built, false, clamped, nil
}

func (r *Runner) cachedScene(ctx context.Context, key string, logger *log.Logger) (*scene.Scene, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		logger.Debug("cache read failed", "key", key, "err", err)
	}
	if err == nil && hit {
		s, err := scene.Unmarshal(data)
		if err == nil {
			observability.Cache().OnCacheHit(ctx, keyTypeScene)
			return &s, true
		}
		// If deserialization fails, fall through to regenerate
		logger.Debug("discarding unreadable cached scene", "key", key, "err", err)
	}
	observability.Cache().OnCacheMiss(ctx, keyTypeScene)
	return nil, false
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, s *scene.Scene, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)
	artifacts, _, hit, err := r.renderScene(ctx, s, opts)
	return artifacts, hit, err
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, s *scene.Scene, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, s, opts)
	return artifacts, err
}

func (r *Runner) renderScene(ctx context.Context, s *scene.Scene, opts Options) (artifacts map[string][]byte, hash string, hit bool, err error) {
	if s == nil {
		return nil, "", false, errors.New(errors.ErrCodeInvalidInput, "no scene to render")
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	defer func() { hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err) }()

	// Compute cache key from scene data
	sceneData, err := scene.Marshal(*s)
	if err != nil {
		return nil, "", false, errors.Wrap(errors.ErrCodeInternal, err, "serialize scene for cache key")
	}
	hash = cache.Hash(sceneData)

	// Try to get all formats from cache
	artifacts = make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, ok, _ := r.Cache.Get(ctx, r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format)))
		if !ok {
			observability.Cache().OnCacheMiss(ctx, keyTypeArtifact)
			break
		}
		observability.Cache().OnCacheHit(ctx, keyTypeArtifact)
		artifacts[format] = data
	}
	if len(artifacts) == len(opts.Formats) {
		return artifacts, hash, true, nil // All artifacts from cache
	}

	rendered, err := Render(ctx, s, opts)
	if err != nil {
		return nil, hash, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		r.store(ctx, key, keyTypeArtifact, cache.TTLArtifact, opts.Logger, func() ([]byte, error) { return data, nil })
	}
	return rendered, hash, false, nil
}

// store writes one cache entry. Failures are logged and otherwise ignored:
// the cache accelerates runs but never fails them.
func (r *Runner) store(ctx context.Context, key, keyType string, ttl time.Duration, logger *log.Logger, encode func() ([]byte, error)) {
	data, err := encode()
	if err != nil {
		logger.Debug("skip cache write", "key", key, "err", err)
		return
	}
	if r.TTL > 0 {
		ttl = r.TTL
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		logger.Debug("cache write failed", "key", key, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
// Options validation installs a discard logger, so a runner logger wins over it.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil || opts.Logger == discard {
		opts.Logger = r.Logger
	}
}
