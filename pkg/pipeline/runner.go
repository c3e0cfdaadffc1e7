package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stacklayout/pkg/cache"
	lio "github.com/matzehuels/stacklayout/pkg/io"
	"github.com/matzehuels/stacklayout/pkg/layout"
	"github.com/matzehuels/stacklayout/pkg/observability"
	"github.com/matzehuels/stacklayout/pkg/text"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner keeps no pipeline results. It shares one OpenType measurer
// across runs so font faces are parsed once; multiple goroutines can safely
// use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides the per-kind cache expirations when positive.
	TTL time.Duration

	faces *text.OpenType
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
		faces:  text.NewOpenType(),
	}
}

// Execute runs the complete load → resolve → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	doc, err := Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Document = doc
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.NodeCount = len(doc.Nodes())

	// Stage 2: Resolve
	resolveStart := time.Now()
	refs, hash, hit, err := r.ResolveWithCacheInfo(ctx, doc, opts)
	if err != nil {
		return nil, fmt.Errorf("resolve: %w", err)
	}
	result.DocHash = hash
	result.References = refs
	result.Stats.RefCount = refs.Len()
	result.Stats.ResolveTime = time.Since(resolveStart)
	result.CacheInfo.ResolveHit = hit

	r.Logger.Info("resolved layout",
		"nodes", result.Stats.NodeCount,
		"references", result.Stats.RefCount,
		"cached", hit,
		"duration", result.Stats.ResolveTime)

	// Stage 3: Render
	a, err := resolveAnchor(doc, opts)
	if err != nil {
		return nil, err
	}
	canvas := Canvas{Size: a.root.Dimensions, Viewport: a.viewport}

	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, refs, canvas, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// DocumentHash returns the content hash of a document's canonical JSON form.
func DocumentHash(doc *lio.Document) (string, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("serialize document for cache key: %w", err)
	}
	return cache.Hash(data), nil
}

// ResolveWithCacheInfo resolves doc with caching. It returns the references,
// the document hash and whether the result came from cache.
func (r *Runner) ResolveWithCacheInfo(ctx context.Context, doc *lio.Document, opts Options) (*layout.Map, string, bool, error) {
	r.applyLogger(&opts)
	opts.SetResolveDefaults()

	hash, err := DocumentHash(doc)
	if err != nil {
		return nil, "", false, err
	}
	a, err := resolveAnchor(doc, opts)
	if err != nil {
		return nil, hash, false, err
	}
	cacheKey := r.Keyer.ResolveKey(hash, opts.ResolveKeyOpts(a.root.Dimensions, a.viewport))
	hooks := observability.Cache()

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			refs := layout.NewMap()
			if err := json.Unmarshal(data, refs); err == nil {
				hooks.OnCacheHit(ctx, "resolve")
				return refs, hash, true, nil
			}
			// corrupt entry, fall through and overwrite it
		} else if err != nil {
			r.Logger.Warn("cache read failed", "err", err)
		}
		hooks.OnCacheMiss(ctx, "resolve")
	}

	refs, err := Resolve(ctx, doc, opts, r.faces)
	if err != nil {
		return nil, hash, false, err
	}

	if data, err := json.Marshal(refs); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, r.ttl(cache.TTLResolve)); err != nil {
			r.Logger.Warn("cache write failed", "err", err)
		} else {
			hooks.OnCacheSet(ctx, "resolve", len(data))
		}
	}
	return refs, hash, false, nil
}

// RenderWithCacheInfo generates artifacts with caching and reports whether
// every artifact came from cache. Only the missing formats are rendered.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, refs *layout.Map, canvas Canvas, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	opts.SetRenderDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, false, err
	}

	refsData, err := json.Marshal(struct {
		Canvas Canvas      `json:"canvas"`
		Refs   *layout.Map `json:"refs"`
	}{canvas, refs})
	if err != nil {
		return nil, false, fmt.Errorf("serialize references for cache key: %w", err)
	}
	refsHash := cache.Hash(refsData)
	hooks := observability.Cache()

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		if !opts.Refresh {
			key := r.Keyer.ArtifactKey(refsHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				hooks.OnCacheHit(ctx, format)
				artifacts[format] = data
				continue
			}
			hooks.OnCacheMiss(ctx, format)
		}
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	renderOpts := opts
	renderOpts.Formats = missing
	rendered, err := Render(ctx, refs, canvas, renderOpts, r.faces)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		artifacts[format] = data
		key := r.Keyer.ArtifactKey(refsHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, r.ttl(cache.TTLArtifact)); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "err", err)
			continue
		}
		hooks.OnCacheSet(ctx, format, len(data))
	}
	return artifacts, false, nil
}

// Close releases resources held by the runner.
func (r *Runner) Close() error {
	if r.faces != nil {
		r.faces.Close()
	}
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
