// Package observability provides hooks for metrics, tracing, and logging.
//
// Libraries emit events through package-level hook registries; the binary
// decides at startup what receives them. The default hooks do nothing, so
// the layout core and pipeline carry no dependency on a metrics backend.
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPipelineHooks(observability.NewLogHooks(logger))
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnResolveStart(ctx, len(nodes))
//	refs, err := resolver.Resolve(nodes, anchor)
//	observability.Pipeline().OnResolveComplete(ctx, refs.Len(), time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the load → resolve → render pipeline.
type PipelineHooks interface {
	// Load events
	OnLoadStart(ctx context.Context, source string)
	OnLoadComplete(ctx context.Context, source string, nodeCount int, duration time.Duration, err error)

	// Resolve events
	OnResolveStart(ctx context.Context, nodeCount int)
	OnResolveComplete(ctx context.Context, refCount int, duration time.Duration, err error)

	// Render events
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
// keyType is "resolve" or the artifact format.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// Server Hooks
// =============================================================================

// ServerHooks receives events from the HTTP API.
type ServerHooks interface {
	OnRequest(ctx context.Context, method, route string)
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLoadStart(context.Context, string) {}
func (NoopPipelineHooks) OnLoadComplete(context.Context, string, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnResolveStart(context.Context, int)                              {}
func (NoopPipelineHooks) OnResolveComplete(context.Context, int, time.Duration, error)     {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopServerHooks is a no-op implementation of ServerHooks.
type NoopServerHooks struct{}

func (NoopServerHooks) OnRequest(context.Context, string, string)                      {}
func (NoopServerHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

// slot holds one registered hook set. Reads vastly outnumber writes: every
// resolve and cache lookup reads, only startup and tests write.
type slot[T any] struct {
	mu  sync.RWMutex
	v   T
	def T
}

func newSlot[T any](def T) *slot[T] { return &slot[T]{v: def, def: def} }

func (s *slot[T]) get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v
}

// set ignores nil so a caller cannot disable events by accident.
func (s *slot[T]) set(v T) {
	if any(v) == nil {
		return
	}
	s.mu.Lock()
	s.v = v
	s.mu.Unlock()
}

func (s *slot[T]) reset() {
	s.mu.Lock()
	s.v = s.def
	s.mu.Unlock()
}

var (
	pipelineSlot = newSlot[PipelineHooks](NoopPipelineHooks{})
	cacheSlot    = newSlot[CacheHooks](NoopCacheHooks{})
	serverSlot   = newSlot[ServerHooks](NoopServerHooks{})
)

// SetPipelineHooks installs h for load, resolve and render events. Call it
// at startup, before the first pipeline run.
func SetPipelineHooks(h PipelineHooks) { pipelineSlot.set(h) }

// SetCacheHooks installs h for cache hit, miss and set events.
func SetCacheHooks(h CacheHooks) { cacheSlot.set(h) }

// SetServerHooks installs h for HTTP request events.
func SetServerHooks(h ServerHooks) { serverSlot.set(h) }

func Pipeline() PipelineHooks { return pipelineSlot.get() }
func Cache() CacheHooks       { return cacheSlot.get() }
func Server() ServerHooks     { return serverSlot.get() }

// Reset restores the no-op hooks. Tests call it in cleanup.
func Reset() {
	pipelineSlot.reset()
	cacheSlot.reset()
	serverSlot.reset()
}
