// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers can register
// hooks at startup to receive events about bisection progress and cache
// operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (log sinks, progress UIs, metrics)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetBisectionHooks(&myProgressSink{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Bisection().OnSplit(ctx, depth, size)
package observability

import (
	"context"
	"sync"
)

// =============================================================================
// Bisection Hooks
// =============================================================================

// BisectionHooks receives events from the recursive bisection core.
// Implementations must be safe for concurrent use: independent subtrees
// emit events from different goroutines.
type BisectionHooks interface {
	// OnRunStart fires once before the first split of an n-node graph.
	OnRunStart(ctx context.Context, n int)

	// OnSplit fires when a subset of the given size is split at the given
	// recursion depth.
	OnSplit(ctx context.Context, depth, size int)

	// OnLevelConverged fires after local search finishes one level,
	// reporting the passes run and swaps applied.
	OnLevelConverged(ctx context.Context, depth, size, iterations, swaps int)

	// OnLeaf fires when a terminal subset's order is fixed.
	OnLeaf(ctx context.Context, depth, size int)

	// OnRunDone fires once after the permutation is assembled (or the run
	// failed with err).
	OnRunDone(ctx context.Context, n int, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopBisectionHooks is a no-op implementation of BisectionHooks.
type NoopBisectionHooks struct{}

func (NoopBisectionHooks) OnRunStart(context.Context, int)                     {}
func (NoopBisectionHooks) OnSplit(context.Context, int, int)                   {}
func (NoopBisectionHooks) OnLevelConverged(context.Context, int, int, int, int) {}
func (NoopBisectionHooks) OnLeaf(context.Context, int, int)                    {}
func (NoopBisectionHooks) OnRunDone(context.Context, int, error)               {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	bisectionHooks BisectionHooks = NoopBisectionHooks{}
	cacheHooks     CacheHooks     = NoopCacheHooks{}
	hooksMu        sync.RWMutex
)

// SetBisectionHooks registers custom bisection hooks.
// This should be called once at application startup before any run.
func SetBisectionHooks(h BisectionHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		bisectionHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Bisection returns the registered bisection hooks.
func Bisection() BisectionHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return bisectionHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	bisectionHooks = NoopBisectionHooks{}
	cacheHooks = NoopCacheHooks{}
}
