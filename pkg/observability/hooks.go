// Package observability provides hooks for reporting what a packing run did.
//
// The packing core never prints. Instead it calls a small, fixed set of hook
// methods (seed resolved, option overrides, validation failures, engine
// steps, per-type outcomes) and lets the surrounding tool decide how to
// render them.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Provide a charmbracelet/log-backed implementation for CLIs
//
// Hooks are passed explicitly (through pack options or a pipeline runner);
// there is no process-wide registry, so concurrent sessions never share
// reporting state.
//
// # Usage
//
//	opts := pack.Options{
//	    Tolerance: 2.0,
//	    Hooks:     observability.NewLogHooks(logger),
//	}
//	result, err := session.Pack(ctx, opts)
package observability

import (
	"context"
	"time"
)

// =============================================================================
// Pack Hooks
// =============================================================================

// Override describes one value the caller set away from its default.
// Structure is empty for session-wide options.
type Override struct {
	Option    string
	Structure string
	Index     int
	Value     float64
	Default   float64
}

// PackHooks receives events from a packing session.
type PackHooks interface {
	// Run lifecycle
	OnPackStart(ctx context.Context, runID string, structures int)
	OnPackComplete(ctx context.Context, runID string, placed, failed int, duration time.Duration, err error)

	// Parameter derivation
	OnSeedResolved(ctx context.Context, seed int64, fromClock bool)
	OnOverride(ctx context.Context, o Override)
	OnRestrictions(ctx context.Context, count int)
	OnValidationFailure(ctx context.Context, err error)

	// Engine handoff
	OnSummary(ctx context.Context, molecules, atoms int)
	OnEngineStep(ctx context.Context, step string)
	OnPlacement(ctx context.Context, index int, name string, success bool, err error)
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

// NoopPackHooks is a no-op implementation of PackHooks.
type NoopPackHooks struct{}

func (NoopPackHooks) OnPackStart(context.Context, string, int) {}
func (NoopPackHooks) OnPackComplete(context.Context, string, int, int, time.Duration, error) {
}
func (NoopPackHooks) OnSeedResolved(context.Context, int64, bool)           {}
func (NoopPackHooks) OnOverride(context.Context, Override)                  {}
func (NoopPackHooks) OnRestrictions(context.Context, int)                   {}
func (NoopPackHooks) OnValidationFailure(context.Context, error)            {}
func (NoopPackHooks) OnSummary(context.Context, int, int)                   {}
func (NoopPackHooks) OnEngineStep(context.Context, string)                  {}
func (NoopPackHooks) OnPlacement(context.Context, int, string, bool, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

var (
	_ PackHooks  = NoopPackHooks{}
	_ CacheHooks = NoopCacheHooks{}
)
