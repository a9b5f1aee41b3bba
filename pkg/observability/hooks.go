// Package observability provides hooks for instrumenting the story pipeline.
//
// Library code emits events through the registered hooks; the defaults do
// nothing. A binary that wants metrics or tracing registers its own
// implementation once at startup, so the pipeline itself never depends on
// a particular backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPipelineHooks(&myPipelineHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnExtractStart(ctx, "gogit", repo)
//	// ... read history ...
//	observability.Pipeline().OnExtractComplete(ctx, "gogit", commits, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// PipelineHooks receives events from the story pipeline.
type PipelineHooks interface {
	// Extract events
	OnExtractStart(ctx context.Context, source, repo string)
	OnExtractComplete(ctx context.Context, source string, commits int, duration time.Duration, err error)

	// Layout events
	OnLayoutStart(ctx context.Context, strategy string, commits int)
	OnLayoutComplete(ctx context.Context, strategy string, lanes int, duration time.Duration)

	// Render events
	OnRenderStart(ctx context.Context, commits int)
	OnRenderComplete(ctx context.Context, size int, duration time.Duration, err error)
}

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnExtractStart(context.Context, string, string) {}
func (NoopPipelineHooks) OnExtractComplete(context.Context, string, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnLayoutStart(context.Context, string, int)                   {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, string, int, time.Duration) {}
func (NoopPipelineHooks) OnRenderStart(context.Context, int)                           {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, int, time.Duration, error)  {}

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks. Nil is ignored.
// Call it once at startup, before any pipeline runs.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Reset restores the no-op defaults.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
}
