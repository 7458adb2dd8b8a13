package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogPipelineHooks reports pipeline events to a logger at debug level.
// Failures are reported at error level.
type LogPipelineHooks struct {
	Logger *log.Logger
}

func (h LogPipelineHooks) OnMaterializeStart(_ context.Context, rowCount int) {
	h.Logger.Debug("materialize started", "rows", rowCount)
}

func (h LogPipelineHooks) OnMaterializeComplete(_ context.Context, nodeCount, edgeCount int, d time.Duration) {
	h.Logger.Debug("materialize finished", "nodes", nodeCount, "edges", edgeCount, "duration", d)
}

func (h LogPipelineHooks) OnLayoutStart(_ context.Context, nodeCount int) {
	h.Logger.Debug("layout started", "nodes", nodeCount)
}

func (h LogPipelineHooks) OnLayoutComplete(_ context.Context, nodeCount int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Error("layout failed", "nodes", nodeCount, "duration", d, "err", err)
		return
	}
	h.Logger.Debug("layout finished", "nodes", nodeCount, "duration", d)
}

func (h LogPipelineHooks) OnRenderStart(_ context.Context, format string) {
	h.Logger.Debug("render started", "format", format)
}

func (h LogPipelineHooks) OnRenderComplete(_ context.Context, format string, d time.Duration, err error) {
	if err != nil {
		h.Logger.Error("render failed", "format", format, "err", err)
		return
	}
	h.Logger.Debug("render finished", "format", format, "duration", d)
}

// LogCacheHooks reports cache traffic to a logger at debug level.
type LogCacheHooks struct {
	Logger *log.Logger
}

func (h LogCacheHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h LogCacheHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h LogCacheHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}
