package observability

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks renders pack and cache events as structured log lines.
// Derivation events are logged at info level, engine steps at debug level.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks writing to l. A nil logger discards everything.
func NewLogHooks(l *log.Logger) *LogHooks {
	if l == nil {
		l = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &LogHooks{Logger: l}
}

func (h *LogHooks) OnPackStart(_ context.Context, runID string, structures int) {
	h.Logger.Debug("pack started", "run", runID, "types", structures)
}

func (h *LogHooks) OnPackComplete(_ context.Context, runID string, placed, failed int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Error("pack aborted", "run", runID, "err", err)
		return
	}
	if failed > 0 {
		h.Logger.Warn("pack finished with failures", "run", runID, "placed", placed, "failed", failed, "duration", d.Round(time.Millisecond))
		return
	}
	h.Logger.Info("pack finished", "run", runID, "placed", placed, "duration", d.Round(time.Millisecond))
}

func (h *LogHooks) OnSeedResolved(_ context.Context, seed int64, fromClock bool) {
	h.Logger.Info("seed for random number generator", "seed", seed, "clock", fromClock)
}

func (h *LogHooks) OnOverride(_ context.Context, o Override) {
	if o.Structure != "" {
		h.Logger.Info("per-type override", "type", o.Index, "structure", o.Structure, o.Option, o.Value)
		return
	}
	h.Logger.Info("optional parameter set", o.Option, o.Value, "default", o.Default)
}

func (h *LogHooks) OnRestrictions(_ context.Context, count int) {
	h.Logger.Info("total number of restrictions", "count", count)
}

func (h *LogHooks) OnValidationFailure(_ context.Context, err error) {
	h.Logger.Error("invalid packing options", "err", err)
}

func (h *LogHooks) OnSummary(_ context.Context, molecules, atoms int) {
	h.Logger.Info("system size", "molecules", molecules, "atoms", atoms)
}

func (h *LogHooks) OnEngineStep(_ context.Context, step string) {
	h.Logger.Debug("engine", "step", step)
}

func (h *LogHooks) OnPlacement(_ context.Context, index int, name string, success bool, err error) {
	if success {
		h.Logger.Debug("placed", "type", index, "structure", name)
		return
	}
	h.Logger.Warn("placement failed", "type", index, "structure", name, "err", err)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "key", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "key", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "key", keyType, "bytes", size)
}

var (
	_ PackHooks  = (*LogHooks)(nil)
	_ CacheHooks = (*LogHooks)(nil)
)
