package tools

import (
	"context"
	"log/slog"

	"github.com/tides-mcp/tides/internal/journal"
	"github.com/tides-mcp/tides/internal/tides"
	"github.com/tides-mcp/tides/internal/tracker"
)

// JournalBridge indexes flow insights in the journal as flows are
// recorded. It implements tracker.FlowObserver.
type JournalBridge struct {
	journal *journal.Journal
	log     *slog.Logger
}

var _ tracker.FlowObserver = (*JournalBridge)(nil)

// NewJournalBridge creates a bridge that forwards flows to j. Returns nil
// if j is nil; callers should check before registering it, since a nil
// *JournalBridge stored in a FlowObserver is not a nil interface.
func NewJournalBridge(j *journal.Journal, logger *slog.Logger) *JournalBridge {
	if j == nil {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &JournalBridge{journal: j, log: logger.With("component", "journal")}
}

// OnFlow records the flow's insight. Best-effort: the tide is already
// persisted, so failures are logged and not propagated.
func (b *JournalBridge) OnFlow(ctx context.Context, t tides.Tide, f tides.Flow) {
	if b == nil || f.Insight == "" {
		return
	}
	if err := b.journal.Record(ctx, journal.EntryFromFlow(t, f)); err != nil {
		b.log.Warn("journal bridge: record insight failed", "tide", t.ID, "error", err)
	}
}
