package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tides-mcp/tides/internal/config"
	"github.com/tides-mcp/tides/internal/journal"
	"github.com/tides-mcp/tides/internal/store"
	"github.com/tides-mcp/tides/internal/tools"
	"github.com/tides-mcp/tides/internal/tracker"
)

// App holds the concrete dependencies shared by the MCP server and the
// CLI commands.
type App struct {
	Store   *store.FileStore
	Tracker *tracker.Tracker
	// Journal is nil when the insight journal is disabled or failed to open.
	Journal *journal.Journal

	log *slog.Logger
}

// Open builds the store, tracker and journal described by cfg.
//
// The journal is optional: when it cannot be opened a warning is logged
// and the App works without it.
func Open(cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	s, err := store.Open(cfg.StoreConfig(logger))
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	app := &App{Store: s, log: logger}

	opts := []tracker.Option{
		tracker.WithCadence(cfg.Cadence),
		tracker.WithLogger(logger),
	}

	if cfg.Journal.Enabled {
		j, err := journal.Open(journal.Config{Path: cfg.Journal.Path})
		if err != nil {
			logger.Warn("insight journal disabled", "path", cfg.Journal.Path, "error", err)
		} else {
			app.Journal = j
			opts = append(opts, tracker.WithObserver(tools.NewJournalBridge(j, logger)))
		}
	}

	app.Tracker = tracker.New(s, opts...)
	c := app.Tracker.Cadence()
	logger.Debug("tracker ready", "store", s.Path(), "journal", app.Journal != nil,
		"cadence_project", c.Project, "cadence_seasonal", c.Seasonal)
	return app, nil
}

// SyncJournal replaces the journal contents with the insights currently
// in the store. Failures are logged; the journal is only an index.
func (a *App) SyncJournal(ctx context.Context) {
	if a.Journal == nil {
		return
	}
	all, err := a.Tracker.All(ctx)
	if err != nil {
		a.log.Warn("journal sync skipped: store unreadable", "error", err)
		return
	}
	n, err := a.Journal.Rebuild(ctx, all)
	if err != nil {
		a.log.Warn("journal sync failed", "error", err)
		return
	}
	a.log.Debug("journal synced", "insights", n)
}

// Close releases the journal. It is safe to call on a nil App.
func (a *App) Close() {
	if a == nil || a.Journal == nil {
		return
	}
	if err := a.Journal.Close(); err != nil {
		a.log.Warn("journal close failed", "error", err)
	}
}
