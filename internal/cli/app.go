package cli

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/tides-mcp/tides/internal/config"
	"github.com/tides-mcp/tides/internal/server"
)

// newLogger returns a text logger on w. stdout is never used: it
// belongs to command output and to the MCP stdio transport.
func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// openApp loads configuration for the global flags and opens the store
// and tracker. The journal is opened only when withJournal is set and
// the configuration enables it. Callers must Close the returned App.
func openApp(opts *RootOptions, cmd *cobra.Command, withJournal bool) (*server.App, error) {
	cfg, err := config.Load(config.Overrides{
		ConfigDir: opts.ConfigDir,
		StorePath: opts.StorePath,
		Verbose:   opts.Verbose,
	})
	if err != nil {
		return nil, err
	}

	if !withJournal {
		cfg.Journal.Enabled = false
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	logger.Debug("configuration loaded", "config_dir", cfg.ConfigDir, "store", cfg.StorePath)

	return server.Open(cfg, logger)
}

func formatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
	}
}
