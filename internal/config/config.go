// Package config loads runtime settings from config.yaml, TIDES_*
// environment variables and command-line overrides.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/tides-mcp/tides/internal/store"
	"github.com/tides-mcp/tides/internal/tides"
)

const (
	configFileName = "config"
	configFileType = "yaml"

	keyStorePath      = "store_path"
	keyLockTimeout    = "lock_timeout"
	keyLogLevel       = "log_level"
	keyCadenceDaily   = "cadence.daily"
	keyCadenceWeekly  = "cadence.weekly"
	keyCadenceProject = "cadence.project"
	keyCadenceSeason  = "cadence.seasonal"
	keyJournalEnabled = "journal.enabled"
	keyJournalPath    = "journal.path"

	journalFileName = "journal.db"
)

// ErrInvalidConfig reports a config value that cannot be used.
var ErrInvalidConfig = errors.New("invalid configuration")

// Overrides carries command-line flags. Empty fields defer to config.
type Overrides struct {
	ConfigDir string
	StorePath string
	Verbose   bool
}

// Config is the resolved runtime configuration.
type Config struct {
	ConfigDir   string
	StorePath   string
	LockTimeout time.Duration
	LogLevel    slog.Level
	Cadence     tides.CadencePolicy
	Journal     JournalConfig
}

// JournalConfig controls the optional insight index.
type JournalConfig struct {
	Enabled bool
	Path    string
}

// StoreConfig returns the store settings derived from c.
func (c *Config) StoreConfig(logger *slog.Logger) store.Config {
	return store.Config{
		Path:        c.StorePath,
		LockTimeout: c.LockTimeout,
		Logger:      logger,
	}
}

// Load resolves the config directory, reads config.yaml if present and
// applies env and flag overrides. A missing config.yaml is not an error.
func Load(o Overrides) (*Config, error) {
	dir, err := ResolveConfigDir(o.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}

	v, err := newViper(dir)
	if err != nil {
		return nil, err
	}

	cfg := &Config{ConfigDir: dir}

	cfg.StorePath, err = ResolveStorePath(o.StorePath, v.GetString(keyStorePath))
	if err != nil {
		return nil, fmt.Errorf("resolving store path: %w", err)
	}

	if cfg.LockTimeout, err = duration(v, keyLockTimeout); err != nil {
		return nil, err
	}
	if cfg.LockTimeout <= 0 {
		return nil, fmt.Errorf("%w: %s must be positive", ErrInvalidConfig, keyLockTimeout)
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString(keyLogLevel))); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, keyLogLevel, err)
	}
	if o.Verbose {
		cfg.LogLevel = slog.LevelDebug
	}

	if cfg.Cadence, err = cadence(v); err != nil {
		return nil, err
	}

	cfg.Journal.Enabled = v.GetBool(keyJournalEnabled)
	cfg.Journal.Path = v.GetString(keyJournalPath)
	if cfg.Journal.Path == "" {
		cfg.Journal.Path = filepath.Join(filepath.Dir(cfg.StorePath), journalFileName)
	} else {
		cfg.Journal.Path = expandHome(cfg.Journal.Path)
	}

	return cfg, nil
}

func newViper(dir string) (*viper.Viper, error) {
	def := tides.DefaultCadence()

	v := viper.New()
	v.SetDefault(keyStorePath, "")
	v.SetDefault(keyLockTimeout, store.DefaultLockTimeout.String())
	v.SetDefault(keyLogLevel, "info")
	v.SetDefault(keyCadenceDaily, def.Daily.String())
	v.SetDefault(keyCadenceWeekly, def.Weekly.String())
	v.SetDefault(keyCadenceProject, "0s")
	v.SetDefault(keyCadenceSeason, "0s")
	v.SetDefault(keyJournalEnabled, true)
	v.SetDefault(keyJournalPath, "")

	v.SetEnvPrefix("TIDES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(dir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("%w: reading %s: %v", ErrInvalidConfig, filepath.Join(dir, configFileName+"."+configFileType), err)
	}
	return v, nil
}

func cadence(v *viper.Viper) (tides.CadencePolicy, error) {
	var p tides.CadencePolicy
	fields := []struct {
		key string
		dst *time.Duration
	}{
		{keyCadenceDaily, &p.Daily},
		{keyCadenceWeekly, &p.Weekly},
		{keyCadenceProject, &p.Project},
		{keyCadenceSeason, &p.Seasonal},
	}
	for _, f := range fields {
		d, err := duration(v, f.key)
		if err != nil {
			return p, err
		}
		if err := tides.ValidateCadence(d); err != nil {
			return p, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, f.key, err)
		}
		*f.dst = d
	}
	return p, nil
}

// duration parses a Go duration string. Bare integers are rejected so
// "7" is never silently read as nanoseconds.
func duration(v *viper.Viper, key string) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %q is not a duration like \"24h\"", ErrInvalidConfig, key, raw)
	}
	return d, nil
}
