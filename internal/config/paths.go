package config

import (
	"os"
	"path/filepath"
	"runtime"
)

const appDirName = "tides"

// Environment variables consulted directly. Keys read through viper use
// the TIDES_ prefix automatically.
const (
	EnvConfigDir = "TIDES_CONFIG_DIR"
	EnvStorePath = "TIDES_STORE_PATH"
	// EnvLegacyStorageDir names a directory holding tides.json.
	EnvLegacyStorageDir = "TIDES_STORAGE_PATH"
)

// StoreFileName is the document name inside a data directory.
const StoreFileName = "tides.json"

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	goos          string
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	goos:          runtime.GOOS,
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/tides (fallback ~/.config/tides)
// macOS:   ~/Library/Application Support/tides
// Windows: %APPDATA%/tides
func DefaultConfigDir() (string, error) {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir returns the platform-specific data directory.
//
// Linux:   $XDG_DATA_HOME/tides (fallback ~/.local/share/tides)
// macOS and Windows: same as the config dir.
func DefaultDataDir() (string, error) {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

func xdgDir(env, homeRel string) (string, error) {
	if platformDir.goos != "linux" {
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, appDirName), nil
	}
	if xdg := os.Getenv(env); xdg != "" {
		return filepath.Join(xdg, appDirName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, homeRel, appDirName), nil
}

// ResolveConfigDir follows flag > TIDES_CONFIG_DIR > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveStorePath picks the store document location:
// flag > TIDES_STORE_PATH (or store_path in config.yaml, viper merges
// the two with env first) > TIDES_STORAGE_PATH directory > data dir.
func ResolveStorePath(flag, configured string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configured != "" {
		return filepath.Abs(expandHome(configured))
	}
	if dir := os.Getenv(EnvLegacyStorageDir); dir != "" {
		return filepath.Abs(filepath.Join(expandHome(dir), StoreFileName))
	}
	dir, err := DefaultDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, StoreFileName), nil
}

// expandHome replaces a leading "~/" with the user's home directory.
func expandHome(p string) string {
	if p != "~" && !hasHomePrefix(p) {
		return p
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return p
	}
	if p == "~" {
		return home
	}
	return filepath.Join(home, p[2:])
}

func hasHomePrefix(p string) bool {
	return len(p) >= 2 && p[0] == '~' && (p[1] == '/' || p[1] == filepath.Separator)
}
