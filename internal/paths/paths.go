// Package paths resolves where itemlists keeps its configuration file and
// its store.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName names the per-user directories.
const AppName = "itemlists"

// ConfigFileName is the file read from the configuration directory.
const ConfigFileName = "config.yaml"

// Environment variables that override the default directories.
const (
	EnvConfigDir = "ITEMLISTS_CONFIG_DIR"
	EnvDataDir   = "ITEMLISTS_DATA_DIR"
)

// host holds the platform lookups. Tests replace it.
var host = struct {
	goos          string
	getenv        func(string) string
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	goos:          runtime.GOOS,
	getenv:        os.Getenv,
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the per-user configuration directory:
// $XDG_CONFIG_HOME/itemlists or ~/.config/itemlists on Linux, and
// os.UserConfigDir()/itemlists elsewhere.
func DefaultConfigDir() (string, error) {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir returns the per-user data directory:
// $XDG_DATA_HOME/itemlists or ~/.local/share/itemlists on Linux, and the
// configuration directory elsewhere.
func DefaultDataDir() (string, error) {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

func xdgDir(env, homeRel string) (string, error) {
	if host.goos != "linux" {
		dir, err := host.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, AppName), nil
	}
	if xdg := host.getenv(env); xdg != "" {
		return filepath.Join(xdg, AppName), nil
	}
	home, err := host.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, homeRel, AppName), nil
}

// ResolveConfigDir picks the configuration directory: flag, then
// ITEMLISTS_CONFIG_DIR, then DefaultConfigDir. Explicit values are made
// absolute.
func ResolveConfigDir(flag string) (string, error) {
	return first(DefaultConfigDir, flag, host.getenv(EnvConfigDir))
}

// ResolveDataDir picks the data directory: flag, then the data_dir value
// from config.yaml, then ITEMLISTS_DATA_DIR, then DefaultDataDir.
func ResolveDataDir(flag, configValue string) (string, error) {
	return first(DefaultDataDir, flag, configValue, host.getenv(EnvDataDir))
}

// ConfigFile returns the path of the configuration file inside dir.
func ConfigFile(dir string) string {
	return filepath.Join(dir, ConfigFileName)
}

func first(fallback func() (string, error), candidates ...string) (string, error) {
	for _, c := range candidates {
		if c != "" {
			return filepath.Abs(c)
		}
	}
	return fallback()
}
