package config

import (
	"os"
	"path/filepath"
)

// AppName is used in generating file system paths.
var AppName = "gnharmony"

// ConfigDir returns the directory of config.yaml and rules.yaml,
// $XDG_CONFIG_HOME/gnharmony or ~/.config/gnharmony.
func ConfigDir(homeDir string) string {
	return xdgDir("XDG_CONFIG_HOME", homeDir, ".config")
}

// CacheDir returns $XDG_CACHE_HOME/gnharmony or ~/.cache/gnharmony.
func CacheDir(homeDir string) string {
	return xdgDir("XDG_CACHE_HOME", homeDir, ".cache")
}

// LogDir returns the directory of the log file,
// $XDG_DATA_HOME/gnharmony/logs or ~/.local/share/gnharmony/logs.
func LogDir(homeDir string) string {
	return filepath.Join(
		xdgDir("XDG_DATA_HOME", homeDir, filepath.Join(".local", "share")),
		"logs",
	)
}

// ConfigFilePath returns the full path to the config.yaml file.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "config.yaml")
}

// RulesFilePath returns the full path to the curated rules file.
func RulesFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "rules.yaml")
}

// xdgDir uses an XDG base directory only when it is absolute, relative
// values are ignored the same way os.UserConfigDir does it.
func xdgDir(env, homeDir, fallback string) string {
	if dir := os.Getenv(env); filepath.IsAbs(dir) {
		return filepath.Join(dir, AppName)
	}
	return filepath.Join(homeDir, fallback, AppName)
}
