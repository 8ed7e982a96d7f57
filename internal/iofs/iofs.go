// Package iofs prepares the file system for a run: application
// directories in the user's home, default config and rules files, and
// the directory of result files.
package iofs

import (
	_ "embed"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gnames/gnharmony/pkg/config"
)

// ConfigYAML is the default config.yaml.
//
//go:embed config.yaml
var ConfigYAML string

// RulesYAML is the default curated rules file. It documents every section
// a curator can use and keeps placeholder names of the reference taxonomy.
//
//go:embed rules.yaml
var RulesYAML string

// EnsureDirs creates config, cache and log directories of the app.
func EnsureDirs(homeDir string) error {
	for _, v := range []string{
		config.ConfigDir(homeDir),
		config.CacheDir(homeDir),
		config.LogDir(homeDir),
	} {
		if err := mkdir(v); err != nil {
			return err
		}
	}
	return nil
}

// EnsureOutputDir creates the directory where result files with the given
// base path are saved.
func EnsureOutputDir(base string) error {
	return mkdir(filepath.Dir(base))
}

// mkdir keeps permissions of an existing directory.
func mkdir(dir string) error {
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return CreateDirError(dir, err)
	}
	return nil
}

// EnsureConfigFile writes the default config.yaml unless it exists.
func EnsureConfigFile(homeDir string) error {
	return ensureFile(config.ConfigFilePath(homeDir), ConfigYAML)
}

// EnsureRulesFile writes the default rules.yaml unless it exists. A
// curator edits this file, so it is never overwritten.
func EnsureRulesFile(homeDir string) error {
	return ensureFile(config.RulesFilePath(homeDir), RulesYAML)
}

// RulesFile returns the location of curated rules. An explicit path always
// wins. Otherwise rules.yaml of the config directory is used if it exists.
// The boolean is false when no rules file is available.
func RulesFile(homeDir, path string) (string, bool) {
	if path != "" {
		return path, true
	}
	if homeDir == "" {
		return "", false
	}
	path = config.RulesFilePath(homeDir)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return path, false
	}
	return path, true
}

func ensureFile(path, content string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return CopyFileError(path, err)
	}
	return nil
}
