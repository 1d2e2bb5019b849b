// Package config handles workspace and global configuration.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config represents workspace configuration stored in .lexrel/config.json.
type Config struct {
	Lexicon string  `json:"lexicon,omitempty"` // JSONL lexicon path; empty means the workspace copy
	Depth   int     `json:"depth,omitempty"`   // closure depth bound
	Percent float64 `json:"percent,omitempty"` // enrichment top percentage
}

const (
	WorkspaceDir = ".lexrel"
	ConfigFile   = "config.json"
	LexiconFile  = "lexicon.jsonl"
	CacheDir     = "cache"
	DBFile       = "lexicon.db"
)

// ErrNoWorkspace is returned when no .lexrel directory is found.
var ErrNoWorkspace = errors.New("not in a lexrel workspace (no .lexrel directory found)")

// WorkspacePath returns the path to the .lexrel directory from a root path.
func WorkspacePath(root string) string {
	return filepath.Join(root, WorkspaceDir)
}

// ConfigPath returns the path to config.json from a root path.
func ConfigPath(root string) string {
	return filepath.Join(root, WorkspaceDir, ConfigFile)
}

// LexiconPath returns the path to the workspace lexicon.jsonl.
func LexiconPath(root string) string {
	return filepath.Join(root, WorkspaceDir, LexiconFile)
}

// CachePath returns the path to the cache directory from a root path.
func CachePath(root string) string {
	return filepath.Join(root, WorkspaceDir, CacheDir)
}

// DBPath returns the path to lexicon.db from a root path.
func DBPath(root string) string {
	return filepath.Join(root, WorkspaceDir, CacheDir, DBFile)
}

// IsWorkspace checks if the given path contains a .lexrel directory.
func IsWorkspace(root string) bool {
	info, err := os.Stat(WorkspacePath(root))
	return err == nil && info.IsDir()
}

// FindWorkspace walks up from start to find a workspace root.
func FindWorkspace(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		if IsWorkspace(abs) {
			return abs, nil
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", ErrNoWorkspace
		}
		abs = parent
	}
}

// Init creates the workspace layout under root and writes cfg.
// An existing workspace is left alone.
func Init(root string, cfg *Config) error {
	if IsWorkspace(root) {
		return fmt.Errorf("workspace already exists at %s", WorkspacePath(root))
	}
	if err := os.MkdirAll(CachePath(root), 0755); err != nil {
		return fmt.Errorf("creating workspace: %w", err)
	}
	return cfg.Save(root)
}

// Load reads configuration from the workspace at the given root.
func Load(root string) (*Config, error) {
	data, err := os.ReadFile(ConfigPath(root))
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return &cfg, nil
}

// Save writes configuration to the workspace at the given root.
func (c *Config) Save(root string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(ConfigPath(root), data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Validate checks the numeric settings.
func (c *Config) Validate() error {
	if c.Depth < 0 {
		return fmt.Errorf("invalid depth: %d (must be positive)", c.Depth)
	}
	if c.Percent < 0 || c.Percent > 100 {
		return fmt.Errorf("invalid percent: %g (must be in (0, 100])", c.Percent)
	}
	return nil
}

// ExpandPath expands a leading ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, path[1:])
}
