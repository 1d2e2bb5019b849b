package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/matsen/lexrel/internal/enrichment"
	"github.com/matsen/lexrel/internal/relation"
	"gopkg.in/yaml.v3"
)

// GlobalConfig represents configuration stored in ~/.config/lexrel/config.yml.
type GlobalConfig struct {
	LexiconPath string  `yaml:"lexicon_path,omitempty"`
	Depth       int     `yaml:"depth,omitempty"`
	Percent     float64 `yaml:"percent,omitempty"`
	MetricsFile string  `yaml:"metrics_file,omitempty"`
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "lexrel"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"
)

// Environment variables that override the global config.
const (
	EnvLexicon     = "LEXREL_LEXICON"
	EnvDepth       = "LEXREL_DEPTH"
	EnvPercent     = "LEXREL_PERCENT"
	EnvMetricsFile = "LEXREL_METRICS_FILE"
)

// ErrLexiconNotConfigured is returned when no source names a lexicon.
var ErrLexiconNotConfigured = errors.New("no lexicon configured")

var globalConfigCache *GlobalConfig

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/lexrel/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// LoadGlobalConfig loads the global configuration file.
// Returns an empty config (not an error) if the file doesn't exist.
func LoadGlobalConfig() (*GlobalConfig, error) {
	if globalConfigCache != nil {
		return globalConfigCache, nil
	}

	path := GlobalConfigPath()
	if path == "" {
		return &GlobalConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &GlobalConfig{}, nil
		}
		return nil, fmt.Errorf("reading global config: %w", err)
	}

	var cfg GlobalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing global config: %w", err)
	}
	cfg.LexiconPath = ExpandPath(cfg.LexiconPath)
	cfg.MetricsFile = ExpandPath(cfg.MetricsFile)

	globalConfigCache = &cfg
	return &cfg, nil
}

// ResetGlobalConfigCache clears the cached global config.
// Useful for testing.
func ResetGlobalConfigCache() {
	globalConfigCache = nil
}

// GetConfigValue returns the environment variable if set, otherwise configValue.
func GetConfigValue(envKey, configValue string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	return configValue
}

// Overrides carries command-line values. Zero values are unset.
type Overrides struct {
	Lexicon     string
	Depth       int
	Percent     float64
	MetricsFile string
}

// Settings is the effective configuration of one invocation.
type Settings struct {
	Root        string  `json:"root,omitempty"` // workspace root, empty outside a workspace
	Lexicon     string  `json:"lexicon"`
	DB          string  `json:"db"`
	Depth       int     `json:"depth"`
	Percent     float64 `json:"percent"`
	MetricsFile string  `json:"metrics_file,omitempty"`
}

// Resolve merges flags, environment, workspace config found from start,
// global config and defaults, in that order of precedence.
func Resolve(start string, flags Overrides) (*Settings, error) {
	s := &Settings{
		Depth:   relation.DefaultDepth,
		Percent: enrichment.DefaultPercent,
	}

	global, err := LoadGlobalConfig()
	if err != nil {
		return nil, err
	}

	ws := &Config{}
	root, err := FindWorkspace(start)
	switch {
	case err == nil:
		s.Root = root
		if ws, err = Load(root); err != nil {
			return nil, err
		}
		if err := ws.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", ConfigPath(root), err)
		}
	case !errors.Is(err, ErrNoWorkspace):
		return nil, err
	}

	// Lowest precedence first; later assignments win.
	if global.LexiconPath != "" {
		s.Lexicon = global.LexiconPath
	}
	if global.Depth > 0 {
		s.Depth = global.Depth
	}
	if global.Percent > 0 {
		s.Percent = global.Percent
	}
	s.MetricsFile = global.MetricsFile

	if s.Root != "" {
		if _, err := os.Stat(LexiconPath(s.Root)); err == nil {
			s.Lexicon = LexiconPath(s.Root)
		}
		if ws.Lexicon != "" {
			s.Lexicon = ExpandPath(ws.Lexicon)
			if !filepath.IsAbs(s.Lexicon) {
				s.Lexicon = filepath.Join(s.Root, s.Lexicon)
			}
		}
		if ws.Depth > 0 {
			s.Depth = ws.Depth
		}
		if ws.Percent > 0 {
			s.Percent = ws.Percent
		}
	}

	if err := applyEnv(s); err != nil {
		return nil, err
	}

	if flags.Lexicon != "" {
		s.Lexicon = ExpandPath(flags.Lexicon)
	}
	if flags.Depth > 0 {
		s.Depth = flags.Depth
	}
	if flags.Percent > 0 {
		s.Percent = flags.Percent
	}
	if flags.MetricsFile != "" {
		s.MetricsFile = flags.MetricsFile
	}

	if s.Percent > 100 {
		return nil, fmt.Errorf("invalid percent: %g (must be in (0, 100])", s.Percent)
	}

	s.DB = DBFor(s.Root, s.Lexicon)
	return s, nil
}

// DBFor returns where the SQLite cache of lexicon lives: inside the
// workspace when there is one, otherwise in a cache directory beside the
// lexicon file.
func DBFor(root, lexicon string) string {
	switch {
	case root != "":
		return DBPath(root)
	case lexicon != "":
		return filepath.Join(filepath.Dir(lexicon), CacheDir, DBFile)
	}
	return ""
}

func applyEnv(s *Settings) error {
	s.Lexicon = ExpandPath(GetConfigValue(EnvLexicon, s.Lexicon))
	s.MetricsFile = GetConfigValue(EnvMetricsFile, s.MetricsFile)

	if v := os.Getenv(EnvDepth); v != "" {
		d, err := strconv.Atoi(v)
		if err != nil || d <= 0 {
			return fmt.Errorf("%s: invalid depth %q", EnvDepth, v)
		}
		s.Depth = d
	}
	if v := os.Getenv(EnvPercent); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil || p <= 0 {
			return fmt.Errorf("%s: invalid percent %q", EnvPercent, v)
		}
		s.Percent = p
	}
	return nil
}

// RequireLexicon returns the lexicon path or ErrLexiconNotConfigured.
func (s *Settings) RequireLexicon() (string, error) {
	if s.Lexicon == "" {
		return "", fmt.Errorf("%w\n\n%s", ErrLexiconNotConfigured, HelpfulConfigMessage())
	}
	return s.Lexicon, nil
}

// HelpfulConfigMessage explains how to point lexrel at a lexicon.
func HelpfulConfigMessage() string {
	configPath := GlobalConfigPath()
	return fmt.Sprintf(`Run 'lexrel init' and 'lexrel lexicon import <wordnet-dict-dir>',
or set %s, or create %s:
  mkdir -p %s
  echo 'lexicon_path: /path/to/lexicon.jsonl' > %s`,
		EnvLexicon,
		configPath,
		filepath.Dir(configPath),
		configPath)
}
