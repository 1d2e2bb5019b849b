package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestPathFunctions(t *testing.T) {
	root := "/test/ws"

	tests := []struct {
		name string
		fn   func(string) string
		want string
	}{
		{"WorkspacePath", WorkspacePath, "/test/ws/.lexrel"},
		{"ConfigPath", ConfigPath, "/test/ws/.lexrel/config.json"},
		{"LexiconPath", LexiconPath, "/test/ws/.lexrel/lexicon.jsonl"},
		{"CachePath", CachePath, "/test/ws/.lexrel/cache"},
		{"DBPath", DBPath, "/test/ws/.lexrel/cache/lexicon.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.fn(root)
			if got != tt.want {
				t.Errorf("%s(%q) = %q, want %q", tt.name, root, got, tt.want)
			}
		})
	}
}

func TestIsWorkspace_FileNotDir(t *testing.T) {
	tmpDir := t.TempDir()

	if IsWorkspace(tmpDir) {
		t.Error("IsWorkspace() = true for empty directory")
	}

	if err := os.WriteFile(WorkspacePath(tmpDir), []byte("not a dir"), 0644); err != nil {
		t.Fatalf("Failed to create .lexrel file: %v", err)
	}
	if IsWorkspace(tmpDir) {
		t.Error("IsWorkspace() = true when .lexrel is a file")
	}
}

func TestFindWorkspace(t *testing.T) {
	tmpDir := t.TempDir()
	wsDir := filepath.Join(tmpDir, "ws")
	nestedDir := filepath.Join(wsDir, "data", "vocab")

	if err := os.MkdirAll(nestedDir, 0755); err != nil {
		t.Fatalf("Failed to create nested dirs: %v", err)
	}
	if err := os.Mkdir(WorkspacePath(wsDir), 0755); err != nil {
		t.Fatalf("Failed to create .lexrel: %v", err)
	}

	for _, start := range []string{nestedDir, wsDir} {
		found, err := FindWorkspace(start)
		if err != nil {
			t.Fatalf("FindWorkspace(%q) error = %v", start, err)
		}
		if found != wsDir {
			t.Errorf("FindWorkspace(%q) = %q, want %q", start, found, wsDir)
		}
	}
}

func TestFindWorkspace_NotFound(t *testing.T) {
	_, err := FindWorkspace(t.TempDir())
	if !errors.Is(err, ErrNoWorkspace) {
		t.Errorf("FindWorkspace() error = %v, want ErrNoWorkspace", err)
	}
}

func TestInit(t *testing.T) {
	tmpDir := t.TempDir()

	if err := Init(tmpDir, &Config{Depth: 5}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if info, err := os.Stat(CachePath(tmpDir)); err != nil || !info.IsDir() {
		t.Errorf("cache directory missing after Init: %v", err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Depth != 5 {
		t.Errorf("Depth = %d, want 5", cfg.Depth)
	}

	if err := Init(tmpDir, &Config{}); err == nil {
		t.Error("Init() should fail on an existing workspace")
	}
}

func TestConfig_SaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.Mkdir(WorkspacePath(tmpDir), 0755); err != nil {
		t.Fatalf("Failed to create .lexrel: %v", err)
	}

	cfg := &Config{Lexicon: "wn/lexicon.jsonl", Depth: 12, Percent: 5}
	if err := cfg.Save(tmpDir); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("Load() = %+v, want %+v", *loaded, *cfg)
	}
}

func TestLoad_Missing(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.Mkdir(WorkspacePath(tmpDir), 0755); err != nil {
		t.Fatalf("Failed to create .lexrel: %v", err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if *cfg != (Config{}) {
		t.Errorf("Load() = %+v, want zero config", *cfg)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.Mkdir(WorkspacePath(tmpDir), 0755); err != nil {
		t.Fatalf("Failed to create .lexrel: %v", err)
	}
	if err := os.WriteFile(ConfigPath(tmpDir), []byte("not json"), 0644); err != nil {
		t.Fatalf("Failed to write invalid config: %v", err)
	}

	if _, err := Load(tmpDir); err == nil {
		t.Error("Load() should return error for invalid JSON")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"zero", Config{}, false},
		{"set", Config{Depth: 3, Percent: 100}, false},
		{"negative depth", Config{Depth: -1}, true},
		{"percent too large", Config{Percent: 101}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"/abs/path", "/abs/path"},
		{"rel/path", "rel/path"},
		{"~", home},
		{"~/wn/lexicon.jsonl", filepath.Join(home, "wn/lexicon.jsonl")},
		{"~other/x", "~other/x"},
	}

	for _, tt := range tests {
		if got := ExpandPath(tt.in); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
