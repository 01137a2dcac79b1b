package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Graph == "" {
		t.Error("Expected Graph to be set")
	}
	if cfg.Output == "" {
		t.Error("Expected Output to be set")
	}
	if cfg.LogFile == "" {
		t.Error("Expected LogFile to be set")
	}
	if cfg.StateFile == "" {
		t.Error("Expected StateFile to be set")
	}
	if cfg.Format != FormatHTML {
		t.Errorf("Expected Format to be html, got %q", cfg.Format)
	}
	if cfg.Workers <= 0 {
		t.Errorf("Expected Workers to be positive, got %d", cfg.Workers)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
}

func validConfig() *Config {
	return &Config{
		Graph:    "/path/to/graph.json",
		Output:   "/path/to/out",
		Format:   FormatHTML,
		Include:  "website",
		TagsAttr: "Tags",
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "empty graph",
			modify:  func(c *Config) { c.Graph = "" },
			wantErr: true,
		},
		{
			name:    "empty output",
			modify:  func(c *Config) { c.Output = "" },
			wantErr: true,
		},
		{
			name:    "empty include",
			modify:  func(c *Config) { c.Include = "" },
			wantErr: true,
		},
		{
			name: "empty include with include_all",
			modify: func(c *Config) {
				c.Include = ""
				c.IncludeAll = true
			},
			wantErr: false,
		},
		{
			name:    "empty tags_attr",
			modify:  func(c *Config) { c.TagsAttr = "" },
			wantErr: true,
		},
		{
			name:    "markdown format",
			modify:  func(c *Config) { c.Format = FormatMarkdown },
			wantErr: false,
		},
		{
			name:    "unknown format",
			modify:  func(c *Config) { c.Format = "pdf" },
			wantErr: true,
		},
		{
			name:    "negative workers",
			modify:  func(c *Config) { c.Workers = -1 },
			wantErr: true,
		},
		{
			name:    "unknown log level",
			modify:  func(c *Config) { c.LogLevel = "loud" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func useConfigPath(t *testing.T, path string) {
	t.Helper()
	originalConfigPath := ConfigPath
	ConfigPath = func() string {
		return path
	}
	t.Cleanup(func() {
		ConfigPath = originalConfigPath
	})
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	testConfigPath := filepath.Join(tmpDir, "config.yaml")
	useConfigPath(t, testConfigPath)

	testCfg := validConfig()
	testCfg.Also = []string{"published"}
	testCfg.Exclude = []string{"private"}
	testCfg.Format = FormatMarkdown
	testCfg.Workers = 3
	testCfg.LogFile = "/tmp/roampages-test.log"
	testCfg.StateFile = "/tmp/state-test.json"

	if err := testCfg.Save(); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	if _, err := os.Stat(testConfigPath); os.IsNotExist(err) {
		t.Fatal("Config file was not created")
	}

	loadedCfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if loadedCfg.Workers != 3 {
		t.Errorf("Workers mismatch: got %d, want 3", loadedCfg.Workers)
	}
	if loadedCfg.Extension != "md" {
		t.Errorf("Extension = %q, want md for markdown output", loadedCfg.Extension)
	}
	if len(loadedCfg.Also) != 1 || loadedCfg.Also[0] != "published" {
		t.Errorf("Also = %v, want [published]", loadedCfg.Also)
	}
	if len(loadedCfg.Exclude) != 1 || loadedCfg.Exclude[0] != "private" {
		t.Errorf("Exclude = %v, want [private]", loadedCfg.Exclude)
	}
}

func TestLoadYAMLKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `graph: /data/graph.json
output: /data/site
format: html
include: website
also: [blog]
tags_attr: Tags
include_all: false
allow_daily_notes: true
omit_blocks_with_only_unexported_links: true
highlight_style: monokai
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if !cfg.AllowDailyNotes || !cfg.OmitBlocksWithOnlyUnexportedLinks {
		t.Errorf("boolean flags not loaded: %+v", cfg)
	}
	if cfg.HighlightStyle != "monokai" {
		t.Errorf("HighlightStyle = %q, want monokai", cfg.HighlightStyle)
	}
	if cfg.Extension != "html" {
		t.Errorf("Extension = %q, want html", cfg.Extension)
	}
	if cfg.Workers <= 0 {
		t.Errorf("Workers = %d, want the CPU count", cfg.Workers)
	}
}

func TestLoadInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{name: "bad yaml", data: "graph: [unterminated", want: "failed to parse config"},
		{name: "bad format", data: "format: pdf", want: "invalid configuration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.data), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := LoadFile(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("LoadFile() error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestLoadNonExistentConfig(t *testing.T) {
	tmpDir := t.TempDir()
	useConfigPath(t, filepath.Join(tmpDir, "nonexistent.yaml"))

	// Load should return default config when file doesn't exist
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() should not error on missing file: %v", err)
	}

	if cfg.Include != "website" {
		t.Errorf("Expected default include tag website, got %q", cfg.Include)
	}
}

func TestExpandPath(t *testing.T) {
	homeDir, _ := os.UserHomeDir()

	tests := []struct {
		name     string
		input    string
		contains string // The output should contain this
	}{
		{
			name:     "tilde expansion",
			input:    "~/test",
			contains: homeDir,
		},
		{
			name:     "tilde only",
			input:    "~",
			contains: homeDir,
		},
		{
			name:     "absolute path",
			input:    "/tmp/test",
			contains: "/tmp/test",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := expandPath(tt.input)
			if err != nil {
				t.Fatalf("expandPath() error = %v", err)
			}
			if !strings.Contains(result, tt.contains) {
				t.Errorf("expandPath(%q) = %q, want it to contain %q", tt.input, result, tt.contains)
			}
			if tt.input[0] == '~' && result == tt.input {
				t.Errorf("Path was not expanded: %s", result)
			}
		})
	}
}

func TestConfigPathsExpanded(t *testing.T) {
	tmpDir := t.TempDir()
	useConfigPath(t, filepath.Join(tmpDir, "config.yaml"))

	testCfg := validConfig()
	testCfg.Graph = "~/roam/graph.json"
	testCfg.Output = "~/site"
	testCfg.LogFile = "~/roampages.log"
	testCfg.StateFile = "~/.roampages/state.json"

	if err := testCfg.Save(); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	loadedCfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	// Verify paths are expanded (no longer contain ~)
	for name, path := range map[string]string{
		"Graph":     loadedCfg.Graph,
		"Output":    loadedCfg.Output,
		"LogFile":   loadedCfg.LogFile,
		"StateFile": loadedCfg.StateFile,
	} {
		if path[0] == '~' {
			t.Errorf("%s was not expanded", name)
		}
	}
	if loadedCfg.Template != "" {
		t.Errorf("empty Template expanded to %q", loadedCfg.Template)
	}
}
