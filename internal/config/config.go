package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// Output formats
const (
	FormatHTML     = "html"
	FormatMarkdown = "markdown"
)

// Config represents the roampages configuration
type Config struct {
	// Graph is the Roam JSON export to read.
	Graph     string `yaml:"graph"`
	Output    string `yaml:"output"`
	Extension string `yaml:"extension,omitempty"`
	Format    string `yaml:"format"`
	Template  string `yaml:"template,omitempty"`

	// Include is the tag marking pages for export. Also lists further tags
	// with the same effect.
	Include  string   `yaml:"include"`
	Also     []string `yaml:"also,omitempty"`
	Exclude  []string `yaml:"exclude,omitempty"`
	TagsAttr string   `yaml:"tags_attr"`

	IncludeAll                        bool `yaml:"include_all"`
	AllowDailyNotes                   bool `yaml:"allow_daily_notes"`
	OmitBlocksWithOnlyUnexportedLinks bool `yaml:"omit_blocks_with_only_unexported_links"`

	HighlightStyle string `yaml:"highlight_style"`
	Workers        int    `yaml:"workers"`
	Prune          bool   `yaml:"prune"`

	LogFile   string `yaml:"log_file"`
	LogLevel  string `yaml:"log_level,omitempty"`
	StateFile string `yaml:"state_file"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Graph:          filepath.Join(home, "roam", "graph.json"),
		Output:         filepath.Join(home, "roam", "pages"),
		Format:         FormatHTML,
		Include:        "website",
		TagsAttr:       "Tags",
		HighlightStyle: "github",
		Workers:        runtime.NumCPU(),
		LogFile:        "/tmp/roampages.log",
		LogLevel:       "info",
		StateFile:      StateFilePath(),
	}
}

// ConfigPath returns the path to the config file
// Uses ~/.config on all platforms for consistency
// Can be overridden for testing
var ConfigPath = func() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to XDG if home dir unavailable
		return filepath.Join(xdg.ConfigHome, "roampages", "config.yaml")
	}
	return filepath.Join(home, ".config", "roampages", "config.yaml")
}

// StateFilePath returns the path to the state file
// Uses platform-specific XDG data directory
// Can be overridden for testing
var StateFilePath = func() string {
	return filepath.Join(xdg.DataHome, "roampages", "state.json")
}

// Load reads configuration from the default config path
func Load() (*Config, error) {
	return LoadFile(ConfigPath())
}

// LoadFile reads configuration from path. A missing file yields the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Extension == "" {
		cfg.Extension = DefaultExtension(cfg.Format)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.StateFile == "" {
		cfg.StateFile = StateFilePath()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.ExpandPaths(); err != nil {
		return nil, fmt.Errorf("failed to expand paths: %w", err)
	}

	return cfg, nil
}

// DefaultExtension returns the file extension used for a format
func DefaultExtension(format string) string {
	if format == FormatMarkdown {
		return "md"
	}
	return "html"
}

// Save writes configuration to the default config path
func (c *Config) Save() error {
	return c.SaveFile(ConfigPath())
}

// SaveFile writes configuration to path
func (c *Config) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Graph == "" {
		return fmt.Errorf("graph cannot be empty")
	}
	if c.Output == "" {
		return fmt.Errorf("output cannot be empty")
	}
	if c.Include == "" && !c.IncludeAll {
		return fmt.Errorf("include cannot be empty unless include_all is set")
	}
	if c.TagsAttr == "" {
		return fmt.Errorf("tags_attr cannot be empty")
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers cannot be negative")
	}

	switch c.Format {
	case FormatHTML, FormatMarkdown:
	default:
		return fmt.Errorf("invalid format '%s': must be one of: html, markdown", c.Format)
	}

	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level '%s': must be one of: debug, info, warn, error", c.LogLevel)
	}

	return nil
}

// ExpandPaths expands any ~ or relative paths to absolute paths
func (c *Config) ExpandPaths() error {
	fields := []struct {
		name string
		path *string
	}{
		{"graph", &c.Graph},
		{"output", &c.Output},
		{"template", &c.Template},
		{"log_file", &c.LogFile},
		{"state_file", &c.StateFile},
	}

	for _, f := range fields {
		expanded, err := expandPath(*f.path)
		if err != nil {
			return fmt.Errorf("failed to expand %s: %w", f.name, err)
		}
		*f.path = expanded
	}

	return nil
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) (string, error) {
	if path == "" {
		return path, nil
	}

	// Expand ~ to home directory
	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if len(path) == 1 {
			return homeDir, nil
		}
		path = filepath.Join(homeDir, path[1:])
	}

	// Convert to absolute path
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	return absPath, nil
}
