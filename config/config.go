// Package config loads hserr settings from a .hserr.toml file and HSERR_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/dhamidi/hserr/report/parser"
)

// FileName is the configuration file looked up by Load.
const FileName = ".hserr.toml"

// ErrNotFound is returned by Find when no configuration file exists in the
// directory or any of its parents.
var ErrNotFound = errors.New("config file not found")

type Config struct {
	Parser    ParserConfig      `toml:"parser"`
	Fold      FoldConfig        `toml:"fold"`
	Workspace WorkspaceConfig   `toml:"workspace"`
	UI        UIConfig          `toml:"ui"`
	Highlight map[string]string `toml:"highlight"`

	// Path is the file the configuration was read from, empty for defaults.
	Path string `toml:"-"`
}

type ParserConfig struct {
	MaxDepth int `toml:"max_depth"`
}

type FoldConfig struct {
	// Collapse lists label prefixes of sections and subsections that are
	// folded by default.
	Collapse []string `toml:"collapse"`
}

type WorkspaceConfig struct {
	Patterns     []string `toml:"patterns"`
	PollInterval Duration `toml:"poll_interval"`
	MaxFileBytes int64    `toml:"max_file_bytes"`
}

type UIConfig struct {
	Addr           string `toml:"addr"`
	MaxUploadBytes int64  `toml:"max_upload_bytes"`
}

// Duration wraps time.Duration for TOML parsing
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Parser: ParserConfig{MaxDepth: parser.DefaultMaxDepth},
		Fold:   FoldConfig{Collapse: []string{"Heap Regions"}},
		Workspace: WorkspaceConfig{
			Patterns:     []string{"hs_err*.log", "*.hserr"},
			PollInterval: Duration{2 * time.Second},
			MaxFileBytes: 10_000_000,
		},
		UI: UIConfig{
			Addr:           "localhost:8090",
			MaxUploadBytes: 50 << 20,
		},
		Highlight: DefaultHighlight(),
	}
}

// DefaultHighlight maps category names to terminal colors. Keywords and
// identifiers share a color, as do signals and registers.
func DefaultHighlight() map[string]string {
	return map[string]string{
		"STRING":      "2",
		"NUMBER":      "4",
		"WORD":        "8",
		"PUNCT":       "7",
		"SECTION_HDR": "13",
		"SUBTITLE":    "5",
		"KEYWORD":     "6",
		"IDENTIFIER":  "6",
		"SIGNAL":      "9",
		"REGISTER":    "9",
		"URL":         "12",
	}
}

// Load finds and loads the configuration for the current directory.
func Load() (*Config, error) {
	return LoadFrom(".")
}

// LoadFrom looks for FileName in dir and its parents. Without a file the
// defaults apply. Environment overrides are applied either way.
func LoadFrom(dir string) (*Config, error) {
	path, err := Find(dir)
	if errors.Is(err, ErrNotFound) {
		cfg := Default()
		cfg.applyEnv()
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile reads the configuration in path on top of the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Path = path
	cfg.applyDefaults()
	cfg.applyEnv()
	return cfg, nil
}

// Find returns the path of the nearest FileName at or above dir.
func Find(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve directory: %w", err)
	}
	for {
		candidate := filepath.Join(abs, FileName)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return "", fmt.Errorf("%s in %s or its parents: %w", FileName, dir, ErrNotFound)
		}
		abs = parent
	}
}

// applyDefaults fills zero values left by a partial file.
func (c *Config) applyDefaults() {
	def := Default()
	if c.Parser.MaxDepth == 0 {
		c.Parser.MaxDepth = def.Parser.MaxDepth
	}
	if len(c.Workspace.Patterns) == 0 {
		c.Workspace.Patterns = def.Workspace.Patterns
	}
	if c.Workspace.PollInterval.Duration == 0 {
		c.Workspace.PollInterval = def.Workspace.PollInterval
	}
	if c.Workspace.MaxFileBytes == 0 {
		c.Workspace.MaxFileBytes = def.Workspace.MaxFileBytes
	}
	if c.UI.Addr == "" {
		c.UI.Addr = def.UI.Addr
	}
	if c.UI.MaxUploadBytes == 0 {
		c.UI.MaxUploadBytes = def.UI.MaxUploadBytes
	}
	for name, color := range def.Highlight {
		if _, ok := c.Highlight[name]; !ok {
			if c.Highlight == nil {
				c.Highlight = make(map[string]string)
			}
			c.Highlight[name] = color
		}
	}
}

func (c *Config) applyEnv() {
	c.Parser.MaxDepth = envInt("HSERR_MAX_DEPTH", c.Parser.MaxDepth)
	c.Fold.Collapse = envList("HSERR_FOLD_COLLAPSE", c.Fold.Collapse)
	c.Workspace.Patterns = envList("HSERR_PATTERNS", c.Workspace.Patterns)
	c.Workspace.PollInterval.Duration = envDuration("HSERR_POLL_INTERVAL", c.Workspace.PollInterval.Duration)
	c.Workspace.MaxFileBytes = envInt64("HSERR_MAX_FILE_BYTES", c.Workspace.MaxFileBytes)
	c.UI.Addr = envOr("HSERR_UI_ADDR", c.UI.Addr)
	c.UI.MaxUploadBytes = envInt64("HSERR_MAX_UPLOAD_BYTES", c.UI.MaxUploadBytes)
}

func (c *Config) Validate() error {
	if c.Parser.MaxDepth < 1 {
		return fmt.Errorf("parser.max_depth must be positive, got %d", c.Parser.MaxDepth)
	}
	if c.Workspace.PollInterval.Duration < 10*time.Millisecond {
		return fmt.Errorf("workspace.poll_interval must be at least 10ms, got %s", c.Workspace.PollInterval.Duration)
	}
	if c.Workspace.MaxFileBytes <= 0 {
		return fmt.Errorf("workspace.max_file_bytes must be positive, got %d", c.Workspace.MaxFileBytes)
	}
	for _, pattern := range c.Workspace.Patterns {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return fmt.Errorf("workspace.patterns: bad pattern %q: %w", pattern, err)
		}
	}
	if c.UI.MaxUploadBytes <= 0 {
		return fmt.Errorf("ui.max_upload_bytes must be positive, got %d", c.UI.MaxUploadBytes)
	}
	for name := range c.Highlight {
		if _, ok := parser.ParseCategory(name); !ok {
			return fmt.Errorf("highlight: unknown category %q", name)
		}
	}
	return nil
}

// ParserOptions returns the parser options implied by c.
func (c *Config) ParserOptions() []parser.Option {
	return []parser.Option{parser.WithMaxDepth(c.Parser.MaxDepth)}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// envList reads a comma-separated list.
func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var result []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}
