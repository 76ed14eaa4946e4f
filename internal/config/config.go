package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/cameronsjo/gh-manager-cli/internal/query"
)

// Duration wraps time.Duration so TTLs can be written as "30m" or "90s"
// in the config file.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML decoding.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// ThemeConfig selects the color theme and optional per-color overrides.
type ThemeConfig struct {
	Name     string `toml:"name"`     // preset family name
	Mode     string `toml:"mode"`     // "auto", "light", or "dark"
	Nerdfont bool   `toml:"nerdfont"` // use nerd font symbols

	// Individual color overrides (hex or ANSI index)
	Primary string `toml:"primary"`
	Accent  string `toml:"accent"`
	Success string `toml:"success"`
	Error   string `toml:"error"`
	Muted   string `toml:"muted"`
	Normal  string `toml:"normal"`
	Info    string `toml:"info"`
	Warning string `toml:"warning"`
}

// ValidThemeNames lists the preset theme families.
var ValidThemeNames = []string{"default", "dracula", "nord", "gruvbox", "catppuccin", "none"}

// ValidThemeModes lists the accepted theme modes.
var ValidThemeModes = []string{"auto", "light", "dark"}

// CacheConfig tunes freshness windows and the on-disk repository cache.
type CacheConfig struct {
	ListTTL   Duration `toml:"list_ttl"`   // freshness window for list queries
	SearchTTL Duration `toml:"search_ttl"` // freshness window for search queries
	MaxBytes  int64    `toml:"max_bytes"`  // serialized cache size cap
}

// Config holds the ghm configuration.
type Config struct {
	DataDir          string      `toml:"data_dir"` // optional: override ~/.ghm
	PageSize         int         `toml:"page_size"`
	DefaultSort      string      `toml:"default_sort"`      // "updated", "pushed", "name", "stars"
	DefaultDirection string      `toml:"default_direction"` // "asc" or "desc"
	Visibility       string      `toml:"visibility"`        // "", "public", "private"
	Org              string      `toml:"org"`               // default org for the organization source
	ForkTracking     bool        `toml:"fork_tracking"`
	Overscan         int         `toml:"overscan"`           // extra rows rendered beyond the viewport
	PrefetchAt       float64     `toml:"prefetch_threshold"` // cursor position ratio that triggers the next page
	Cache            CacheConfig `toml:"cache"`
	Theme            ThemeConfig `toml:"theme"`
}

// Defaults for everything the config file leaves out.
const (
	DefaultPageSize   = 50
	DefaultOverscan   = 5
	DefaultPrefetchAt = 0.8
)

// Default returns the default configuration.
func Default() Config {
	return Config{
		PageSize:         DefaultPageSize,
		DefaultSort:      "updated",
		DefaultDirection: "desc",
		Overscan:         DefaultOverscan,
		PrefetchAt:       DefaultPrefetchAt,
		Cache: CacheConfig{
			ListTTL:   Duration(30 * time.Minute),
			SearchTTL: Duration(90 * time.Second),
			MaxBytes:  2 << 20,
		},
	}
}

// SortField maps the configured sort name to the query enum.
func (c *Config) SortField() query.SortField {
	switch c.DefaultSort {
	case "pushed":
		return query.SortPushed
	case "name":
		return query.SortName
	case "stars":
		return query.SortStars
	default:
		return query.SortUpdated
	}
}

// SortDirection maps the configured direction to the query enum.
func (c *Config) SortDirection() query.SortDirection {
	if c.DefaultDirection == "asc" {
		return query.SortAsc
	}
	return query.SortDesc
}

// VisibilityFilter maps the configured visibility to the query enum.
func (c *Config) VisibilityFilter() query.VisibilityFilter {
	switch c.Visibility {
	case "public":
		return query.VisibilityPublic
	case "private":
		return query.VisibilityPrivate
	default:
		return query.VisibilityAll
	}
}

// ValidatePath checks that the path is absolute or starts with ~.
// Returns error if path is relative (like "." or "..").
func ValidatePath(path, fieldName string) error {
	if path == "" {
		return nil // Empty is allowed (means not configured)
	}
	if len(path) >= 1 && path[0] == '~' {
		return nil
	}
	if !filepath.IsAbs(path) {
		return fmt.Errorf("%s must be absolute or start with ~, got: %q", fieldName, path)
	}
	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand ~: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	if path == "~" {
		return os.UserHomeDir()
	}
	return path, nil
}

// Path returns the path to the config file.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "ghm", "config.toml"), nil
}

// Load reads config from ~/.config/ghm/config.toml.
// Returns Default() if the file doesn't exist (no error).
// Returns error only if the file exists but is invalid.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), nil
	}
	return loadFrom(path)
}

func loadFrom(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return applyEnv(cfg)
		}
		return Default(), fmt.Errorf("failed to read config file: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := validate(cfg); err != nil {
		return Default(), err
	}

	// Expand ~ in data_dir (shell doesn't expand in config files)
	if cfg.DataDir != "" {
		expanded, err := expandPath(cfg.DataDir)
		if err != nil {
			return Default(), fmt.Errorf("expand data_dir: %w", err)
		}
		cfg.DataDir = expanded
	}

	return applyEnv(cfg)
}

// applyEnv overlays environment overrides. GHM_DATA_DIR wins over the
// config file so scripts can point ghm at a scratch directory.
func applyEnv(cfg Config) (Config, error) {
	if dir := os.Getenv("GHM_DATA_DIR"); dir != "" {
		expanded, err := expandPath(dir)
		if err != nil {
			return Default(), fmt.Errorf("expand GHM_DATA_DIR: %w", err)
		}
		cfg.DataDir = expanded
	}
	return cfg, nil
}

func validate(cfg Config) error {
	if err := ValidatePath(cfg.DataDir, "data_dir"); err != nil {
		return err
	}

	switch cfg.DefaultSort {
	case "", "updated", "pushed", "name", "stars":
	default:
		return fmt.Errorf("invalid default_sort %q: must be \"updated\", \"pushed\", \"name\", or \"stars\"", cfg.DefaultSort)
	}

	switch cfg.DefaultDirection {
	case "", "asc", "desc":
	default:
		return fmt.Errorf("invalid default_direction %q: must be \"asc\" or \"desc\"", cfg.DefaultDirection)
	}

	switch cfg.Visibility {
	case "", "public", "private":
	default:
		return fmt.Errorf("invalid visibility %q: must be \"public\" or \"private\"", cfg.Visibility)
	}

	if cfg.PageSize < 1 || cfg.PageSize > 100 {
		return fmt.Errorf("invalid page_size %d: must be between 1 and 100", cfg.PageSize)
	}
	if cfg.Overscan < 0 {
		return fmt.Errorf("invalid overscan %d: must be zero or positive", cfg.Overscan)
	}
	if cfg.PrefetchAt <= 0 || cfg.PrefetchAt > 1 {
		return fmt.Errorf("invalid prefetch_threshold %v: must be in (0, 1]", cfg.PrefetchAt)
	}
	if cfg.Cache.ListTTL <= 0 {
		return fmt.Errorf("invalid cache.list_ttl: must be a positive duration")
	}
	if cfg.Cache.SearchTTL <= 0 {
		return fmt.Errorf("invalid cache.search_ttl: must be a positive duration")
	}
	if cfg.Cache.MaxBytes <= 0 {
		return fmt.Errorf("invalid cache.max_bytes %d: must be positive", cfg.Cache.MaxBytes)
	}

	if cfg.Theme.Name != "" && !contains(ValidThemeNames, cfg.Theme.Name) {
		return fmt.Errorf("invalid theme.name %q: must be one of %s", cfg.Theme.Name, strings.Join(ValidThemeNames, ", "))
	}
	if cfg.Theme.Mode != "" && !contains(ValidThemeModes, cfg.Theme.Mode) {
		return fmt.Errorf("invalid theme.mode %q: must be one of %s", cfg.Theme.Mode, strings.Join(ValidThemeModes, ", "))
	}

	return nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

const defaultConfig = `# ghm configuration

# Optional: where ghm keeps its repository cache and freshness records.
# Must be an absolute path or start with ~ (default: ~/.ghm)
# data_dir = "~/.ghm"

# Repositories fetched per page (1-100)
page_size = 50

# Initial sort order for the repository list
# Sort fields: "updated", "pushed", "name", "stars"
default_sort = "updated"
default_direction = "desc"

# Initial visibility filter: "", "public", or "private"
# visibility = ""

# Default organization for the organization view
# org = "my-org"

# Fetch commits-behind counts for forks (one extra field per repo)
fork_tracking = false

# Rows rendered beyond the visible viewport while scrolling
overscan = 5

# Fraction of the loaded list the cursor must pass before the next
# page is fetched in the background
prefetch_threshold = 0.8

# Cache tuning
# [cache]
# list_ttl = "30m"      # reuse cached list responses this long
# search_ttl = "90s"    # search results go stale much faster
# max_bytes = 2097152   # on-disk repo cache size cap (oldest entries evicted)

# Theme - color scheme for the interactive UI
# [theme]
# name = "default"      # default, dracula, nord, gruvbox, catppuccin, none
# mode = "auto"         # auto (detect terminal background), light, dark
# nerdfont = false      # use nerd font symbols for repo indicators
#
# Individual colors can be overridden (hex or ANSI index):
# accent = "#ff79c6"
`

// DefaultFileContent returns the annotated default config file text.
func DefaultFileContent() string {
	return defaultConfig
}

// Init creates a default config file at ~/.config/ghm/config.toml.
// If force is true, overwrites an existing file.
// Returns the path to the created file.
func Init(force bool) (string, error) {
	path, err := Path()
	if err != nil {
		return "", err
	}

	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", errors.New("config file already exists: " + path)
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	if err := os.WriteFile(path, []byte(defaultConfig), 0644); err != nil {
		return "", err
	}

	return path, nil
}
