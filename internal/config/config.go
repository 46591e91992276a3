package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pelletier/go-toml/v2"
)

// DirName is the per-repo (and per-user) configuration directory name.
const DirName = ".runlog"

// configFileNames lists the accepted config file names in lookup order.
// JSON wins when both exist in the same directory.
var configFileNames = []string{"config.json", "config.toml"}

// Config holds application configuration.
type Config struct {
	// RunDir is the directory (relative to the repo root) holding run records.
	RunDir string `json:"run_dir,omitempty" toml:"run_dir"`

	// ReportPath is the cumulative weekly report file (relative to the repo root).
	ReportPath string `json:"report_path,omitempty" toml:"report_path"`

	// RecordPattern is a doublestar glob, matched inside RunDir, selecting record files.
	RecordPattern string `json:"record_pattern,omitempty" toml:"record_pattern"`

	// WindowDays is the trailing window, in days, covered by a weekly digest.
	WindowDays int `json:"window_days,omitempty" toml:"window_days"`

	// RecentLimit caps the number of records listed in a digest block.
	RecentLimit int `json:"recent_limit,omitempty" toml:"recent_limit"`

	// HTMLReportPath, when set, also renders the whole report to HTML at this path.
	HTMLReportPath string `json:"html_report_path,omitempty" toml:"html_report_path"`

	// Schedule is the default cron expression used by `runlog schedule`.
	Schedule string `json:"schedule,omitempty" toml:"schedule"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	DisabledTools []string `json:"disabled_tools,omitempty" toml:"disabled_tools"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		RunDir:        filepath.Join("docs", "run"),
		ReportPath:    filepath.Join("docs", "reports", "weekly.md"),
		RecordPattern: "*.md",
		WindowDays:    7,
		RecentLimit:   10,
	}
}

// Load loads configuration from baseDir/config.json (or config.toml).
// Returns default config if neither file exists.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.runlog.
func Load(baseDir string) (*Config, error) {
	cfg, err := loadFileRaw(findConfigIn(baseDir))
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// LoadWithRepo loads configuration from both global (~/.runlog) and repo (.runlog) directories.
// Repo config is found by walking upward from startDir.
// Repo config takes precedence for scalar values; arrays are merged (deduplicated).
// Either or both configs may be missing.
func LoadWithRepo(globalDir, startDir string) (*Config, error) {
	global, err := loadFileRaw(findConfigIn(globalDir))
	if err != nil {
		return nil, err
	}

	repo, err := loadFileRaw(FindRepoConfig(startDir))
	if err != nil {
		return nil, err
	}

	return Merge(Merge(DefaultConfig(), global), repo), nil
}

// FindRepoConfig walks upward from startDir to find the nearest .runlog/config.{json,toml}.
// Returns the path if found, or empty string if not found.
func FindRepoConfig(startDir string) string {
	dir := startDir
	for {
		if path := findConfigIn(filepath.Join(dir, DirName)); path != "" {
			return path
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// findConfigIn returns the first existing config file in dir, or "".
func findConfigIn(dir string) string {
	if dir == "" {
		return ""
	}
	for _, name := range configFileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the path is empty or the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	cfg := &Config{}
	if configPath == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	switch filepath.Ext(configPath) {
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", configPath, err)
		}
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", configPath, err)
		}
	}

	return cfg, nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	return &Config{
		RunDir:         firstString(overlay.RunDir, base.RunDir),
		ReportPath:     firstString(overlay.ReportPath, base.ReportPath),
		RecordPattern:  firstString(overlay.RecordPattern, base.RecordPattern),
		WindowDays:     firstInt(overlay.WindowDays, base.WindowDays),
		RecentLimit:    firstInt(overlay.RecentLimit, base.RecentLimit),
		HTMLReportPath: firstString(overlay.HTMLReportPath, base.HTMLReportPath),
		Schedule:       firstString(overlay.Schedule, base.Schedule),
		DisabledTools:  mergeStringSlice(base.DisabledTools, overlay.DisabledTools),
	}
}

// Validate reports configuration values that cannot be used.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.RunDir) == "" {
		return fmt.Errorf("run_dir must not be empty")
	}
	if strings.TrimSpace(c.ReportPath) == "" {
		return fmt.Errorf("report_path must not be empty")
	}
	if c.WindowDays < 0 {
		return fmt.Errorf("window_days must be non-negative, got %d", c.WindowDays)
	}
	if c.RecentLimit < 0 {
		return fmt.Errorf("recent_limit must be non-negative, got %d", c.RecentLimit)
	}
	if !doublestar.ValidatePattern(c.RecordPattern) {
		return fmt.Errorf("record_pattern %q is not a valid glob", c.RecordPattern)
	}
	return nil
}

// RunDirIn resolves RunDir against root (absolute RunDir values are kept as-is).
func (c *Config) RunDirIn(root string) string {
	return resolve(root, c.RunDir)
}

// ReportPathIn resolves ReportPath against root.
func (c *Config) ReportPathIn(root string) string {
	return resolve(root, c.ReportPath)
}

// HTMLReportPathIn resolves HTMLReportPath against root, or returns "" when unset.
func (c *Config) HTMLReportPathIn(root string) string {
	if c.HTMLReportPath == "" {
		return ""
	}
	return resolve(root, c.HTMLReportPath)
}

func resolve(root, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(root, p)
}

func firstString(overlay, base string) string {
	if overlay != "" {
		return overlay
	}
	return base
}

func firstInt(overlay, base int) int {
	if overlay != 0 {
		return overlay
	}
	return base
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range append(append([]string{}, a...), b...) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
