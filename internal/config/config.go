// Package config provides configuration loading and defaults for the logotint CLI.
//
// Settings live in a TOML file in the user's data directory.
// The schema covers recolor defaults, output placement, watch-mode timing,
// logging, and per-path overrides.
package config

//go:generate go run ../../cmd/genconfig

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"
	"tools.zach/dev/logotint/internal/atomicfile"
	"tools.zach/dev/logotint/internal/colorspec"
	"tools.zach/dev/logotint/internal/migrate"
	"tools.zach/dev/logotint/internal/recolor"
)

// ///////////////////////////////////////////////
// Configuration Types
// ///////////////////////////////////////////////

// Config is the on-disk TOML schema for logotint.
type Config struct {
	// Version is the schema version; [Load] migrates older files forward.
	Version int `toml:"version"`
	// Recolor holds whitepoint and worker settings for the recolor pass.
	Recolor RecolorConfig `toml:"recolor"`
	// Output holds output placement and format settings.
	Output OutputConfig `toml:"output"`
	// Watch holds watch-mode timing settings.
	Watch WatchConfig `toml:"watch"`
	// Log holds log level and rotation settings.
	Log LogConfig `toml:"log"`
	// Overrides provides per-path recolor settings matched by glob pattern.
	Overrides []Override `toml:"overrides,omitempty"`
}

// RecolorConfig holds defaults for the recolor pass.
type RecolorConfig struct {
	// Threshold is the whitepoint: pixels whose darkest channel is at or
	// above this value keep their original color.
	Threshold int `toml:"threshold"`
	// Workers is the number of row workers for the recolor pass (0 = one per CPU).
	Workers int `toml:"workers"`
}

// OutputConfig holds output placement and format settings.
type OutputConfig struct {
	// Dir places recolored files in this directory instead of next to the input.
	Dir string `toml:"dir"`
	// ForceExt re-encodes output in this format regardless of the input
	// extension: "png", "bmp", "tif", "tiff", "gif", "jpg", or "jpeg".
	// Empty keeps the input format.
	ForceExt string `toml:"force_ext"`
}

// WatchConfig holds watch-mode timing settings.
type WatchConfig struct {
	// DebounceMS is how long to wait after the last change event before
	// re-running the recolor, in milliseconds.
	DebounceMS int `toml:"debounce_ms"`
	// PollIntervalSeconds is the fallback polling interval for input changes.
	PollIntervalSeconds int `toml:"poll_interval_seconds"`
}

// LogConfig controls the watch-mode log file.
type LogConfig struct {
	// Level is the lowest severity written to the log:
	// trace, debug, info, warn, or error.
	Level string `toml:"level"`
	// MaxSizeMB caps the log file size in megabytes before rotation.
	MaxSizeMB int `toml:"max_size_mb"`
}

// Override applies recolor settings to inputs matching a glob pattern.
type Override struct {
	// Pattern is a glob pattern matched against the slash-normalized input path.
	Pattern string `toml:"pattern"`
	// Threshold replaces the whitepoint threshold for matching inputs (0 = keep global).
	Threshold int `toml:"threshold,omitempty"`
	// Color pins the target color for matching inputs, overriding the
	// command-line color.
	Color string `toml:"color,omitempty"`
}

// ///////////////////////////////////////////////
// Default Configuration
// ///////////////////////////////////////////////

// DefaultConfig returns the built-in settings used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Version: migrate.Config.CurrentVersion,
		Recolor: RecolorConfig{
			Threshold: recolor.DefaultThreshold,
			Workers:   0,
		},
		Output: OutputConfig{
			Dir:      "",
			ForceExt: "",
		},
		Watch: WatchConfig{
			DebounceMS:          250,
			PollIntervalSeconds: 5,
		},
		Log: LogConfig{
			Level:     "info",
			MaxSizeMB: 10,
		},
	}
}

// ///////////////////////////////////////////////
// Example Configuration
// ///////////////////////////////////////////////

// ExampleConfig returns the Config rendered into config.default.toml.
// All defaults double as good examples here.
func ExampleConfig() *Config {
	return DefaultConfig()
}

// ///////////////////////////////////////////////
// PeekVersion
// ///////////////////////////////////////////////

// PeekVersion extracts the version field from raw TOML bytes without
// decoding the full schema. Missing or zero reads as 1.
func PeekVersion(data []byte) int {
	var v struct {
		Version int `toml:"version"`
	}
	if err := toml.Unmarshal(data, &v); err != nil {
		return 1
	}
	if v.Version == 0 {
		return 1
	}
	return v.Version
}

// ///////////////////////////////////////////////
// Loading and Saving
// ///////////////////////////////////////////////

// Load reads and parses the configuration file at path. A missing file is
// not an error: the defaults are returned.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	version := PeekVersion(data)

	// Older schema versions migrate forward
	shouldMigrate := version != migrate.Config.CurrentVersion
	if shouldMigrate {
		// Keep the pre-migration file around
		if backupErr := os.WriteFile(path+".bak", data, 0o644); backupErr != nil {
			slog.Warn("failed to write config backup", "error", backupErr)
		}
		var migrateErr error
		data, _, migrateErr = migrate.Config.Run(data, version)
		if migrateErr != nil {
			return nil, fmt.Errorf("migrate config: %w", migrateErr)
		}
	}

	// Dev transforms run on every load when registered
	if migrate.Config.HasDev() {
		var devErr error
		data, devErr = migrate.Config.RunDev(data)
		if devErr != nil {
			return nil, fmt.Errorf("apply dev transforms: %w", devErr)
		}
		shouldMigrate = true
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.Version = migrate.Config.CurrentVersion

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// Persist the migrated file
	if shouldMigrate {
		if err := cfg.Save(path); err != nil {
			slog.Warn("failed to save migrated config", "error", err)
		}
	}

	return cfg, nil
}

// Save encodes the config as TOML and writes it atomically.
func (c *Config) Save(path string) error {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return atomicfile.Write(path, buf.Bytes(), 0o644)
}

// ///////////////////////////////////////////////
// Validation
// ///////////////////////////////////////////////

// validLogLevels lists the accepted log.level spellings.
var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "error": true,
}

// validForceExts is the set of accepted output format overrides.
var validForceExts = map[string]bool{
	"png": true, "bmp": true, "tif": true, "tiff": true, "gif": true, "jpg": true, "jpeg": true,
}

// Validate rejects values outside their accepted ranges before they can
// reach the pipeline.
func (c *Config) Validate() error {
	if c.Recolor.Threshold < 0 || c.Recolor.Threshold > 255 {
		return fmt.Errorf("recolor.threshold must be between 0 and 255, got %d", c.Recolor.Threshold)
	}

	if c.Recolor.Workers < 0 {
		return fmt.Errorf("recolor.workers must be >= 0, got %d", c.Recolor.Workers)
	}

	if c.Output.ForceExt != "" && !validForceExts[strings.ToLower(c.Output.ForceExt)] {
		return fmt.Errorf("invalid output.force_ext %q: must be png, bmp, tif, tiff, gif, jpg, or jpeg", c.Output.ForceExt)
	}

	if c.Watch.DebounceMS < 0 {
		return fmt.Errorf("watch.debounce_ms must be >= 0, got %d", c.Watch.DebounceMS)
	}

	if c.Watch.PollIntervalSeconds <= 0 {
		return fmt.Errorf("watch.poll_interval_seconds must be > 0, got %d", c.Watch.PollIntervalSeconds)
	}

	if !validLogLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("invalid log.level %q: must be trace, debug, info, warn, or error", c.Log.Level)
	}

	for i, o := range c.Overrides {
		if o.Pattern == "" {
			return fmt.Errorf("overrides[%d]: pattern must not be empty", i)
		}
		if !doublestar.ValidatePattern(o.Pattern) {
			return fmt.Errorf("overrides[%d]: invalid pattern %q", i, o.Pattern)
		}
		if o.Threshold < 0 || o.Threshold > 255 {
			return fmt.Errorf("overrides[%d]: threshold must be between 0 and 255, got %d", i, o.Threshold)
		}
		if o.Color != "" {
			if _, err := colorspec.Parse(o.Color); err != nil {
				return fmt.Errorf("overrides[%d]: %w", i, err)
			}
		}
	}

	return nil
}

// ///////////////////////////////////////////////
// Override Helpers
// ///////////////////////////////////////////////

// EffectiveThreshold returns the whitepoint threshold for inputPath.
// An explicitly set command-line value always wins. Otherwise the first
// override whose pattern matches and sets a threshold wins over the
// global default.
func (c *Config) EffectiveThreshold(inputPath string, flagValue int, flagSet bool) int {
	if flagSet {
		return flagValue
	}
	path := filepath.ToSlash(inputPath)
	for _, o := range c.Overrides {
		matched, err := doublestar.Match(o.Pattern, path)
		if err != nil {
			slog.Warn("invalid glob pattern", "pattern", o.Pattern, "error", err)
			continue
		}
		if matched && o.Threshold != 0 {
			return o.Threshold
		}
	}
	return c.Recolor.Threshold
}

// EffectiveColor returns the pinned target color for inputPath. The second
// return is false when no override with a color matches, in which case the
// command-line color applies.
func (c *Config) EffectiveColor(inputPath string) (colorspec.Color, bool) {
	path := filepath.ToSlash(inputPath)
	for _, o := range c.Overrides {
		matched, err := doublestar.Match(o.Pattern, path)
		if err != nil {
			slog.Warn("invalid glob pattern", "pattern", o.Pattern, "error", err)
			continue
		}
		if !matched || o.Color == "" {
			continue
		}
		color, err := colorspec.Parse(o.Color)
		if err != nil {
			slog.Warn("invalid override color", "pattern", o.Pattern, "color", o.Color, "error", err)
			continue
		}
		return color, true
	}
	return colorspec.Color{}, false
}

// ForcedExt returns the configured output extension with a leading dot,
// or "" when the input format should be kept.
func (c *Config) ForcedExt() string {
	if c.Output.ForceExt == "" {
		return ""
	}
	return "." + strings.ToLower(c.Output.ForceExt)
}
