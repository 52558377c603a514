// Package config provides configuration loading and management for the
// caliper tool.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/c360studio/caliper/export"
	"github.com/c360studio/caliper/label"
	"github.com/c360studio/caliper/storage"
)

// Config represents the complete caliper configuration
type Config struct {
	Validation ValidationConfig `yaml:"validation"`
	Labels     LabelsConfig     `yaml:"labels"`
	Sensor     SensorConfig     `yaml:"sensor"`
	Archive    ArchiveConfig    `yaml:"archive"`
	Export     ExportConfig     `yaml:"export"`
	Log        LogConfig        `yaml:"log"`
}

// ValidationConfig tunes the conformance checks applied by the CLI
type ValidationConfig struct {
	// StrictDuration checks durations against the ISO-8601 grammar instead
	// of only rejecting empty values
	StrictDuration bool `yaml:"strict_duration" env:"CALIPER_STRICT_DURATION"`
}

// LabelsConfig selects the language of action labels
type LabelsConfig struct {
	// Locale is a BCP 47 tag such as "en" or "es-MX"
	Locale string `yaml:"locale" env:"CALIPER_LOCALE"`
}

// SensorConfig identifies the sensor that sends checked events
type SensorConfig struct {
	ID          string `yaml:"id" env:"CALIPER_SENSOR_ID"`
	DataVersion string `yaml:"data_version" env:"CALIPER_DATA_VERSION"`
}

// ArchiveConfig configures the JetStream envelope archive
type ArchiveConfig struct {
	// URL is the NATS server URL
	URL string `yaml:"url" env:"CALIPER_NATS_URL"`
	// Bucket is the KV bucket name
	Bucket string `yaml:"bucket" env:"CALIPER_ARCHIVE_BUCKET"`
	// Timeout bounds connecting and archiving
	Timeout time.Duration `yaml:"timeout" env:"CALIPER_ARCHIVE_TIMEOUT"`
}

// ExportConfig sets the default output of rendered events
type ExportConfig struct {
	Format  string `yaml:"format" env:"CALIPER_EXPORT_FORMAT"`
	Profile string `yaml:"profile" env:"CALIPER_EXPORT_PROFILE"`
}

// LogConfig configures logging
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `yaml:"level" env:"CALIPER_LOG_LEVEL"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Labels: LabelsConfig{
			Locale: label.BaseLocale,
		},
		Sensor: SensorConfig{
			ID:          "urn:caliper:sensor:cli",
			DataVersion: "", // sensor default
		},
		Archive: ArchiveConfig{
			URL:     "nats://127.0.0.1:4222",
			Bucket:  storage.DefaultBucket,
			Timeout: 10 * time.Second,
		},
		Export: ExportConfig{
			Format:  string(export.FormatJSONLD),
			Profile: string(export.ProfileMinimal),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if _, err := language.Parse(c.Labels.Locale); err != nil {
		return fmt.Errorf("labels.locale: invalid language tag %q", c.Labels.Locale)
	}
	if c.Sensor.ID == "" {
		return fmt.Errorf("sensor.id is required")
	}
	if c.Archive.Bucket == "" {
		return fmt.Errorf("archive.bucket is required")
	}
	if key, err := storage.Key(c.Archive.Bucket); err != nil || key != c.Archive.Bucket {
		return fmt.Errorf("archive.bucket %q may only contain letters, digits, '-', '_' and '='", c.Archive.Bucket)
	}
	if c.Archive.Timeout <= 0 {
		return fmt.Errorf("archive.timeout must be positive")
	}
	if _, err := export.ParseFormat(c.Export.Format); err != nil {
		return fmt.Errorf("export.format: %w", err)
	}
	if _, ok := export.Profiles[export.Profile(c.Export.Profile)]; !ok {
		return fmt.Errorf("export.profile: unknown profile %q", c.Export.Profile)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// ParseLevel maps a level name to a slog level
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown level %q", s)
	}
}

// LoadFromFile loads a complete configuration from a YAML file. Fields the
// file leaves out keep their defaults.
func LoadFromFile(path string) (*Config, error) {
	config := DefaultConfig()
	if err := readFile(path, config); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadLayer reads one layer file. Fields the file leaves out stay zero, so
// Merge only applies what the file actually sets.
func LoadLayer(path string) (*Config, error) {
	config := &Config{}
	if err := readFile(path, config); err != nil {
		return nil, err
	}
	return config, nil
}

func readFile(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
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

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// A file can only switch strict checking on
	if other.Validation.StrictDuration {
		c.Validation.StrictDuration = true
	}

	if other.Labels.Locale != "" {
		c.Labels.Locale = other.Labels.Locale
	}

	if other.Sensor.ID != "" {
		c.Sensor.ID = other.Sensor.ID
	}
	if other.Sensor.DataVersion != "" {
		c.Sensor.DataVersion = other.Sensor.DataVersion
	}

	// Archive
	if other.Archive.URL != "" {
		c.Archive.URL = other.Archive.URL
	}
	if other.Archive.Bucket != "" {
		c.Archive.Bucket = other.Archive.Bucket
	}
	if other.Archive.Timeout != 0 {
		c.Archive.Timeout = other.Archive.Timeout
	}

	// Export
	if other.Export.Format != "" {
		c.Export.Format = other.Export.Format
	}
	if other.Export.Profile != "" {
		c.Export.Profile = other.Export.Profile
	}

	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}
}
