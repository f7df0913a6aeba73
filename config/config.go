// Package config provides configuration loading and management for gfa2rdf.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/c360studio/gfa2rdf/export"
	"github.com/c360studio/gfa2rdf/transcode"
)

// ErrMalformedBaseIRI is returned by Validate for a base IRI that is not
// absolute.
var ErrMalformedBaseIRI = transcode.ErrMalformedBaseIRI

// Length store backends.
const (
	BackendMemory = "memory"
	BackendBadger = "badger"
)

// DefaultChunkSize bounds the payload of one published NATS message.
const DefaultChunkSize = 512 * 1024

var validate = validator.New()

// Config represents the complete gfa2rdf configuration
type Config struct {
	// BaseIRI prefixes node and path IRIs (default: http://example.org/vg/)
	BaseIRI string `yaml:"base_iri" validate:"required"`
	// Compressed selects short prefixes and omits inferable triples
	Compressed bool `yaml:"compressed"`
	// Extended adds faldo begin/end positions to path steps
	Extended bool `yaml:"extended"`
	// Format is the output format name or MIME type (default: turtle)
	Format string `yaml:"format"`

	LengthStore LengthStoreConfig `yaml:"length_store"`
	Output      OutputConfig      `yaml:"output"`
	NATS        NATSConfig        `yaml:"nats"`
	Metrics     MetricsConfig     `yaml:"metrics"`
	Log         LogConfig         `yaml:"log"`
}

// LengthStoreConfig configures where segment lengths are kept in extended mode
type LengthStoreConfig struct {
	// Backend is "memory" or "badger"
	Backend string `yaml:"backend" validate:"oneof=memory badger"`
	// Path is the badger directory. Empty means a temporary directory that is
	// removed after the run.
	Path string `yaml:"path"`
}

// OutputConfig configures the output file
type OutputConfig struct {
	// Compression is "auto" (by file extension), "none", "gzip" or "zstd"
	Compression string `yaml:"compression" validate:"oneof=auto none gzip zstd"`
}

// NATSConfig configures publishing of the serialized output
type NATSConfig struct {
	// URL is the NATS server URL (empty = do not publish)
	URL string `yaml:"url" validate:"omitempty,url"`
	// Subject receives the output chunks
	Subject string `yaml:"subject" validate:"required_with=URL"`
	// ChunkSize is the maximum payload of one message in bytes
	ChunkSize int `yaml:"chunk_size" validate:"gt=0"`
}

// MetricsConfig configures run metrics
type MetricsConfig struct {
	// Textfile is written in node exporter textfile format after each run
	Textfile string `yaml:"textfile"`
}

// LogConfig configures logging
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=auto text json"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		BaseIRI: transcode.DefaultBaseIRI,
		Format:  string(export.FormatTurtle),
		LengthStore: LengthStoreConfig{
			Backend: BackendMemory,
		},
		Output: OutputConfig{
			Compression: "auto",
		},
		NATS: NATSConfig{
			ChunkSize: DefaultChunkSize,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "auto",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := transcode.ValidateBaseIRI(c.BaseIRI); err != nil {
		return fmt.Errorf("base_iri: %w", err)
	}
	if _, err := export.ParseFormat(c.Format); err != nil {
		return fmt.Errorf("format: %w", err)
	}
	return nil
}

// OutputFormat resolves Format.
func (c *Config) OutputFormat() (export.Format, error) {
	return export.ParseFormat(c.Format)
}

// Profile returns the output profile selected by Compressed.
func (c *Config) Profile() export.Profile {
	return export.ProfileFor(c.Compressed)
}

// TranscodeOptions returns the engine options.
func (c *Config) TranscodeOptions() transcode.Options {
	return transcode.Options{
		BaseIRI:  c.BaseIRI,
		Profile:  c.Profile(),
		Extended: c.Extended,
	}
}

// LogLevel parses Log.Level. Unknown levels resolve to info.
func (c *Config) LogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.Log.Level))); err != nil {
		return slog.LevelInfo
	}
	return level
}

// LoadFromFile loads a YAML file over the defaults
func LoadFromFile(path string) (*Config, error) {
	config := DefaultConfig()
	if err := config.ApplyFile(path); err != nil {
		return nil, err
	}
	return config, nil
}

// ApplyFile overlays the keys present in a YAML file onto c. Keys the file
// does not mention keep their current value, so a file can turn a boolean
// off as well as on. c is left unchanged when the file cannot be read or
// parsed.
func (c *Config) ApplyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	next := *c
	if err := yaml.Unmarshal(data, &next); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	*c = next
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
