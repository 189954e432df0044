// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/benchviz.json"
	// defaultOutputDir is where charts land when the config omits outputDir.
	defaultOutputDir = "."
	// defaultFormat is the chart image format.
	defaultFormat = "png"
	// defaultWidth and defaultHeight are the chart size in inches.
	defaultWidth  = 10.0
	defaultHeight = 6.0
	// defaultLogFile is the log file used when none is configured.
	defaultLogFile = "benchviz.log"
)

// ErrInvalidConfig is returned when a configuration file or merged
// configuration fails validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// SupportedFormats lists the chart formats the renderer can write.
var SupportedFormats = []string{"png", "svg", "pdf"}

// Config represents the top-level application configuration.
type Config struct {
	OutputDir            string   `json:"outputDir,omitempty" mapstructure:"outputDir"`
	Format               string   `json:"format,omitempty" mapstructure:"format"`
	Width                float64  `json:"width,omitempty" mapstructure:"width"`
	Height               float64  `json:"height,omitempty" mapstructure:"height"`
	InstancePricePerHour *float64 `json:"instancePricePerHour,omitempty" mapstructure:"instancePricePerHour"`
	AnalysisOutput       string   `json:"analysisOutput,omitempty" mapstructure:"analysisOutput"`
	LogFile              string   `json:"logFile,omitempty" mapstructure:"logFile"`
	Debug                bool     `json:"debug" mapstructure:"debug"`
	NoColor              bool     `json:"noColor" mapstructure:"noColor"`
	ConfigPath           string   `json:"-" mapstructure:"-"`
}

const configSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "outputDir": {"type": "string"},
    "format": {"type": "string", "enum": ["png", "svg", "pdf"]},
    "width": {"type": "number", "exclusiveMinimum": 0},
    "height": {"type": "number", "exclusiveMinimum": 0},
    "instancePricePerHour": {"type": ["number", "null"], "minimum": 0},
    "analysisOutput": {"type": "string"},
    "logFile": {"type": "string"},
    "debug": {"type": "boolean"},
    "noColor": {"type": "boolean"}
  }
}`

// OutputDirectory returns the chart output directory, applying a default if not set.
func (c Config) OutputDirectory() string {
	if dir := strings.TrimSpace(c.OutputDir); dir != "" {
		return dir
	}
	return defaultOutputDir
}

// ChartFormat returns the lower-cased chart format, applying a default if not set.
func (c Config) ChartFormat() string {
	if f := strings.ToLower(strings.TrimSpace(c.Format)); f != "" {
		return f
	}
	return defaultFormat
}

// ChartSize returns the chart width and height in inches.
func (c Config) ChartSize() (float64, float64) {
	w, h := c.Width, c.Height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	return w, h
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return defaultLogFile
}

// PriceSupplied reports whether an instance price was configured.
func (c Config) PriceSupplied() bool {
	return c.InstancePricePerHour != nil
}

// Validate checks a merged configuration (file values plus flag overrides).
func (c Config) Validate() error {
	format := c.ChartFormat()
	supported := false
	for _, f := range SupportedFormats {
		if f == format {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("%w: unsupported chart format %q (want one of %s)", ErrInvalidConfig, c.Format, strings.Join(SupportedFormats, ", "))
	}
	if c.Width < 0 || c.Height < 0 {
		return fmt.Errorf("%w: chart size must be positive", ErrInvalidConfig)
	}
	if p := c.InstancePricePerHour; p != nil {
		if math.IsNaN(*p) || math.IsInf(*p, 0) || *p < 0 {
			return fmt.Errorf("%w: instance price per hour must be a non-negative number, got %v", ErrInvalidConfig, *p)
		}
	}
	return nil
}

// Load reads the application configuration from the specified path and
// validates it against the configuration schema.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("no configuration file found at %q: %w", path, err)
		}
		return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
	}

	if err := validateDocument(raw); err != nil {
		return Config{}, fmt.Errorf("config file %q: %w", path, err)
	}

	var config Config
	if err := json.Unmarshal(raw, &config); err != nil {
		return Config{}, fmt.Errorf("could not decode config file %q: %w", path, err)
	}
	config.ConfigPath = path
	if err := config.Validate(); err != nil {
		return Config{}, fmt.Errorf("config file %q: %w", path, err)
	}
	return config, nil
}

// validateDocument checks raw JSON against configSchema.
func validateDocument(raw []byte) error {
	result, err := gojsonschema.Validate(gojsonschema.NewStringLoader(configSchema), gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if result.Valid() {
		return nil
	}
	var details []string
	for _, desc := range result.Errors() {
		details = append(details, desc.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(details, "; "))
}
