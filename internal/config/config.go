package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "fxstory/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Input     InputConfig     `yaml:"input" envconfig:"INPUT"`
	Output    OutputConfig    `yaml:"output" envconfig:"OUTPUT"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
	Story     StoryConfig     `yaml:"story" envconfig:"STORY"`
}

// InputConfig describes the rate history file
type InputConfig struct {
	Path       string `yaml:"path" split_words:"true" validate:"required"`
	Delimiter  string `yaml:"delimiter" split_words:"true" validate:"len=1"`
	TimeColumn string `yaml:"time_column" split_words:"true" validate:"required"`
	DateLayout string `yaml:"date_layout" split_words:"true" validate:"required"`
	Sentinel   string `yaml:"sentinel" split_words:"true" validate:"required"`
}

// OutputConfig contains the locations and sizes of run artifacts
type OutputConfig struct {
	Dir          string `yaml:"dir" split_words:"true" validate:"required"`
	ChartsDir    string `yaml:"charts_dir" split_words:"true" validate:"required"`
	ReportsDir   string `yaml:"reports_dir" split_words:"true" validate:"required"`
	ChartWidth   int    `yaml:"chart_width" split_words:"true" validate:"min=400,max=8000"`
	ChartHeight  int    `yaml:"chart_height" split_words:"true" validate:"min=300,max=8000"`
	WriteReports bool   `yaml:"write_reports" split_words:"true"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" split_words:"true" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" split_words:"true" validate:"oneof=json text"`
	Output   string `yaml:"output" split_words:"true" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" split_words:"true" validate:"required_unless=Output console"`
	// Truncate starts a fresh log file on every run instead of appending.
	Truncate bool `yaml:"truncate" split_words:"true"`
}

// TelemetryConfig controls tracing and the metrics textfile
type TelemetryConfig struct {
	ServiceName   string `yaml:"service_name" split_words:"true" validate:"required"`
	TraceExporter string `yaml:"trace_exporter" split_words:"true" validate:"oneof=none stdout"`
	TraceFile     string `yaml:"trace_file" split_words:"true" validate:"required_if=TraceExporter stdout"`
	// MetricsFile is left empty to skip writing metrics.
	MetricsFile string `yaml:"metrics_file" split_words:"true"`
}

// Load builds the configuration from defaults, then the YAML file at path
// (or the first one found when path is empty), then FXS_* environment
// variables. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = getConfigFilePath()
	} else if _, err := os.Stat(path); err != nil {
		return nil, apperrors.NewConfigError("config file not readable", err).WithContext("path", path)
	}

	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, apperrors.NewConfigError("failed to load config from file", err).WithContext("path", path)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg. Keys absent from the file
// keep their current values.
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.UnmarshalStrict(data, cfg)
}

// getConfigFilePath returns the explicit config file or the first default
// location that exists. Empty means defaults and env only.
func getConfigFilePath() string {
	if path := os.Getenv(ConfigFileEnv); path != "" {
		return path
	}
	for _, location := range configFileLocations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

// Validate checks struct tags and the cross-field rules the tags cannot express.
func (c *Config) Validate() error {
	if err := newValidator().Struct(c); err != nil {
		return apperrors.NewConfigError("config validation failed", describeValidation(err))
	}
	for _, group := range []struct {
		name    string
		periods []PeriodConfig
	}{
		{"story.us_presidents", c.Story.USPresidents},
		{"story.br_presidents", c.Story.BRPresidents},
	} {
		if _, err := Periods(group.periods); err != nil {
			return apperrors.NewConfigError("config validation failed", fmt.Errorf("%s: %w", group.name, err))
		}
	}
	return nil
}

func newValidator() *validator.Validate {
	v := validator.New()
	// Report YAML key names rather than Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func describeValidation(err error) error {
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := strings.TrimPrefix(fe.Namespace(), "Config.")
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s=%s (got %v)", field, fe.Tag(), fe.Param(), fe.Value()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s", field, fe.Tag()))
		}
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Path:       DefaultInputPath,
			Delimiter:  ",",
			TimeColumn: DefaultTimeColumn,
			DateLayout: DefaultDateLayout,
			Sentinel:   DefaultSentinel,
		},
		Output: OutputConfig{
			Dir:          DefaultOutputDir,
			ChartsDir:    DefaultChartsDir,
			ReportsDir:   DefaultReportsDir,
			ChartWidth:   DefaultChartWidth,
			ChartHeight:  DefaultChartHeight,
			WriteReports: true,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "file",
			FilePath: DefaultLogFile,
			Truncate: true,
		},
		Telemetry: TelemetryConfig{
			ServiceName:   AppName,
			TraceExporter: "none",
			TraceFile:     DefaultTraceFile,
			MetricsFile:   DefaultMetricsFile,
		},
		Story: DefaultStory(),
	}
}
