package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "thermcli/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Report  ReportConfig  `yaml:"report" envconfig:"REPORT"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format      string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output      string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT" default:"true"`
}

// ReportConfig contains report generation settings. Face and core windows
// are 1-based offsets into the specimen rise columns; the workbook keeps
// these editable on its Config sheet after generation.
type ReportConfig struct {
	FaceStart        int     `yaml:"face_start" envconfig:"FACE_START" default:"1" validate:"gte=0"`
	FaceCount        int     `yaml:"face_count" envconfig:"FACE_COUNT" default:"5" validate:"gte=0"`
	CoreStart        int     `yaml:"core_start" envconfig:"CORE_START" default:"6" validate:"gte=0"`
	CoreCount        int     `yaml:"core_count" envconfig:"CORE_COUNT" default:"5" validate:"gte=0"`
	FurnaceMin       int     `yaml:"furnace_min" envconfig:"FURNACE_MIN" default:"300"`
	FurnaceMax       int     `yaml:"furnace_max" envconfig:"FURNACE_MAX" default:"400" validate:"gtfield=FurnaceMin"`
	ToleranceSeconds float64 `yaml:"tolerance_seconds" envconfig:"TOLERANCE_SECONDS" default:"0.6" validate:"gte=0"`
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	var cfg Config

	// Load from environment variables first
	if err := envconfig.Process("THERM", &cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	// Load from config file if exists
	configFile := getConfigFilePath()
	if configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, apperrors.NewConfigError("failed to load config from file", err).
				WithContext("path", configFile)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, apperrors.NewConfigError("config validation failed", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config with env config (env takes precedence)
func mergeConfigs(fileConfig, envConfig Config) Config {
	if envConfig.Logging.Level == "" {
		envConfig.Logging.Level = fileConfig.Logging.Level
	}
	if envConfig.Logging.FilePath == "" {
		envConfig.Logging.FilePath = fileConfig.Logging.FilePath
	}
	if envConfig.Report.FurnaceMin == 0 && fileConfig.Report.FurnaceMin != 0 {
		envConfig.Report.FurnaceMin = fileConfig.Report.FurnaceMin
	}
	if envConfig.Report.FurnaceMax == 0 && fileConfig.Report.FurnaceMax != 0 {
		envConfig.Report.FurnaceMax = fileConfig.Report.FurnaceMax
	}
	if envConfig.Report.ToleranceSeconds == 0 && fileConfig.Report.ToleranceSeconds != 0 {
		envConfig.Report.ToleranceSeconds = fileConfig.Report.ToleranceSeconds
	}

	return envConfig
}

// validate validates the configuration
func (c *Config) validate() error {
	v := validator.New()
	if err := v.Struct(c.Report); err != nil {
		return apperrors.NewAppValidationError(fmt.Sprintf("invalid report settings: %v", err))
	}

	if c.Logging.Format != "json" {
		c.Logging.Format = "json"
	}

	if c.Logging.Output != "both" && c.Logging.Output != "file" && c.Logging.Output != "console" {
		c.Logging.Output = "console"
	}

	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/app.log"
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	// Check for config file in common locations
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:       "info",
			Format:      "json",
			Output:      "console",
			FilePath:    "logs/app.log",
			Development: true,
		},
		Report: DefaultReportConfig(),
	}
}

// DefaultReportConfig returns the standard report settings: face group
// covering specimen thermocouples 1-5, core group 6-10, furnace channel
// ids in [300,400), and a 0.6 second minute-alignment tolerance.
func DefaultReportConfig() ReportConfig {
	return ReportConfig{
		FaceStart:        1,
		FaceCount:        5,
		CoreStart:        6,
		CoreCount:        5,
		FurnaceMin:       300,
		FurnaceMax:       400,
		ToleranceSeconds: 0.6,
	}
}
