package kosu

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	ConfigEnv         = "KOSU_CONFIG"
	DefaultConfigFile = "kosu.yaml"

	ReporterConsole = "console"
	ReporterNone    = "none"
)

// Config holds runtime configuration settings for kosu.
// Settings are merged from the config file and code options (last wins).
type Config struct {
	// LogLevel is one of debug, info, warn or error. Default: info.
	LogLevel string `yaml:"log_level"`

	// LogFormat is text or json. Default: text.
	LogFormat string `yaml:"log_format"`

	// DefaultTimeout applies to tests that declare no timeout of their
	// own. Zero disables it.
	DefaultTimeout time.Duration `yaml:"default_timeout"`

	// Filters are filter specs applied before the command line filters.
	// As the last filter wins, a --filter on the command line replaces them.
	Filters []string `yaml:"filters"`

	// MetricsFile, when set, receives the run metrics in the Prometheus
	// text format after Main finishes.
	MetricsFile string `yaml:"metrics_file"`

	// Reporter selects the output Main prints while running: console or
	// none. Default: console.
	Reporter string `yaml:"reporter"`

	// NoColor disables ANSI colors in the console output.
	NoColor bool `yaml:"no_color"`

	// HTMLReport, when set, receives a self-contained HTML report after
	// Main finishes.
	HTMLReport string `yaml:"html_report"`
}

// ConfigPath returns the config file named by KOSU_CONFIG, or kosu.yaml.
func ConfigPath() string {
	if path := os.Getenv(ConfigEnv); path != "" {
		return path
	}
	return DefaultConfigFile
}

// LoadConfig reads the YAML config file at path. A missing file yields an
// empty config.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not read config %s: %w", path, err)
	}

	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("could not parse config %s: %w", path, err)
	}
	return config, nil
}

// MergeConfigs combines multiple configs into one.
// Later configs override earlier ones (last wins).
func MergeConfigs(configs ...*Config) *Config {
	result := &Config{}

	for _, cfg := range configs {
		if cfg == nil {
			continue
		}

		if cfg.LogLevel != "" {
			result.LogLevel = cfg.LogLevel
		}
		if cfg.LogFormat != "" {
			result.LogFormat = cfg.LogFormat
		}
		if cfg.DefaultTimeout != 0 {
			result.DefaultTimeout = cfg.DefaultTimeout
		}
		if len(cfg.Filters) > 0 {
			result.Filters = append([]string(nil), cfg.Filters...)
		}
		if cfg.MetricsFile != "" {
			result.MetricsFile = cfg.MetricsFile
		}
		if cfg.Reporter != "" {
			result.Reporter = cfg.Reporter
		}
		if cfg.NoColor {
			result.NoColor = true
		}
		if cfg.HTMLReport != "" {
			result.HTMLReport = cfg.HTMLReport
		}
	}

	return result
}
