package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/codalotl/halmos-report/internal/value"
)

const (
	// FileName is the config file looked up in the working directory.
	FileName = ".halmos-report.yml"

	// DefaultReportPath is where halmos writes --json-output in the usual project layout.
	DefaultReportPath = "halmos/out/halmos_test.json"

	reportEnvVar = "HALMOS_REPORT"
)

// Color modes accepted by Config.Color.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config represents the .halmos-report.yml file contents.
type Config struct {
	Report    string            `yaml:"report"`
	Color     string            `yaml:"color"`
	LogLevel  string            `yaml:"log-level"`
	Contracts StringList        `yaml:"contracts"`
	Selectors map[string]string `yaml:"selectors"`
}

// StringList allows unmarshalling a string or a slice of strings.
type StringList []string

// UnmarshalYAML makes StringList accept a string or a slice.
func (s *StringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var v string
		if err := value.Decode(&v); err != nil {
			return err
		}
		if v != "" {
			*s = []string{v}
		}
		return nil
	case yaml.SequenceNode:
		var vals []string
		if err := value.Decode(&vals); err != nil {
			return err
		}
		*s = vals
		return nil
	case 0:
		return nil
	default:
		return fmt.Errorf("expected string or list, got %v", value.Kind)
	}
}

// Default returns the config used when no file exists.
func Default() *Config {
	return &Config{Color: ColorAuto, LogLevel: "info"}
}

// Load reads a config from path. If path is empty, FileName in dir is used, and a missing file yields
// Default().
func Load(dir, path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = filepath.Join(dir, FileName)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks enumerated fields and selector keys.
func Validate(cfg *Config) error {
	if err := ValidateColor(cfg.Color); err != nil {
		return err
	}
	switch strings.ToLower(strings.TrimSpace(cfg.LogLevel)) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log-level must be one of debug, info, warn, error; got %q", cfg.LogLevel)
	}
	if _, err := cfg.SelectorTable(); err != nil {
		return err
	}
	return nil
}

// ValidateColor checks a --color / color: value.
func ValidateColor(mode string) error {
	switch mode {
	case "", ColorAuto, ColorAlways, ColorNever:
		return nil
	default:
		return fmt.Errorf("color must be one of auto, always, never; got %q", mode)
	}
}

// SelectorTable returns the built-in selector table extended with the configured selectors.
func (c *Config) SelectorTable() (value.Selectors, error) {
	return value.BuiltinSelectors().WithExtra(c.Selectors)
}

// ReportArg selects the report to read as the user named it: arg, then $HALMOS_REPORT, then the config,
// then DefaultReportPath.
func (c *Config) ReportArg(arg string) string {
	path := strings.TrimSpace(arg)
	if path == "" {
		path = strings.TrimSpace(os.Getenv(reportEnvVar))
	}
	if path == "" && c != nil {
		path = strings.TrimSpace(c.Report)
	}
	if path == "" {
		path = DefaultReportPath
	}
	return path
}

// ReportPath resolves ReportArg against root. Absolute paths are kept as is.
func (c *Config) ReportPath(root, arg string) string {
	path := c.ReportArg(arg)
	if filepath.IsAbs(path) || root == "" {
		return filepath.Clean(path)
	}
	return filepath.Join(root, filepath.Clean(path))
}
