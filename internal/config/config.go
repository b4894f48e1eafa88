// Package config loads the tenderkit settings from a TOML file and
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap/zapcore"

	"tenderkit/internal/i18n"
)

// ErrConfig is wrapped by every load and validation failure
var ErrConfig = errors.New("config")

// DefaultPath is read by the CLI when no --config flag is given
const DefaultPath = "tenderkit.toml"

// Config is the root configuration
type Config struct {
	App     AppConfig     `toml:"app"`
	Paths   PathsConfig   `toml:"paths"`
	Logging LoggingConfig `toml:"logging"`
	Format  FormatConfig  `toml:"format"`
	KWIC    KWICConfig    `toml:"kwic"`
	Export  ExportConfig  `toml:"export"`
}

type AppConfig struct {
	Name     string `toml:"name"`
	Version  string `toml:"version"`
	Language string `toml:"language"`
}

// PathsConfig holds directories relative to Base unless absolute
type PathsConfig struct {
	Base    string `toml:"base"`
	Uploads string `toml:"uploads"`
	Reports string `toml:"reports"`
}

type LoggingConfig struct {
	Level      string `toml:"level"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	Stdout     bool   `toml:"stdout"`
}

type FormatConfig struct {
	Currency string `toml:"currency"`
}

type KWICConfig struct {
	Window int `toml:"window"`
}

type ExportConfig struct {
	SheetName   string `toml:"sheet_name"`
	RightToLeft bool   `toml:"right_to_left"`
}

// Defaults returns the configuration used when no file is present
func Defaults() *Config {
	return &Config{
		App: AppConfig{
			Name:     "TenderAnalysisSystem",
			Version:  "1.0.0",
			Language: i18n.DefaultLanguage,
		},
		Paths: PathsConfig{
			Base:    ".",
			Uploads: "data/uploads",
			Reports: "reports",
		},
		Logging: LoggingConfig{
			Level:      "info",
			File:       "logs/app.log",
			MaxSizeMB:  10,
			MaxBackups: 5,
			Stdout:     true,
		},
		Format: FormatConfig{
			Currency: "ريال",
		},
		KWIC: KWICConfig{
			Window: 50,
		},
		Export: ExportConfig{
			SheetName:   "Sheet1",
			RightToLeft: true,
		},
	}
}

// Load reads path over the defaults, applies TENDERKIT_* overrides and
// validates the result. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		_, err := toml.DecodeFile(path, cfg)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: parsing %s: %w", ErrConfig, path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: validation: %w", ErrConfig, err)
	}

	return cfg, nil
}

// Validate checks that the values are usable
func (c *Config) Validate() error {
	var errs []string

	if c.App.Name == "" {
		errs = append(errs, "app.name is required")
	}

	if !i18n.IsSupported(c.App.Language) {
		errs = append(errs, fmt.Sprintf("app.language %q is not supported", c.App.Language))
	}

	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Sprintf("logging.level %q is invalid", c.Logging.Level))
	}

	if c.Logging.MaxSizeMB < 1 {
		errs = append(errs, "logging.max_size_mb must be positive")
	}

	if c.Logging.MaxBackups < 0 {
		errs = append(errs, "logging.max_backups must not be negative")
	}

	if c.KWIC.Window < 0 {
		errs = append(errs, "kwic.window must not be negative")
	}

	if strings.TrimSpace(c.Export.SheetName) == "" {
		errs = append(errs, "export.sheet_name is required")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

// Path resolves p against Paths.Base unless it is absolute
func (c *Config) Path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}

	return filepath.Join(c.Paths.Base, filepath.FromSlash(p))
}

// applyEnvOverrides reads TENDERKIT_* environment variables
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TENDERKIT_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	if v := os.Getenv("TENDERKIT_BASE_DIR"); v != "" {
		cfg.Paths.Base = v
	}

	if v := os.Getenv("TENDERKIT_LANGUAGE"); v != "" {
		cfg.App.Language = i18n.Resolve(v)
	}
}
