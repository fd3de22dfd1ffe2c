// Package config loads and validates the mermaidpipe TOML configuration.
// Every field has a working default so a missing config file is not an
// error; CLI flags override file values after loading.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/mermaid-tools/mermaidpipe/core"
)

// DefaultFile is the config file name looked up in the working directory.
const DefaultFile = "mermaidpipe.toml"

// Config holds the document-wide processing settings.
type Config struct {
	OutputDir       string `toml:"output_dir"`
	ImageFormat     string `toml:"image_format"`
	Theme           string `toml:"theme"`
	Width           int    `toml:"width"`
	Height          int    `toml:"height"`
	Background      string `toml:"background"`
	Scale           int    `toml:"scale"`
	CSSFile         string `toml:"css_file"`
	MermaidConfig   string `toml:"mermaid_config"`
	PuppeteerConfig string `toml:"puppeteer_config"`
	MmdcPath        string `toml:"mmdc_path"`
	ErrorOnFail     bool   `toml:"error_on_fail"`
	KeepSource      bool   `toml:"keep_source"`
	LogLevel        string `toml:"log_level"`
}

// Default returns the configuration used when no file and no flags are given.
func Default() Config {
	return Config{
		OutputDir:   "assets/images",
		ImageFormat: "svg",
		Theme:       "default",
		Width:       800,
		Height:      600,
		Background:  "white",
		Scale:       1,
		MmdcPath:    "mmdc",
		ErrorOnFail: true,
		KeepSource:  false,
		LogLevel:    "info",
	}
}

// Load reads the config file at path on top of the defaults. A missing file
// at the default location is fine; an explicitly named missing file is not.
func Load(path string, explicit bool) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, &core.FileError{
			Message:    "reading config file",
			Path:       path,
			Op:         "read",
			Suggestion: "check the --config path or remove the flag to use defaults",
			Err:        err,
		}
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, &core.ConfigError{
			Message:    fmt.Sprintf("parsing %s: %v", path, err),
			Suggestion: "check the TOML syntax of the config file",
		}
	}
	return cfg, nil
}

var validThemes = map[string]bool{
	"default": true,
	"dark":    true,
	"forest":  true,
	"neutral": true,
}

var validFormats = map[string]bool{
	"svg": true,
	"png": true,
}

// Validate rejects settings that would fail mid-run: unknown themes and
// formats, non-positive dimensions, and configured files that do not exist.
func (c Config) Validate() error {
	if !validFormats[c.ImageFormat] {
		return &core.ConfigError{
			Message:    fmt.Sprintf("unknown image format %q", c.ImageFormat),
			Key:        "image_format",
			Suggestion: "use svg or png",
		}
	}
	if !validThemes[c.Theme] {
		return &core.ConfigError{
			Message:    fmt.Sprintf("unknown theme %q", c.Theme),
			Key:        "theme",
			Suggestion: "use default, dark, forest, or neutral",
		}
	}
	if c.Width <= 0 {
		return &core.ConfigError{
			Message:    fmt.Sprintf("width must be positive, got %d", c.Width),
			Key:        "width",
			Suggestion: "set a positive pixel width",
		}
	}
	if c.Height <= 0 {
		return &core.ConfigError{
			Message:    fmt.Sprintf("height must be positive, got %d", c.Height),
			Key:        "height",
			Suggestion: "set a positive pixel height",
		}
	}
	if c.Scale <= 0 {
		return &core.ConfigError{
			Message:    fmt.Sprintf("scale must be positive, got %d", c.Scale),
			Key:        "scale",
			Suggestion: "set a positive scale factor",
		}
	}
	if c.CSSFile != "" {
		if _, err := os.Stat(c.CSSFile); err != nil {
			return &core.FileError{
				Message:    "configured CSS file not found",
				Path:       c.CSSFile,
				Op:         "read",
				Suggestion: "check the css_file path",
				Err:        err,
			}
		}
	}
	if c.PuppeteerConfig != "" {
		if _, err := os.Stat(c.PuppeteerConfig); err != nil {
			return &core.FileError{
				Message:    "configured puppeteer config not found",
				Path:       c.PuppeteerConfig,
				Op:         "read",
				Suggestion: "check the puppeteer_config path",
				Err:        err,
			}
		}
	}
	return nil
}

// RenderOptions converts the document-wide settings into the base render
// options merged with per-block attributes.
func (c Config) RenderOptions() core.RenderOptions {
	return core.RenderOptions{
		Theme:      c.Theme,
		Background: c.Background,
		Width:      c.Width,
		Height:     c.Height,
		Scale:      c.Scale,
		Format:     c.ImageFormat,
		CSSFile:    c.CSSFile,
	}
}
