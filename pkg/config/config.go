// Package config loads the application configuration file. Files may be JSON
// or YAML; missing values fall back to the built-in defaults so a partial file
// is always usable.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the settings shared by the web and terminal binaries.
type Config struct {
	// Listen is the address the web server binds to.
	Listen string `json:"listen" yaml:"listen"`
	// Endpoint is the URL of the image generation service.
	Endpoint string `json:"endpoint" yaml:"endpoint"`
	// Timeout bounds a single generation request, e.g. "30s".
	Timeout string `json:"timeout" yaml:"timeout"`
	// Output is the default filename the terminal client writes to.
	Output string `json:"output" yaml:"output"`
	// Theme selects the page theme by name and optional variant.
	Theme ThemeConfig `json:"theme" yaml:"theme"`
}

// ThemeConfig identifies a registered theme.
type ThemeConfig struct {
	Name    string `json:"name" yaml:"name"`
	Variant string `json:"variant" yaml:"variant"`
}

// Default returns the configuration used when no file is supplied.
func Default() Config {
	return Config{
		Listen:   ":8080",
		Endpoint: "http://localhost:9091/api/qrcode",
		Timeout:  "30s",
		Output:   "qrcode.png",
		Theme:    ThemeConfig{Name: "default"},
	}
}

// Load reads the file at path and merges it over the defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes raw configuration bytes, merges them over the defaults, and
// validates the result. The source name is only used in error messages.
func Parse(data []byte, source string) (Config, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Config{}, fmt.Errorf("config: file %s is empty", source)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", source, err)
	}

	cfg := Default().merge(file)
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config: file %s: %w", source, err)
	}
	return cfg, nil
}

// RequestTimeout parses the configured timeout.
func (c Config) RequestTimeout() (time.Duration, error) {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("config: timeout %q: %w", c.Timeout, err)
	}
	return d, nil
}

func (c Config) merge(overlay Config) Config {
	out := c
	if v := strings.TrimSpace(overlay.Listen); v != "" {
		out.Listen = v
	}
	if v := strings.TrimSpace(overlay.Endpoint); v != "" {
		out.Endpoint = v
	}
	if v := strings.TrimSpace(overlay.Timeout); v != "" {
		out.Timeout = v
	}
	if v := strings.TrimSpace(overlay.Output); v != "" {
		out.Output = v
	}
	if v := strings.TrimSpace(overlay.Theme.Name); v != "" {
		out.Theme.Name = v
	}
	if v := strings.TrimSpace(overlay.Theme.Variant); v != "" {
		out.Theme.Variant = v
	}
	return out
}

func (c Config) validate() error {
	if c.Endpoint == "" {
		return errors.New("endpoint must not be empty")
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("timeout %q is not a duration", c.Timeout)
	}
	return nil
}
