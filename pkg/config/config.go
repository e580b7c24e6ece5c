// Package config loads and validates build parameters for depviz.
//
// Parameters come from a TOML file, command-line flags, or both; flags win.
// Validation happens here, before a build starts - the graph engine itself
// never raises configuration errors.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/depviz/pkg/errors"
)

// Mode selects which dependency source a build reads from.
type Mode string

const (
	// ModeLocal reads per-package manifests from a directory tree.
	ModeLocal Mode = "local"
	// ModeRegistry queries an npm-compatible registry over HTTP.
	ModeRegistry Mode = "registry"
	// ModeGraphFile loads a precomputed JSON adjacency file.
	ModeGraphFile Mode = "graphfile"
)

// Modes lists the valid mode names for help text and error messages.
func Modes() []string {
	return []string{string(ModeLocal), string(ModeRegistry), string(ModeGraphFile)}
}

// ParseMode converts a mode name to a [Mode].
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeLocal, ModeRegistry, ModeGraphFile:
		return Mode(s), nil
	default:
		return "", errors.New(errors.ErrCodeConfig, "invalid mode %q (valid: %s)", s, strings.Join(Modes(), ", "))
	}
}

// Config holds the parameters of one build invocation.
type Config struct {
	Package     string `toml:"package"`      // root package name
	Mode        string `toml:"mode"`         // local, registry or graphfile
	Locator     string `toml:"locator"`      // manifest directory or adjacency file path
	RegistryURL string `toml:"registry_url"` // registry base URL override (registry mode)
	ShowReverse bool   `toml:"show_reverse"` // print the reverse-dependency report
	ExportDOT   bool   `toml:"export_dot"`   // write the graph as a DOT file
	RenderImage bool   `toml:"render_image"` // additionally render the DOT export as SVG
	Output      string `toml:"output"`       // base path for exported files
}

// Default returns the configuration used when no file or flags are given.
func Default() Config {
	return Config{Mode: string(ModeLocal)}
}

// Load reads a TOML configuration file over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeConfig, err, "configuration file %s not found", path)
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeConfig, err, "parse configuration file %s", path)
	}
	return cfg, nil
}

// Validate checks that the configuration describes a runnable build:
// a non-blank package name, a known mode, and a locator that matches the
// mode (an existing directory for local, an existing file for graphfile,
// an http(s) base URL for registry overrides).
func (c Config) Validate() error {
	if strings.TrimSpace(c.Package) == "" {
		return errors.New(errors.ErrCodeConfig, "package name must not be empty")
	}

	mode, err := ParseMode(c.Mode)
	if err != nil {
		return err
	}

	switch mode {
	case ModeLocal, ModeGraphFile:
		if c.Locator == "" {
			return errors.New(errors.ErrCodeConfig, "mode %s requires a locator path", mode)
		}
		if _, err := os.Stat(c.Locator); err != nil {
			return errors.New(errors.ErrCodeConfig, "locator %s not found", c.Locator)
		}
	case ModeRegistry:
		if c.RegistryURL != "" && !strings.HasPrefix(c.RegistryURL, "http://") && !strings.HasPrefix(c.RegistryURL, "https://") {
			return errors.New(errors.ErrCodeConfig, "registry URL must start with http:// or https://")
		}
	}
	return nil
}

// String renders the configuration as key-value lines for the
// configuration echo at the start of a run.
func (c Config) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "package: %s\n", c.Package)
	fmt.Fprintf(&b, "mode: %s\n", c.Mode)
	if c.Locator != "" {
		fmt.Fprintf(&b, "locator: %s\n", c.Locator)
	}
	if c.RegistryURL != "" {
		fmt.Fprintf(&b, "registry_url: %s\n", c.RegistryURL)
	}
	fmt.Fprintf(&b, "show_reverse: %t\n", c.ShowReverse)
	fmt.Fprintf(&b, "export_dot: %t\n", c.ExportDOT)
	fmt.Fprintf(&b, "render_image: %t", c.RenderImage)
	return b.String()
}
