// Package config loads the harness settings from an optional TOML file and the command line.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/Carmen-Shannon/oxy-xr/common"
	"github.com/pelletier/go-toml/v2"
)

var (
	// ErrInvalidPresentMode is returned when renderer.present_mode names an unknown mode.
	ErrInvalidPresentMode = errors.New("invalid present mode")

	// ErrInvalidWindowSize is returned when the configured window size is negative.
	ErrInvalidWindowSize = errors.New("invalid window size")
)

const (
	PresentModeImmediate = "immediate"
	PresentModeFifo      = "fifo"
)

// Config is the full harness configuration. Zero fields are filled from Default when loaded.
type Config struct {
	Window   WindowConfig   `toml:"window"`
	Renderer RendererConfig `toml:"renderer"`
	Log      LogConfig      `toml:"log"`
	XR       XRConfig       `toml:"xr"`
}

type WindowConfig struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
}

type RendererConfig struct {
	// PresentMode is "immediate" (no compositor pacing) or "fifo" (vsync).
	PresentMode          string   `toml:"present_mode"`
	ForceFallbackAdapter bool     `toml:"force_fallback_adapter"`
	Features             []string `toml:"features"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type XRConfig struct {
	// DisplayPeriodMs is the frame period of the simulated XR runtime.
	DisplayPeriodMs float64 `toml:"display_period_ms"`
}

// Options are the startup flags. XR selects the stereo frame source for the whole run.
type Options struct {
	XR         bool
	ConfigPath string
}

// Default returns the configuration used when no file is given.
//
// Returns:
//   - Config: the default configuration
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:  "oxy-xr",
			Width:  1280,
			Height: 720,
		},
		Renderer: RendererConfig{
			PresentMode: PresentModeImmediate,
		},
		Log: LogConfig{
			Level: "info",
		},
		XR: XRConfig{
			DisplayPeriodMs: 1000.0 / 90.0,
		},
	}
}

// Load reads a TOML file and merges it over Default. An empty path returns Default unchanged.
//
// Parameters:
//   - path: path to the TOML file, or "" for defaults
//
// Returns:
//   - Config: the merged, validated configuration
//   - error: an error if the file cannot be read, decoded or validated
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %q: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes TOML bytes and merges them over Default.
//
// Parameters:
//   - data: TOML document
//
// Returns:
//   - Config: the merged, validated configuration
//   - error: an error if decoding or validation fails
func Parse(data []byte) (Config, error) {
	var c Config
	if err := toml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	c = c.withDefaults()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks the fields Load cannot default away.
//
// Returns:
//   - error: ErrInvalidPresentMode or ErrInvalidWindowSize (wrapped), otherwise nil
func (c Config) Validate() error {
	switch c.Renderer.PresentMode {
	case PresentModeImmediate, PresentModeFifo:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidPresentMode, c.Renderer.PresentMode)
	}
	if c.Window.Width < 0 || c.Window.Height < 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidWindowSize, c.Window.Width, c.Window.Height)
	}
	return nil
}

// Encode renders the configuration as TOML, used to write a starter file.
//
// Returns:
//   - []byte: the TOML document
//   - error: an error if encoding fails
func (c Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}

func (c Config) withDefaults() Config {
	d := Default()
	c.Window.Title = common.Coalesce(c.Window.Title, d.Window.Title)
	c.Window.Width = common.Coalesce(c.Window.Width, d.Window.Width)
	c.Window.Height = common.Coalesce(c.Window.Height, d.Window.Height)
	c.Renderer.PresentMode = strings.ToLower(common.Coalesce(c.Renderer.PresentMode, d.Renderer.PresentMode))
	c.Log.Level = common.Coalesce(c.Log.Level, d.Log.Level)
	c.XR.DisplayPeriodMs = common.Coalesce(c.XR.DisplayPeriodMs, d.XR.DisplayPeriodMs)
	return c
}

// ParseFlags reads the startup flags from args (without the program name).
//
// Parameters:
//   - args: command line arguments, usually os.Args[1:]
//
// Returns:
//   - Options: the parsed flags
//   - error: an error for unknown or malformed flags
func ParseFlags(args []string) (Options, error) {
	var o Options
	fs := flag.NewFlagSet("oxy-xr", flag.ContinueOnError)
	fs.BoolVar(&o.XR, "xr", false, "route frames through the XR bridge")
	fs.StringVar(&o.ConfigPath, "config", "", "path to a TOML configuration file")
	if err := fs.Parse(args); err != nil {
		return Options{}, err
	}
	return o, nil
}
