package config

import (
	"encoding/json"
	"fmt"
	"image/color"
	"os"
	"runtime"
	"strconv"
	"strings"
)

// Config holds viewer and render settings.
type Config struct {
	// Colors as "R,G,B"
	Background string `json:"background"`
	BaseColor  string `json:"base_color"`

	// Viewer
	FPS        int  `json:"fps"`
	Wireframe  bool `json:"wireframe"`
	AutoRotate bool `json:"auto_rotate"`
	ShowAxes   bool `json:"show_axes"`

	// Render settings
	FOV       float64 `json:"fov_degrees"`
	ModelSize float64 `json:"model_size"` // Largest model extent after normalizing
	Workers   int     `json:"workers"`
}

// Defaults returns the built-in settings.
func Defaults() Config {
	c := Config{}
	c.Resolve(Flags{})
	return c
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Background string
	BaseColor  string
	FPS        int
	Workers    int
	FOV        float64
	Wireframe  bool
	AutoRotate bool
}

// Resolve applies flags over the file values, then fills anything still
// unset with defaults. Flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.Background != "" {
		c.Background = flags.Background
	}
	if flags.BaseColor != "" {
		c.BaseColor = flags.BaseColor
	}
	if flags.FPS > 0 {
		c.FPS = flags.FPS
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.FOV > 0 {
		c.FOV = flags.FOV
	}
	c.Wireframe = c.Wireframe || flags.Wireframe
	c.AutoRotate = c.AutoRotate || flags.AutoRotate

	// Defaults
	if c.Background == "" {
		c.Background = "30,30,40"
	}
	if c.BaseColor == "" {
		c.BaseColor = "200,200,200"
	}
	if c.FPS <= 0 {
		c.FPS = 60
	}
	if c.FOV <= 0 {
		c.FOV = 45
	}
	if c.ModelSize <= 0 {
		c.ModelSize = 150
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}

// Validate rejects values the renderer cannot use.
func (c Config) Validate() error {
	if _, err := ParseRGB(c.Background); err != nil {
		return fmt.Errorf("config: background: %w", err)
	}
	if _, err := ParseRGB(c.BaseColor); err != nil {
		return fmt.Errorf("config: base_color: %w", err)
	}
	if c.FPS < 1 || c.FPS > 240 {
		return fmt.Errorf("config: fps %d not in [1, 240]", c.FPS)
	}
	if c.FOV <= 0 || c.FOV >= 180 {
		return fmt.Errorf("config: fov_degrees %v not in (0, 180)", c.FOV)
	}
	if c.ModelSize <= 0 {
		return fmt.Errorf("config: model_size %v must be positive", c.ModelSize)
	}
	if c.Workers < 1 {
		return fmt.Errorf("config: workers %d must be at least 1", c.Workers)
	}
	return nil
}

// ParseRGB parses "R,G,B" with each channel in [0, 255].
func ParseRGB(s string) (color.RGBA, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return color.RGBA{}, fmt.Errorf("color %q: want R,G,B", s)
	}

	var ch [3]uint8
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("color %q: channel %d: %w", s, i, err)
		}
		ch[i] = uint8(v)
	}
	return color.RGBA{ch[0], ch[1], ch[2], 255}, nil
}
