package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Window holds the window and surface settings.
type Window struct {
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
	Title    string `yaml:"title"`
	VSync    bool   `yaml:"vsync"`
	MSAA     int    `yaml:"msaa"`     // 1 (off) or 4
	Software bool   `yaml:"software"` // force the fallback adapter
}

// Loader tunes the background asset loader.
type Loader struct {
	Workers int `yaml:"workers"`
}

// Config is the top-level yuletide.yaml document.
type Config struct {
	Assets   string `yaml:"assets"` // asset root, relative paths resolve against it
	Window   Window `yaml:"window"`
	Seed     *int64 `yaml:"seed,omitempty"` // nil seeds from the clock
	LogLevel string `yaml:"log_level"`

	Profile    bool    `yaml:"profile"`
	FrameLimit float64 `yaml:"frame_limit"` // fps cap, 0 = paced by the display

	Loader Loader `yaml:"loader"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Assets: "assets",
		Window: Window{
			Width:  1280,
			Height: 720,
			Title:  "Yuletide",
			VSync:  true,
			MSAA:   4,
		},
		LogLevel: "info",
		Loader:   Loader{Workers: 4},
	}
}

// Load reads a YAML config on top of Default. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	c := Default()
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Save writes c to path as YAML.
func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// Validate rejects values the window or renderer cannot be created with.
func (c *Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	case c.Window.MSAA != 1 && c.Window.MSAA != 4:
		return fmt.Errorf("msaa must be 1 or 4, got %d", c.Window.MSAA)
	case c.Loader.Workers < 0:
		return fmt.Errorf("loader.workers must not be negative, got %d", c.Loader.Workers)
	case c.FrameLimit < 0:
		return fmt.Errorf("frame_limit must not be negative, got %g", c.FrameLimit)
	}
	return nil
}
