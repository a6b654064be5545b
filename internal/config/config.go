package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/coreman2200/funtimes-flamestrip/internal/flame"
	"github.com/coreman2200/funtimes-flamestrip/internal/layout"
)

type SPI struct {
	Dev     string `yaml:"dev"`      // e.g. /dev/spidev0.0
	SpeedHz int    `yaml:"speed_hz"` // e.g. 2400000
	ResetUs int    `yaml:"reset_us"` // e.g. 300
}

type Shimmer struct {
	Min  float64 `yaml:"min"`
	Max  float64 `yaml:"max"`
	Step float64 `yaml:"step"`
}

type Config struct {
	Enabled bool   `yaml:"enabled"`
	Driver  string `yaml:"driver"` // "spi" | "nrz" | "term" | "sim"
	Port    string `yaml:"port"`   // periph spireg name for the nrz driver

	Width     int    `yaml:"width"`
	NumPixels int    `yaml:"num_pixels"`
	Zigzag    bool   `yaml:"zigzag"`
	Origin    string `yaml:"origin"` // tl | tr | bl | br
	Mode      string `yaml:"mode"`   // heat | columns

	FPS        int     `yaml:"fps"`
	Brightness float64 `yaml:"brightness"`

	Cooling       int     `yaml:"cooling"`
	SparkChance   float64 `yaml:"spark_chance"`
	SparkMin      int     `yaml:"spark_min"`
	SparkMax      int     `yaml:"spark_max"`
	VirtualHeight int     `yaml:"virtual_height"`

	Shimmer Shimmer `yaml:"shimmer"`
	Seed    uint64  `yaml:"seed,omitempty"`

	Addr string `yaml:"addr,omitempty"` // preview server listen address
	SPI  SPI    `yaml:"spi,omitempty"`

	// set by Load; a false bool in yaml is indistinguishable from an
	// absent key after plain unmarshal, so presence is tracked here
	enabledSet bool
	zigzagSet  bool
}

// HasEnabled reports whether the loaded file set the enabled key.
func (c *Config) HasEnabled() bool { return c.enabledSet }

// HasZigzag reports whether the loaded file set the zigzag key.
func (c *Config) HasZigzag() bool { return c.zigzagSet }

// Default returns a config for a small serpentine matrix on the sim
// driver, matching the original deployment's tuning.
func Default() *Config {
	return &Config{
		Enabled:     true,
		Driver:      "sim",
		Width:       8,
		NumPixels:   64,
		Zigzag:      true,
		Origin:      "bl",
		Mode:        "heat",
		FPS:         40,
		Brightness:  0.8,
		Cooling:     55,
		SparkChance: 0.45,
		SparkMin:    160,
		SparkMax:    255,
		Shimmer:     Shimmer{Min: 0.15, Max: 1.0, Step: 0.02},
		SPI:         SPI{Dev: "/dev/spidev0.0", SpeedHz: 2400000, ResetUs: 300},
	}
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	var bools struct {
		Enabled *bool `yaml:"enabled"`
		Zigzag  *bool `yaml:"zigzag"`
	}
	if err := yaml.Unmarshal(b, &bools); err != nil {
		return nil, err
	}
	c.enabledSet = bools.Enabled != nil
	c.zigzagSet = bools.Zigzag != nil
	return &c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// Height derives the row count from the pixel count and width.
func (c *Config) Height() int {
	if c.Width <= 0 {
		return 0
	}
	return c.NumPixels / c.Width
}

// Validate checks everything the engine needs before construction.
// All failures here are configuration errors; nothing is retried.
func (c *Config) Validate() error {
	if !c.Enabled {
		return fmt.Errorf("output disabled in config (enabled: false)")
	}
	if c.Width <= 0 {
		return fmt.Errorf("width must be > 0, got %d", c.Width)
	}
	if c.NumPixels <= 0 {
		return fmt.Errorf("num_pixels must be > 0, got %d", c.NumPixels)
	}
	if c.NumPixels%c.Width != 0 {
		return fmt.Errorf("num_pixels %d is not a multiple of width %d", c.NumPixels, c.Width)
	}
	if _, err := layout.ParseOrigin(c.Origin); err != nil {
		return err
	}
	if _, err := flame.ParseMode(c.Mode); err != nil {
		return err
	}
	if c.FPS <= 0 {
		return fmt.Errorf("fps must be > 0, got %d", c.FPS)
	}
	if c.Brightness < 0 || c.Brightness > 1 {
		return fmt.Errorf("brightness %g outside [0,1]", c.Brightness)
	}
	if c.SparkChance < 0 || c.SparkChance > 1 {
		return fmt.Errorf("spark_chance %g outside [0,1]", c.SparkChance)
	}
	if c.SparkMin < 0 || c.SparkMax > 255 || c.SparkMin > c.SparkMax {
		return fmt.Errorf("spark range [%d,%d] outside [0,255]", c.SparkMin, c.SparkMax)
	}
	return nil
}

// Layout builds the pixel mapping described by the config. Call
// Validate first.
func (c *Config) Layout() layout.Layout {
	origin, _ := layout.ParseOrigin(c.Origin)
	return layout.Layout{
		Width:  c.Width,
		Height: c.Height(),
		Zigzag: c.Zigzag,
		Origin: origin,
	}
}

// EngineOptions assembles the flame engine construction parameters.
func (c *Config) EngineOptions() flame.Options {
	mode, _ := flame.ParseMode(c.Mode)
	return flame.Options{
		Layout: c.Layout(),
		Mode:   mode,
		Params: flame.Params{
			Cooling:     c.Cooling,
			SparkChance: c.SparkChance,
			SparkMin:    uint8(c.SparkMin),
			SparkMax:    uint8(c.SparkMax),
		},
		VirtualHeight: c.VirtualHeight,
		Brightness:    c.Brightness,
		Shimmer:       flame.Shimmer{Min: c.Shimmer.Min, Max: c.Shimmer.Max, Step: c.Shimmer.Step},
		Seed:          c.Seed,
	}
}
