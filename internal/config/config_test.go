package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"disabled", func(c *Config) { c.Enabled = false }},
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"zero pixels", func(c *Config) { c.NumPixels = 0 }},
		{"pixels not multiple of width", func(c *Config) { c.NumPixels = 63 }},
		{"bad origin", func(c *Config) { c.Origin = "middle" }},
		{"bad mode", func(c *Config) { c.Mode = "plasma" }},
		{"zero fps", func(c *Config) { c.FPS = 0 }},
		{"brightness too high", func(c *Config) { c.Brightness = 1.1 }},
		{"spark chance too high", func(c *Config) { c.SparkChance = 7 }},
		{"spark range inverted", func(c *Config) { c.SparkMin = 250; c.SparkMax = 100 }},
		{"spark max too big", func(c *Config) { c.SparkMax = 300 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := Default()
			tc.mutate(c)
			if err := c.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestHeightDerivation(t *testing.T) {
	c := Default()
	c.Width = 8
	c.NumPixels = 64
	if got := c.Height(); got != 8 {
		t.Fatalf("expected height 8, got %d", got)
	}
	c.Width = 64
	if got := c.Height(); got != 1 {
		t.Fatalf("expected strip height 1, got %d", got)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	c := Default()
	c.Mode = "columns"
	c.Width = 30
	c.NumPixels = 30
	c.VirtualHeight = 10
	if err := Save(path, c); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Mode != "columns" || got.Width != 30 || got.VirtualHeight != 10 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if err := got.Validate(); err != nil {
		t.Fatalf("loaded config invalid: %v", err)
	}
}

func TestLoadTracksBoolPresence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	// neither bool key present
	if err := os.WriteFile(path, []byte("width: 16\nnum_pixels: 256\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.HasEnabled() || c.HasZigzag() {
		t.Fatalf("absent keys reported as set: enabled=%v zigzag=%v", c.HasEnabled(), c.HasZigzag())
	}

	// explicit false must be distinguishable from absent
	if err := os.WriteFile(path, []byte("enabled: false\nzigzag: false\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err = Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !c.HasEnabled() || !c.HasZigzag() {
		t.Fatal("explicit keys not reported as set")
	}
	if c.Enabled || c.Zigzag {
		t.Fatalf("explicit false lost: %+v", c)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); !os.IsNotExist(err) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestEngineOptionsCarryTunables(t *testing.T) {
	c := Default()
	c.Cooling = 30
	c.SparkChance = 0.9
	c.Seed = 123
	opts := c.EngineOptions()
	if opts.Params.Cooling != 30 || opts.Params.SparkChance != 0.9 {
		t.Fatalf("tunables lost: %+v", opts.Params)
	}
	if opts.Seed != 123 {
		t.Fatalf("seed lost: %d", opts.Seed)
	}
	if opts.Layout.Width != 8 || opts.Layout.Height != 8 {
		t.Fatalf("layout mismatch: %+v", opts.Layout)
	}
}
