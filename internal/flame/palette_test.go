package flame

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultPaletteEndpoints(t *testing.T) {
	p := DefaultPalette()
	assert.Equal(t, Color{0, 0, 0}, p.Color(0))
	assert.Equal(t, Color{255, 255, 255}, p.Color(255))
	// quarter intensity sits in the deep reds
	c := p.Color(64)
	assert.Greater(t, int(c.R), 100)
	assert.Equal(t, uint8(0), c.B)
}

func TestPaletteMonotoneLuminance(t *testing.T) {
	p := DefaultPalette()
	prev := -1
	for v := 0; v <= 255; v++ {
		c := p.Color(uint8(v))
		sum := int(c.R) + int(c.G) + int(c.B)
		if sum < prev {
			t.Fatalf("channel sum decreased at heat %d: %d -> %d", v, prev, sum)
		}
		prev = sum
	}
}

func TestNewPaletteRejectsBadTables(t *testing.T) {
	_, err := NewPalette([]Breakpoint{{0, Color{}}})
	assert.Error(t, err, "too short")

	_, err = NewPalette([]Breakpoint{{10, Color{}}, {255, Color{}}})
	assert.Error(t, err, "does not cover 0")

	_, err = NewPalette([]Breakpoint{{0, Color{}}, {200, Color{}}})
	assert.Error(t, err, "does not cover 255")

	_, err = NewPalette([]Breakpoint{{0, Color{}}, {128, Color{}}, {64, Color{}}, {255, Color{}}})
	assert.Error(t, err, "thresholds out of order")
}

func TestCustomPaletteInterpolation(t *testing.T) {
	p, err := NewPalette([]Breakpoint{
		{0, Color{0, 0, 0}},
		{100, Color{200, 100, 50}},
		{255, Color{200, 100, 50}},
	})
	assert.NoError(t, err)
	assert.Equal(t, Color{100, 50, 25}, p.Color(50))
	assert.Equal(t, Color{200, 100, 50}, p.Color(180))
}
