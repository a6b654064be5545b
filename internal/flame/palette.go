package flame

import "fmt"

// Color is one LED's output value, 8 bits per channel.
type Color struct {
	R, G, B uint8
}

// Breakpoint anchors a color at a heat threshold.
type Breakpoint struct {
	Heat  uint8
	Color Color
}

// Palette maps heat (0..255) to a color by linear interpolation across
// a fixed breakpoint table. Immutable after construction.
type Palette struct {
	stops []Breakpoint
}

// NewPalette builds a palette from breakpoints. Thresholds must be
// non-decreasing and the table must cover 0 and 255 so the mapping is
// total over the heat range.
func NewPalette(stops []Breakpoint) (*Palette, error) {
	if len(stops) < 2 {
		return nil, fmt.Errorf("palette needs at least 2 breakpoints, got %d", len(stops))
	}
	if stops[0].Heat != 0 {
		return nil, fmt.Errorf("palette must start at heat 0, starts at %d", stops[0].Heat)
	}
	if stops[len(stops)-1].Heat != 255 {
		return nil, fmt.Errorf("palette must end at heat 255, ends at %d", stops[len(stops)-1].Heat)
	}
	for i := 1; i < len(stops); i++ {
		if stops[i].Heat < stops[i-1].Heat {
			return nil, fmt.Errorf("palette thresholds not monotonic at index %d", i)
		}
	}
	p := &Palette{stops: make([]Breakpoint, len(stops))}
	copy(p.stops, stops)
	return p, nil
}

// DefaultPalette is the fire gradient: black, deep red, orange,
// pale yellow, white.
func DefaultPalette() *Palette {
	p, _ := NewPalette([]Breakpoint{
		{0, Color{0, 0, 0}},
		{64, Color{180, 0, 0}},
		{128, Color{255, 140, 0}},
		{192, Color{255, 220, 80}},
		{255, Color{255, 255, 255}},
	})
	return p
}

// Color interpolates the palette at the given heat.
func (p *Palette) Color(heat uint8) Color {
	s := p.stops
	for i := 1; i < len(s); i++ {
		if heat > s[i].Heat {
			continue
		}
		a, b := s[i-1], s[i]
		span := int(b.Heat) - int(a.Heat)
		if span == 0 {
			return b.Color
		}
		u := int(heat) - int(a.Heat)
		return Color{
			R: lerp8(a.Color.R, b.Color.R, u, span),
			G: lerp8(a.Color.G, b.Color.G, u, span),
			B: lerp8(a.Color.B, b.Color.B, u, span),
		}
	}
	return s[len(s)-1].Color
}

func lerp8(a, b uint8, u, span int) uint8 {
	return uint8(int(a) + (int(b)-int(a))*u/span)
}
