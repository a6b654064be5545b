package layout

import "fmt"

// Origin names the physical corner that logical (0,0) maps to.
type Origin int

const (
	TopLeft Origin = iota
	TopRight
	BottomLeft
	BottomRight
)

// ParseOrigin accepts the config spellings ("tl", "top-left", ...).
func ParseOrigin(s string) (Origin, error) {
	switch s {
	case "tl", "top-left":
		return TopLeft, nil
	case "tr", "top-right":
		return TopRight, nil
	case "bl", "bottom-left":
		return BottomLeft, nil
	case "br", "bottom-right":
		return BottomRight, nil
	}
	return TopLeft, fmt.Errorf("unknown origin %q", s)
}

func (o Origin) String() string {
	switch o {
	case TopRight:
		return "top-right"
	case BottomLeft:
		return "bottom-left"
	case BottomRight:
		return "bottom-right"
	default:
		return "top-left"
	}
}

// Layout describes the wiring of a strip or matrix. Height is 1 for strips.
type Layout struct {
	Width  int
	Height int
	Zigzag bool
	Origin Origin
}

// Validate rejects dimensions the mapper cannot address.
func (l Layout) Validate() error {
	if l.Width <= 0 || l.Height <= 0 {
		return fmt.Errorf("invalid layout dimensions %dx%d", l.Width, l.Height)
	}
	if l.Origin < TopLeft || l.Origin > BottomRight {
		return fmt.Errorf("invalid origin %d", int(l.Origin))
	}
	return nil
}

// Index maps logical (col,row) -> linear LED index (0..N-1).
// Row 0 is the flame base; origin reflection is applied before the
// serpentine reversal so zigzag follows the physical wiring rows.
func (l Layout) Index(col, row int) int {
	c := col
	r := row
	if l.Origin == BottomLeft || l.Origin == BottomRight {
		r = l.Height - 1 - r
	}
	if l.Origin == TopRight || l.Origin == BottomRight {
		c = l.Width - 1 - c
	}
	if l.Zigzag && r%2 == 1 {
		c = l.Width - 1 - c
	}
	return r*l.Width + c
}

func (l Layout) Count() int {
	return l.Width * l.Height
}
