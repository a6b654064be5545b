package flame

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/coreman2200/funtimes-flamestrip/internal/layout"
)

// Mode selects how the heat field is turned into pixels.
type Mode int

const (
	// ModeHeat renders every grid cell through the palette.
	ModeHeat Mode = iota
	// ModeColumns renders one flame-tip pixel per column, for strips
	// wired as a row of independent flames.
	ModeColumns
)

// ParseMode maps the config string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "heat":
		return ModeHeat, nil
	case "columns":
		return ModeColumns, nil
	}
	return ModeHeat, fmt.Errorf("unknown mode %q", s)
}

func (m Mode) String() string {
	if m == ModeColumns {
		return "columns"
	}
	return "heat"
}

// Shimmer is a triangle-wave brightness modulation applied at
// serialization time. Min == Max disables it.
type Shimmer struct {
	Min, Max, Step float64
}

// DefaultShimmer oscillates slowly across most of the brightness range.
func DefaultShimmer() Shimmer {
	return Shimmer{Min: 0.15, Max: 1.0, Step: 0.02}
}

func (s Shimmer) validate() error {
	if s.Min < 0 || s.Max > 1 || s.Min > s.Max {
		return fmt.Errorf("shimmer range [%g,%g] outside [0,1]", s.Min, s.Max)
	}
	if s.Step < 0 {
		return fmt.Errorf("shimmer step must be >= 0, got %g", s.Step)
	}
	return nil
}

// Options configure an Engine. Zero values fall back to defaults where a
// default exists; dimensions and mode are always validated.
type Options struct {
	Layout layout.Layout
	Mode   Mode
	Params Params

	// Palette overrides DefaultPalette when non-nil.
	Palette *Palette

	// VirtualHeight is the simulated flame height per column when the
	// physical layout is a single row (columns mode on a strip).
	VirtualHeight int

	// Brightness is a global output scale in (0,1]; 0 means 1.
	Brightness float64
	Shimmer    Shimmer

	// Seed fixes the random source; 0 seeds from the clock.
	Seed uint64
}

// Engine owns the heat field and the output buffer, and renders one
// frame per Step call. Not safe for concurrent use; the caller drives
// it from a single loop.
type Engine struct {
	lay   layout.Layout
	mode  Mode
	field *Field
	pal   *Palette

	frame []Color // logical output, one entry per physical LED
	rgb   []byte  // packed serialization scratch, 3 bytes per LED

	brightness float64
	shimmer    Shimmer
	level      float64
	dir        float64
}

// NewEngine validates opts and allocates all buffers up front. No
// allocation happens per frame after this returns.
func NewEngine(opts Options) (*Engine, error) {
	if err := opts.Layout.Validate(); err != nil {
		return nil, err
	}
	if opts.Mode != ModeHeat && opts.Mode != ModeColumns {
		return nil, fmt.Errorf("invalid mode %d", int(opts.Mode))
	}
	if opts.Brightness < 0 || opts.Brightness > 1 {
		return nil, fmt.Errorf("brightness %g outside [0,1]", opts.Brightness)
	}
	if err := opts.Shimmer.validate(); err != nil {
		return nil, err
	}

	simH := opts.Layout.Height
	if opts.Mode == ModeColumns && simH == 1 {
		simH = opts.VirtualHeight
		if simH == 0 {
			simH = 8
		}
		if simH <= 0 {
			return nil, fmt.Errorf("virtual height must be > 0, got %d", opts.VirtualHeight)
		}
	}

	seed := opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, 0))

	field, err := NewField(opts.Layout.Width, simH, opts.Params, rng)
	if err != nil {
		return nil, err
	}

	pal := opts.Palette
	if pal == nil {
		pal = DefaultPalette()
	}
	brightness := opts.Brightness
	if brightness == 0 {
		brightness = 1
	}

	n := opts.Layout.Count()
	return &Engine{
		lay:        opts.Layout,
		mode:       opts.Mode,
		field:      field,
		pal:        pal,
		frame:      make([]Color, n),
		rgb:        make([]byte, 3*n),
		brightness: brightness,
		shimmer:    opts.Shimmer,
		level:      opts.Shimmer.Min,
		dir:        opts.Shimmer.Step,
	}, nil
}

// Count reports the number of physical LEDs driven.
func (e *Engine) Count() int { return len(e.frame) }

// Mode reports the rendering mode selected at construction.
func (e *Engine) Mode() Mode { return e.mode }

// Frame exposes the output buffer. Overwritten by every Step; the
// caller must not hold it across steps.
func (e *Engine) Frame() []Color { return e.frame }

// Step advances the simulation one frame and overwrites the whole
// output buffer. Every physical index is written exactly once.
func (e *Engine) Step() {
	e.field.Advance()

	switch e.mode {
	case ModeHeat:
		for r := 0; r < e.lay.Height; r++ {
			for c := 0; c < e.lay.Width; c++ {
				e.frame[e.lay.Index(c, r)] = e.pal.Color(e.field.Heat(c, r))
			}
		}
	case ModeColumns:
		// one bright tip pixel per column at the base; rows above a
		// strip's single row are blanked so the whole buffer is
		// refreshed each frame
		for c := 0; c < e.lay.Width; c++ {
			e.frame[e.lay.Index(c, 0)] = e.pal.Color(e.field.HottestInColumn(c))
			for r := 1; r < e.lay.Height; r++ {
				e.frame[e.lay.Index(c, r)] = Color{}
			}
		}
	}

	e.advanceShimmer()
}

// Bytes serializes the frame as packed RGB, applying global brightness
// and the current shimmer level. The returned slice is reused across
// calls.
func (e *Engine) Bytes() []byte {
	scale := e.brightness * e.shimmerLevel()
	for i, c := range e.frame {
		e.rgb[i*3+0] = scale8(c.R, scale)
		e.rgb[i*3+1] = scale8(c.G, scale)
		e.rgb[i*3+2] = scale8(c.B, scale)
	}
	return e.rgb
}

func (e *Engine) shimmerLevel() float64 {
	if e.shimmer.Min == e.shimmer.Max {
		if e.shimmer.Max == 0 {
			return 1
		}
		return e.shimmer.Max
	}
	return e.level
}

func (e *Engine) advanceShimmer() {
	if e.shimmer.Min == e.shimmer.Max || e.shimmer.Step == 0 {
		return
	}
	e.level += e.dir
	if e.level >= e.shimmer.Max {
		e.level = e.shimmer.Max
		e.dir = -e.shimmer.Step
	} else if e.level <= e.shimmer.Min {
		e.level = e.shimmer.Min
		e.dir = e.shimmer.Step
	}
}

func scale8(v uint8, s float64) byte {
	return byte(float64(v) * s)
}
