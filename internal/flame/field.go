package flame

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// Params are the per-deployment flame tunables.
type Params struct {
	// Cooling scales how much heat each cell sheds per step. The amount
	// removed per cell is random in [0, Cooling*10/height + 2].
	Cooling int
	// SparkChance is the per-column probability that the base cell
	// reignites on a step.
	SparkChance float64
	// New sparks carry a random heat in [SparkMin, SparkMax].
	SparkMin, SparkMax uint8
}

// DefaultParams matches a lively candle on a short matrix.
func DefaultParams() Params {
	return Params{Cooling: 55, SparkChance: 0.45, SparkMin: 160, SparkMax: 255}
}

func (p Params) validate() error {
	if p.Cooling < 0 {
		return fmt.Errorf("cooling must be >= 0, got %d", p.Cooling)
	}
	if p.SparkChance < 0 || p.SparkChance > 1 {
		return fmt.Errorf("spark chance must be in [0,1], got %g", p.SparkChance)
	}
	if p.SparkMin > p.SparkMax {
		return fmt.Errorf("spark range inverted: [%d,%d]", p.SparkMin, p.SparkMax)
	}
	return nil
}

// Field holds a width x height grid of heat cells and advances it one
// step at a time. Row 0 is the flame base. All arithmetic saturates;
// cells never leave [0,255].
type Field struct {
	w, h   int
	heat   []uint8
	snap   []uint8 // pre-cooling copy, reused every step
	params Params
	rng    *rand.Rand
}

// NewField allocates a zeroed field. rng may be nil, in which case a
// time-seeded PCG source is used; tests pass a fixed seed instead.
func NewField(w, h int, params Params, rng *rand.Rand) (*Field, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid field dimensions %dx%d", w, h)
	}
	if err := params.validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}
	return &Field{
		w:      w,
		h:      h,
		heat:   make([]uint8, w*h),
		snap:   make([]uint8, w*h),
		params: params,
		rng:    rng,
	}, nil
}

func (f *Field) Width() int  { return f.w }
func (f *Field) Height() int { return f.h }

// Heat returns the cell at (col,row). Row 0 is the base.
func (f *Field) Heat(col, row int) uint8 {
	return f.heat[row*f.w+col]
}

// HottestInColumn returns the maximum heat in a column.
func (f *Field) HottestInColumn(col int) uint8 {
	var m uint8
	for r := 0; r < f.h; r++ {
		if v := f.heat[r*f.w+col]; v > m {
			m = v
		}
	}
	return m
}

// Advance steps the simulation once: cooling, upward diffusion from the
// pre-cooling snapshot, then base-row sparking. Mutates in place.
func (f *Field) Advance() {
	copy(f.snap, f.heat)

	// cooling, scaled down for taller grids
	coolMax := f.params.Cooling*10/f.h + 2
	for i := range f.heat {
		c := uint8(f.rng.IntN(coolMax + 1))
		if c > f.heat[i] {
			f.heat[i] = 0
		} else {
			f.heat[i] -= c
		}
	}

	// diffusion: rows above the base average with the 1-2 cells below
	// them, sampled before cooling. Row 0 is fed only by sparks.
	for r := f.h - 1; r >= 1; r-- {
		b1 := (r - 1) * f.w
		b2 := b1
		if r >= 2 {
			b2 = (r - 2) * f.w
		}
		row := r * f.w
		for c := 0; c < f.w; c++ {
			f.heat[row+c] = uint8((int(f.heat[row+c]) + int(f.snap[b1+c]) + int(f.snap[b2+c])) / 3)
		}
	}

	// sparking: each column independently reignites its base cell
	span := int(f.params.SparkMax) - int(f.params.SparkMin) + 1
	for c := 0; c < f.w; c++ {
		if f.rng.Float64() < f.params.SparkChance {
			f.heat[c] = f.params.SparkMin + uint8(f.rng.IntN(span))
		}
	}
}
