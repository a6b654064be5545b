package flame

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, 0))
}

func TestFieldRejectsBadConfig(t *testing.T) {
	_, err := NewField(0, 4, DefaultParams(), testRNG(1))
	assert.Error(t, err)
	_, err = NewField(4, 0, DefaultParams(), testRNG(1))
	assert.Error(t, err)
	_, err = NewField(4, 4, Params{SparkChance: 1.5}, testRNG(1))
	assert.Error(t, err)
	_, err = NewField(4, 4, Params{SparkChance: 0.5, SparkMin: 200, SparkMax: 100}, testRNG(1))
	assert.Error(t, err)
	_, err = NewField(4, 4, Params{Cooling: -1}, testRNG(1))
	assert.Error(t, err)
}

func TestColdStartStaysDark(t *testing.T) {
	p := DefaultParams()
	p.SparkChance = 0
	f, err := NewField(6, 10, p, testRNG(7))
	assert.NoError(t, err)
	for i := 0; i < 100; i++ {
		f.Advance()
	}
	for r := 0; r < f.Height(); r++ {
		for c := 0; c < f.Width(); c++ {
			if f.Heat(c, r) != 0 {
				t.Fatalf("cell (%d,%d) heated up without sparks: %d", c, r, f.Heat(c, r))
			}
		}
	}
}

func TestSparkChanceOneIgnitesEveryBaseCell(t *testing.T) {
	p := Params{Cooling: 55, SparkChance: 1.0, SparkMin: 160, SparkMax: 255}
	f, err := NewField(8, 5, p, testRNG(3))
	assert.NoError(t, err)
	f.Advance()
	for c := 0; c < f.Width(); c++ {
		h := f.Heat(c, 0)
		if h < p.SparkMin {
			t.Fatalf("base cell %d outside spark range: %d", c, h)
		}
	}
}

func TestHeatStaysSaturated(t *testing.T) {
	// uint8 storage already bounds the range; this guards the
	// arithmetic against wrap-around by watching for impossible jumps.
	p := Params{Cooling: 0, SparkChance: 1.0, SparkMin: 255, SparkMax: 255}
	f, err := NewField(4, 6, p, testRNG(11))
	assert.NoError(t, err)
	for i := 0; i < 200; i++ {
		f.Advance()
		for c := 0; c < f.Width(); c++ {
			assert.Equal(t, uint8(255), f.Heat(c, 0))
		}
	}
}

func TestDiffusionCarriesHeatUpward(t *testing.T) {
	p := Params{Cooling: 0, SparkChance: 1.0, SparkMin: 240, SparkMax: 255}
	f, err := NewField(3, 8, p, testRNG(5))
	assert.NoError(t, err)
	for i := 0; i < 50; i++ {
		f.Advance()
	}
	// with no cooling the upper rows approach base heat
	for c := 0; c < f.Width(); c++ {
		assert.Greater(t, int(f.Heat(c, f.Height()-1)), 100,
			"column %d top row never warmed up", c)
	}
}

func TestAdvanceDeterministicForSeed(t *testing.T) {
	mk := func() *Field {
		f, err := NewField(5, 7, DefaultParams(), testRNG(42))
		assert.NoError(t, err)
		return f
	}
	a, b := mk(), mk()
	for i := 0; i < 64; i++ {
		a.Advance()
		b.Advance()
	}
	for r := 0; r < a.Height(); r++ {
		for c := 0; c < a.Width(); c++ {
			if a.Heat(c, r) != b.Heat(c, r) {
				t.Fatalf("fields diverged at (%d,%d): %d vs %d", c, r, a.Heat(c, r), b.Heat(c, r))
			}
		}
	}
}

func TestHottestInColumn(t *testing.T) {
	f, err := NewField(2, 4, Params{SparkChance: 0}, testRNG(1))
	assert.NoError(t, err)
	f.heat[1*f.w+0] = 90
	f.heat[3*f.w+0] = 200
	f.heat[0*f.w+1] = 10
	assert.Equal(t, uint8(200), f.HottestInColumn(0))
	assert.Equal(t, uint8(10), f.HottestInColumn(1))
}
