package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/coreman2200/funtimes-flamestrip/internal/flame"
	"github.com/coreman2200/funtimes-flamestrip/internal/layout"
	"github.com/coreman2200/funtimes-flamestrip/internal/led"
)

// flamesim runs the engine headless and prints per-frame summaries,
// for eyeballing tunables without hardware or a terminal renderer.
func main() {
	var (
		width       = flag.Int("width", 8, "matrix width")
		pixels      = flag.Int("pixels", 64, "total LED count")
		mode        = flag.String("mode", "heat", "render mode: heat | columns")
		frames      = flag.Int("frames", 120, "frames to simulate")
		seed        = flag.Uint64("seed", 1, "rng seed")
		cooling     = flag.Int("cooling", 55, "heat loss per step")
		sparkChance = flag.Float64("spark-chance", 0.45, "per-column ignition probability")
	)
	flag.Parse()

	m, err := flame.ParseMode(*mode)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if *width <= 0 || *pixels <= 0 || *pixels%*width != 0 {
		fmt.Fprintf(os.Stderr, "pixels %d must be a positive multiple of width %d\n", *pixels, *width)
		os.Exit(2)
	}

	eng, err := flame.NewEngine(flame.Options{
		Layout: layout.Layout{
			Width:  *width,
			Height: *pixels / *width,
			Zigzag: true,
			Origin: layout.BottomLeft,
		},
		Mode: m,
		Params: flame.Params{
			Cooling:     *cooling,
			SparkChance: *sparkChance,
			SparkMin:    160,
			SparkMax:    255,
		},
		Seed: *seed,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	drv := led.NewSim(eng.Count())
	for i := 0; i < *frames; i++ {
		eng.Step()
		if err := drv.Write(eng.Bytes()); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(drv.Summary())
	}
}
