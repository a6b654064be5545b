package led

import (
	"fmt"
	"image"
	"image/color"

	"periph.io/x/extra/devices/screen"
)

// Term renders frames as ANSI blocks in the terminal, one cell per LED.
// Handy for tuning the flame without hardware attached.
type Term struct {
	dev   *screen.Dev
	count int
	img   *image.NRGBA
}

func NewTerm(count int) (*Term, error) {
	if count <= 0 {
		return nil, fmt.Errorf("invalid LED count: %d", count)
	}
	return &Term{
		dev:   screen.New(count),
		count: count,
		img:   image.NewNRGBA(image.Rect(0, 0, count, 1)),
	}, nil
}

func (t *Term) Write(rgb []byte) error {
	if len(rgb) != t.count*3 {
		return fmt.Errorf("frame length %d does not match %d pixels", len(rgb), t.count)
	}
	for i := 0; i < t.count; i++ {
		t.img.SetNRGBA(i, 0, color.NRGBA{
			R: rgb[i*3+0],
			G: rgb[i*3+1],
			B: rgb[i*3+2],
			A: 255,
		})
	}
	if err := t.dev.Draw(t.dev.Bounds(), t.img, image.Point{}); err != nil {
		return err
	}
	fmt.Printf("\n")
	return nil
}

func (t *Term) Close() error {
	return t.dev.Halt()
}
