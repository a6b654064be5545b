package led

import (
	"fmt"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
)

// WS2812 pushes 800kbit/s; the 3x NRZ expansion lands the SPI clock here.
const nrzFreq = (800*3 + 100) * physic.KiloHertz

// NRZ drives WS2812-class strips through periph.io's NRZ encoder over a
// registered SPI port. The caller must have run host.Init.
type NRZ struct {
	port spi.PortCloser
	dev  *nrzled.Dev
	n    int
}

// NewNRZ opens the named SPI port ("" picks the first registered one).
func NewNRZ(portName string, count int) (*NRZ, error) {
	if count <= 0 {
		return nil, fmt.Errorf("invalid LED count: %d", count)
	}
	port, err := spireg.Open(portName)
	if err != nil {
		return nil, fmt.Errorf("open spi port %q: %w", portName, err)
	}
	d, err := newNRZOnPort(port, count)
	if err != nil {
		_ = port.Close()
		return nil, err
	}
	d.port = port
	return d, nil
}

func newNRZOnPort(port spi.Port, count int) (*NRZ, error) {
	dev, err := nrzled.NewSPI(port, &nrzled.Opts{
		NumPixels: count,
		Channels:  3,
		Freq:      nrzFreq,
	})
	if err != nil {
		return nil, fmt.Errorf("nrzled init: %w", err)
	}
	return &NRZ{dev: dev, n: count}, nil
}

func (d *NRZ) Write(rgb []byte) error {
	if len(rgb) != d.n*3 {
		return fmt.Errorf("frame length %d does not match %d pixels", len(rgb), d.n)
	}
	if _, err := d.dev.Write(rgb); err != nil {
		return fmt.Errorf("nrzled write: %w", err)
	}
	return nil
}

// Close blanks the strip and releases the port.
func (d *NRZ) Close() error {
	err := d.dev.Halt()
	if d.port != nil {
		if cerr := d.port.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
