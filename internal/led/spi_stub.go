//go:build !linux

package led

import "fmt"

type SPI struct{}

func NewSPI(dev string, count, speedHz, resetUs int) (*SPI, error) {
	return nil, fmt.Errorf("spidev driver not supported on this platform")
}

func (s *SPI) Write(rgb []byte) error {
	return fmt.Errorf("spidev driver not supported on this platform")
}

func (s *SPI) Close() error { return nil }
