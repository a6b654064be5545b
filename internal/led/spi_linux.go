//go:build linux

package led

import (
	"fmt"
	"os"
	"sync"
	"syscall"
	"unsafe"
)

// Raw spidev ioctl numbers; enough to set mode/word size/speed.
const (
	spiIOCWriteMode        = 0x40016b01
	spiIOCWriteBitsPerWord = 0x40016b03
	spiIOCWriteMaxSpeedHz  = 0x40046b04
)

// SPI bit-bangs the WS2812 protocol through /dev/spidev by expanding
// every data bit into three SPI bits (1 -> 110, 0 -> 100). Wire order
// is GRB, which is what WS2812-class chips expect.
type SPI struct {
	mu    sync.Mutex
	f     *os.File
	count int
	enc   []byte // per-frame encode buffer, 9 bytes per pixel
	latch []byte
	lut   [256][3]byte
}

// NewSPI opens the spidev node and prepares the encoder. speedHz in the
// 2.4-3.2MHz range keeps the expanded bits inside WS2812 timing;
// resetUs is the low latch tail (>= 280us on real strips).
func NewSPI(dev string, count, speedHz, resetUs int) (*SPI, error) {
	if count <= 0 {
		return nil, fmt.Errorf("invalid LED count: %d", count)
	}
	if speedHz <= 0 {
		speedHz = 2400000
	}
	if resetUs <= 0 {
		resetUs = 300
	}
	f, err := os.OpenFile(dev, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open spidev: %w", err)
	}
	mode := byte(0)
	if _, _, e := syscall.Syscall(syscall.SYS_IOCTL, f.Fd(), spiIOCWriteMode, uintptr(unsafe.Pointer(&mode))); e != 0 {
		_ = f.Close()
		return nil, fmt.Errorf("spi set mode: %v", e)
	}
	bpw := byte(8)
	if _, _, e := syscall.Syscall(syscall.SYS_IOCTL, f.Fd(), spiIOCWriteBitsPerWord, uintptr(unsafe.Pointer(&bpw))); e != 0 {
		_ = f.Close()
		return nil, fmt.Errorf("spi set bits-per-word: %v", e)
	}
	if _, _, e := syscall.Syscall(syscall.SYS_IOCTL, f.Fd(), spiIOCWriteMaxSpeedHz, uintptr(unsafe.Pointer(&speedHz))); e != 0 {
		_ = f.Close()
		return nil, fmt.Errorf("spi set speed: %v", e)
	}

	// latch length: one byte is ~3.3us at 2.4MHz; keep a safety floor
	latchBytes := resetUs / 3
	if latchBytes < 128 {
		latchBytes = 128
	}

	s := &SPI{
		f:     f,
		count: count,
		enc:   make([]byte, count*9),
		latch: make([]byte, latchBytes),
	}
	for v := 0; v < 256; v++ {
		out := uint32(0)
		for i := 7; i >= 0; i-- {
			if (v>>i)&1 == 1 {
				out = out<<3 | 0b110
			} else {
				out = out<<3 | 0b100
			}
		}
		s.lut[v] = [3]byte{byte(out >> 16), byte(out >> 8), byte(out)}
	}
	return s, nil
}

func (s *SPI) Write(rgb []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f == nil {
		return fmt.Errorf("spi closed")
	}
	if len(rgb) != s.count*3 {
		return fmt.Errorf("frame length %d does not match %d pixels", len(rgb), s.count)
	}
	for i := 0; i < s.count; i++ {
		r, g, b := rgb[i*3+0], rgb[i*3+1], rgb[i*3+2]
		dst := s.enc[i*9 : i*9+9]
		copy(dst[0:3], s.lut[g][:])
		copy(dst[3:6], s.lut[r][:])
		copy(dst[6:9], s.lut[b][:])
	}
	if _, err := s.f.Write(s.enc); err != nil {
		return fmt.Errorf("spi write: %w", err)
	}
	if _, err := s.f.Write(s.latch); err != nil {
		return fmt.Errorf("spi latch: %w", err)
	}
	return nil
}

func (s *SPI) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	return err
}
