package led

import (
	"fmt"
	"sync"
)

// Sim is a headless sink that validates frames and keeps the last one
// for inspection. Used as the fallback driver and in tests.
type Sim struct {
	mu     sync.Mutex
	count  int
	frames uint64
	last   []byte
}

// NewSim expects frames of count pixels; count <= 0 disables the
// length check.
func NewSim(count int) *Sim {
	return &Sim{count: count}
}

func (s *Sim) Write(rgb []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.count > 0 && len(rgb) != s.count*3 {
		return fmt.Errorf("frame length %d does not match %d pixels", len(rgb), s.count)
	}
	if cap(s.last) < len(rgb) {
		s.last = make([]byte, len(rgb))
	}
	s.last = s.last[:len(rgb)]
	copy(s.last, rgb)
	s.frames++
	return nil
}

func (s *Sim) Close() error { return nil }

// Frames reports how many frames were written.
func (s *Sim) Frames() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// Last returns a copy of the most recent frame.
func (s *Sim) Last() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]byte, len(s.last))
	copy(out, s.last)
	return out
}

// Summary renders an average-intensity line for console loops.
func (s *Sim) Summary() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var r, g, b float64
	n := len(s.last) / 3
	for i := 0; i < n; i++ {
		r += float64(s.last[i*3+0])
		g += float64(s.last[i*3+1])
		b += float64(s.last[i*3+2])
	}
	if n == 0 {
		n = 1
	}
	return fmt.Sprintf("[frame %04d] avg=(%.0f,%.0f,%.0f)",
		s.frames, r/float64(n), g/float64(n), b/float64(n))
}
