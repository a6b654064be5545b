package led

import (
	"bytes"
	"testing"

	"periph.io/x/conn/v3/spi/spitest"
)

func TestSimLengthCheck(t *testing.T) {
	s := NewSim(4)
	if err := s.Write(make([]byte, 12)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := s.Write(make([]byte, 11)); err == nil {
		t.Fatal("expected length mismatch error")
	}
	if s.Frames() != 1 {
		t.Fatalf("expected 1 accepted frame, got %d", s.Frames())
	}
}

func TestSimKeepsLastFrame(t *testing.T) {
	s := NewSim(2)
	first := []byte{1, 2, 3, 4, 5, 6}
	second := []byte{9, 9, 9, 8, 8, 8}
	if err := s.Write(first); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := s.Write(second); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := s.Last(); !bytes.Equal(got, second) {
		t.Fatalf("expected last frame %v, got %v", second, got)
	}
	// the copy must not alias the driver's buffer
	got := s.Last()
	got[0] = 0
	if s.Last()[0] != 9 {
		t.Fatal("Last leaked internal buffer")
	}
}

func TestTermRejectsZeroCount(t *testing.T) {
	if _, err := NewTerm(0); err == nil {
		t.Fatal("expected error for zero count")
	}
}

func TestTermLengthCheck(t *testing.T) {
	// the length check runs before anything is drawn, so a short
	// frame must error without touching the terminal
	d, err := NewTerm(2)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := d.Write([]byte{1, 2, 3}); err == nil {
		t.Fatal("expected length mismatch error")
	}
}

func TestNRZWriteOnRecordedPort(t *testing.T) {
	var buf bytes.Buffer
	d, err := newNRZOnPort(spitest.NewRecordRaw(&buf), 2)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := d.Write([]byte{255, 0, 0, 0, 0, 255}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("nothing reached the spi port")
	}
	if err := d.Write([]byte{1, 2}); err == nil {
		t.Fatal("expected length mismatch error")
	}
	if err := d.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestNRZRejectsZeroCount(t *testing.T) {
	if _, err := NewNRZ("", 0); err == nil {
		t.Fatal("expected error for zero count")
	}
}
