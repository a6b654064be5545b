package led

// Driver abstracts an LED output sink.
type Driver interface {
	// Write pushes a packed RGB frame to the sink. len(rgb) must be 3*N.
	Write(rgb []byte) error
	// Close releases resources and blanks the output where possible.
	Close() error
}
