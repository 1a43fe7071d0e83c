package gpio

// FakeWriter is a test double that records every level written.
type FakeWriter struct {
	// Levels contains every level passed to Set, in order.
	Levels []Level

	// Closed tracks if Close was called
	Closed bool

	// SetError, if set, will be returned by Set and the level not recorded.
	SetError error
}

// NewFakeWriter creates a FakeWriter.
func NewFakeWriter() *FakeWriter {
	return &FakeWriter{}
}

// Set records the level.
func (f *FakeWriter) Set(level Level) error {
	if f.SetError != nil {
		return f.SetError
	}
	f.Levels = append(f.Levels, level)
	return nil
}

// Last returns the most recent level written, or Low if none.
func (f *FakeWriter) Last() Level {
	if len(f.Levels) == 0 {
		return Low
	}
	return f.Levels[len(f.Levels)-1]
}

// Close marks the writer as closed.
func (f *FakeWriter) Close() error {
	f.Closed = true
	return nil
}

// Reset clears recorded levels.
func (f *FakeWriter) Reset() {
	f.Levels = nil
	f.Closed = false
	f.SetError = nil
}
