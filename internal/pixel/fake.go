package pixel

// Write is one recorded Show call.
type Write struct {
	On    bool
	Color Color
}

// FakeStrip records Show calls for test assertions.
type FakeStrip struct {
	Writes    []Write
	Closed    bool
	ShowError error
}

// NewFakeStrip creates a FakeStrip.
func NewFakeStrip() *FakeStrip {
	return &FakeStrip{}
}

// Show records the write.
func (f *FakeStrip) Show(on bool, c Color) error {
	if f.ShowError != nil {
		return f.ShowError
	}
	f.Writes = append(f.Writes, Write{On: on, Color: c})
	return nil
}

// Close marks the strip as closed.
func (f *FakeStrip) Close() error {
	f.Closed = true
	return nil
}
