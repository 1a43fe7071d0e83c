package param

// FakeReader is a test double returning scripted values.
type FakeReader struct {
	Values   map[ID]uint32
	Validity map[ID]Validity
	// Reads counts Get calls.
	Reads int
}

// NewFakeReader creates an empty FakeReader; every id reads as Uninitialized.
func NewFakeReader() *FakeReader {
	return &FakeReader{
		Values:   make(map[ID]uint32),
		Validity: make(map[ID]Validity),
	}
}

// Put stores a value with the given validity.
func (f *FakeReader) Put(id ID, v uint32, validity Validity) {
	f.Values[id] = v
	f.Validity[id] = validity
}

// Get returns the scripted value.
func (f *FakeReader) Get(id ID) (uint32, Validity) {
	f.Reads++
	return f.Values[id], f.Validity[id]
}
