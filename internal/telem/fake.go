package telem

// FakeSink records everything it receives for test assertions.
type FakeSink struct {
	Samples []Sample
	Events  []Event
}

// NewFakeSink creates an empty FakeSink.
func NewFakeSink() *FakeSink {
	return &FakeSink{}
}

// Telemetry records the sample.
func (f *FakeSink) Telemetry(s Sample) {
	f.Samples = append(f.Samples, s)
}

// Event records the event.
func (f *FakeSink) Event(e Event) {
	f.Events = append(f.Events, e)
}

// Channel returns the samples recorded on the given channel, in order.
func (f *FakeSink) Channel(name string) []Sample {
	var out []Sample
	for _, s := range f.Samples {
		if s.Channel == name {
			out = append(out, s)
		}
	}
	return out
}

// Named returns the events recorded with the given name, in order.
func (f *FakeSink) Named(name string) []Event {
	var out []Event
	for _, e := range f.Events {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}

// Reset clears recorded samples and events.
func (f *FakeSink) Reset() {
	f.Samples = nil
	f.Events = nil
}
