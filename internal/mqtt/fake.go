package mqtt

import (
	"github.com/broncoore/fsw/internal/command"
	"github.com/broncoore/fsw/internal/telem"
)

// FakePublisher records published messages for test assertions.
type FakePublisher struct {
	// Samples contains all telemetry samples that were published.
	Samples []telem.Sample

	// Events contains all event records that were published.
	Events []telem.Event

	// Responses contains all command responses that were published.
	Responses []command.Response

	// SystemEvents contains all system events that were published.
	SystemEvents []SystemEvent

	// SystemPayloads contains the JSON payloads for system events.
	SystemPayloads [][]byte

	// In is returned by Commands; tests send on it directly.
	In chan Inbound

	// PublishResponseError, if set, will be returned by PublishResponse.
	PublishResponseError error

	// PublishSystemError, if set, will be returned by PublishSystem.
	PublishSystemError error

	// Closed tracks if Close was called.
	Closed bool

	// Connected controls the return value of IsConnected.
	Connected bool
}

// NewFakePublisher creates a FakePublisher for testing.
func NewFakePublisher() *FakePublisher {
	return &FakePublisher{In: make(chan Inbound, commandQueue)}
}

// Telemetry records the sample.
func (f *FakePublisher) Telemetry(s telem.Sample) {
	f.Samples = append(f.Samples, s)
}

// Event records the event.
func (f *FakePublisher) Event(e telem.Event) {
	f.Events = append(f.Events, e)
}

// PublishResponse records the response.
func (f *FakePublisher) PublishResponse(resp command.Response) error {
	if f.PublishResponseError != nil {
		return f.PublishResponseError
	}
	f.Responses = append(f.Responses, resp)
	return nil
}

// PublishSystem records the system event.
func (f *FakePublisher) PublishSystem(event SystemEvent) error {
	if f.PublishSystemError != nil {
		return f.PublishSystemError
	}

	f.SystemEvents = append(f.SystemEvents, event)

	payload, err := FormatSystemPayload(event)
	if err != nil {
		return err
	}
	f.SystemPayloads = append(f.SystemPayloads, payload)

	return nil
}

// Commands returns f.In.
func (f *FakePublisher) Commands() <-chan Inbound {
	return f.In
}

// Deliver decodes a raw command message as the broker callback would and
// queues it on In.
func (f *FakePublisher) Deliver(payload []byte) {
	f.In <- decodeInbound(payload)
}

// Close marks the publisher as closed.
func (f *FakePublisher) Close() error {
	f.Closed = true
	return nil
}

// IsConnected reports whether the fake publisher is "connected".
func (f *FakePublisher) IsConnected() bool {
	return f.Connected
}

// Reset clears recorded messages.
func (f *FakePublisher) Reset() {
	f.Samples = nil
	f.Events = nil
	f.Responses = nil
	f.SystemEvents = nil
	f.SystemPayloads = nil
	f.Closed = false
	f.PublishResponseError = nil
	f.PublishSystemError = nil
	f.Connected = false
}
