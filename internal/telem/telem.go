// Package telem defines the telemetry and event records emitted by
// components and the sinks that accept them.
package telem

import "time"

// Severity classifies an event record.
type Severity string

const (
	Diagnostic Severity = "DIAGNOSTIC"
	ActivityLo Severity = "ACTIVITY_LO"
	ActivityHi Severity = "ACTIVITY_HI"
	Command    Severity = "COMMAND"
	WarningLo  Severity = "WARNING_LO"
	WarningHi  Severity = "WARNING_HI"
)

// Sample is a single named telemetry value from a component.
// Value is a bool, an unsigned integer or a string.
type Sample struct {
	Timestamp time.Time
	Component string
	Channel   string
	Value     any
}

// Event is a structured log record from a component.
type Event struct {
	Timestamp time.Time
	Component string
	Severity  Severity
	Name      string
	Message   string
}

// TelemetrySink accepts telemetry samples. Calls must not block.
type TelemetrySink interface {
	Telemetry(s Sample)
}

// EventSink accepts event records. Calls must not block.
type EventSink interface {
	Event(e Event)
}

// Sink is both a telemetry and an event sink.
type Sink interface {
	TelemetrySink
	EventSink
}

// Fanout forwards every record to each of its sinks in order.
type Fanout []Sink

func (f Fanout) Telemetry(s Sample) {
	for _, sink := range f {
		sink.Telemetry(s)
	}
}

func (f Fanout) Event(e Event) {
	for _, sink := range f {
		sink.Event(e)
	}
}
