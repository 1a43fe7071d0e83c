// Package mqtt carries telemetry, events, command traffic and system
// lifecycle messages over MQTT, with an abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/broncoore/fsw/internal/command"
	"github.com/broncoore/fsw/internal/telem"
)

// Topics.
const (
	TopicTelemetry = "fsw/telemetry"
	TopicEvents    = "fsw/events"
	TopicCommands  = "fsw/commands"
	TopicResponses = "fsw/responses"
	TopicSystem    = "fsw/system"
)

// Publisher is the daemon's link to the ground.
//
// Telemetry and Event are fire-and-forget: they never block and never
// return an error. Failures are logged by the implementation.
type Publisher interface {
	telem.Sink

	// PublishResponse sends a command completion.
	PublishResponse(resp command.Response) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Commands delivers inbound commands. The channel is never closed.
	Commands() <-chan Inbound

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// Inbound is a received command. Err is set when the message could not be
// decoded; Req then holds whatever addressing was recovered.
type Inbound struct {
	Req command.Request
	Err error
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// TelemetryPayload is the MQTT payload for a telemetry sample.
type TelemetryPayload struct {
	Telemetry TelemetryInner `json:"telemetry"`
}

// TelemetryInner contains the sample details.
type TelemetryInner struct {
	Timestamp string `json:"timestamp"`
	Component string `json:"component"`
	Channel   string `json:"channel"`
	Value     any    `json:"value"`
}

// FormatTelemetry creates the JSON payload for a telemetry sample.
func FormatTelemetry(s telem.Sample) ([]byte, error) {
	return json.Marshal(TelemetryPayload{
		Telemetry: TelemetryInner{
			Timestamp: formatTime(s.Timestamp),
			Component: s.Component,
			Channel:   s.Channel,
			Value:     s.Value,
		},
	})
}

// EventPayload is the MQTT payload for an event record.
type EventPayload struct {
	Event EventInner `json:"event"`
}

// EventInner contains the event details.
type EventInner struct {
	Timestamp string `json:"timestamp"`
	Component string `json:"component"`
	Severity  string `json:"severity"`
	Name      string `json:"name"`
	Message   string `json:"message,omitempty"`
}

// FormatEvent creates the JSON payload for an event record.
func FormatEvent(e telem.Event) ([]byte, error) {
	return json.Marshal(EventPayload{
		Event: EventInner{
			Timestamp: formatTime(e.Timestamp),
			Component: e.Component,
			Severity:  string(e.Severity),
			Name:      e.Name,
			Message:   e.Message,
		},
	})
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events (LWT) that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: formatTime(event.Timestamp),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}

// decodeInbound turns a raw command message into an Inbound.
func decodeInbound(payload []byte) Inbound {
	req, err := command.Decode(payload)
	return Inbound{Req: req, Err: err}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
