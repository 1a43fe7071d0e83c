package mqtt

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/broncoore/fsw/internal/command"
	"github.com/broncoore/fsw/internal/telem"
)

func TestFormatTelemetryExactJSON(t *testing.T) {
	s := telem.Sample{
		Timestamp: time.Date(2026, 2, 2, 22, 18, 12, 0, time.UTC),
		Component: "led",
		Channel:   "LedTransitions",
		Value:     uint64(3),
	}

	payload, err := FormatTelemetry(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `{"telemetry":{"timestamp":"2026-02-02T22:18:12Z","component":"led","channel":"LedTransitions","value":3}}`
	if string(payload) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", string(payload), expected)
	}
}

func TestFormatTelemetryValueTypes(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"state", "ON", `"ON"`},
		{"count", uint64(42), `42`},
		{"flag", true, `true`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := FormatTelemetry(telem.Sample{Timestamp: time.Now(), Value: tt.value})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			var parsed struct {
				Telemetry struct {
					Value json.RawMessage `json:"value"`
				} `json:"telemetry"`
			}
			if err := json.Unmarshal(payload, &parsed); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if string(parsed.Telemetry.Value) != tt.want {
				t.Errorf("value: got %s, want %s", parsed.Telemetry.Value, tt.want)
			}
		})
	}
}

func TestFormatEvent(t *testing.T) {
	e := telem.Event{
		Timestamp: time.Date(2026, 2, 3, 10, 30, 45, 500000000, time.UTC),
		Component: "led",
		Severity:  telem.WarningLo,
		Name:      "InvalidBlinkArgument",
		Message:   `invalid blink argument "BLINK"`,
	}

	payload, err := FormatEvent(e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed EventPayload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if parsed.Event.Timestamp != "2026-02-03T10:30:45.5Z" {
		t.Errorf("unexpected timestamp: %s", parsed.Event.Timestamp)
	}
	if parsed.Event.Severity != "WARNING_LO" {
		t.Errorf("unexpected severity: %s", parsed.Event.Severity)
	}
	if parsed.Event.Name != "InvalidBlinkArgument" {
		t.Errorf("unexpected name: %s", parsed.Event.Name)
	}
	if parsed.Event.Message != e.Message {
		t.Errorf("unexpected message: %s", parsed.Event.Message)
	}
}

func TestFormatEventOmitsEmptyMessage(t *testing.T) {
	payload, err := FormatEvent(telem.Event{Timestamp: time.Now(), Name: "X", Severity: telem.ActivityLo})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed map[string]map[string]any
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if _, exists := parsed["event"]["message"]; exists {
		t.Error("message field should be omitted when empty")
	}
}

func TestFormatSystemPayloadExactJSON(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 2, 3, 10, 30, 45, 0, time.UTC),
		Event:     "SHUTDOWN",
		Reason:    "SIGTERM",
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `{"system":{"timestamp":"2026-02-03T10:30:45Z","event":"SHUTDOWN","reason":"SIGTERM"}}`
	if string(payload) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", string(payload), expected)
	}
}

func TestFormatSystemPayloadStartupOmitsReason(t *testing.T) {
	payload, err := FormatSystemPayload(SystemEvent{
		Timestamp: time.Date(2026, 2, 3, 19, 5, 51, 0, time.UTC),
		Event:     "STARTUP",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	system := parsed["system"].(map[string]interface{})
	if _, exists := system["reason"]; exists {
		t.Error("reason field should be omitted for startup events")
	}
}

func TestFormatSystemPayloadRaw(t *testing.T) {
	raw := []byte(`{"status":{"event":"STARTUP"}}`)
	payload, err := FormatSystemPayload(SystemEvent{Event: "STARTUP", RawPayload: raw})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(payload) != string(raw) {
		t.Errorf("expected raw payload returned, got %s", payload)
	}
}

func TestDecodeInbound(t *testing.T) {
	in := decodeInbound([]byte(`{"component":"led","opcode":"BLINKING_ON_OFF","seq":4,"args":["OFF"]}`))
	if in.Err != nil {
		t.Fatalf("unexpected error: %v", in.Err)
	}
	if in.Req.Seq != 4 || in.Req.Args[0] != "OFF" {
		t.Errorf("unexpected request: %+v", in.Req)
	}

	in = decodeInbound([]byte(`{"component":"led","opcode":"BLINKING_ON_OFF","seq":5,"args":7}`))
	if in.Err == nil {
		t.Fatal("expected decode error")
	}
	if in.Req.Seq != 5 {
		t.Errorf("expected seq recovered, got %d", in.Req.Seq)
	}
}

func TestTopics(t *testing.T) {
	topics := map[string]string{
		"fsw/telemetry": TopicTelemetry,
		"fsw/events":    TopicEvents,
		"fsw/commands":  TopicCommands,
		"fsw/responses": TopicResponses,
		"fsw/system":    TopicSystem,
	}
	for want, got := range topics {
		if got != want {
			t.Errorf("topic: got %q, want %q", got, want)
		}
	}
}

func TestFakePublisher(t *testing.T) {
	f := NewFakePublisher()

	f.Telemetry(telem.Sample{Component: "led", Channel: "BlinkingState", Value: "ON"})
	f.Event(telem.Event{Component: "led", Name: "StateChanged"})
	if err := f.PublishResponse(command.Response{Component: "led", Status: command.OK}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.Samples) != 1 || len(f.Events) != 1 || len(f.Responses) != 1 {
		t.Errorf("unexpected counts: samples=%d events=%d responses=%d", len(f.Samples), len(f.Events), len(f.Responses))
	}
}

func TestFakePublisherErrors(t *testing.T) {
	f := NewFakePublisher()
	f.PublishResponseError = errors.New("simulated error")
	f.PublishSystemError = errors.New("simulated error")

	if err := f.PublishResponse(command.Response{}); err == nil {
		t.Error("expected response error")
	}
	if err := f.PublishSystem(SystemEvent{Event: "STARTUP"}); err == nil {
		t.Error("expected system error")
	}
	if len(f.Responses) != 0 || len(f.SystemEvents) != 0 {
		t.Error("expected nothing recorded on error")
	}
}

func TestFakePublisherDeliver(t *testing.T) {
	f := NewFakePublisher()
	f.Deliver([]byte(`{"component":"watchdog","opcode":"BLINKING_ON_OFF","seq":1,"args":["ON"]}`))

	select {
	case in := <-f.Commands():
		if in.Err != nil || in.Req.Component != "watchdog" {
			t.Errorf("unexpected inbound: %+v", in)
		}
	default:
		t.Fatal("expected queued command")
	}
}

func TestFakePublisherReset(t *testing.T) {
	f := NewFakePublisher()
	f.Telemetry(telem.Sample{})
	f.PublishSystem(SystemEvent{Event: "STARTUP"})
	f.Close()
	f.Connected = true
	f.PublishSystemError = errors.New("error")

	f.Reset()

	if len(f.Samples) != 0 || len(f.SystemEvents) != 0 || len(f.SystemPayloads) != 0 {
		t.Error("recorded messages should be cleared")
	}
	if f.Closed || f.Connected {
		t.Error("closed/connected should be reset")
	}
	if f.PublishSystemError != nil {
		t.Error("error should be cleared")
	}
}
