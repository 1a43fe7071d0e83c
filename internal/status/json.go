package status

import (
	"encoding/json"
	"time"

	"github.com/broncoore/fsw/internal/component"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string          `json:"event,omitempty"`
	Reason        string          `json:"reason,omitempty"`
	UptimeSeconds int64           `json:"uptime_seconds"`
	StartTime     string          `json:"start_time"`
	Timestamp     string          `json:"timestamp"`
	Ticks         uint64          `json:"ticks"`
	MQTT          MQTTStatus      `json:"mqtt"`
	Commands      CommandsJSON    `json:"commands"`
	Components    []ComponentJSON `json:"components"`
	Config        ConfigJSON      `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CommandsJSON is the JSON representation of command counts.
type CommandsJSON struct {
	OK     int `json:"ok"`
	Failed int `json:"failed"`
}

// ComponentJSON is the JSON representation of one component.
type ComponentJSON struct {
	Name        string `json:"name"`
	State       string `json:"state"`
	Blinking    bool   `json:"blinking"`
	Transitions uint64 `json:"transitions"`
	TickCount   uint32 `json:"tick_count"`
	Interval    uint32 `json:"interval"`
	Validity    string `json:"interval_validity"`
	Connected   bool   `json:"actuator_connected"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	RateMs     int64  `json:"rate_ms"`
	Broker     string `json:"broker"`
	HTTPAddr   string `json:"http_addr"`
	ParamsPath string `json:"params_path,omitempty"`
}

func componentJSON(c component.Status) ComponentJSON {
	return ComponentJSON{
		Name:        c.Name,
		State:       string(c.State),
		Blinking:    c.Enabled,
		Transitions: c.Transitions,
		TickCount:   c.TickCount,
		Interval:    c.Interval,
		Validity:    c.Validity.String(),
		Connected:   c.Connected,
	}
}

func buildInner(snap Snapshot) StatusInner {
	comps := make([]ComponentJSON, 0, len(snap.Components))
	for _, c := range snap.Components {
		comps = append(comps, componentJSON(c))
	}

	return StatusInner{
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		Ticks:         snap.Ticks,
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Commands:      CommandsJSON{OK: snap.Commands.OK, Failed: snap.Commands.Failed},
		Components:    comps,
		Config: ConfigJSON{
			RateMs:     snap.Config.RateMs,
			Broker:     snap.Config.Broker,
			HTTPAddr:   snap.Config.HTTPAddr,
			ParamsPath: snap.Config.ParamsPath,
		},
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}

// FormatComponentJSON returns the JSON view of one component.
func FormatComponentJSON(c component.Status) []byte {
	data, _ := json.MarshalIndent(componentJSON(c), "", "  ")
	return data
}
