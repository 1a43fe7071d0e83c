// Package status provides a thread-safe status tracker for the fsw daemon.
// It is written by the executor loop and read by HTTP handlers.
package status

import (
	"sync"
	"time"

	"github.com/broncoore/fsw/internal/component"
)

// Config contains daemon configuration for display.
type Config struct {
	RateMs     int64
	Broker     string
	HTTPAddr   string
	ParamsPath string
}

// CommandCounts tracks command completions since startup.
type CommandCounts struct {
	OK     int
	Failed int
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type and safe to use after the lock is released.
type Snapshot struct {
	Components    []component.Status
	Commands      CommandCounts
	Ticks         uint64
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Component returns the status of the named component.
func (s Snapshot) Component(name string) (component.Status, bool) {
	for _, c := range s.Components {
		if c.Name == name {
			return c, true
		}
	}
	return component.Status{}, false
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
	now  func() time.Time
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
		now: time.Now,
	}
}

// Update replaces component states and counts one tick.
// Called from runLoop on every tick.
func (t *Tracker) Update(components []component.Status) {
	cs := append([]component.Status(nil), components...)
	t.mu.Lock()
	t.snap.Components = cs
	t.snap.Ticks++
	t.mu.Unlock()
}

// CountCommand records a command completion.
func (t *Tracker) CountCommand(ok bool) {
	t.mu.Lock()
	if ok {
		t.snap.Commands.OK++
	} else {
		t.snap.Commands.Failed++
	}
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	s.Components = append([]component.Status(nil), t.snap.Components...)
	t.mu.RUnlock()
	s.Now = t.now()
	return s
}
