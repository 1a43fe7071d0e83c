// Package component hosts interval togglers: it feeds each toggler its
// interval parameter once per scheduler tick, publishes telemetry and
// events for every transition, drives the component's actuator and handles
// the component's ground commands.
//
// A Component is not safe for concurrent use. Ticks and commands for all
// components are delivered from a single executor goroutine.
package component

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/broncoore/fsw/internal/logic"
	"github.com/broncoore/fsw/internal/param"
	"github.com/broncoore/fsw/internal/telem"
)

// Opcodes handled by every component.
const (
	OpBlinkingOnOff = "BLINKING_ON_OFF"
)

// Event names.
const (
	EvSetBlinkingState     = "SetBlinkingState"
	EvInvalidBlinkArgument = "InvalidBlinkArgument"
	EvBlinkIntervalSet     = "BlinkIntervalSet"
	EvStateChanged         = "StateChanged"
)

// Actuator drives a component's physical output on each transition.
type Actuator interface {
	Drive(state logic.State) error
}

// Config describes one toggler-hosting component.
type Config struct {
	// Name addresses the component in commands, telemetry and events.
	Name string
	// IntervalParam is read every tick.
	IntervalParam param.ID
	// TransitionsChannel and StateChannel name the telemetry channels.
	TransitionsChannel string
	StateChannel       string
	// Blinking is the initial enabled flag.
	Blinking bool

	// Now defaults to time.Now.
	Now func() time.Time
	// Log defaults to the standard logrus logger.
	Log logrus.FieldLogger
}

// Status is a point-in-time view of a component.
type Status struct {
	Name        string
	State       logic.State
	Enabled     bool
	Transitions uint64
	TickCount   uint32
	Interval    uint32
	Validity    param.Validity
	Connected   bool
}

// Component binds a toggler to its parameter, sinks and actuator.
type Component struct {
	cfg      Config
	toggler  *logic.Toggler
	params   param.Reader
	sink     telem.Sink
	actuator Actuator
	log      logrus.FieldLogger

	lastInterval uint32
	lastValidity param.Validity
}

// New creates a component. actuator may be nil when no output is connected.
func New(cfg Config, params param.Reader, sink telem.Sink, actuator Actuator) *Component {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Log == nil {
		cfg.Log = logrus.StandardLogger()
	}
	return &Component{
		cfg:      cfg,
		toggler:  logic.NewToggler(cfg.Blinking),
		params:   params,
		sink:     sink,
		actuator: actuator,
		log:      cfg.Log.WithField("component", cfg.Name),
	}
}

// Name returns the component name.
func (c *Component) Name() string {
	return c.cfg.Name
}

// OnTick runs one scheduler tick.
func (c *Component) OnTick() {
	interval, validity := c.params.Get(c.cfg.IntervalParam)
	c.lastInterval, c.lastValidity = interval, validity
	if validity != param.Valid {
		interval = 0
	}

	tr := c.toggler.Tick(interval)
	if tr == nil {
		return
	}

	now := c.cfg.Now()
	c.telemetry(now, c.cfg.TransitionsChannel, tr.Transitions)
	c.telemetry(now, c.cfg.StateChannel, string(tr.State))
	c.event(now, telem.ActivityLo, EvStateChanged, fmt.Sprintf("state %s (transitions %d)", tr.State, tr.Transitions))

	if c.actuator == nil {
		return
	}
	if err := c.actuator.Drive(tr.State); err != nil {
		c.log.WithError(err).Warnf("actuator: drive %s failed", tr.State)
	}
}

// Status returns the component's current state.
func (c *Component) Status() Status {
	return Status{
		Name:        c.cfg.Name,
		State:       c.toggler.State(),
		Enabled:     c.toggler.Enabled(),
		Transitions: c.toggler.Transitions(),
		TickCount:   c.toggler.TickCount(),
		Interval:    c.lastInterval,
		Validity:    c.lastValidity,
		Connected:   c.actuator != nil,
	}
}

func (c *Component) telemetry(now time.Time, channel string, v any) {
	c.sink.Telemetry(telem.Sample{
		Timestamp: now,
		Component: c.cfg.Name,
		Channel:   channel,
		Value:     v,
	})
}

func (c *Component) event(now time.Time, sev telem.Severity, name, msg string) {
	c.sink.Event(telem.Event{
		Timestamp: now,
		Component: c.cfg.Name,
		Severity:  sev,
		Name:      name,
		Message:   msg,
	})
}
