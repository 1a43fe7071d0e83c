// Package logic contains the pure interval-toggling state machine shared by
// the blink and watchdog components.
// This package has NO external dependencies (no GPIO, MQTT, OS, or clock).
package logic

import (
	"strconv"
	"strings"
)

// State is the logical output level of a toggled component.
type State string

const (
	StateOn  State = "ON"
	StateOff State = "OFF"
)

// Valid reports whether s is one of the two recognised levels.
func (s State) Valid() bool {
	return s == StateOn || s == StateOff
}

// ParseState decodes a command argument into a State.
// Accepts "ON"/"OFF" in any case and the enum values "1"/"0".
func ParseState(raw string) (State, bool) {
	v := strings.TrimSpace(raw)
	switch strings.ToUpper(v) {
	case "ON":
		return StateOn, true
	case "OFF":
		return StateOff, true
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return "", false
	}
	switch n {
	case 1:
		return StateOn, true
	case 0:
		return StateOff, true
	}
	return "", false
}

func boolToState(b bool) State {
	if b {
		return StateOn
	}
	return StateOff
}

// Transition is returned by Toggler.Tick when the output level changed and
// the host must publish telemetry and drive its actuator.
type Transition struct {
	// New level after this tick.
	State State
	// Transitions is the lifetime flip count after this tick.
	Transitions uint64
	// Forced is set when the toggler was disabled while ON and settled to
	// OFF. Forced transitions do not increment the flip count.
	Forced bool
}
