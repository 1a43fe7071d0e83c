package logic

// Toggler flips a binary output once per half interval.
//
// It is driven by a fixed-rate Tick call and is not safe for concurrent use;
// the owning component serialises ticks and commands.
type Toggler struct {
	on          bool
	enabled     bool
	tickCount   uint32
	transitions uint64
}

// NewToggler creates a toggler in the OFF state with blinking enabled or
// disabled according to enabled.
func NewToggler(enabled bool) *Toggler {
	return &Toggler{enabled: enabled}
}

// Tick advances the toggler by one scheduler tick.
//
// interval is the configured period in ticks. Callers must pass 0 when the
// configured value is invalid or uninitialised. With an interval of 0 or 1
// the counter wraps every tick and the output alternates ON/OFF on every
// tick.
//
// A nil return means nothing observable happened.
func (t *Toggler) Tick(interval uint32) *Transition {
	if !t.enabled {
		if !t.on {
			return nil
		}
		t.on = false
		return &Transition{State: StateOff, Transitions: t.transitions, Forced: true}
	}

	next := t.on
	if t.tickCount == 0 && !t.on {
		next = true
	} else if t.tickCount == interval/2 && t.on {
		next = false
	}

	var tr *Transition
	if next != t.on {
		t.transitions++
		t.on = next
		tr = &Transition{State: boolToState(next), Transitions: t.transitions}
	}

	if t.tickCount+1 >= interval {
		t.tickCount = 0
	} else {
		t.tickCount++
	}
	return tr
}

// SetEnabled turns toggling on or off and restarts the cycle.
// The output level is left alone; the next Tick settles it.
func (t *Toggler) SetEnabled(on bool) {
	t.enabled = on
	t.tickCount = 0
}

// State returns the current output level.
func (t *Toggler) State() State {
	return boolToState(t.on)
}

// Enabled reports whether toggling is active.
func (t *Toggler) Enabled() bool {
	return t.enabled
}

// TickCount returns the ticks elapsed in the current cycle.
func (t *Toggler) TickCount() uint32 {
	return t.tickCount
}

// Transitions returns the number of counted flips since creation.
func (t *Toggler) Transitions() uint64 {
	return t.transitions
}
