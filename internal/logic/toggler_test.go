package logic

import (
	"fmt"
	"testing"

	qt "github.com/frankban/quicktest"
)

// tickN ticks n times and returns the transitions reported, indexed by tick.
func tickN(tg *Toggler, interval uint32, n int) map[int]Transition {
	got := make(map[int]Transition)
	for i := 0; i < n; i++ {
		if tr := tg.Tick(interval); tr != nil {
			got[i] = *tr
		}
	}
	return got
}

func TestNewToggler(t *testing.T) {
	c := qt.New(t)
	tg := NewToggler(true)
	c.Assert(tg.State(), qt.Equals, StateOff)
	c.Assert(tg.Enabled(), qt.IsTrue)
	c.Assert(tg.TickCount(), qt.Equals, uint32(0))
	c.Assert(tg.Transitions(), qt.Equals, uint64(0))

	c.Assert(NewToggler(false).Enabled(), qt.IsFalse)
}

func TestScenarioInterval10(t *testing.T) {
	c := qt.New(t)
	tg := NewToggler(true)

	tr := tg.Tick(10)
	c.Assert(tr, qt.DeepEquals, &Transition{State: StateOn, Transitions: 1})

	for i := 1; i <= 4; i++ {
		c.Assert(tg.Tick(10), qt.IsNil, qt.Commentf("tick %d", i))
	}

	c.Assert(tg.TickCount(), qt.Equals, uint32(5))
	tr = tg.Tick(10)
	c.Assert(tr, qt.DeepEquals, &Transition{State: StateOff, Transitions: 2})

	for i := 6; i <= 8; i++ {
		c.Assert(tg.Tick(10), qt.IsNil, qt.Commentf("tick %d", i))
	}
	c.Assert(tg.TickCount(), qt.Equals, uint32(9))

	// Tick 9 wraps the counter.
	c.Assert(tg.Tick(10), qt.IsNil)
	c.Assert(tg.TickCount(), qt.Equals, uint32(0))

	tr = tg.Tick(10)
	c.Assert(tr, qt.DeepEquals, &Transition{State: StateOn, Transitions: 3})
}

func TestTwoTransitionsPerCycle(t *testing.T) {
	c := qt.New(t)
	for _, interval := range []uint32{2, 4, 6, 10, 100} {
		c.Run(fmt.Sprint(interval), func(c *qt.C) {
			tg := NewToggler(true)
			const cycles = 5
			got := tickN(tg, interval, cycles*int(interval))
			c.Assert(got, qt.HasLen, 2*cycles, qt.Commentf("interval %d", interval))

			for i, tr := range got {
				pos := uint32(i) % interval
				switch pos {
				case 0:
					c.Assert(tr.State, qt.Equals, StateOn, qt.Commentf("interval %d tick %d", interval, i))
				case interval / 2:
					c.Assert(tr.State, qt.Equals, StateOff, qt.Commentf("interval %d tick %d", interval, i))
				default:
					c.Errorf("interval %d: unexpected transition at tick %d", interval, i)
				}
			}
			c.Assert(tg.Transitions(), qt.Equals, uint64(2*cycles))
		})
	}
}

func TestOddIntervalPerCycle(t *testing.T) {
	c := qt.New(t)
	tg := NewToggler(true)
	got := tickN(tg, 5, 10)
	c.Assert(got, qt.DeepEquals, map[int]Transition{
		0: {State: StateOn, Transitions: 1},
		2: {State: StateOff, Transitions: 2},
		5: {State: StateOn, Transitions: 3},
		7: {State: StateOff, Transitions: 4},
	})
}

func TestTickCountStaysInRange(t *testing.T) {
	c := qt.New(t)
	tg := NewToggler(true)
	for i := 0; i < 1000; i++ {
		interval := uint32(i%13 + 1)
		tg.Tick(interval)
		c.Assert(tg.TickCount() < interval, qt.IsTrue, qt.Commentf("tick %d interval %d count %d", i, interval, tg.TickCount()))
	}
}

func TestTransitionsMonotonic(t *testing.T) {
	c := qt.New(t)
	tg := NewToggler(true)
	prev := tg.Transitions()
	for i := 0; i < 200; i++ {
		if i == 50 || i == 120 {
			tg.SetEnabled(false)
		}
		if i == 80 || i == 150 {
			tg.SetEnabled(true)
		}
		tr := tg.Tick(uint32(i%7 + 2))
		cur := tg.Transitions()
		switch {
		case tr == nil:
			c.Assert(cur, qt.Equals, prev, qt.Commentf("tick %d", i))
		case tr.Forced:
			c.Assert(cur, qt.Equals, prev, qt.Commentf("tick %d", i))
		default:
			c.Assert(cur, qt.Equals, prev+1, qt.Commentf("tick %d", i))
			c.Assert(tr.Transitions, qt.Equals, cur)
		}
		prev = cur
	}
}

func TestDisableWhileOn(t *testing.T) {
	c := qt.New(t)
	tg := NewToggler(true)
	c.Assert(tg.Tick(10), qt.IsNotNil)
	c.Assert(tg.State(), qt.Equals, StateOn)
	countBefore := tg.TickCount()

	tg.SetEnabled(false)
	c.Assert(tg.TickCount(), qt.Equals, uint32(0))

	tr := tg.Tick(10)
	c.Assert(tr, qt.DeepEquals, &Transition{State: StateOff, Transitions: 1, Forced: true})
	c.Assert(tg.State(), qt.Equals, StateOff)
	c.Assert(countBefore, qt.Equals, uint32(1))

	for i := 0; i < 50; i++ {
		c.Assert(tg.Tick(10), qt.IsNil)
	}
	c.Assert(tg.TickCount(), qt.Equals, uint32(0))
	c.Assert(tg.Transitions(), qt.Equals, uint64(1))
}

func TestDisabledWhileOffIsIdempotent(t *testing.T) {
	c := qt.New(t)
	tg := NewToggler(false)
	for i := 0; i < 100; i++ {
		c.Assert(tg.Tick(uint32(i)), qt.IsNil)
	}
	c.Assert(tg.State(), qt.Equals, StateOff)
	c.Assert(tg.Transitions(), qt.Equals, uint64(0))
}

func TestEnableRestartsCycle(t *testing.T) {
	c := qt.New(t)
	tg := NewToggler(true)
	tickN(tg, 10, 3)
	c.Assert(tg.TickCount(), qt.Equals, uint32(3))

	tg.SetEnabled(false)
	tg.Tick(10) // forced OFF
	tg.SetEnabled(true)
	c.Assert(tg.TickCount(), qt.Equals, uint32(0))

	tr := tg.Tick(10)
	c.Assert(tr, qt.DeepEquals, &Transition{State: StateOn, Transitions: 2})
	c.Assert(tg.TickCount(), qt.Equals, uint32(1))
}

func TestReenableWhileOnContinuesFromZero(t *testing.T) {
	c := qt.New(t)
	tg := NewToggler(true)
	tickN(tg, 10, 3) // ON at tick 0, count now 3

	tg.SetEnabled(true)
	c.Assert(tg.TickCount(), qt.Equals, uint32(0))
	// Still ON: nothing happens until the half-period.
	got := tickN(tg, 10, 6)
	c.Assert(got, qt.DeepEquals, map[int]Transition{
		5: {State: StateOff, Transitions: 2},
	})
}

func TestZeroIntervalAlternatesEveryTick(t *testing.T) {
	c := qt.New(t)
	for _, interval := range []uint32{0, 1} {
		c.Run(fmt.Sprint(interval), func(c *qt.C) {
			tg := NewToggler(true)
			for i := 0; i < 10; i++ {
				tr := tg.Tick(interval)
				c.Assert(tr, qt.IsNotNil, qt.Commentf("interval %d tick %d", interval, i))
				want := StateOn
				if i%2 == 1 {
					want = StateOff
				}
				c.Assert(tr.State, qt.Equals, want)
				c.Assert(tg.TickCount(), qt.Equals, uint32(0))
			}
			c.Assert(tg.Transitions(), qt.Equals, uint64(10))
		})
	}
}

func TestIntervalChangeMidCycle(t *testing.T) {
	c := qt.New(t)
	tg := NewToggler(true)
	tickN(tg, 100, 10) // ON, count 10

	// Shrinking the interval below the count makes the next tick wrap.
	c.Assert(tg.Tick(4), qt.IsNil)
	c.Assert(tg.TickCount(), qt.Equals, uint32(0))
	c.Assert(tg.Tick(4), qt.IsNil)
	c.Assert(tg.Tick(4), qt.IsNil)
	tr := tg.Tick(4)
	c.Assert(tr, qt.DeepEquals, &Transition{State: StateOff, Transitions: 2})
}

func TestParseState(t *testing.T) {
	tests := []struct {
		in     string
		want   State
		wantOK bool
	}{
		{"ON", StateOn, true},
		{"off", StateOff, true},
		{" On ", StateOn, true},
		{"1", StateOn, true},
		{"0", StateOff, true},
		{"2", "", false},
		{"-1", "", false},
		{"", "", false},
		{"blink", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c := qt.New(t)
			got, ok := ParseState(tt.in)
			c.Assert(ok, qt.Equals, tt.wantOK)
			c.Assert(got, qt.Equals, tt.want)
		})
	}
}

func TestStateValid(t *testing.T) {
	c := qt.New(t)
	c.Assert(StateOn.Valid(), qt.IsTrue)
	c.Assert(StateOff.Valid(), qt.IsTrue)
	c.Assert(State("").Valid(), qt.IsFalse)
	c.Assert(State("BLINK").Valid(), qt.IsFalse)
}
