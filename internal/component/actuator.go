package component

import (
	"fmt"
	"time"

	"github.com/broncoore/fsw/internal/gpio"
	"github.com/broncoore/fsw/internal/logic"
	"github.com/broncoore/fsw/internal/pixel"
	"github.com/broncoore/fsw/internal/telem"
)

// GPIOActuator drives an LED on a GPIO line: ON is HIGH, OFF is LOW.
type GPIOActuator struct {
	Line gpio.Writer
}

func (a *GPIOActuator) Drive(state logic.State) error {
	return a.Line.Set(level(state))
}

// PixelActuator lights pixel 0 with Color when ON and clears it when OFF.
type PixelActuator struct {
	Strip pixel.Strip
	Color pixel.Color
}

func (a *PixelActuator) Drive(state logic.State) error {
	if state == logic.StateOn {
		return a.Strip.Show(true, a.Color)
	}
	return a.Strip.Show(false, pixel.Off)
}

// WatchdogActuator pulses the external watchdog's pet line. Each rising
// edge counts as one pet and is reported on the pets telemetry channel.
type WatchdogActuator struct {
	Line      gpio.Writer
	Component string
	Channel   string
	Sink      telem.TelemetrySink
	// Now defaults to time.Now.
	Now func() time.Time

	pets uint64
}

func (a *WatchdogActuator) Drive(state logic.State) error {
	if err := a.Line.Set(level(state)); err != nil {
		return fmt.Errorf("pet watchdog: %w", err)
	}
	if state != logic.StateOn {
		return nil
	}
	a.pets++
	if a.Sink != nil {
		now := time.Now
		if a.Now != nil {
			now = a.Now
		}
		a.Sink.Telemetry(telem.Sample{
			Timestamp: now(),
			Component: a.Component,
			Channel:   a.Channel,
			Value:     a.pets,
		})
	}
	return nil
}

// Pets returns the number of pets delivered.
func (a *WatchdogActuator) Pets() uint64 {
	return a.pets
}

func level(state logic.State) gpio.Level {
	if state == logic.StateOn {
		return gpio.High
	}
	return gpio.Low
}
