package main

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/broncoore/fsw/internal/command"
	"github.com/broncoore/fsw/internal/component"
	"github.com/broncoore/fsw/internal/gpio"
	"github.com/broncoore/fsw/internal/mqtt"
	"github.com/broncoore/fsw/internal/param"
	"github.com/broncoore/fsw/internal/pixel"
	"github.com/broncoore/fsw/internal/telem"
)

// Parameter ids.
const (
	paramLedInterval param.ID = iota + 1
	paramBlinkerInterval
	paramWatchdogInterval
)

// Default intervals, in ticks.
const (
	defaultLedInterval      = 10
	defaultBlinkerInterval  = 10
	defaultWatchdogInterval = 4
)

// paramDBName addresses the parameter database in commands.
const paramDBName = "prmdb"

func paramDefs() []param.Def {
	return []param.Def{
		{ID: paramLedInterval, Name: "LED_BLINK_INTERVAL", Default: param.Uint32(defaultLedInterval), Validate: param.Positive},
		{ID: paramBlinkerInterval, Name: "BLINKER_BLINK_INTERVAL", Default: param.Uint32(defaultBlinkerInterval), Validate: param.Positive},
		{ID: paramWatchdogInterval, Name: "WATCHDOG_INTERVAL", Default: param.Uint32(defaultWatchdogInterval), Validate: param.Positive},
	}
}

// hardware holds the opened outputs. A nil field is not connected.
type hardware struct {
	led      gpio.Writer
	watchdog gpio.Writer
	strip    pixel.Strip
}

func openHardware(opts options) (hw hardware, err error) {
	defer func() {
		if err != nil {
			hw.Close()
		}
	}()

	if opts.ledPin >= 0 {
		w, err := gpio.NewRealWriter(opts.chip, opts.ledPin)
		if err != nil {
			return hw, fmt.Errorf("init led gpio: %w", err)
		}
		hw.led = w
	}
	if opts.watchdogPin >= 0 {
		w, err := gpio.NewRealWriter(opts.chip, opts.watchdogPin)
		if err != nil {
			return hw, fmt.Errorf("init watchdog gpio: %w", err)
		}
		hw.watchdog = w
	}
	if opts.spi != "" {
		s, err := pixel.NewRealStrip(opts.spi, 1)
		if err != nil {
			return hw, fmt.Errorf("init neopixel: %w", err)
		}
		hw.strip = s
	}
	return hw, nil
}

// Close releases every opened output.
func (hw hardware) Close() {
	if hw.led != nil {
		if err := hw.led.Close(); err != nil {
			logrus.WithError(err).Warn("close led gpio")
		}
	}
	if hw.watchdog != nil {
		if err := hw.watchdog.Close(); err != nil {
			logrus.WithError(err).Warn("close watchdog gpio")
		}
	}
	if hw.strip != nil {
		if err := hw.strip.Close(); err != nil {
			logrus.WithError(err).Warn("close neopixel")
		}
	}
}

// system is everything the executor loop owns.
type system struct {
	components []*component.Component
	dispatcher *command.Dispatcher
	watchdog   *component.WatchdogActuator
	log        logrus.FieldLogger
}

func newSystem(opts options, store *param.Store, sink telem.Sink, hw hardware, log logrus.FieldLogger) (*system, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	color, err := pixel.ParseColor(opts.blinkerColor)
	if err != nil {
		return nil, fmt.Errorf("--blinker-color: %w", err)
	}

	sys := &system{
		dispatcher: command.NewDispatcher(log),
		log:        log,
	}

	var ledAct, blinkerAct, watchdogAct component.Actuator
	if hw.led != nil {
		ledAct = &component.GPIOActuator{Line: hw.led}
	}
	if hw.strip != nil {
		blinkerAct = &component.PixelActuator{Strip: hw.strip, Color: color}
	}
	if hw.watchdog != nil {
		sys.watchdog = &component.WatchdogActuator{
			Line:      hw.watchdog,
			Component: "watchdog",
			Channel:   "WatchdogPets",
			Sink:      sink,
		}
		watchdogAct = sys.watchdog
	}

	cfgs := []struct {
		cfg component.Config
		act component.Actuator
	}{
		{component.Config{
			Name:               "led",
			IntervalParam:      paramLedInterval,
			TransitionsChannel: "LedTransitions",
			StateChannel:       "BlinkingState",
			Blinking:           opts.ledBlinking,
			Log:                log,
		}, ledAct},
		{component.Config{
			Name:               "blinker",
			IntervalParam:      paramBlinkerInterval,
			TransitionsChannel: "LedBlinks",
			StateChannel:       "BlinkingState",
			Blinking:           opts.blinkerBlinking,
			Log:                log,
		}, blinkerAct},
		{component.Config{
			Name:               "watchdog",
			IntervalParam:      paramWatchdogInterval,
			TransitionsChannel: "WatchdogTransitions",
			StateChannel:       "WatchdogState",
			Blinking:           opts.watchdogEnabled,
			Log:                log,
		}, watchdogAct},
	}
	for _, c := range cfgs {
		comp := component.New(c.cfg, store, sink, c.act)
		store.Subscribe(comp.HandleParameterChange)
		sys.dispatcher.Register(comp.Name(), comp)
		sys.components = append(sys.components, comp)
	}
	sys.dispatcher.Register(paramDBName, &component.ParamDB{Store: store, Path: opts.params, Log: log})
	return sys, nil
}

func (s *system) statuses() []component.Status {
	out := make([]component.Status, 0, len(s.components))
	for _, c := range s.components {
		out = append(out, c.Status())
	}
	return out
}

// handle turns an inbound message into its response. It returns nil when
// a malformed message carried no addressing to reply to.
func (s *system) handle(in mqtt.Inbound) *command.Response {
	if in.Err != nil {
		s.log.WithError(in.Err).Warn("command: malformed")
		if in.Req.Component == "" {
			return nil
		}
		resp := in.Req.Respond(command.FormatError)
		return &resp
	}
	resp := s.dispatcher.Dispatch(in.Req)
	return &resp
}
