// Command fsw runs the blink and watchdog-pet components, taking ground
// commands and publishing telemetry and events over MQTT.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/juju/gnuflag"
	"github.com/sirupsen/logrus"

	"github.com/broncoore/fsw/internal/command"
	"github.com/broncoore/fsw/internal/gpio"
	"github.com/broncoore/fsw/internal/mqtt"
	"github.com/broncoore/fsw/internal/param"
	"github.com/broncoore/fsw/internal/pixel"
	"github.com/broncoore/fsw/internal/status"
	"github.com/broncoore/fsw/internal/telem"
	"github.com/broncoore/fsw/internal/web"
)

type options struct {
	rate            time.Duration
	broker          string
	clientID        string
	params          string
	chip            string
	ledPin          int
	watchdogPin     int
	spi             string
	blinkerColor    string
	ledBlinking     bool
	blinkerBlinking bool
	watchdogEnabled bool
	httpAddr        string
	logLevel        string
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := gnuflag.NewFlagSet("fsw", gnuflag.ContinueOnError)
	fs.DurationVar(&o.rate, "rate", 100*time.Millisecond, "Scheduler tick period")
	fs.StringVar(&o.broker, "broker", "tcp://localhost:1883", "MQTT broker address")
	fs.StringVar(&o.clientID, "client-id", "fsw", "MQTT client id")
	fs.StringVar(&o.params, "params", "/var/lib/fsw/params.yaml", "Parameter database file (empty for defaults only)")
	fs.StringVar(&o.chip, "chip", gpio.DefaultChip, "GPIO chip")
	fs.IntVar(&o.ledPin, "led-pin", gpio.DefaultPinLED, "Line offset for the LED (-1 to disable)")
	fs.IntVar(&o.watchdogPin, "watchdog-pin", gpio.DefaultPinWatchdog, "Line offset for the watchdog pet (-1 to disable)")
	fs.StringVar(&o.spi, "spi", "", "SPI port for the NeoPixel (empty to disable)")
	fs.StringVar(&o.blinkerColor, "blinker-color", pixel.Red.String(), "Colour lit by the blinker")
	fs.BoolVar(&o.ledBlinking, "led-blinking", true, "Start the LED blinking")
	fs.BoolVar(&o.blinkerBlinking, "blinker-blinking", false, "Start the NeoPixel blinking")
	fs.BoolVar(&o.watchdogEnabled, "watchdog-enabled", true, "Start petting the watchdog")
	fs.StringVar(&o.httpAddr, "http", ":8080", "HTTP status address (empty to disable)")
	fs.StringVar(&o.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	if err := fs.Parse(true, args); err != nil {
		return o, err
	}
	if fs.NArg() > 0 {
		return o, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if o.rate <= 0 {
		return o, fmt.Errorf("--rate must be positive, got %v", o.rate)
	}
	return o, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err == gnuflag.ErrHelp {
		os.Exit(0)
	}
	if err != nil {
		logrus.Fatalf("flags: %v", err)
	}
	if err := setupLogging(opts.logLevel); err != nil {
		logrus.Fatalf("flags: %v", err)
	}
	if err := run(opts); err != nil {
		logrus.Fatalf("fatal: %v", err)
	}
}

func setupLogging(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("--log-level: %w", err)
	}
	logrus.SetLevel(lvl)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return nil
}

func run(opts options) error {
	log := logrus.StandardLogger()

	store, err := param.NewStore(log, paramDefs()...)
	if err != nil {
		return fmt.Errorf("init params: %w", err)
	}
	if opts.params != "" {
		if err := store.Load(opts.params); err != nil {
			return fmt.Errorf("load params: %w", err)
		}
	}

	hw, err := openHardware(opts)
	if err != nil {
		return err
	}
	defer hw.Close()

	publisher := mqtt.NewRealPublisher(opts.broker, opts.clientID, log)
	defer publisher.Close()

	sink := telem.Fanout{telem.NewLogSink(log), publisher}
	sys, err := newSystem(opts, store, sink, hw, log)
	if err != nil {
		return err
	}

	tracker := status.NewTracker(time.Now(), status.Config{
		RateMs:     opts.rate.Milliseconds(),
		Broker:     opts.broker,
		HTTPAddr:   opts.httpAddr,
		ParamsPath: opts.params,
	})
	tracker.Update(sys.statuses())

	snap := tracker.Snapshot()
	startup := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startup); err != nil {
		log.WithError(err).Warn("failed to publish startup event")
	} else {
		log.Info("published startup event")
	}

	if opts.httpAddr != "" {
		srv := web.New(opts.httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.WithError(err).Error("http server error")
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Infof("http status server listening on %s", opts.httpAddr)
	}

	log.WithFields(logrus.Fields{
		"rate":       opts.rate,
		"broker":     opts.broker,
		"components": sys.dispatcher.Components(),
	}).Info("started")

	ticker := time.NewTicker(opts.rate)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(sys, publisher, publisher, tracker, time.Now, ticker.C, sigCh)
}

// runLoop is the single executor: every tick, command and shutdown is
// handled here, one at a time.
func runLoop(sys *system, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	log := logrus.StandardLogger()
	cmds := publisher.Commands()

	for {
		select {
		case s := <-sig:
			log.Infof("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			event := mqtt.SystemEvent{
				Timestamp: now(),
				Event:     "SHUTDOWN",
				Reason:    signalName,
				Retained:  true,
			}
			if tracker != nil {
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
				snap := tracker.Snapshot()
				event.RawPayload = status.FormatStatusEvent(snap, "SHUTDOWN", signalName)
			}
			if err := publisher.PublishSystem(event); err != nil {
				log.WithError(err).Warn("failed to publish shutdown event")
			} else {
				log.Info("published shutdown event")
			}
			return nil

		case in := <-cmds:
			resp := sys.handle(in)
			if resp == nil {
				continue
			}
			if err := publisher.PublishResponse(*resp); err != nil {
				log.WithError(err).Warn("publish command response")
			}
			if tracker != nil {
				tracker.CountCommand(resp.Status == command.OK)
			}

		case <-tick:
			for _, c := range sys.components {
				c.OnTick()
			}
			if tracker != nil {
				tracker.Update(sys.statuses())
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
			}
		}
	}
}
