//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealWriter drives an output line using the Linux GPIO character device.
type RealWriter struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line
	pin  int
}

// NewRealWriter requests pin on the named chip as an output, initially low.
func NewRealWriter(chipName string, pin int) (*RealWriter, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip %s: %w", chipName, err)
	}

	line, err := chip.RequestLine(pin, gpiocdev.AsOutput(int(Low)), gpiocdev.WithConsumer("fsw"))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request pin %d: %w", pin, err)
	}

	return &RealWriter{
		chip: chip,
		line: line,
		pin:  pin,
	}, nil
}

// Set drives the line.
func (w *RealWriter) Set(level Level) error {
	if err := w.line.SetValue(int(level)); err != nil {
		return fmt.Errorf("set pin %d %s: %w", w.pin, level, err)
	}
	return nil
}

// Close drives the line low and releases it.
// Reconfigures the pin as an input with pull-down (matching Pi boot
// defaults) so nothing is left driven across a reboot.
func (w *RealWriter) Close() error {
	var errs []error

	if w.line != nil {
		if err := w.line.SetValue(int(Low)); err != nil {
			errs = append(errs, fmt.Errorf("drive pin %d low: %w", w.pin, err))
		}
		if err := w.line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure pin %d: %w", w.pin, err))
		}
		if err := w.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close pin %d: %w", w.pin, err))
		}
	}
	if w.chip != nil {
		if err := w.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
