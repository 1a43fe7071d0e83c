// Package gpio provides GPIO output lines with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// Level is a logical output level.
type Level int

const (
	Low  Level = 0
	High Level = 1
)

func (l Level) String() string {
	if l == High {
		return "HIGH"
	}
	return "LOW"
}

// Writer drives a single GPIO output line.
type Writer interface {
	// Set drives the line to the given level.
	Set(level Level) error

	// Close releases GPIO resources.
	Close() error
}

// Default line offsets on gpiochip0 (BCM numbering).
const (
	DefaultChip        = "gpiochip0"
	DefaultPinLED      = 13
	DefaultPinWatchdog = 22
)
