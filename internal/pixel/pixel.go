// Package pixel drives a single addressable RGB pixel (WS2812/NeoPixel).
package pixel

import "fmt"

// Color is an RGB triple.
type Color struct {
	R, G, B uint8
}

// Off is the cleared pixel colour.
var Off = Color{}

// Common colours used by the blink components.
var (
	Red   = Color{R: 255}
	Green = Color{G: 150}
)

func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseColor parses "#rrggbb" or "rrggbb".
func ParseColor(s string) (Color, error) {
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	var c Color
	if len(s) != 6 {
		return c, fmt.Errorf("invalid colour %q", s)
	}
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		return c, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return c, nil
}

// Strip lights the first pixel of a strip.
type Strip interface {
	// Show lights the pixel with c, or clears it when on is false.
	Show(on bool, c Color) error

	// Close clears the pixel and releases the port.
	Close() error
}
