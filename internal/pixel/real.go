package pixel

import (
	"fmt"

	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/host/v3"
)

// RealStrip drives NRZ-encoded LEDs over an SPI port.
type RealStrip struct {
	port spi.PortCloser
	dev  *nrzled.Dev
	buf  []byte
}

// NewRealStrip opens the named SPI port ("" for the first available) for a
// strip of n pixels.
func NewRealStrip(port string, n int) (*RealStrip, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init periph host: %w", err)
	}

	p, err := spireg.Open(port)
	if err != nil {
		return nil, fmt.Errorf("open spi port %q: %w", port, err)
	}

	opts := nrzled.DefaultOpts
	opts.NumPixels = n
	opts.Channels = 3
	dev, err := nrzled.NewSPI(p, &opts)
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("init nrzled: %w", err)
	}

	return &RealStrip{
		port: p,
		dev:  dev,
		buf:  make([]byte, n*3),
	}, nil
}

// Show writes the first pixel; the rest of the strip stays dark.
// Channel order on the wire is handled by nrzled (GRB).
func (s *RealStrip) Show(on bool, c Color) error {
	if !on {
		c = Off
	}
	s.buf[0], s.buf[1], s.buf[2] = c.R, c.G, c.B
	if _, err := s.dev.Write(s.buf); err != nil {
		return fmt.Errorf("write pixel %s: %w", c, err)
	}
	return nil
}

// Close clears the strip and releases the port.
func (s *RealStrip) Close() error {
	var errs []error
	if err := s.dev.Halt(); err != nil {
		errs = append(errs, fmt.Errorf("halt strip: %w", err))
	}
	if err := s.port.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close spi port: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
