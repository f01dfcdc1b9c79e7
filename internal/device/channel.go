package device

import (
	"fmt"
)

// Transport is one open SPI connection as provided by the platform driver.
type Transport interface {
	Tx(w, r []byte) error
	Close() error
}

// Opener opens the transport for an address with the fixed bus settings
// every supported chip needs: 4 MHz, SPI mode 1, MSB first, active-low
// chip select, 8-bit words.
type Opener interface {
	Open(addr Address) (Transport, error)
}

// Reading is one decoded sample. Celsius is only meaningful when Fault is
// false.
type Reading struct {
	Raw     uint32
	Celsius float64
	Fault   bool
}

// Channel is an open connection to one amplifier chip.
type Channel struct {
	addr      Address
	profile   Profile
	tr        Transport
	closed    bool
	lastFault bool
}

// Open connects to the chip at addr.
func Open(o Opener, addr Address, p Profile) (*Channel, error) {
	tr, err := o.Open(addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConnection, addr, err)
	}
	return &Channel{addr: addr, profile: p, tr: tr}, nil
}

func (c *Channel) Address() Address { return c.addr }
func (c *Channel) Profile() Profile { return c.profile }

// LastFault reports whether the channel faulted in the most recent cycle.
func (c *Channel) LastFault() bool { return c.lastFault }

// SetLastFault is called by the poller once per cycle.
func (c *Channel) SetLastFault(f bool) { c.lastFault = f }

// ReadOnce performs a single transfer and decodes it. A fault bit in the
// reading is not an error; only a failed transfer is.
func (c *Channel) ReadOnce() (Reading, error) {
	if c.closed {
		return Reading{}, fmt.Errorf("%w: %s: channel closed", ErrTransport, c.addr)
	}
	w := make([]byte, c.profile.ReadLength)
	r := make([]byte, c.profile.ReadLength)
	if err := c.tr.Tx(w, r); err != nil {
		return Reading{}, fmt.Errorf("%w: %s: %v", ErrTransport, c.addr, err)
	}
	return Decode(c.profile, r)
}

// Close releases the transport. Calling it again is a no-op.
func (c *Channel) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	return c.tr.Close()
}

// Decode converts the bytes of one read, first byte most significant.
func Decode(p Profile, b []byte) (Reading, error) {
	if len(b) < p.ReadLength {
		return Reading{}, fmt.Errorf("%w: short read: got %d bytes, want %d", ErrTransport, len(b), p.ReadLength)
	}
	var raw uint32
	for _, v := range b[:p.ReadLength] {
		raw = raw<<8 | uint32(v)
	}

	field := int64(raw >> p.TemperatureShift)
	if p.SignBits > 0 {
		field &= 1<<p.SignBits - 1
		if field&(1<<(p.SignBits-1)) != 0 {
			field -= 1 << p.SignBits // sign-extend
		}
	}

	return Reading{
		Raw:     raw,
		Celsius: float64(field) * DegreesPerCount,
		Fault:   raw&p.FaultMask != 0,
	}, nil
}
