package hardware

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"thermocouple-service/internal/device"
)

// Bus settings shared by every supported amplifier chip.
const (
	SPISpeed = 4 * physic.MegaHertz
	SPIMode  = spi.Mode1 // CPOL=0, CPHA=1; MSB first and active-low CS are periph defaults
	SPIBits  = 8
)

// SPIOpener opens spidev ports through periph.io.
type SPIOpener struct {
	once    sync.Once
	initErr error
}

func NewSPIOpener() *SPIOpener {
	return &SPIOpener{}
}

// PortName is the periph registry name of a spidev port.
func PortName(addr device.Address) string {
	return fmt.Sprintf("SPI%d.%d", addr.Bus, addr.Select)
}

func (o *SPIOpener) Open(addr device.Address) (device.Transport, error) {
	o.once.Do(func() {
		if _, err := host.Init(); err != nil {
			o.initErr = fmt.Errorf("failed to initialize periph host drivers: %w", err)
		}
	})
	if o.initErr != nil {
		return nil, o.initErr
	}

	p, err := spireg.Open(PortName(addr))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", PortName(addr), err)
	}
	c, err := p.Connect(SPISpeed, SPIMode, SPIBits)
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("failed to configure %s: %w", PortName(addr), err)
	}
	return &spiPort{port: p, conn: c}, nil
}

type spiPort struct {
	port spi.PortCloser
	conn spi.Conn
}

func (s *spiPort) Tx(w, r []byte) error {
	return s.conn.Tx(w, r)
}

func (s *spiPort) Close() error {
	return s.port.Close()
}
