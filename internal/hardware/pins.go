package hardware

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/warthog618/go-gpiocdev"

	"thermocouple-service/internal/device"
	"thermocouple-service/internal/logger"
	"thermocouple-service/internal/types"
)

// Pin is one GPIO output line, written as "gpiochip0:17".
type Pin struct {
	Chip string
	Line int
}

func (p Pin) String() string {
	return fmt.Sprintf("%s:%d", p.Chip, p.Line)
}

// ParsePin parses "<chip>:<line>". A bare number selects gpiochipN.
func ParsePin(s string) (Pin, error) {
	chip, line, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || chip == "" {
		return Pin{}, fmt.Errorf("invalid GPIO pin %q, expected <chip>:<line>", s)
	}
	if _, err := strconv.Atoi(chip); err == nil {
		chip = "gpiochip" + chip
	}
	n, err := strconv.Atoi(line)
	if err != nil || n < 0 {
		return Pin{}, fmt.Errorf("invalid GPIO line in %q", s)
	}
	return Pin{Chip: chip, Line: n}, nil
}

// outputLine is the part of *gpiocdev.Line that PinOutputs needs.
type outputLine interface {
	SetValue(value int) error
	Close() error
}

// PinOutputs mirrors the error, no-error and watchdog signals onto GPIO
// output lines, e.g. to drive an external hardware watchdog.
type PinOutputs struct {
	logger  *logger.Logger
	mapping map[string]Pin
	chips   map[string]*gpiocdev.Chip
	lines   map[string]outputLine
	mu      sync.Mutex
}

// NewPinOutputs takes a map from signal name (PinError, PinNoError,
// PinWatchdog) to the line driving it.
func NewPinOutputs(mapping map[string]Pin, l *logger.Logger) *PinOutputs {
	return &PinOutputs{
		logger:  l.WithTag("gpio"),
		mapping: mapping,
		chips:   make(map[string]*gpiocdev.Chip),
		lines:   make(map[string]outputLine),
	}
}

// initialValue is the level a line starts at before the first cycle. The
// error line starts high so error and no-error are complements from the
// start.
func initialValue(name string) int {
	if name == PinError {
		return 1
	}
	return 0
}

// Initialize requests every configured line as an output at its initial
// value.
func (p *PinOutputs) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for name, pin := range p.mapping {
		chip, ok := p.chips[pin.Chip]
		if !ok {
			var err error
			chip, err = gpiocdev.NewChip(pin.Chip, gpiocdev.WithConsumer(Consumer))
			if err != nil {
				return fmt.Errorf("failed to open GPIO chip %s: %w", pin.Chip, err)
			}
			p.chips[pin.Chip] = chip
		}

		line, err := chip.RequestLine(pin.Line, gpiocdev.AsOutput(initialValue(name)))
		if err != nil {
			return fmt.Errorf("failed to request GPIO line %s for %s: %w", pin, name, err)
		}
		p.lines[name] = line
		p.logger.Infof("Configured %s output on %s", name, pin)
	}
	return nil
}

func (p *PinOutputs) Register(addrs []device.Address) error { return nil }
func (p *PinOutputs) Ready() error                          { return nil }

func (p *PinOutputs) Publish(s types.Snapshot) error {
	var firstErr error
	for name, v := range map[string]bool{
		PinError:    s.Error,
		PinNoError:  s.NoError,
		PinWatchdog: s.Watchdog,
	} {
		if err := p.write(name, v); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (p *PinOutputs) write(name string, value bool) error {
	p.mu.Lock()
	line, ok := p.lines[name]
	p.mu.Unlock()
	if !ok {
		return nil
	}

	val := 0
	if value {
		val = 1
	}
	if err := line.SetValue(val); err != nil {
		return fmt.Errorf("failed to set %s=%v: %w", name, value, err)
	}
	return nil
}

// Exit drives every line low and releases lines and chips.
func (p *PinOutputs) Exit() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for name, line := range p.lines {
		if err := line.SetValue(0); err != nil {
			p.logger.Warnf("Failed to reset %s: %v", name, err)
		}
		line.Close()
		p.logger.Debugf("Closed GPIO line for %s", name)
	}
	p.lines = make(map[string]outputLine)

	for name, chip := range p.chips {
		chip.Close()
		p.logger.Debugf("Closed GPIO chip %s", name)
	}
	p.chips = make(map[string]*gpiocdev.Chip)
	return nil
}
