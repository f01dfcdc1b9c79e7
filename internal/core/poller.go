package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/librescoot/librefsm"

	"thermocouple-service/internal/device"
	"thermocouple-service/internal/fsm"
	"thermocouple-service/internal/logger"
	"thermocouple-service/internal/types"
)

// DefaultInterval is the cycle period when none is configured.
const DefaultInterval = 500 * time.Millisecond

var (
	// ErrNoChannels is returned by Start when no device token both parsed
	// and opened. It is the only fatal startup condition.
	ErrNoChannels = errors.New("no devices successfully parsed")

	ErrNotRunning = errors.New("poller is not running")
)

// Config is what the poller needs at runtime.
type Config struct {
	Name     string
	Interval time.Duration
	Devices  string // comma-separated "<bus>.<select>:<chiptype>" tokens
}

// Poller reads every channel once per interval, strictly in configured
// order, and publishes the results.
type Poller struct {
	cfg     Config
	opener  device.Opener
	pub     Publisher
	logger  *logger.Logger
	machine *librefsm.Machine
	stopFSM context.CancelFunc

	channels []*device.Channel
	watchdog bool
	cycle    uint64
}

func NewPoller(cfg Config, opener device.Opener, pub Publisher, l *logger.Logger) *Poller {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	return &Poller{
		cfg:    cfg,
		opener: opener,
		pub:    pub,
		logger: l.WithTag("poller"),
	}
}

// Start parses the device list and opens a channel for every good token.
// Bad tokens and unopenable devices are logged and skipped. If nothing is
// left the poller goes straight to shutting down and ErrNoChannels is
// returned; otherwise the channel slots are registered and the poller is
// running.
func (p *Poller) Start() error {
	if err := p.initFSM(); err != nil {
		return fmt.Errorf("failed to start lifecycle: %w", err)
	}

	specs, errs := device.ParseList(p.cfg.Devices)
	for _, err := range errs {
		p.logger.Warnf("Skipping device: %v", err)
	}

	for _, s := range specs {
		ch, err := device.Open(p.opener, s.Address, s.Profile)
		if err != nil {
			p.logger.Warnf("Skipping device %s: %v", s.Token, err)
			continue
		}
		p.channels = append(p.channels, ch)
		p.logger.Infof("Opened %s on bus %d select %d", s.Profile.Name, s.Address.Bus, s.Address.Select)
	}

	if len(p.channels) == 0 {
		if err := p.sendEvent(fsm.EvStartupFailed); err != nil {
			p.logger.Errorf("Failed to enter shutdown: %v", err)
		}
		return ErrNoChannels
	}

	addrs := make([]device.Address, len(p.channels))
	for i, ch := range p.channels {
		addrs[i] = ch.Address()
	}
	if err := p.pub.Register(addrs); err != nil {
		if serr := p.sendEvent(fsm.EvStartupFailed); serr != nil {
			p.logger.Errorf("Failed to enter shutdown: %v", serr)
		}
		return fmt.Errorf("failed to register outputs: %w", err)
	}

	if err := p.sendEvent(fsm.EvChannelsOpened); err != nil {
		return fmt.Errorf("failed to enter running state: %w", err)
	}
	if s := p.State(); s != types.StateRunning {
		return fmt.Errorf("unexpected state after startup: %s", s)
	}
	return nil
}

// Run cycles on a fixed interval until ctx is cancelled. A slow read delays
// the next cycle; cycles never overlap.
func (p *Poller) Run(ctx context.Context) error {
	if p.State() != types.StateRunning {
		return ErrNotRunning
	}

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, ok := p.PollOnce(ctx); !ok {
				return nil
			}
		}
	}
}

// PollOnce runs one cycle. A transfer error counts as a fault for that
// channel and leaves its published values alone; it never stops the cycle.
// If ctx is cancelled between reads the cycle is abandoned unpublished and
// ok is false.
func (p *Poller) PollOnce(ctx context.Context) (snap types.Snapshot, ok bool) {
	snap.At = time.Now()
	fault := false

	for _, ch := range p.channels {
		if ctx.Err() != nil {
			return snap, false
		}

		r, err := ch.ReadOnce()
		if err != nil {
			p.logger.Debugf("Read failed: %v", err)
			ch.SetLastFault(true)
			fault = true
			continue
		}

		if r.Fault {
			p.logger.Debugf("Fault on %s (%s): raw=%#04x", ch.Address(), ch.Profile().Fault, r.Raw)
		}
		ch.SetLastFault(r.Fault)
		fault = fault || r.Fault
		snap.Readings = append(snap.Readings, types.ChannelReading{Address: ch.Address(), Reading: r})
	}

	p.cycle++
	p.watchdog = !p.watchdog

	snap.Cycle = p.cycle
	snap.Error = fault
	snap.NoError = !fault
	snap.Watchdog = p.watchdog

	if err := p.pub.Publish(snap); err != nil {
		p.logger.Warnf("Failed to publish cycle %d: %v", snap.Cycle, err)
	}
	return snap, true
}

// Shutdown moves to the terminal state, which closes every channel and
// releases the publisher. Safe to call more than once.
func (p *Poller) Shutdown() {
	if p.machine == nil {
		return
	}
	if p.State() != types.StateShuttingDown {
		if err := p.sendEvent(fsm.EvTerminate); err != nil {
			p.logger.Errorf("Failed to enter shutdown: %v", err)
		}
	}
	p.stopFSM()
}

func (p *Poller) State() types.ServiceState {
	if p.machine == nil {
		return types.StateInitializing
	}
	return stateIDToServiceState(p.machine.CurrentState())
}

// Channels returns the open channels in configured order.
func (p *Poller) Channels() []*device.Channel {
	return p.channels
}
