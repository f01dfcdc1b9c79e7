package core

import (
	"context"

	"github.com/librescoot/librefsm"

	"thermocouple-service/internal/fsm"
	"thermocouple-service/internal/types"
)

// Ensure Poller implements fsm.Actions
var _ fsm.Actions = (*Poller)(nil)

// stateIDToServiceState converts librefsm StateID to types.ServiceState
func stateIDToServiceState(id librefsm.StateID) types.ServiceState {
	switch id {
	case fsm.StateInitializing:
		return types.StateInitializing
	case fsm.StateRunning:
		return types.StateRunning
	case fsm.StateShuttingDown:
		return types.StateShuttingDown
	default:
		return types.ServiceState(string(id))
	}
}

// initFSM builds and starts the lifecycle machine. It gets its own context
// so that the terminate event can still be processed after the caller's
// context has been cancelled by a signal.
func (p *Poller) initFSM() error {
	def := fsm.NewDefinition(p)
	machine, err := def.Build()
	if err != nil {
		return err
	}
	p.machine = machine

	// Must not call back into the machine: the callback runs under its lock.
	p.machine.OnStateChange(func(from, to librefsm.StateID) {
		p.logger.Infof("State transition: %s -> %s", stateIDToServiceState(from), stateIDToServiceState(to))
	})

	ctx, cancel := context.WithCancel(context.Background())
	if err := p.machine.Start(ctx); err != nil {
		cancel()
		return err
	}
	p.stopFSM = cancel
	return nil
}

// sendEvent sends an event to the FSM and waits for it to be handled
func (p *Poller) sendEvent(event librefsm.EventID) error {
	return p.machine.SendSync(librefsm.Event{ID: event})
}

// === State Entry Actions ===

func (p *Poller) EnterRunning(c *librefsm.Context) error {
	p.logger.Infof("Polling %d channels every %v", len(p.channels), p.cfg.Interval)
	if err := p.pub.Ready(); err != nil {
		p.logger.Warnf("Failed to signal ready: %v", err)
	}
	return nil
}

// EnterShuttingDown closes every channel exactly once, carrying on past
// individual failures, then releases the publisher.
func (p *Poller) EnterShuttingDown(c *librefsm.Context) error {
	if len(p.channels) > 0 {
		p.logger.Infof("Terminating SPI connections")
	}
	for _, ch := range p.channels {
		if err := ch.Close(); err != nil {
			p.logger.Warnf("Failed to close %s: %v", ch.Address(), err)
		}
	}

	p.logger.Infof("Exiting component %s", p.cfg.Name)
	if err := p.pub.Exit(); err != nil {
		p.logger.Warnf("Failed to release publisher: %v", err)
	}
	return nil
}

// === Guards ===

func (p *Poller) HasChannels(c *librefsm.Context) bool {
	return len(p.channels) > 0
}
