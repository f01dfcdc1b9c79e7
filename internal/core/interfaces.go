package core

import (
	"errors"

	"thermocouple-service/internal/device"
	"thermocouple-service/internal/types"
)

// Publisher is the sink the poller feeds, standing in for the host
// automation runtime's pin registry.
type Publisher interface {
	// Register creates the raw/value slots for every channel, in order.
	Register(addrs []device.Address) error
	// Ready is called once, before the first cycle.
	Ready() error
	// Publish is called at the end of every cycle.
	Publish(s types.Snapshot) error
	// Exit is called exactly once during shutdown.
	Exit() error
}

// Publishers fans every call out to each publisher in order. Errors are
// joined; one failing sink never stops the others.
type Publishers []Publisher

func (ps Publishers) Register(addrs []device.Address) error {
	var errs []error
	for _, p := range ps {
		errs = append(errs, p.Register(addrs))
	}
	return errors.Join(errs...)
}

func (ps Publishers) Ready() error {
	var errs []error
	for _, p := range ps {
		errs = append(errs, p.Ready())
	}
	return errors.Join(errs...)
}

func (ps Publishers) Publish(s types.Snapshot) error {
	var errs []error
	for _, p := range ps {
		errs = append(errs, p.Publish(s))
	}
	return errors.Join(errs...)
}

func (ps Publishers) Exit() error {
	var errs []error
	for _, p := range ps {
		errs = append(errs, p.Exit())
	}
	return errors.Join(errs...)
}
