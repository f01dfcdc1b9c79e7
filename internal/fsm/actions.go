package fsm

import "github.com/librescoot/librefsm"

// Actions is implemented by the poller to run the side effects of each
// lifecycle state.
type Actions interface {
	// EnterRunning announces readiness to the publisher. It runs once, after
	// every channel slot has been registered and before the first cycle.
	EnterRunning(c *librefsm.Context) error

	// EnterShuttingDown closes every channel and releases the publisher.
	EnterShuttingDown(c *librefsm.Context) error

	// HasChannels guards the move to running.
	HasChannels(c *librefsm.Context) bool
}
