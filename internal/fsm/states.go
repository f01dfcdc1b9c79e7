package fsm

import "github.com/librescoot/librefsm"

// Poller lifecycle states
const (
	StateInitializing librefsm.StateID = "initializing"
	StateRunning      librefsm.StateID = "running"
	StateShuttingDown librefsm.StateID = "shutting-down"
)

// Poller lifecycle events
const (
	EvChannelsOpened librefsm.EventID = "channels-opened"
	EvStartupFailed  librefsm.EventID = "startup-failed"
	EvTerminate      librefsm.EventID = "terminate"
)
