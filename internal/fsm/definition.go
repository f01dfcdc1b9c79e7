package fsm

import "github.com/librescoot/librefsm"

// NewDefinition creates the poller lifecycle definition.
//
//	initializing --channels-opened--> running
//	initializing --startup-failed---> shutting-down
//	running      --terminate--------> shutting-down
//	initializing --terminate--------> shutting-down
//
// shutting-down has no outgoing transitions.
func NewDefinition(actions Actions) *librefsm.Definition {
	return librefsm.NewDefinition().
		State(StateInitializing).
		State(StateRunning,
			librefsm.WithOnEnter(actions.EnterRunning),
		).
		State(StateShuttingDown,
			librefsm.WithOnEnter(actions.EnterShuttingDown),
		).
		Transition(StateInitializing, EvChannelsOpened, StateRunning,
			librefsm.WithGuard(actions.HasChannels),
		).
		Transition(StateInitializing, EvStartupFailed, StateShuttingDown).
		Transition(StateInitializing, EvTerminate, StateShuttingDown).
		Transition(StateRunning, EvTerminate, StateShuttingDown).
		Initial(StateInitializing)
}
