package types

import (
	"time"

	"thermocouple-service/internal/device"
)

type ServiceState string

const (
	StateInitializing ServiceState = "initializing"
	StateRunning      ServiceState = "running"
	StateShuttingDown ServiceState = "shutting-down"
)

// ChannelReading is the value a channel produced in one cycle.
type ChannelReading struct {
	Address device.Address
	Reading device.Reading
}

// Snapshot is everything published at the end of one cycle. Channels whose
// transfer failed are absent from Readings so their last published values
// stay in place.
type Snapshot struct {
	Cycle    uint64
	At       time.Time
	Readings []ChannelReading
	Error    bool
	NoError  bool
	Watchdog bool
}
