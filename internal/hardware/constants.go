package hardware

// Names of the process-wide signals that can be mirrored onto GPIO lines.
const (
	PinError    = "error"
	PinNoError  = "no-error"
	PinWatchdog = "watchdog"
)

// Consumer is the label shown for requested lines in gpioinfo.
const Consumer = "thermocouple-service"
