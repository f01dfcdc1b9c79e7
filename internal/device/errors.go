package device

import (
	"errors"
	"strconv"
)

var (
	// Startup-time configuration errors. A token that fails with one of
	// these is skipped; the rest of the list is still parsed.
	ErrInvalidToken      = errors.New("invalid device token")
	ErrInvalidAddress    = errors.New("invalid device specifier")
	ErrUnknownDeviceType = errors.New("unknown device type")
	ErrDuplicateAddress  = errors.New("duplicate device address")

	// ErrConnection means the transport for an address could not be opened.
	ErrConnection = errors.New("connection error")

	// ErrTransport means a single transfer failed. It only ever affects the
	// current cycle of the channel it happened on.
	ErrTransport = errors.New("transport error")
)

// ParseError reports which token failed and which part of it was at fault.
type ParseError struct {
	Token string
	Part  string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Part != "" {
		return e.Err.Error() + ": " + e.Part + " (token " + strconv.Quote(e.Token) + ")"
	}
	return e.Err.Error() + ": " + strconv.Quote(e.Token)
}

func (e *ParseError) Unwrap() error { return e.Err }
