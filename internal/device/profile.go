package device

import (
	"fmt"
	"sort"
	"strings"
)

// Profile describes how a supported amplifier chip lays out its reading.
type Profile struct {
	Name             string
	ReadLength       int    // bytes clocked out per read
	TemperatureShift uint   // low-order bits discarded before scaling
	FaultMask        uint32 // any bit set means the reading is a fault
	Fault            string // what a set fault bit means for this chip

	// SignBits is the width of a two's complement temperature field, 0 if
	// unsigned. When set the field is sign-extended rather than taken as the
	// plain shifted value, so negative temperatures read below zero.
	SignBits uint
}

// DegreesPerCount is the resolution of every supported chip.
const DegreesPerCount = 0.25

// Datasheets:
// http://datasheets.maximintegrated.com/en/ds/MAX6675.pdf
// http://datasheets.maximintegrated.com/en/ds/MAX31855.pdf
var profiles = map[string]Profile{
	"max6675": {
		Name:             "max6675",
		ReadLength:       2,
		TemperatureShift: 3,
		FaultMask:        0b100,
		Fault:            "thermocouple input open",
	},
	// Only the upper 16 bits of the 32-bit frame are read, so the single
	// fault flag is D16 and the fault type bits are never clocked out.
	"max31855": {
		Name:             "max31855",
		ReadLength:       2,
		TemperatureShift: 2,
		FaultMask:        0b1,
		SignBits:         14,
		Fault:            "thermocouple open or shorted",
	},
}

// Lookup returns the profile for a chip type. Names are case-insensitive.
func Lookup(name string) (Profile, error) {
	p, ok := profiles[strings.ToLower(name)]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %s", ErrUnknownDeviceType, name)
	}
	return p, nil
}

// Names returns the supported chip types in sorted order.
func Names() []string {
	names := make([]string, 0, len(profiles))
	for n := range profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
