package config

import "thermocouple-service/internal/hardware"

// PinMapping returns the configured GPIO outputs keyed by signal name.
// The result is empty when no pin is configured.
func (c *Config) PinMapping() (map[string]hardware.Pin, error) {
	m := make(map[string]hardware.Pin)
	for name, spec := range map[string]string{
		hardware.PinError:    c.Pins.Error,
		hardware.PinNoError:  c.Pins.NoError,
		hardware.PinWatchdog: c.Pins.Watchdog,
	} {
		if spec == "" {
			continue
		}
		pin, err := hardware.ParsePin(spec)
		if err != nil {
			return nil, err
		}
		m[name] = pin
	}
	return m, nil
}
