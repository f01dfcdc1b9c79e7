package config

import (
	"fmt"
	"strings"

	"thermocouple-service/internal/hardware"
	"thermocouple-service/internal/logger"
)

// Validate checks configuration correctness.
// It performs declarative validation only; device tokens themselves are
// parsed at startup where bad ones are skipped rather than rejected.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg.Name == "" {
		return fmt.Errorf("component name is required")
	}
	if cfg.Interval <= 0 {
		return fmt.Errorf("interval must be > 0, got %v", cfg.Interval)
	}

	empty := true
	for _, d := range cfg.Devices {
		if strings.TrimSpace(d) != "" {
			empty = false
			break
		}
	}
	if empty {
		return ErrNoDevices
	}

	if _, err := logger.ParseLevel(cfg.LogLevel); err != nil {
		return err
	}

	if cfg.Redis.Addr == "" {
		return fmt.Errorf("redis address is required")
	}

	pins := map[string]string{
		"error":    cfg.Pins.Error,
		"no_error": cfg.Pins.NoError,
		"watchdog": cfg.Pins.Watchdog,
	}
	used := make(map[hardware.Pin]string)
	for _, name := range []string{"error", "no_error", "watchdog"} {
		spec := pins[name]
		if spec == "" {
			continue
		}
		pin, err := hardware.ParsePin(spec)
		if err != nil {
			return fmt.Errorf("pins.%s: %w", name, err)
		}
		if prev, exists := used[pin]; exists {
			return fmt.Errorf("pins.%s: line %s already used by pins.%s", name, pin, prev)
		}
		used[pin] = name
	}

	return nil
}
