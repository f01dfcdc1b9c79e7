package config

import "strings"

// Normalize lower-cases and trims device tokens and drops empty ones.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	devices := cfg.Devices[:0]
	for _, d := range cfg.Devices {
		d = strings.ToLower(strings.TrimSpace(d))
		if d == "" {
			continue
		}
		devices = append(devices, d)
	}
	cfg.Devices = devices
}
