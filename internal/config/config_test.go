package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"thermocouple-service/internal/hardware"
)

func validConfig() *Config {
	cfg := Default()
	cfg.Name = "tc"
	cfg.Devices = []string{"1.0:max6675"}
	return cfg
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tc.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// ---- tests ----

func TestLoad(t *testing.T) {
	path := writeFile(t, `
name: spi-tc
interval: 0.25
devices:
  - 1.0:MAX6675
  - 1.1:max31855
log_level: debug
redis:
  addr: 10.0.0.1:6379
  db: 2
pins:
  watchdog: gpiochip0:17
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Name != "spi-tc" || cfg.Interval != 0.25 || len(cfg.Devices) != 2 {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.Redis.Addr != "10.0.0.1:6379" || cfg.Redis.DB != 2 {
		t.Errorf("unexpected redis config %+v", cfg.Redis)
	}
	if cfg.Pins.Watchdog != "gpiochip0:17" || cfg.Pins.Error != "" {
		t.Errorf("unexpected pins %+v", cfg.Pins)
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeFile(t, "name: tc\ndevices:\n  - 0.0:max6675\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Interval != DefaultInterval || cfg.Redis.Addr != DefaultRedisAddr || cfg.LogLevel != DefaultLogLevel {
		t.Errorf("defaults not kept: %+v", cfg)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	if _, err := Load(writeFile(t, "name: [unterminated")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestIntervalDuration(t *testing.T) {
	cfg := Default()
	if cfg.IntervalDuration() != 500*time.Millisecond {
		t.Errorf("IntervalDuration = %v, want 500ms", cfg.IntervalDuration())
	}
}

func TestSetDevices(t *testing.T) {
	cfg := Default()
	cfg.SetDevices("1.0:MAX6675, 1.1:max31855,")
	Normalize(cfg)

	if got := cfg.DeviceList(); got != "1.0:max6675,1.1:max31855" {
		t.Errorf("DeviceList = %q", got)
	}

	cfg.SetDevices("   ")
	if len(cfg.Devices) != 0 {
		t.Errorf("expected no devices, got %v", cfg.Devices)
	}
}

func TestValidate_NoDevices(t *testing.T) {
	cfg := validConfig()
	cfg.Devices = []string{" ", ""}

	if err := Validate(cfg); !errors.Is(err, ErrNoDevices) {
		t.Fatalf("expected ErrNoDevices, got %v", err)
	}
}

func TestValidate_MissingName(t *testing.T) {
	cfg := validConfig()
	cfg.Name = ""

	if err := Validate(cfg); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestValidate_BadInterval(t *testing.T) {
	cfg := validConfig()
	cfg.Interval = 0

	if err := Validate(cfg); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestValidate_BadLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.LogLevel = "chatty"

	if err := Validate(cfg); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestValidate_BadPin(t *testing.T) {
	cfg := validConfig()
	cfg.Pins.Error = "gpiochip0"

	if err := Validate(cfg); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestValidate_PinCollision(t *testing.T) {
	cfg := validConfig()
	cfg.Pins.Error = "gpiochip0:5"
	cfg.Pins.Watchdog = "0:5"

	if err := Validate(cfg); err == nil {
		t.Fatal("expected collision error, got nil")
	}
}

func TestPinMapping(t *testing.T) {
	cfg := validConfig()
	cfg.Pins.NoError = "gpiochip1:3"

	m, err := cfg.PinMapping()
	if err != nil {
		t.Fatalf("PinMapping failed: %v", err)
	}
	if len(m) != 1 || m[hardware.PinNoError] != (hardware.Pin{Chip: "gpiochip1", Line: 3}) {
		t.Errorf("unexpected mapping %v", m)
	}
}
