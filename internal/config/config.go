package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Name     string      `yaml:"name"`
	Interval float64     `yaml:"interval"` // seconds between cycles
	Devices  []string    `yaml:"devices"`  // "<bus>.<select>:<chiptype>"
	LogLevel string      `yaml:"log_level"`
	Redis    RedisConfig `yaml:"redis"`
	Pins     PinsConfig  `yaml:"pins"`
}

// ---- PUBLISHER ----

type RedisConfig struct {
	Addr string `yaml:"addr"`
	DB   int    `yaml:"db"`
}

// PinsConfig optionally mirrors the process-wide signals onto GPIO lines,
// each written as "<chip>:<line>". Empty means not mirrored.
type PinsConfig struct {
	Error    string `yaml:"error"`
	NoError  string `yaml:"no_error"`
	Watchdog string `yaml:"watchdog"`
}

const (
	DefaultInterval  = 0.5
	DefaultLogLevel  = "info"
	DefaultRedisAddr = "127.0.0.1:6379"
)

// Default returns the configuration used when neither file nor flags say
// otherwise.
func Default() *Config {
	return &Config{
		Interval: DefaultInterval,
		LogLevel: DefaultLogLevel,
		Redis: RedisConfig{
			Addr: DefaultRedisAddr,
		},
	}
}

// Load reads a YAML file on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

// SetDevices replaces the device list from a comma-separated string, as
// given on the command line.
func (c *Config) SetDevices(list string) {
	c.Devices = nil
	if strings.TrimSpace(list) == "" {
		return
	}
	c.Devices = strings.Split(list, ",")
}

// DeviceList joins the devices back into the comma-separated form the
// poller parses.
func (c *Config) DeviceList() string {
	return strings.Join(c.Devices, ",")
}

func (c *Config) IntervalDuration() time.Duration {
	return time.Duration(c.Interval * float64(time.Second))
}

// ErrNoDevices is reported when the device list is empty.
var ErrNoDevices = errors.New("no devices specified")
