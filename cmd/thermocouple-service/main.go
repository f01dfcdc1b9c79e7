package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"golang.org/x/sys/unix"

	"thermocouple-service/internal/config"
	"thermocouple-service/internal/core"
	"thermocouple-service/internal/device"
	"thermocouple-service/internal/hardware"
	"thermocouple-service/internal/logger"
	"thermocouple-service/internal/messaging"
)

type flags struct {
	name       string
	interval   float64
	devices    string
	configPath string
	redisAddr  string
	redisDB    int
	logLevel   string
	errorPin   string
	noErrorPin string
	watchdog   string
}

func parseFlags() (*flags, map[string]bool) {
	f := &flags{}
	flag.StringVar(&f.name, "name", "", "Component name (required)")
	flag.StringVar(&f.name, "n", "", "Shorthand for -name")
	flag.Float64Var(&f.interval, "interval", config.DefaultInterval, "Update interval in seconds")
	flag.Float64Var(&f.interval, "i", config.DefaultInterval, "Shorthand for -interval")
	flag.StringVar(&f.devices, "devices", "", "Comma-separated list of SPI devices and TC amp types, e.g. 1.1:MAX6675 (required)")
	flag.StringVar(&f.devices, "d", "", "Shorthand for -devices")
	flag.StringVar(&f.configPath, "config", "", "Optional YAML config file; flags override it")
	flag.StringVar(&f.configPath, "c", "", "Shorthand for -config")
	flag.StringVar(&f.redisAddr, "redis", config.DefaultRedisAddr, "Redis address")
	flag.IntVar(&f.redisDB, "redis-db", 0, "Redis database")
	flag.StringVar(&f.logLevel, "log", config.DefaultLogLevel, "Service log level (none, error, warn, info, debug or 0-4)")
	flag.StringVar(&f.errorPin, "error-pin", "", "GPIO line mirroring the error signal, e.g. gpiochip0:17")
	flag.StringVar(&f.noErrorPin, "no-error-pin", "", "GPIO line mirroring the no-error signal")
	flag.StringVar(&f.watchdog, "watchdog-pin", "", "GPIO line mirroring the watchdog signal")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Read thermocouple amplifiers over SPI and publish their temperatures.\n\n")
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s -n <name> -d <bus>.<select>:<chiptype>[,...] [options]\n\n", os.Args[0])
		fmt.Fprintf(flag.CommandLine.Output(), "Supported chip types: %s\n\n", strings.Join(device.Names(), ", "))
		flag.PrintDefaults()
	}
	flag.Parse()

	set := make(map[string]bool)
	flag.Visit(func(fl *flag.Flag) { set[fl.Name] = true })
	return f, set
}

// loadConfig starts from the config file (if any) and applies every flag
// that was given explicitly.
func loadConfig(f *flags, set map[string]bool) (*config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		var err error
		if cfg, err = config.Load(f.configPath); err != nil {
			return nil, err
		}
	}

	if set["name"] || set["n"] {
		cfg.Name = f.name
	}
	if set["interval"] || set["i"] {
		cfg.Interval = f.interval
	}
	if set["devices"] || set["d"] {
		cfg.SetDevices(f.devices)
	}
	if set["redis"] {
		cfg.Redis.Addr = f.redisAddr
	}
	if set["redis-db"] {
		cfg.Redis.DB = f.redisDB
	}
	if set["log"] {
		cfg.LogLevel = f.logLevel
	}
	if set["error-pin"] {
		cfg.Pins.Error = f.errorPin
	}
	if set["no-error-pin"] {
		cfg.Pins.NoError = f.noErrorPin
	}
	if set["watchdog-pin"] {
		cfg.Pins.Watchdog = f.watchdog
	}
	return cfg, nil
}

func fatal(format string, v ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", v...)
	os.Exit(1)
}

func main() {
	cfg, err := loadConfig(parseFlags())
	if err != nil {
		fatal("Failed to load config: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		if errors.Is(err, config.ErrNoDevices) {
			fatal("No devices specified, exiting")
		}
		fatal("Invalid configuration: %v", err)
	}
	config.Normalize(cfg)

	level, _ := logger.ParseLevel(cfg.LogLevel)
	l := logger.NewLogger(logger.NewStdLogger(), level)

	l.Infof("Starting thermocouple service %s...", cfg.Name)

	redisPub := messaging.NewRedisPublisher(cfg.Redis.Addr, cfg.Redis.DB, cfg.Name, l)
	if err := redisPub.Connect(); err != nil {
		redisPub.Exit()
		fatal("Failed to start: %v", err)
	}
	publishers := core.Publishers{redisPub}

	mapping, err := cfg.PinMapping()
	if err != nil {
		redisPub.Exit()
		fatal("Invalid configuration: %v", err)
	}
	if len(mapping) > 0 {
		pins := hardware.NewPinOutputs(mapping, l)
		if err := pins.Initialize(); err != nil {
			pins.Exit()
			redisPub.Exit()
			fatal("Failed to initialize GPIO outputs: %v", err)
		}
		publishers = append(publishers, pins)
	}

	poller := core.NewPoller(core.Config{
		Name:     cfg.Name,
		Interval: cfg.IntervalDuration(),
		Devices:  cfg.DeviceList(),
	}, hardware.NewSPIOpener(), publishers, l)

	// A signal during Start must still end in Shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), unix.SIGINT, unix.SIGTERM)
	defer stop()

	if err := poller.Start(); err != nil {
		poller.Shutdown()
		stop()
		if errors.Is(err, core.ErrNoChannels) {
			fatal("No devices successfully parsed. Exiting")
		}
		fatal("Failed to start: %v", err)
	}

	if ctx.Err() == nil {
		l.Infof("Component %s ready", cfg.Name)
		if err := poller.Run(ctx); err != nil {
			l.Errorf("Polling stopped: %v", err)
		}
	}

	l.Infof("Received shutdown request, shutting down...")
	poller.Shutdown()
	l.Infof("Shutdown complete")
}
