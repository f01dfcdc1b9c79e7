package messaging

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"thermocouple-service/internal/device"
	"thermocouple-service/internal/logger"
	"thermocouple-service/internal/types"

	"github.com/redis/go-redis/v9"
)

// Field names in the component hash.
const (
	FieldError    = "error"
	FieldNoError  = "no-error"
	FieldWatchdog = "watchdog"
	FieldReady    = "ready"
	FieldState    = "state"
	FieldUpdated  = "updated"
)

// RawField and ValueField name a channel's two slots, e.g. "1-0.raw".
func RawField(a device.Address) string   { return a.String() + ".raw" }
func ValueField(a device.Address) string { return a.String() + ".value" }

// RedisPublisher exposes readings as fields of one Redis hash named after the
// component. Every write is followed by a PUBLISH on a channel of the same
// name so consumers need not poll.
type RedisPublisher struct {
	client     *redis.Client
	component  string
	logger     *logger.Logger
	ctx        context.Context
	cancel     context.CancelFunc
	registered bool
}

func NewRedisPublisher(addr string, db int, component string, l *logger.Logger) *RedisPublisher {
	ctx, cancel := context.WithCancel(context.Background())
	return &RedisPublisher{
		client: redis.NewClient(&redis.Options{
			Addr: addr,
			DB:   db,
		}),
		component: component,
		logger:    l.WithTag("redis"),
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (r *RedisPublisher) Connect() error {
	r.logger.Infof("Attempting to connect to Redis at %s", r.client.Options().Addr)

	if err := r.client.Ping(r.ctx).Err(); err != nil {
		return fmt.Errorf("Redis connection failed: %w", err)
	}
	r.logger.Infof("Successfully connected to Redis")
	return nil
}

// Register replaces the component hash with zeroed slots for every channel
// plus the process-wide booleans.
func (r *RedisPublisher) Register(addrs []device.Address) error {
	fields := registerFields(addrs)

	pipe := r.client.TxPipeline()
	pipe.Del(r.ctx, r.component)
	pipe.HSet(r.ctx, r.component, fields)
	pipe.Publish(r.ctx, r.component, "register")
	if _, err := pipe.Exec(r.ctx); err != nil {
		return fmt.Errorf("failed to register %d channels: %w", len(addrs), err)
	}
	r.registered = true
	r.logger.Infof("Registered %d channels under %q", len(addrs), r.component)
	return nil
}

func (r *RedisPublisher) Ready() error {
	return r.publishHashSet(map[string]interface{}{
		FieldReady: "true",
		FieldState: string(types.StateRunning),
	}, FieldReady)
}

// Publish writes one cycle. Channels missing from the snapshot keep their
// previous values.
func (r *RedisPublisher) Publish(s types.Snapshot) error {
	if err := r.publishHashSet(snapshotFields(s), FieldWatchdog); err != nil {
		return fmt.Errorf("failed to publish cycle %d: %w", s.Cycle, err)
	}
	return nil
}

// Exit marks the component as gone and closes the client. If Register never
// ran nothing is written.
func (r *RedisPublisher) Exit() error {
	defer r.cancel()

	var err error
	if r.registered {
		err = r.publishHashSet(map[string]interface{}{
			FieldReady: "false",
			FieldState: string(types.StateShuttingDown),
		}, FieldState)
		r.registered = false
	}
	if cerr := r.client.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

// publishHashSet atomically updates hash fields and publishes a notification
func (r *RedisPublisher) publishHashSet(fields map[string]interface{}, payload string) error {
	pipe := r.client.TxPipeline()
	pipe.HSet(r.ctx, r.component, fields)
	pipe.Publish(r.ctx, r.component, payload)
	_, err := pipe.Exec(r.ctx)
	return err
}

// registerFields reports an error until the first cycle says otherwise, so
// error and no-error are complements from the moment they exist.
func registerFields(addrs []device.Address) map[string]interface{} {
	fields := map[string]interface{}{
		FieldError:    "true",
		FieldNoError:  "false",
		FieldWatchdog: "false",
		FieldReady:    "false",
		FieldState:    string(types.StateInitializing),
	}
	for _, a := range addrs {
		fields[RawField(a)] = "0"
		fields[ValueField(a)] = "0"
	}
	return fields
}

func snapshotFields(s types.Snapshot) map[string]interface{} {
	fields := map[string]interface{}{
		FieldError:    strconv.FormatBool(s.Error),
		FieldNoError:  strconv.FormatBool(s.NoError),
		FieldWatchdog: strconv.FormatBool(s.Watchdog),
		FieldUpdated:  s.At.Format(time.RFC3339Nano),
	}
	for _, cr := range s.Readings {
		fields[RawField(cr.Address)] = strconv.FormatUint(uint64(cr.Reading.Raw), 10)
		fields[ValueField(cr.Address)] = strconv.FormatFloat(cr.Reading.Celsius, 'f', -1, 64)
	}
	return fields
}
