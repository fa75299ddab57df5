package lightwave

import (
	"fmt"
	"github.com/shimmeringbee/lightwave/engine"
	"github.com/shimmeringbee/lightwave/rules"
	"gopkg.in/yaml.v3"
	"io"
	"time"
)

const (
	DefaultEventBufferSize      = 100
	DefaultPollInterval         = 5 * time.Minute
	DefaultPollWorkers          = 4
	DefaultBootstrapConcurrency = 4
)

type Config struct {
	EventBufferSize int `yaml:"event_buffer_size"`
	// PollInterval of zero disables periodic reads, unless a rule sets one.
	PollInterval         time.Duration `yaml:"poll_interval"`
	PollWorkers          int           `yaml:"poll_workers"`
	BootstrapConcurrency int64         `yaml:"bootstrap_concurrency"`
	RetryInterval        time.Duration `yaml:"retry_interval"`
	BridgeTimeout        time.Duration `yaml:"bridge_timeout"`
	BridgeRetries        int           `yaml:"bridge_retries"`

	// Rules override per device settings, nil uses rules.Default.
	Rules *rules.Engine `yaml:"-"`
	// Scheduler replaces the wall clock for bootstrap delays.
	Scheduler engine.Scheduler `yaml:"-"`
}

func DefaultConfig() Config {
	return Config{
		EventBufferSize:      DefaultEventBufferSize,
		PollInterval:         DefaultPollInterval,
		PollWorkers:          DefaultPollWorkers,
		BootstrapConcurrency: DefaultBootstrapConcurrency,
		RetryInterval:        engine.DefaultRetryInterval,
		BridgeTimeout:        engine.DefaultBridgeTimeout,
		BridgeRetries:        engine.DefaultBridgeRetries,
	}
}

// LoadConfig reads YAML over the defaults, durations are written as "90s".
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()

	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	if cfg.EventBufferSize < 0 || cfg.PollWorkers < 1 || cfg.BootstrapConcurrency < 1 {
		return Config{}, fmt.Errorf("invalid config: buffer %d, workers %d, concurrency %d", cfg.EventBufferSize, cfg.PollWorkers, cfg.BootstrapConcurrency)
	}

	return cfg, nil
}
