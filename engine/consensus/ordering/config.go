package ordering

import (
	"fmt"
)

const (
	// DefaultInboundQueueCapacity is the maximum number of certificates
	// waiting for validation.
	DefaultInboundQueueCapacity = 10_000

	// DefaultPendingCapacity is the maximum number of validated certificates
	// waiting for missing parents.
	DefaultPendingCapacity uint = 10_000

	// DefaultValidationWorkers is the number of certificates validated in parallel.
	DefaultValidationWorkers = 4
)

// Config holds the parameters of the ordering engine.
type Config struct {
	InboundQueueCapacity int  // certificates queued before validation
	PendingCapacity      uint // certificates buffered while parents are missing
	ValidationWorkers    int  // parallel signature checks, also the batch size
}

func DefaultConfig() Config {
	return Config{
		InboundQueueCapacity: DefaultInboundQueueCapacity,
		PendingCapacity:      DefaultPendingCapacity,
		ValidationWorkers:    DefaultValidationWorkers,
	}
}

type Opt func(*Config)

func WithInboundQueueCapacity(capacity int) Opt {
	return func(cfg *Config) {
		cfg.InboundQueueCapacity = capacity
	}
}

func WithPendingCapacity(capacity uint) Opt {
	return func(cfg *Config) {
		cfg.PendingCapacity = capacity
	}
}

func WithValidationWorkers(workers int) Opt {
	return func(cfg *Config) {
		cfg.ValidationWorkers = workers
	}
}

// NewConfig returns the default config with the options applied and validated.
func NewConfig(opts ...Opt) (Config, error) {
	cfg := DefaultConfig()
	for _, apply := range opts {
		apply(&cfg)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.InboundQueueCapacity < 1 {
		return fmt.Errorf("inbound queue capacity must be positive, got %d", c.InboundQueueCapacity)
	}
	if c.PendingCapacity < 1 {
		return fmt.Errorf("pending capacity must be positive, got %d", c.PendingCapacity)
	}
	if c.ValidationWorkers < 1 {
		return fmt.Errorf("number of validation workers must be positive, got %d", c.ValidationWorkers)
	}
	return nil
}
