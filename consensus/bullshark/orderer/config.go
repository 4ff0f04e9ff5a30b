package orderer

import (
	"github.com/onflow/flow-narwhal/consensus/bullshark/model"
)

const (
	// DefaultGCDepth is the number of rounds below the last committed round
	// that are retained in memory.
	DefaultGCDepth uint64 = 50

	// DefaultLeaderLookahead is the number of rounds the DAG may advance past
	// an undecided leader round before a leader timeout is reported.
	DefaultLeaderLookahead uint64 = 4
)

// Config holds the parameters of the commit rule.
type Config struct {
	GCDepth         uint64 // rounds retained below the last committed round
	LeaderLookahead uint64 // rounds past an undecided leader round before it times out
}

func DefaultConfig() Config {
	return Config{
		GCDepth:         DefaultGCDepth,
		LeaderLookahead: DefaultLeaderLookahead,
	}
}

type Opt func(*Config)

// WithGCDepth sets the number of rounds retained below the last committed round.
func WithGCDepth(depth uint64) Opt {
	return func(cfg *Config) {
		cfg.GCDepth = depth
	}
}

// WithLeaderLookahead sets the number of rounds after which an undecided
// leader round is reported as timed out.
func WithLeaderLookahead(lookahead uint64) Opt {
	return func(cfg *Config) {
		cfg.LeaderLookahead = lookahead
	}
}

// NewConfig returns the default config with the options applied and validated.
// Expected errors during normal operations:
//   - model.ConfigurationError if the options result in an invalid config
func NewConfig(opts ...Opt) (Config, error) {
	cfg := DefaultConfig()
	for _, apply := range opts {
		apply(&cfg)
	}
	return cfg, cfg.Validate()
}

// Validate checks that the retained rounds cover the lookahead of the commit
// rule, so that pruning never drops a round an undecided leader still needs.
func (c Config) Validate() error {
	if c.LeaderLookahead < 2 {
		return model.NewConfigurationErrorf("leader lookahead must be at least 2 rounds, got %d", c.LeaderLookahead)
	}
	if c.GCDepth < 2*c.LeaderLookahead {
		return model.NewConfigurationErrorf("GC depth %d must be at least twice the leader lookahead %d", c.GCDepth, c.LeaderLookahead)
	}
	return nil
}

// GCRound returns the lowest round retained in memory once the given round
// is the last committed round.
func (c Config) GCRound(lastCommittedRound uint64) uint64 {
	return gcRound(lastCommittedRound, c.GCDepth)
}
