package poller

import (
	"time"

	appconfig "github.com/pulseboard/pulseboard/internal/config"
)

// Config controls the collection loop.
type Config struct {
	// PollInterval is the tick period.
	PollInterval time.Duration
	// FetchTimeout bounds one source fetch. It must stay below
	// PollInterval so a stalled source cannot bleed into the next tick.
	FetchTimeout time.Duration
	// MaxConcurrent caps how many metrics are collected in parallel
	// within a tick.
	MaxConcurrent int
	// LeaderKey is the shared lock key used when several instances run
	// against the same store. Empty disables leader election.
	LeaderKey string
}

func DefaultConfig() Config {
	return Config{
		PollInterval:  5 * time.Second,
		FetchTimeout:  2500 * time.Millisecond,
		MaxConcurrent: 4,
		LeaderKey:     "pulseboard:poller:leader",
	}
}

// NewConfig derives the loop settings from the application config.
func NewConfig(cfg appconfig.Config) Config {
	return Config{
		PollInterval: cfg.PollInterval,
		FetchTimeout: cfg.FetchTimeout,
		LeaderKey:    "pulseboard:poller:leader",
	}.withDefaults()
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.PollInterval <= 0 {
		c.PollInterval = defaults.PollInterval
	}
	if c.FetchTimeout <= 0 || c.FetchTimeout >= c.PollInterval {
		c.FetchTimeout = c.PollInterval / 2
	}
	if c.MaxConcurrent <= 0 {
		c.MaxConcurrent = defaults.MaxConcurrent
	}
	return c
}
