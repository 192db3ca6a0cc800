package breaker

import "time"

// Config controls when a breaker trips and how it probes recovery.
type Config struct {
	// FailureThreshold is the number of consecutive failures that trips
	// the breaker from closed to open.
	FailureThreshold uint32

	// RecoveryTimeout is how long the breaker stays open before letting
	// trial calls through.
	RecoveryTimeout time.Duration

	// HalfOpenSuccesses is the number of trial successes needed to close
	// the breaker again. It also caps how many trial calls run at once.
	HalfOpenSuccesses uint32
}

// DefaultConfig matches the gateway's stock settings: trip after 5
// consecutive failures, probe after 30s, close after 2 good trials.
func DefaultConfig() Config {
	return Config{
		FailureThreshold:  5,
		RecoveryTimeout:   30 * time.Second,
		HalfOpenSuccesses: 2,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.FailureThreshold == 0 {
		c.FailureThreshold = d.FailureThreshold
	}
	if c.RecoveryTimeout <= 0 {
		c.RecoveryTimeout = d.RecoveryTimeout
	}
	if c.HalfOpenSuccesses == 0 {
		c.HalfOpenSuccesses = d.HalfOpenSuccesses
	}
	return c
}
