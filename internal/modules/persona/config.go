package persona

import "time"

const DefaultTransitionDuration = 3000 * time.Millisecond

type Config struct {
	// PersistAcrossSessions=false clears stored choices on load and never
	// writes them back.
	PersistAcrossSessions bool
	TransitionDuration    time.Duration
	StorageTimeout        time.Duration
}

func DefaultConfig() Config {
	return Config{
		PersistAcrossSessions: true,
		TransitionDuration:    DefaultTransitionDuration,
		StorageTimeout:        5 * time.Second,
	}
}

func (c Config) normalized() Config {
	if c.TransitionDuration < 0 {
		c.TransitionDuration = 0
	}
	if c.StorageTimeout <= 0 {
		c.StorageTimeout = 5 * time.Second
	}
	return c
}
