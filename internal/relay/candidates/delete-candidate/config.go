package deletecandidate

import (
	"fmt"
	"time"
)

type Config struct {
	Enabled            bool          `mapstructure:"enabled"`
	Timeout            time.Duration `mapstructure:"timeout"`
	DefaultCandidateID int64         `mapstructure:"default_candidate_id"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled: true,
		Timeout: 30 * time.Second,
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.DefaultCandidateID < 0 {
		return fmt.Errorf("default_candidate_id must not be negative")
	}
	return nil
}
