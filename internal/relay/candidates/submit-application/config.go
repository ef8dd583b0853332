package submitapplication

import (
	"fmt"
	"time"
)

type Config struct {
	Enabled      bool          `mapstructure:"enabled"`
	Timeout      time.Duration `mapstructure:"timeout"`
	DefaultMode  Mode          `mapstructure:"default_mode"`
	DefaultJobID int64         `mapstructure:"default_job_id"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:     true,
		Timeout:     45 * time.Second,
		DefaultMode: ModeTwoStep,
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if !c.DefaultMode.Valid() {
		return fmt.Errorf("default_mode %q is not supported", c.DefaultMode)
	}
	if c.DefaultJobID < 0 {
		return fmt.Errorf("default_job_id must not be negative")
	}
	return nil
}
