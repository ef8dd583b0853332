// internal/common/config/config.go
package config

// Config is the main application configuration struct.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	Greenhouse GreenhouseConfig `mapstructure:"greenhouse"`
	Relay      RelayConfig      `mapstructure:"relay"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// ServerConfig holds the inbound HTTP settings.
type ServerConfig struct {
	Address            string   `mapstructure:"address" validate:"required"`
	ReadTimeout        int      `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout       int      `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout    int      `mapstructure:"shutdown_timeout"` // milliseconds
	MaxBodyBytes       int64    `mapstructure:"max_body_bytes" validate:"gt=0"`
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

// GreenhouseConfig holds the outbound credentials and defaults. APIKey and
// OnBehalfOf must come from the environment in any non-local deployment.
type GreenhouseConfig struct {
	BaseURL            string `mapstructure:"base_url" validate:"required,url"`
	APIKey             string `mapstructure:"api_key" validate:"required"`
	OnBehalfOf         string `mapstructure:"on_behalf_of" validate:"required"`
	DefaultJobID       int64  `mapstructure:"default_job_id" validate:"gte=0"`
	DefaultCandidateID int64  `mapstructure:"default_candidate_id" validate:"gte=0"`
	Timeout            int    `mapstructure:"timeout" validate:"gte=0"` // milliseconds
}

// RelayConfig controls submission behaviour.
type RelayConfig struct {
	DefaultMode string `mapstructure:"default_mode" validate:"oneof=two_step single application_only"`
}

// RateLimitConfig configures the optional per-IP inbound limiter.
type RateLimitConfig struct {
	Enabled bool        `mapstructure:"enabled"`
	Limit   int         `mapstructure:"limit" validate:"gte=0"`
	Window  int         `mapstructure:"window"` // milliseconds
	Redis   RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
	Output string `mapstructure:"output"`
}
