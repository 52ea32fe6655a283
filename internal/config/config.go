package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Auth      AuthConfig      `mapstructure:"auth" validate:"required"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Analytics AnalyticsConfig `mapstructure:"analytics" validate:"required"`
	SRS       SRSConfig       `mapstructure:"srs" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
// An empty URL selects the in-memory stores.
type DatabaseConfig struct {
	URL             string `mapstructure:"url" validate:"omitempty,url"`
	MaxOpenConns    int    `mapstructure:"max_open_conns" validate:"gte=0"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime_minutes" validate:"gte=0"`
}

// AuthConfig contains the settings used to verify bearer tokens.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
}

// RedisConfig configures the distributed per-question write lock.
// Leaving Addr empty keeps locking in-process.
type RedisConfig struct {
	Addr          string `mapstructure:"addr" validate:"omitempty,hostname_port"`
	Password      string `mapstructure:"password"`
	DB            int    `mapstructure:"db" validate:"gte=0"`
	LockTTLMillis int    `mapstructure:"lock_ttl_ms" validate:"gte=0"`
}

// AnalyticsConfig holds defaults for progress reporting.
type AnalyticsConfig struct {
	TrendWindowDays  int    `mapstructure:"trend_window_days" validate:"required,gt=0,lte=365"`
	TrendHorizonDays int    `mapstructure:"trend_horizon_days" validate:"required,gt=0,lte=3650"`
	Timezone         string `mapstructure:"timezone" validate:"required,timezone"`
}

// SRSConfig overrides the spaced repetition tuning constants.
type SRSConfig struct {
	InitialEaseFactor float64 `mapstructure:"initial_ease_factor" validate:"required,gte=1.3"`
	MinEaseFactor     float64 `mapstructure:"min_ease_factor" validate:"required,gte=1.3"`
}
