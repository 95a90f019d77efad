package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Payment  PaymentConfig  `mapstructure:"payment" validate:"required"`
	Tracking TrackingConfig `mapstructure:"tracking"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"gt=0"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// DatabaseConfig contains all database-related configuration settings.
// Name is only used by the mongo driver.
type DatabaseConfig struct {
	Driver       string        `mapstructure:"driver" validate:"required,oneof=postgres mongo"`
	URL          string        `mapstructure:"url" validate:"required,url"`
	Name         string        `mapstructure:"name" validate:"required_if=Driver mongo"`
	QueryTimeout time.Duration `mapstructure:"query_timeout" validate:"gt=0"`
	MaxOpenConns int           `mapstructure:"max_open_conns" validate:"gte=1"`
}

// AuthConfig contains token verification settings.
type AuthConfig struct {
	JWTSecret            string        `mapstructure:"jwt_secret" validate:"required,min=32"`
	Issuer               string        `mapstructure:"issuer"`
	Audience             string        `mapstructure:"audience"`
	VerifyTimeout        time.Duration `mapstructure:"verify_timeout" validate:"gt=0"`
	TokenLifetimeMinutes int           `mapstructure:"token_lifetime_minutes" validate:"required,gt=0,lt=44640"`
}

// PaymentConfig contains payment gateway settings.
type PaymentConfig struct {
	StripeSecretKey string        `mapstructure:"stripe_secret_key" validate:"required"`
	Currency        string        `mapstructure:"currency" validate:"required,len=3,lowercase"`
	GatewayTimeout  time.Duration `mapstructure:"gateway_timeout" validate:"gt=0"`
	// APIBaseURL overrides the gateway endpoint; empty means the provider default.
	APIBaseURL string `mapstructure:"api_base_url" validate:"omitempty,url"`
}

// TrackingConfig configures tracking identifier generation.
type TrackingConfig struct {
	NodeID int64 `mapstructure:"node_id" validate:"gte=0,lte=1023"`
}
