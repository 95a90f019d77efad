package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. PARCEL_DATABASE_URL.
const EnvPrefix = "PARCEL"

var defaults = map[string]any{
	"server.port":                 8080,
	"server.log_level":            "info",
	"server.read_timeout":         "15s",
	"server.write_timeout":        "30s",
	"server.idle_timeout":         "60s",
	"server.shutdown_timeout":     "10s",
	"database.driver":             DriverPostgres,
	"database.name":               "parcelDB",
	"database.query_timeout":      "5s",
	"database.max_open_conns":     10,
	"auth.verify_timeout":         "2s",
	"auth.token_lifetime_minutes": 60,
	"payment.currency":            "usd",
	"payment.gateway_timeout":     "10s",
	"tracking.node_id":            1,
}

// keys without defaults still need binding so that Unmarshal sees env-only values.
var envOnlyKeys = []string{
	"database.url",
	"auth.jwt_secret",
	"auth.issuer",
	"auth.audience",
	"payment.stripe_secret_key",
	"payment.api_base_url",
}

// Load configuration from environment variables and optionally a config.yaml
// in the working directory. Environment variables take precedence over values
// from the config file. Returns a populated Config or an error if loading or
// validation fails.
func Load() (*Config, error) {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range envOnlyKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate runs struct validation over cfg.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
