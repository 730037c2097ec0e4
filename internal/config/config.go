package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the runtime configuration of the API server, loaded from
// environment variables.
type Config struct {
	// Server
	Port     int    `mapstructure:"PORT"`
	Env      string `mapstructure:"APP_ENV"` // development | production
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// Database. Empty runs the server on the in-memory store (demo mode).
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// Redis. Empty keeps download tickets in process memory.
	RedisURL string `mapstructure:"REDIS_URL"`

	// Auth
	JWTSecret          string `mapstructure:"JWT_SECRET"`
	JWTExpirationHours int    `mapstructure:"JWT_EXPIRATION_HOURS"`
	TicketTTLSeconds   int    `mapstructure:"TICKET_TTL_SECONDS"`

	// Attachments
	MaxUploadMB int `mapstructure:"MAX_UPLOAD_MB"`

	// CORSOrigins is a comma separated allow-list; empty allows any origin.
	CORSOrigins string `mapstructure:"CORS_ORIGINS"`
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWTExpirationHours) * time.Hour
}

func (c *Config) TicketTTL() time.Duration {
	return time.Duration(c.TicketTTLSeconds) * time.Second
}

func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Load reads configuration from environment variables (and optional .env file).
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	viper.SetDefault("PORT", 8000)
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("JWT_SECRET", "cambiar-en-produccion")
	viper.SetDefault("JWT_EXPIRATION_HOURS", 8)
	viper.SetDefault("TICKET_TTL_SECONDS", 60)
	viper.SetDefault("MAX_UPLOAD_MB", 20)
	viper.SetDefault("CORS_ORIGINS", "")

	// Optional .env file for local development; a missing file is fine
	_ = viper.ReadInConfig()

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ClientConfig configures the operator CLI. Variables carry the RECAUDA_
// prefix so they never collide with the server's.
type ClientConfig struct {
	APIURL             string `mapstructure:"API_URL"`
	TokenFile          string `mapstructure:"TOKEN_FILE"`
	TimeoutSeconds     int    `mapstructure:"TIMEOUT_SECONDS"`
	SaveTimeoutSeconds int    `mapstructure:"SAVE_TIMEOUT_SECONDS"`
	WarnBeforeMinutes  int    `mapstructure:"WARN_BEFORE_MINUTES"`
	Workers            int    `mapstructure:"WORKERS"`
	LogLevel           string `mapstructure:"LOG_LEVEL"`
}

func (c *ClientConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c *ClientConfig) SaveTimeout() time.Duration {
	return time.Duration(c.SaveTimeoutSeconds) * time.Second
}

func (c *ClientConfig) WarnBefore() time.Duration {
	return time.Duration(c.WarnBeforeMinutes) * time.Minute
}

// LoadClient reads the CLI configuration from RECAUDA_* variables and an
// optional recaudactl.env next to the working directory.
func LoadClient() (*ClientConfig, error) {
	v := viper.New()
	v.SetConfigName("recaudactl")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.SetEnvPrefix("RECAUDA")
	v.AutomaticEnv()

	home, _ := os.UserHomeDir()
	v.SetDefault("API_URL", "http://localhost:8000")
	v.SetDefault("TOKEN_FILE", filepath.Join(home, ".recaudactl", "token"))
	v.SetDefault("TIMEOUT_SECONDS", 30)
	v.SetDefault("SAVE_TIMEOUT_SECONDS", 15)
	v.SetDefault("WARN_BEFORE_MINUTES", 2)
	v.SetDefault("WORKERS", 4)
	v.SetDefault("LOG_LEVEL", "warn")

	_ = v.ReadInConfig()

	cfg := &ClientConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
