package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/starford/corkboard/internal/models"
)

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	SQLite SQLiteConfig      `yaml:"sqlite"`
	Auth   AuthConfig        `yaml:"auth"`
	Quota  QuotaConfig       `yaml:"quota"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	return c.Quota.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port        int      `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.CORSOrigins, validation.Each(validation.Required)),
	)
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// AuthConfig holds account and token configuration.
type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
	// BcryptCost is the password hashing cost.
	BcryptCost int `yaml:"bcrypt_cost"`
	// LoginRateLimit caps login and registration attempts per IP per minute.
	// Zero disables the limit.
	LoginRateLimit int `yaml:"login_rate_limit"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.JWTSecret, validation.Required, validation.Length(16, 0)),
		validation.Field(&c.TokenTTL, validation.Required, validation.Min(time.Minute)),
		validation.Field(&c.BcryptCost, validation.Min(bcrypt.MinCost), validation.Max(bcrypt.MaxCost)),
		validation.Field(&c.LoginRateLimit, validation.Min(0)),
	)
}

// QuotaConfig holds the daily note allowance.
type QuotaConfig struct {
	DailyLimit int `yaml:"daily_limit"`
	// Timezone names the IANA zone whose calendar day resets the quota.
	// Empty means the server's local zone.
	Timezone string `yaml:"timezone"`
}

// Validate validates the quota configuration.
func (c *QuotaConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.DailyLimit, validation.Required, validation.Min(1)),
	); err != nil {
		return err
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("quota: timezone: %w", err)
	}
	return nil
}

// Location resolves Timezone.
func (c *QuotaConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		SQLite: SQLiteConfig{
			Path: "./corkboard.db",
		},
		Auth: AuthConfig{
			TokenTTL:       24 * time.Hour,
			BcryptCost:     bcrypt.DefaultCost,
			LoginRateLimit: 20,
		},
		Quota: QuotaConfig{
			DailyLimit: models.DailyNoteLimit,
		},
	}
}
