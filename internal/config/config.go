package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/crypto/bcrypt"
)

// Config holds all configuration for the application.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	Log    LogConfig
	Admin  AdminConfig
	Blog   BlogConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Port            string `envconfig:"SERVER_PORT" default:"3000"`
	ShutdownTimeout int    `envconfig:"SHUTDOWN_TIMEOUT" default:"30"` // seconds
}

// DBConfig holds database-related configuration.
// WARNING: Default password is for local development only.
// In production, always set DB_PASSWORD via environment variable.
// In production, set DB_SSLMODE to "require" or "verify-full".
type DBConfig struct {
	Host        string        `envconfig:"DB_HOST" default:"localhost"`
	Port        int           `envconfig:"DB_PORT" default:"5432"`
	User        string        `envconfig:"DB_USER" default:"postgres"`
	Password    string        `envconfig:"DB_PASSWORD" default:"postgres"` // CHANGE IN PRODUCTION
	Name        string        `envconfig:"DB_NAME" default:"storefront_db"`
	SSLMode     string        `envconfig:"DB_SSLMODE" default:"disable"` // Use "require" in production
	MaxConns    int           `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns    int           `envconfig:"DB_MIN_CONNS" default:"5"`
	ConnRetries int           `envconfig:"DB_CONN_RETRIES" default:"5"`
	AutoMigrate bool          `envconfig:"DB_AUTO_MIGRATE" default:"true"`
	SlowQuery   time.Duration `envconfig:"DB_SLOW_QUERY" default:"200ms"` // 0 disables query tracing
}

// DSN returns the PostgreSQL connection string.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s&pool_max_conns=%d&pool_min_conns=%d",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode, c.MaxConns, c.MinConns)
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Pretty bool   `envconfig:"LOG_PRETTY" default:"false"`
}

// AdminConfig holds the single back-office credential and session settings.
// The password is stored as a bcrypt hash. Hash and token secret have no
// defaults and must be provided.
type AdminConfig struct {
	Username     string        `envconfig:"ADMIN_USERNAME" default:"admin"`
	PasswordHash string        `envconfig:"ADMIN_PASSWORD_HASH" required:"true"`
	TokenSecret  string        `envconfig:"ADMIN_TOKEN_SECRET" required:"true"`
	TokenTTL     time.Duration `envconfig:"ADMIN_TOKEN_TTL" default:"24h"`
}

// BlogConfig holds the public listing limits. Max values are caps applied
// regardless of the limit a caller asks for; they may be lowered but never
// raised above popularCeiling and featuredCeiling.
type BlogConfig struct {
	PopularDefault  int `envconfig:"BLOG_POPULAR_DEFAULT" default:"6"`
	PopularMax      int `envconfig:"BLOG_POPULAR_MAX" default:"20"`
	FeaturedDefault int `envconfig:"BLOG_FEATURED_DEFAULT" default:"3"`
	FeaturedMax     int `envconfig:"BLOG_FEATURED_MAX" default:"10"`
}

const (
	// minTokenSecretLen is the shortest accepted HS256 secret.
	minTokenSecretLen = 16

	popularCeiling  = 20
	featuredCeiling = 10
)

// Load parses environment variables into the Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints envconfig cannot express.
func (c *Config) Validate() error {
	var errs []error
	if _, err := bcrypt.Cost([]byte(c.Admin.PasswordHash)); err != nil {
		errs = append(errs, fmt.Errorf("ADMIN_PASSWORD_HASH is not a bcrypt hash: %w", err))
	}
	if len(c.Admin.TokenSecret) < minTokenSecretLen {
		errs = append(errs, fmt.Errorf("ADMIN_TOKEN_SECRET must be at least %d characters", minTokenSecretLen))
	}
	if c.Admin.TokenTTL <= 0 {
		errs = append(errs, errors.New("ADMIN_TOKEN_TTL must be positive"))
	}
	if c.Blog.PopularMax > popularCeiling {
		errs = append(errs, fmt.Errorf("BLOG_POPULAR_MAX must not exceed %d", popularCeiling))
	}
	if c.Blog.FeaturedMax > featuredCeiling {
		errs = append(errs, fmt.Errorf("BLOG_FEATURED_MAX must not exceed %d", featuredCeiling))
	}
	if c.Blog.PopularDefault < 1 || c.Blog.PopularDefault > c.Blog.PopularMax {
		errs = append(errs, errors.New("BLOG_POPULAR_DEFAULT must be between 1 and BLOG_POPULAR_MAX"))
	}
	if c.Blog.FeaturedDefault < 1 || c.Blog.FeaturedDefault > c.Blog.FeaturedMax {
		errs = append(errs, errors.New("BLOG_FEATURED_DEFAULT must be between 1 and BLOG_FEATURED_MAX"))
	}
	return errors.Join(errs...)
}
