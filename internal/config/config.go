package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	Environment string `env:"APP_ENV" envDefault:"development"`
	BaseURL     string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`

	Database DatabaseConfig
	Auth     AuthConfig
	SMTP     SMTPConfig
	Log      LogConfig
	Otel     OtelConfig

	CORSOrigins   []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`
	SnowflakeNode int64    `env:"SNOWFLAKE_NODE" envDefault:"1"`
}

type DatabaseConfig struct {
	Driver        string        `env:"DB_DRIVER" envDefault:"postgres"`
	URL           string        `env:"POSTGRES_URL"`
	SQLitePath    string        `env:"SQLITE_PATH" envDefault:"ococalli.db"`
	LogLevel      string        `env:"DB_LOG_LEVEL" envDefault:"warn"`
	SlowThreshold time.Duration `env:"DB_SLOW_THRESHOLD" envDefault:"200ms"`
	MaxOpenConns  int           `env:"DB_MAX_OPEN_CONNS" envDefault:"20"`
	MaxIdleConns  int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLife   time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`
}

type AuthConfig struct {
	JWTSecret          string        `env:"JWT_SECRET"`
	SessionTTL         time.Duration `env:"SESSION_TTL" envDefault:"12h"`
	AdminEmails        []string      `env:"ADMIN_EMAILS" envSeparator:","`
	LoginPath          string        `env:"LOGIN_PATH" envDefault:"/login"`
	LoginRatePerMinute int           `env:"LOGIN_RATE_PER_MINUTE" envDefault:"10"`
}

type SMTPConfig struct {
	Host     string        `env:"SMTP_HOST"`
	Port     int           `env:"SMTP_PORT" envDefault:"587"`
	Username string        `env:"SMTP_USERNAME"`
	Password string        `env:"SMTP_PASSWORD"`
	From     string        `env:"SMTP_FROM" envDefault:"no-reply@ococalli.mx"`
	FromName string        `env:"SMTP_FROM_NAME" envDefault:"Ococalli"`
	UseSSL   bool          `env:"SMTP_USE_SSL" envDefault:"false"`
	Timeout  time.Duration `env:"SMTP_TIMEOUT" envDefault:"10s"`
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type OtelConfig struct {
	Endpoint    string `env:"OTEL_ENDPOINT"`
	Enabled     bool   `env:"OTEL_ENABLED" envDefault:"true"`
	ServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"ococalli"`
}

// HasAdmin reports whether email is on the ADMIN_EMAILS allow-list.
func (a AuthConfig) HasAdmin(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, e := range a.AdminEmails {
		if e == email {
			return true
		}
	}
	return false
}

// Enabled reports whether outgoing mail is configured.
func (s SMTPConfig) Enabled() bool { return s.Host != "" }

// Load reads an optional .env file and parses the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return Parse()
}

// LoadTools is Load for offline tooling, which never signs session tokens.
func LoadTools() (*Config, error) {
	_ = godotenv.Load()
	cfg, err := parse()
	if err != nil {
		return nil, err
	}
	if err := cfg.validateDatabase(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Parse() (*Config, error) {
	cfg, err := parse()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.Auth.AdminEmails = NormalizeEmails(cfg.Auth.AdminEmails)
	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	return nil
}

func (c *Config) validateDatabase() error {
	switch c.Database.Driver {
	case "postgres":
		if c.Database.URL == "" {
			return fmt.Errorf("POSTGRES_URL is required when DB_DRIVER=postgres")
		}
	case "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	return nil
}

// NormalizeEmails trims, lowercases and drops empty entries.
func NormalizeEmails(in []string) []string {
	out := make([]string, 0, len(in))
	for _, e := range in {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			out = append(out, e)
		}
	}
	return out
}
