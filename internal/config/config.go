package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every setting the server needs. The token secrets and
// lifetimes are required: without them the process must not start, since
// the signer pair cannot be constructed safely from defaults.
type Config struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`

	AccessTokenSecret  string        `env:"JWT_ACCESS_TOKEN_SECRET,required,notEmpty"`
	RefreshTokenSecret string        `env:"JWT_REFRESH_TOKEN_SECRET,required,notEmpty"`
	AccessTokenTTL     time.Duration `env:"JWT_ACCESS_TOKEN_EXPIRATION,required,notEmpty"`
	RefreshTokenTTL    time.Duration `env:"JWT_REFRESH_TOKEN_EXPIRATION,required,notEmpty"`

	PostgresDB       string `env:"POSTGRES_DB,required,notEmpty"`
	PostgresUser     string `env:"POSTGRES_USER,required,notEmpty"`
	PostgresPassword string `env:"POSTGRES_PASSWORD,required,notEmpty"`
	PostgresHost     string `env:"POSTGRES_HOST,required,notEmpty"`
	PostgresPort     string `env:"POSTGRES_PORT" envDefault:"5432"`

	SMTPHost            string `env:"SMTP_HOST"`
	SMTPPort            int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPEmail           string `env:"SMTP_EMAIL"`
	SMTPPassword        string `env:"SMTP_PASSWORD"`
	ConfirmationBaseURL string `env:"CONFIRMATION_BASE_URL" envDefault:"http://localhost:8080"`
}

// Load reads an optional .env file and parses the environment. A missing
// required key is a startup failure, not something to default around.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func (c *Config) DBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.PostgresUser, c.PostgresPassword, c.PostgresHost, c.PostgresPort, c.PostgresDB)
}
