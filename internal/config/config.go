package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort     string `env:"PORT,default=8080"`
	DatabaseType   string `env:"DB_TYPE,default=sqlite"`
	DatabasePath   string `env:"DB_PATH,default=./happytummy.db"`
	DatabaseURL    string `env:"DATABASE_URL"`
	MigrationsPath string `env:"MIGRATIONS_PATH,default=./migrations"`

	JWTSecret      string        `env:"JWT_SECRET,default=change-this-in-production"`
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL,default=1h"`
	CORSOrigins    string        `env:"CORS_ORIGINS,default=*"`
	LoginRateLimit int           `env:"LOGIN_RATE_LIMIT,default=10"`

	// Remote nutrition lookup. An empty key keeps nutrition search local-only.
	USDAAPIKey        string        `env:"USDA_API_KEY"`
	USDABaseURL       string        `env:"USDA_BASE_URL,default=https://api.nal.usda.gov/fdc/v1"`
	NutritionCacheTTL time.Duration `env:"NUTRITION_CACHE_TTL,default=10m"`
	NutritionTimeout  time.Duration `env:"NUTRITION_TIMEOUT,default=4s"`

	GoogleClientID       string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret   string `env:"GOOGLE_CLIENT_SECRET"`
	OAuthRedirectBaseURL string `env:"OAUTH_REDIRECT_BASE_URL"`

	AWSRegion    string `env:"AWS_REGION,default=us-east-1"`
	SESFromEmail string `env:"SES_FROM_EMAIL"`
	SESFromName  string `env:"SES_FROM_NAME,default=Happy Tummy"`
	AppBaseURL   string `env:"APP_BASE_URL,default=http://localhost:8080"`
	EmailDebug   bool   `env:"EMAIL_DEBUG,default=false"`

	LogLevel    string `env:"LOG_LEVEL,default=info"`
	LogFormat   string `env:"LOG_FORMAT,default=text"`
	OtelEnabled bool   `env:"OTEL_ENABLED,default=false"`
}

// Load reads configuration from the environment, after loading an optional .env file
func Load() (*Config, error) {
	// A missing .env file is normal outside local development
	_ = godotenv.Load()

	cfg := &Config{}
	if err := envdecode.Decode(cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks combinations envdecode cannot express with tags alone
func (c *Config) Validate() error {
	switch strings.ToLower(c.DatabaseType) {
	case "postgres", "postgresql", "mysql":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for DB_TYPE=%s", c.DatabaseType)
		}
	}
	if c.NutritionCacheTTL <= 0 {
		return errors.New("NUTRITION_CACHE_TTL must be positive")
	}
	if c.NutritionTimeout <= 0 {
		return errors.New("NUTRITION_TIMEOUT must be positive")
	}
	return nil
}

// AllowedOrigins splits CORS_ORIGINS into a list
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, item := range strings.Split(c.CORSOrigins, ";") {
		if item = strings.TrimSpace(item); item != "" {
			origins = append(origins, item)
		}
	}
	return origins
}

// RemoteNutritionEnabled reports whether a remote lookup credential is configured
func (c *Config) RemoteNutritionEnabled() bool {
	return strings.TrimSpace(c.USDAAPIKey) != ""
}
