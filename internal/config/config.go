package config

import (
	"fmt"
	"strings"

	env "github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/samber/lo"
)

// Config holds all service configuration loaded from environment variables.
// Empty Mongo, Redis and MinIO settings disable those integrations.
type Config struct {
	Port string `env:"PORT,default=8080" validate:"required"`

	StoreDriver string `env:"STORE_DRIVER,default=sqlite" validate:"oneof=postgres sqlite"`
	PostgresDSN string `env:"POSTGRES_DSN" validate:"required_if=StoreDriver postgres"`
	SQLitePath  string `env:"SQLITE_PATH,default=./data/social.db" validate:"required_if=StoreDriver sqlite"`

	MongoURI string `env:"MONGO_URI"`
	MongoDB  string `env:"MONGO_DB,default=social_media"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB,default=0" validate:"gte=0"`

	MinioEndpoint  string `env:"MINIO_ENDPOINT"`
	MinioAccessKey string `env:"MINIO_ACCESS_KEY" validate:"required_with=MinioEndpoint"`
	MinioSecretKey string `env:"MINIO_SECRET_KEY" validate:"required_with=MinioEndpoint"`
	MinioBucket    string `env:"MINIO_BUCKET,default=message-archives"`
	MinioUseSSL    bool   `env:"MINIO_USE_SSL,default=false"`

	PasswordHashing string `env:"PASSWORD_HASHING,default=plain" validate:"oneof=plain bcrypt"`

	LogLevel  string `env:"LOG_LEVEL,default=info" validate:"oneof=trace debug info warn error"`
	LogFormat string `env:"LOG_FORMAT,default=text" validate:"oneof=text json"`

	CORSOrigins    string `env:"CORS_ORIGINS"`
	MetricsEnabled bool   `env:"METRICS_ENABLED,default=true"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

var defaultOrigins = []string{"http://localhost:5173", "http://localhost:3000"}

// Load reads an optional .env file, then the process environment.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// AllowedOrigins splits the comma-separated CORS_ORIGINS into trimmed,
// non-empty entries, falling back to the local frontend dev servers.
func (c *Config) AllowedOrigins() []string {
	origins := lo.Compact(lo.Map(strings.Split(c.CORSOrigins, ","), func(o string, _ int) string {
		return strings.TrimSpace(o)
	}))
	if len(origins) == 0 {
		return defaultOrigins
	}
	return origins
}

func (c *Config) MongoEnabled() bool { return c.MongoURI != "" }

func (c *Config) RedisEnabled() bool { return c.RedisAddr != "" }

func (c *Config) MinioEnabled() bool { return c.MinioEndpoint != "" }
