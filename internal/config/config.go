package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	SourceURL      = "url"
	SourceFile     = "file"
	SourcePostgres = "postgres"

	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// RedisConfig reads REDIS_URL and the REDIS_*_TIMEOUT seconds.
type RedisConfig struct {
	URL          string `split_words:"true"`
	KeyPrefix    string `split_words:"true" default:"listings:"`
	ReadTimeout  int    `split_words:"true" default:"3"`
	WriteTimeout int    `split_words:"true" default:"3"`
	DialTimeout  int    `split_words:"true" default:"5"`
}

type Config struct {
	AppPort string `envconfig:"APP_PORT" default:"8080"`
	AppEnv  string `envconfig:"APP_ENV" default:"development"`

	CatalogSource       string        `envconfig:"CATALOG_SOURCE" default:"url"`
	CatalogURL          string        `envconfig:"CATALOG_URL" default:"https://main-shop-fake-server.herokuapp.com/db"`
	CatalogFile         string        `envconfig:"CATALOG_FILE"`
	CatalogFetchTimeout time.Duration `envconfig:"CATALOG_FETCH_TIMEOUT" default:"10s"`

	DBHost     string `envconfig:"DB_HOST"`
	DBUser     string `envconfig:"DB_USER"`
	DBPassword string `envconfig:"DB_PASSWORD"`
	DBName     string `envconfig:"DB_NAME"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`

	FavoritesBackend string `envconfig:"FAVORITES_BACKEND" default:"file"`
	FavoritesPath    string `envconfig:"FAVORITES_PATH" default:"favourites.json"`
	Redis            RedisConfig

	PageSize        int           `envconfig:"PAGE_SIZE" default:"7"`
	JWTSecret       string        `envconfig:"JWT_SECRET"`
	RateLimit       float64       `envconfig:"RATE_LIMIT" default:"10"`
	RateBurst       int           `envconfig:"RATE_BURST" default:"20"`
	CORSOrigins     []string      `envconfig:"CORS_ORIGINS" default:"*"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// LoadConfig reads an optional .env file, then the environment.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
	}

	switch c.CatalogSource {
	case SourceURL:
		if c.CatalogURL == "" {
			return invalid("CATALOG_URL is required for the url source")
		}
	case SourceFile:
		if c.CatalogFile == "" {
			return invalid("CATALOG_FILE is required for the file source")
		}
	case SourcePostgres:
		if c.DBHost == "" {
			return invalid("DB_HOST is required for the postgres source")
		}
	default:
		return invalid("unknown CATALOG_SOURCE %q", c.CatalogSource)
	}

	switch c.FavoritesBackend {
	case BackendFile, BackendMemory:
	case BackendRedis:
		if c.Redis.URL == "" {
			return invalid("REDIS_URL is required for the redis backend")
		}
	default:
		return invalid("unknown FAVORITES_BACKEND %q", c.FavoritesBackend)
	}

	if c.PageSize <= 0 {
		return invalid("PAGE_SIZE must be positive, got %d", c.PageSize)
	}
	if c.RateLimit <= 0 || c.RateBurst <= 0 {
		return invalid("RATE_LIMIT and RATE_BURST must be positive")
	}
	return nil
}

func (c *Config) IsProduction() bool { return c.AppEnv == "production" }
