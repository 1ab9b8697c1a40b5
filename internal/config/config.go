package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

var ErrMissingRequiredValue = errors.New("missing required value")
var ErrInvalidValue = errors.New("invalid value")

type environment string

const (
	production  environment = "production"
	staging     environment = "staging"
	development environment = "development"
)

const DEFAULT_PORT = "8080"
const DEFAULT_CACHE_TTL = time.Hour
const DEFAULT_TITLE_LIMIT = 80

type Config struct {
	cloudSQLUnixSocketPath string
	dBPassword             string
	dBUsername             string
	sentryDSN              string
	redisAddr              string
	faviconURLTemplate     string
	port                   string
	cacheTTL               time.Duration
	titleLimit             int
	showBacklinks          bool
	env                    environment
}

func (c *Config) CloudSQLUnixSocketPath() string {
	return c.cloudSQLUnixSocketPath
}

func (c *Config) DBPassword() string {
	return c.dBPassword
}

func (c *Config) DBUsername() string {
	return c.dBUsername
}

func (c *Config) SentryDSN() string {
	return c.sentryDSN
}

// RedisAddr is empty when no shared cache is configured; callers fall back
// to the in-process store.
func (c *Config) RedisAddr() string {
	return c.redisAddr
}

func (c *Config) FaviconURLTemplate() string {
	return c.faviconURLTemplate
}

func (c *Config) Port() string {
	return c.port
}

func (c *Config) CacheTTL() time.Duration {
	return c.cacheTTL
}

func (c *Config) TitleLimit() int {
	return c.titleLimit
}

func (c *Config) ShowBacklinks() bool {
	return c.showBacklinks
}

func (c *Config) IsProduction() bool {
	return c.env == production
}

func (c *Config) IsStaging() bool {
	return c.env == staging
}

func (c *Config) IsDevelopment() bool {
	return c.env == development
}

// Return a string representation suitable for logging etc
func (c *Config) NonSensitiveString() string {
	return fmt.Sprintf("Config{env: %s, port: %s, cacheTTL: %s, showBacklinks: %t, ...}", string(c.env), c.port, c.cacheTTL, c.showBacklinks)
}

func ConfigFromEnv() (Config, error) {
	missingKey := func(key string) (Config, error) {
		return Config{}, fmt.Errorf("%w: %s", ErrMissingRequiredValue, key)
	}

	var env environment
	rawEnv, ok := os.LookupEnv("INTRALINKS_ENVIRONMENT")
	if !ok {
		return missingKey("INTRALINKS_ENVIRONMENT")
	}
	switch rawEnv {
	case "production":
		env = production
	case "staging":
		env = staging
	case "development":
		env = development
	default:
		return Config{}, fmt.Errorf("%w: INTRALINKS_ENVIRONMENT (%s)", ErrInvalidValue, rawEnv)
	}
	if string(env) == "" {
		panic("logic error: env is empty")
	}

	cloudSQLUnixSocketPath := os.Getenv("CLOUDSQL_UNIX_SOCKET")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbUsername := os.Getenv("DB_USERNAME")
	sentryDSN := os.Getenv("SENTRY_DSN")
	redisAddr := os.Getenv("REDIS_ADDR")
	faviconURLTemplate := os.Getenv("FAVICON_URL_TEMPLATE")

	port := os.Getenv("PORT")
	if port == "" {
		port = DEFAULT_PORT
	}

	cacheTTL := DEFAULT_CACHE_TTL
	if rawTTL := os.Getenv("CACHE_TTL_SECONDS"); rawTTL != "" {
		seconds, err := strconv.Atoi(rawTTL)
		if err != nil || seconds <= 0 {
			return Config{}, fmt.Errorf("%w: CACHE_TTL_SECONDS (%s)", ErrInvalidValue, rawTTL)
		}
		cacheTTL = time.Duration(seconds) * time.Second
	}

	titleLimit := DEFAULT_TITLE_LIMIT
	if rawLimit := os.Getenv("TITLE_LIMIT"); rawLimit != "" {
		limit, err := strconv.Atoi(rawLimit)
		if err != nil || limit < 0 {
			return Config{}, fmt.Errorf("%w: TITLE_LIMIT (%s)", ErrInvalidValue, rawLimit)
		}
		titleLimit = limit
	}

	showBacklinks := true
	if rawShow := os.Getenv("SHOW_BACKLINKS"); rawShow != "" {
		show, err := strconv.ParseBool(rawShow)
		if err != nil {
			return Config{}, fmt.Errorf("%w: SHOW_BACKLINKS (%s)", ErrInvalidValue, rawShow)
		}
		showBacklinks = show
	}

	if env == production || env == staging {
		if cloudSQLUnixSocketPath == "" {
			return missingKey("CLOUDSQL_UNIX_SOCKET")
		}
		if dbUsername == "" {
			return missingKey("DB_USERNAME")
		}
		if dbPassword == "" {
			return missingKey("DB_PASSWORD")
		}
		if sentryDSN == "" {
			return missingKey("SENTRY_DSN")
		}
	}

	return Config{
		cloudSQLUnixSocketPath: cloudSQLUnixSocketPath,
		dBPassword:             dbPassword,
		dBUsername:             dbUsername,
		sentryDSN:              sentryDSN,
		redisAddr:              redisAddr,
		faviconURLTemplate:     faviconURLTemplate,
		port:                   port,
		cacheTTL:               cacheTTL,
		titleLimit:             titleLimit,
		showBacklinks:          showBacklinks,
		env:                    env,
	}, nil
}
