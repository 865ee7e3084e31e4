package config

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

// Session backends
const (
	SessionMemory = "memory"
	SessionRedis  = "redis"
)

// Config holds the dashboard server configuration
type Config struct {
	Port       string
	Production bool
	LogLevel   string
	LogFormat  string

	// Backend
	APIURL  string
	AuthURL string
	WSURL   string

	// Sessions
	SessionBackend string
	SessionTTL     time.Duration
	RedisHost      string
	RedisPort      string
	RedisPassword  string
	RedisDB        int

	// Rate limiting
	RequestsPerSecond float64
	Burst             int
}

// Load reads configuration from args, falling back to environment variables
// and then to defaults.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	fs := flag.NewFlagSet("dashboard", flag.ContinueOnError)

	fs.StringVar(&cfg.Port, "port", getEnv("PORT", "8083"), "HTTP listen port")
	fs.BoolVar(&cfg.Production, "production", getEnv("ENV", "") == "production", "Run gin in release mode")
	fs.StringVar(&cfg.LogLevel, "log-level", getEnv("LOG_LEVEL", "info"), "Log level")
	fs.StringVar(&cfg.LogFormat, "log-format", getEnv("LOG_FORMAT", "text"), "Log format (text or json)")

	// Backend flags
	fs.StringVar(&cfg.APIURL, "api-url", getEnv("API_URL", "http://localhost:8082"), "Kontroler backend URL")
	fs.StringVar(&cfg.AuthURL, "auth-url", getEnv("AUTH_URL", ""), "Auth server URL (defaults to the backend URL)")
	fs.StringVar(&cfg.WSURL, "ws-url", getEnv("WS_URL", "ws://localhost:8082"), "Kontroler log websocket URL")

	// Session flags
	fs.StringVar(&cfg.SessionBackend, "session-backend", getEnv("SESSION_BACKEND", SessionMemory), "Session store (memory or redis)")
	fs.DurationVar(&cfg.SessionTTL, "session-ttl", getEnvDuration("SESSION_TTL", 24*time.Hour), "Idle authoring session lifetime")
	fs.StringVar(&cfg.RedisHost, "redis-host", getEnv("REDIS_HOST", "localhost"), "Redis host")
	fs.StringVar(&cfg.RedisPort, "redis-port", getEnv("REDIS_PORT", "6379"), "Redis port")
	fs.StringVar(&cfg.RedisPassword, "redis-password", getEnv("REDIS_PASSWORD", ""), "Redis password")
	fs.IntVar(&cfg.RedisDB, "redis-db", getEnvInt("REDIS_DB", 0), "Redis database")

	// Rate limit flags
	fs.Float64Var(&cfg.RequestsPerSecond, "rate-limit", 10, "Requests per second per client")
	fs.IntVar(&cfg.Burst, "rate-burst", 20, "Rate limit burst")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for obvious mistakes
func (c *Config) Validate() error {
	var errs []error

	if _, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Errorf("invalid port %q", c.Port))
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("invalid log level: %w", err))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("invalid log format %q", c.LogFormat))
	}
	if err := checkURL(c.APIURL, "http", "https"); err != nil {
		errs = append(errs, fmt.Errorf("api-url: %w", err))
	}
	if c.AuthURL != "" {
		if err := checkURL(c.AuthURL, "http", "https"); err != nil {
			errs = append(errs, fmt.Errorf("auth-url: %w", err))
		}
	}
	if err := checkURL(c.WSURL, "ws", "wss"); err != nil {
		errs = append(errs, fmt.Errorf("ws-url: %w", err))
	}
	if c.SessionBackend != SessionMemory && c.SessionBackend != SessionRedis {
		errs = append(errs, fmt.Errorf("invalid session backend %q", c.SessionBackend))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("session-ttl must be positive"))
	}
	if c.RequestsPerSecond <= 0 || c.Burst <= 0 {
		errs = append(errs, errors.New("rate limit and burst must be positive"))
	}

	return errors.Join(errs...)
}

// RedisAddr returns host:port of the Redis server
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

// NewLogger builds the logrus logger described by the configuration
func (c *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	if level, err := logrus.ParseLevel(c.LogLevel); err == nil {
		logger.SetLevel(level)
	}
	if c.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger
}

func checkURL(raw string, schemes ...string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	for _, s := range schemes {
		if u.Scheme == s && u.Host != "" {
			return nil
		}
	}
	return fmt.Errorf("%q must be an absolute %v URL", raw, schemes)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}
