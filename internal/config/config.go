package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	defaultPort            = "8080"
	defaultLogLevel        = "info"
	defaultJWTExpiryHours  = 24
	defaultLoginPerMinute  = 5
	defaultShutdownTimeout = 5 * time.Second
)

// Config captures application runtime configuration loaded from environment
// variables. It is built once at startup and injected; nothing reads the
// environment after Load returns.
type Config struct {
	Port               string
	LogLevel           string
	JWTSecret          string
	JWTExpirationHours int64
	LoginRatePerMinute int
	InitialAdminEmail  string
	RedisURL           string // optional; login rate limiting is disabled when empty
	ShutdownTimeout    time.Duration
	DB                 DBConfig
}

// Load reads configuration from the environment, failing fast on missing
// secrets. There is deliberately no fallback JWT secret.
func Load() (*Config, error) {
	jwtSecret := os.Getenv("JWT_SECRET_KEY")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY not set in environment")
	}

	dbCfg, err := LoadDBConfig()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:               getEnv("SERVER_PORT", defaultPort),
		LogLevel:           getEnv("LOG_LEVEL", defaultLogLevel),
		JWTSecret:          jwtSecret,
		JWTExpirationHours: defaultJWTExpiryHours,
		LoginRatePerMinute: defaultLoginPerMinute,
		InitialAdminEmail:  os.Getenv("INITIAL_ADMIN_EMAIL"),
		RedisURL:           os.Getenv("REDIS_URL"),
		ShutdownTimeout:    defaultShutdownTimeout,
		DB:                 *dbCfg,
	}

	if v := os.Getenv("JWT_EXPIRATION_HOURS"); v != "" {
		hours, err := strconv.ParseInt(v, 10, 64)
		if err != nil || hours <= 0 {
			return nil, fmt.Errorf("invalid JWT_EXPIRATION_HOURS: %q", v)
		}
		cfg.JWTExpirationHours = hours
	}

	if v := os.Getenv("LOGIN_RATE_PER_MINUTE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid LOGIN_RATE_PER_MINUTE: %q", v)
		}
		cfg.LoginRatePerMinute = n
	}

	if v := os.Getenv("SHUTDOWN_TIMEOUT_SECONDS"); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil || seconds <= 0 {
			return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT_SECONDS: %q", v)
		}
		cfg.ShutdownTimeout = time.Duration(seconds) * time.Second
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
