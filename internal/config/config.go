package config // package config loads application configuration from environment variables

import (
	"fmt"     // fmt formats configuration errors
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"time"    // time expresses token lifetimes

	"github.com/joho/godotenv" // godotenv loads an optional .env file into the environment
	"golang.org/x/crypto/bcrypt"
)

// AuthConfig groups the process-wide secrets and hashing parameters.  It is
// built once at startup and handed by pointer to the token service and the
// password hasher; nothing mutates it afterwards.
type AuthConfig struct {
	JWTSecret  string        // secret used to sign access tokens
	AccessTTL  time.Duration // lifetime of an access token
	BcryptCost int           // bcrypt cost factor for password hashing
}

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.
type Config struct {
	Env      string // application environment (e.g. "dev", "prod")
	Port     string // HTTP port to listen on
	LogLevel string // zap level name (debug, info, warn, error)
	DBUser   string // database username
	DBPass   string // database password (optional)
	DBHost   string // database host address
	DBPort   string // database port number
	DBName   string // database name
	AMQPURL  string // RabbitMQ url; empty disables audit events
	Pool     PoolConfig
	Auth     AuthConfig
}

// PoolConfig sizes the database/sql connection pool.
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Load reads configuration values from an optional .env file and the
// environment.  Required variables that are missing or malformed are
// reported as an error instead of terminating the process so main can log
// them through the structured logger.
func Load() (Config, error) {
	_ = godotenv.Load() // a missing .env file is fine; real deployments use the environment

	l := &loader{}
	cfg := Config{
		Env:      envStr("APP_ENV", "dev"),
		Port:     envStr("APP_PORT", "8080"),
		LogLevel: envStr("LOG_LEVEL", "info"),
		DBUser:   l.must("DB_USER"),
		DBPass:   os.Getenv("DB_PASS"), // empty allowed
		DBHost:   envStr("DB_HOST", "localhost"),
		DBPort:   envStr("DB_PORT", "3306"),
		DBName:   l.must("DB_NAME"),
		AMQPURL:  amqpURL(),
		Pool: PoolConfig{
			MaxOpenConns:    envInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envInt("DB_MAX_IDLE_CONNS", 25),
			ConnMaxLifetime: envDur("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Auth: AuthConfig{
			JWTSecret:  l.must("JWT_SECRET"),
			AccessTTL:  time.Duration(l.intOr("ACCESS_TOKEN_TTL_MIN", 30)) * time.Minute,
			BcryptCost: clampCost(l.intOr("BCRYPT_COST", bcrypt.DefaultCost+2)),
		},
	}
	if l.err != nil {
		return Config{}, l.err
	}
	if cfg.Auth.AccessTTL <= 0 {
		return Config{}, fmt.Errorf("ACCESS_TOKEN_TTL_MIN must be positive")
	}
	return cfg, nil
}

// DSN returns the MySQL connection string for this configuration.
func (c Config) DSN() string {
	auth := c.DBUser
	if c.DBPass != "" {
		auth = fmt.Sprintf("%s:%s", c.DBUser, c.DBPass)
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC&multiStatements=true",
		auth, c.DBHost, c.DBPort, c.DBName)
}

// loader remembers the first configuration error so Load can report it once.
type loader struct{ err error }

// must retrieves the value of a required environment variable.
func (l *loader) must(key string) string {
	v, ok := os.LookupEnv(key)
	if (!ok || v == "") && l.err == nil {
		l.err = fmt.Errorf("missing required env var: %s", key)
	}
	return v
}

// intOr is like envInt but records malformed values as a configuration error.
func (l *loader) intOr(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil && l.err == nil {
		l.err = fmt.Errorf("invalid int for %s: %q", key, s)
	}
	return n
}

func clampCost(c int) int {
	if c < bcrypt.MinCost {
		return bcrypt.MinCost
	}
	if c > bcrypt.MaxCost {
		return bcrypt.MaxCost
	}
	return c
}

func amqpURL() string {
	if v := os.Getenv("RABBITMQ_URL"); v != "" {
		return v
	}
	return os.Getenv("AMQP_URL")
}

// WorkerConfig is the subset of settings the audit worker needs.
type WorkerConfig struct {
	Env      string
	LogLevel string
	AMQPURL  string
}

// LoadWorker reads the worker settings; the broker URL is required.
func LoadWorker() (WorkerConfig, error) {
	_ = godotenv.Load()

	cfg := WorkerConfig{
		Env:      envStr("APP_ENV", "dev"),
		LogLevel: envStr("LOG_LEVEL", "info"),
		AMQPURL:  amqpURL(),
	}
	if cfg.AMQPURL == "" {
		return WorkerConfig{}, fmt.Errorf("missing required env var: RABBITMQ_URL")
	}
	return cfg, nil
}
