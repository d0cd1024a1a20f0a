package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"

	minSessionSecretLen = 32
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string
	HTTPPort    string

	RoomStore     string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	PostgresDSN   string
	SQLitePath    string
	RoomTTL       time.Duration
	RoomCodec     string
	SweepInterval time.Duration

	SecureCookies bool
	// SessionSecret signs session cookies and must be at least 32 bytes.
	SessionSecret   string
	TrustUserHeader bool

	LogLevel  string
	LogFormat string
}

// Overrides carry command line values; empty fields keep the env value.
type Overrides struct {
	Addr     string
	Store    string
	LogLevel string
}

// Load reads the environment, after merging a .env file from the working
// directory when one exists. Variables already set win over the file.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "ivote"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	redisDB, err := envInt("REDIS_DB", 0)
	if err != nil {
		return Config{}, err
	}
	roomTTL, err := envDuration("ROOM_TTL", 6*time.Hour)
	if err != nil {
		return Config{}, err
	}
	sweepInterval, err := envDuration("SWEEP_INTERVAL", time.Minute)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		ServiceName:     service,
		HTTPPort:        port,
		RoomStore:       envString("ROOM_STORE", StoreMemory),
		RedisAddr:       envString("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		RedisDB:         redisDB,
		PostgresDSN:     os.Getenv("POSTGRES_DSN"),
		SQLitePath:      envString("SQLITE_PATH", "ivote.db"),
		RoomTTL:         roomTTL,
		RoomCodec:       envString("ROOM_CODEC", "json"),
		SweepInterval:   sweepInterval,
		SecureCookies:   envBool("SECURE_COOKIES", false),
		SessionSecret:   os.Getenv("SESSION_SECRET"),
		TrustUserHeader: envBool("TRUST_USER_HEADER", false),
		LogLevel:        envString("LOG_LEVEL", "info"),
		LogFormat:       envString("LOG_FORMAT", "json"),
	}
	return cfg, cfg.Validate()
}

func (c Config) WithOverrides(o Overrides) (Config, error) {
	if value := strings.TrimSpace(o.Addr); value != "" {
		c.HTTPPort = value
	}
	if value := strings.TrimSpace(o.Store); value != "" {
		c.RoomStore = strings.ToLower(value)
	}
	if value := strings.TrimSpace(o.LogLevel); value != "" {
		c.LogLevel = value
	}
	return c, c.Validate()
}

func (c Config) Validate() error {
	switch c.RoomStore {
	case StoreMemory, StoreRedis, StoreSQLite:
	case StorePostgres:
		if strings.TrimSpace(c.PostgresDSN) == "" {
			return errors.New("POSTGRES_DSN is required for the postgres room store")
		}
	default:
		return fmt.Errorf("unsupported ROOM_STORE %q", c.RoomStore)
	}
	switch strings.ToLower(c.RoomCodec) {
	case "json", "cbor":
	default:
		return fmt.Errorf("unsupported ROOM_CODEC %q", c.RoomCodec)
	}
	if c.SessionSecret != "" && len(c.SessionSecret) < minSessionSecretLen {
		return fmt.Errorf("SESSION_SECRET must be at least %d bytes", minSessionSecretLen)
	}
	if c.RoomTTL <= 0 {
		return errors.New("ROOM_TTL must be positive")
	}
	return nil
}

func envString(name string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return fallback
	}
	return value
}

func envInt(name string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", name, err)
	}
	return value, nil
}

// envDuration accepts Go durations ("6h") or plain seconds ("21600").
func envDuration(name string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback, nil
	}
	if seconds, err := strconv.Atoi(raw); err == nil {
		return time.Duration(seconds) * time.Second, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", name, err)
	}
	return value, nil
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}
