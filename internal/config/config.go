package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Database struct {
	Driver   string
	Path     string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// DSN returns the Postgres connection string.
func (d Database) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

type Redis struct {
	Host     string
	Port     string
	Password string
	DB       int
}

func (r Redis) Enabled() bool {
	return r.Host != ""
}

type Config struct {
	Port    string
	DataDir string
	Debug   bool

	Database Database
	Redis    Redis

	RateLimit  int
	RateWindow time.Duration

	AccessPassphraseHash string
	JWTSecret            string
	TokenTTL             time.Duration

	NotificationsGranted bool
	Location             *time.Location
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: failed to read .env: %w", err)
	}
	return FromEnv()
}

func FromEnv() (*Config, error) {
	dataDir := getEnv("DATA_DIR", "")
	if dataDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			base = "."
		}
		dataDir = filepath.Join(base, "kanso")
	}

	cfg := &Config{
		Port:    getEnv("PORT", "8080"),
		DataDir: dataDir,
		Database: Database{
			Driver:   strings.ToLower(getEnv("DB_DRIVER", DriverSQLite)),
			Path:     getEnv("DB_PATH", filepath.Join(dataDir, "habit-tracker.db")),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     getEnv("DB_NAME", "kanso"),
		},
		Redis: Redis{
			Host:     os.Getenv("REDIS_HOST"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		AccessPassphraseHash: os.Getenv("ACCESS_PASSPHRASE_HASH"),
		JWTSecret:            os.Getenv("JWT_SECRET"),
	}

	switch cfg.Database.Driver {
	case DriverSQLite, DriverPostgres, DriverMemory:
	default:
		return nil, fmt.Errorf("config: unknown DB_DRIVER %q", cfg.Database.Driver)
	}

	var err error
	if cfg.Debug, err = getBool("LOG_DEBUG", false); err != nil {
		return nil, err
	}
	if cfg.Redis.DB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.RateLimit, err = getInt("RATE_LIMIT", 100); err != nil {
		return nil, err
	}
	if cfg.RateWindow, err = getDuration("RATE_WINDOW", time.Minute); err != nil {
		return nil, err
	}
	if cfg.TokenTTL, err = getDuration("TOKEN_TTL", 24*time.Hour); err != nil {
		return nil, err
	}

	switch perm := strings.ToLower(getEnv("NOTIFICATIONS", "granted")); perm {
	case "granted":
		cfg.NotificationsGranted = true
	case "denied", "default":
		cfg.NotificationsGranted = false
	default:
		return nil, fmt.Errorf("config: NOTIFICATIONS must be granted or denied, got %q", perm)
	}

	cfg.Location = time.Local
	if tz := os.Getenv("TIMEZONE"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("config: invalid TIMEZONE: %w", err)
		}
		cfg.Location = loc
	}

	if cfg.AccessPassphraseHash != "" && cfg.JWTSecret == "" {
		return nil, errors.New("config: JWT_SECRET is required when ACCESS_PASSPHRASE_HASH is set")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s must be an integer: %w", key, err)
	}
	return n, nil
}

func getBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("config: %s must be a boolean: %w", key, err)
	}
	return b, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s must be a duration: %w", key, err)
	}
	return d, nil
}
