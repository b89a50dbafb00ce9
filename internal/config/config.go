package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const (
	minSecretKeyLength = 32
	defaultPort        = "8080"
	maxEntryListLimit  = 1000
)

var insecureSecretPlaceholders = map[string]struct{}{
	"change_me_in_production":                    {},
	"replace_with_at_least_32_random_characters": {},
}

type Config struct {
	SecretKey      string  `env:"SECRET_KEY"`
	DBPath         string  `env:"DB_PATH" envDefault:"data/dailypulse.db"`
	Port           string  `env:"PORT" envDefault:"8080"`
	TimeZone       string  `env:"TZ" envDefault:"UTC"`
	CookieSecure   bool    `env:"COOKIE_SECURE" envDefault:"false"`
	LogLevel       string  `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat      string  `env:"LOG_FORMAT" envDefault:"json"`
	EntryListLimit int     `env:"ENTRY_LIST_LIMIT" envDefault:"100"`
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"20"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"40"`
	MetricsEnabled bool    `env:"METRICS_ENABLED" envDefault:"true"`
}

// Load reads the given dotenv files, when present, and then the process
// environment. Variables already set in the environment win over the files.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", file, err)
		}
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// LoadServer loads the configuration and validates everything the HTTP
// server needs.
func LoadServer(envFiles ...string) (Config, error) {
	cfg, err := Load(envFiles...)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (cfg *Config) Validate() error {
	secret, err := ResolveSecretKey(cfg.SecretKey)
	if err != nil {
		return err
	}
	cfg.SecretKey = secret

	port, err := ResolvePort(cfg.Port)
	if err != nil {
		return err
	}
	cfg.Port = port

	if cfg.EntryListLimit < 1 || cfg.EntryListLimit > maxEntryListLimit {
		return fmt.Errorf("ENTRY_LIST_LIMIT must be between 1 and %d", maxEntryListLimit)
	}
	if cfg.RateLimitRPS > 0 && cfg.RateLimitBurst < 1 {
		return errors.New("RATE_LIMIT_BURST must be positive when rate limiting is enabled")
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return errors.New("DB_PATH is required")
	}
	return nil
}

func ResolveSecretKey(raw string) (string, error) {
	secret := strings.TrimSpace(raw)
	if secret == "" {
		return "", errors.New("SECRET_KEY is required")
	}
	if _, insecure := insecureSecretPlaceholders[strings.ToLower(secret)]; insecure {
		return "", errors.New("SECRET_KEY uses an insecure placeholder value")
	}
	if len(secret) < minSecretKeyLength {
		return "", fmt.Errorf("SECRET_KEY must be at least %d characters", minSecretKeyLength)
	}
	return secret, nil
}

func ResolvePort(raw string) (string, error) {
	port := strings.TrimSpace(raw)
	if port == "" {
		return defaultPort, nil
	}
	value, err := strconv.Atoi(port)
	if err != nil || value < 1 || value > 65535 {
		return "", fmt.Errorf("invalid PORT %q", port)
	}
	return port, nil
}

// Location resolves TZ. ok is false when the zone is unknown and UTC is used.
func (cfg Config) Location() (*time.Location, bool) {
	name := strings.TrimSpace(cfg.TimeZone)
	if name == "" {
		return time.UTC, true
	}
	location, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC, false
	}
	return location, true
}
