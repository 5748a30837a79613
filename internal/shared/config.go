package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	LogLevel    string
	HTTPAddr    string
	MetricsAddr string
	RedisAddr   string // empty disables the attraction cache
	RedisDB     int
	RedisPass   string

	HotelsFile    string
	HTMLDir       string
	PlacesKey     string
	PlacesConfig  string // JSON file carrying {"apikey": "..."}
	PlacesRPS     int
	PlacesTimeout time.Duration
	RadiusMiles   float64
	Workers       int
	CacheTTL      time.Duration
}

// Load reads an optional .env file, then the environment. The Places key
// comes from PLACES_API_KEY, falling back to the apikey field of PLACES_CONFIG_FILE.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg(".env could not be parsed")
	}

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	atof := func(k string, def float64) float64 {
		if v := os.Getenv(k); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f
			}
		}
		return def
	}
	c := Config{
		AppEnv:        env("APP_ENV", "prod"),
		LogLevel:      env("LOG_LEVEL", "info"),
		HTTPAddr:      env("HTTP_ADDR", ":8080"),
		MetricsAddr:   env("METRICS_ADDR", ""),
		RedisAddr:     env("REDIS_ADDR", ""),
		RedisPass:     env("REDIS_PASSWORD", ""),
		RedisDB:       atoi("REDIS_DB", 0),
		HotelsFile:    env("HOTELS_FILE", "input/hotels.json"),
		HTMLDir:       env("HTML_DIR", "input/html"),
		PlacesKey:     env("PLACES_API_KEY", ""),
		PlacesConfig:  env("PLACES_CONFIG_FILE", "input/config.json"),
		PlacesRPS:     atoi("PLACES_RPS", 5),
		PlacesTimeout: time.Duration(atoi("PLACES_TIMEOUT_SECONDS", 20)) * time.Second,
		RadiusMiles:   atof("RADIUS_MILES", 2),
		Workers:       atoi("FETCH_WORKERS", 1),
		CacheTTL:      time.Duration(atoi("CACHE_TTL_SECONDS", 86400)) * time.Second,
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	if c.PlacesKey == "" && c.PlacesConfig != "" {
		key, err := ReadAPIKey(c.PlacesConfig)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Warn().Err(err).Str("file", c.PlacesConfig).Msg("could not read places config")
		}
		c.PlacesKey = key
	}
	if c.PlacesKey == "" {
		log.Warn().Msg("PLACES_API_KEY is empty")
	}
	return c
}

// ReadAPIKey returns the "apikey" field of a JSON credential file.
func ReadAPIKey(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	var f struct {
		APIKey string `json:"apikey"`
	}
	if err := json.Unmarshal(b, &f); err != nil {
		return "", fmt.Errorf("parse %s: %w", path, err)
	}
	return f.APIKey, nil
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
