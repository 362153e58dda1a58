package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Provider names accepted by GEOCODING_PROVIDER and ROUTING_PROVIDER
const (
	ProviderGoogle = "google"
	ProviderHERE   = "here"
)

// Config is the server configuration, read from the environment
type Config struct {
	DatabaseURL string
	Port        string
	JWTSecret   string

	GoogleMapsAPIKey  string
	HEREAPIKey        string
	GeocodingProvider string
	RoutingProvider   string

	GeocodeTimeout       time.Duration
	RoutingTimeout       time.Duration
	GeocodeCacheTTL      time.Duration
	GeocodeCacheSize     int
	GeocodeRatePerSecond float64

	FirebaseCredentialsBase64 string
	FirebaseCredentialsFile   string
}

// Load reads .env (if present) and the environment into a Config
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  Warning: .env file not found, using environment variables from system")
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv and validates it
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		DatabaseURL:               getenv("DATABASE_URL"),
		Port:                      stringOr(getenv("PORT"), "8080"),
		JWTSecret:                 getenv("APP_JWT_SECRET"),
		GoogleMapsAPIKey:          getenv("GOOGLE_MAPS_API_KEY"),
		HEREAPIKey:                getenv("HERE_API_KEY"),
		GeocodingProvider:         strings.ToLower(stringOr(getenv("GEOCODING_PROVIDER"), ProviderGoogle)),
		RoutingProvider:           strings.ToLower(stringOr(getenv("ROUTING_PROVIDER"), ProviderGoogle)),
		FirebaseCredentialsBase64: getenv("FIREBASE_CREDENTIALS_BASE64"),
		FirebaseCredentialsFile:   stringOr(getenv("FIREBASE_CREDENTIALS_FILE"), "./firebase-service-account.json"),
	}

	var err error
	if cfg.GeocodeTimeout, err = durationOr(getenv, "GEOCODE_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.RoutingTimeout, err = durationOr(getenv, "ROUTING_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.GeocodeCacheTTL, err = durationOr(getenv, "GEOCODE_CACHE_TTL", 10*time.Minute); err != nil {
		return nil, err
	}
	if cfg.GeocodeCacheSize, err = intOr(getenv, "GEOCODE_CACHE_SIZE", 1000); err != nil {
		return nil, err
	}
	if cfg.GeocodeRatePerSecond, err = floatOr(getenv, "GEOCODE_RATE_PER_SECOND", 10); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required settings and that each selected provider has a key
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("APP_JWT_SECRET environment variable is required")
	}

	selections := []struct{ name, provider string }{
		{"GEOCODING_PROVIDER", c.GeocodingProvider},
		{"ROUTING_PROVIDER", c.RoutingProvider},
	}
	for _, sel := range selections {
		name, provider := sel.name, sel.provider
		switch provider {
		case ProviderGoogle:
			if c.GoogleMapsAPIKey == "" {
				return fmt.Errorf("GOOGLE_MAPS_API_KEY is required when %s=%s", name, provider)
			}
		case ProviderHERE:
			if c.HEREAPIKey == "" {
				return fmt.Errorf("HERE_API_KEY is required when %s=%s", name, provider)
			}
		default:
			return fmt.Errorf("%s must be %q or %q, got %q", name, ProviderGoogle, ProviderHERE, provider)
		}
	}
	return nil
}

func stringOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func durationOr(getenv func(string) string, key string, def time.Duration) (time.Duration, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid %s %q: want a duration like 5s", key, v)
	}
	return d, nil
}

func intOr(getenv func(string) string, key string, def int) (int, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s %q", key, v)
	}
	return n, nil
}

func floatOr(getenv func(string) string, key string, def float64) (float64, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return 0, fmt.Errorf("invalid %s %q", key, v)
	}
	return f, nil
}
