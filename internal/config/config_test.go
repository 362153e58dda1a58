package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFrom(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func baseEnv() map[string]string {
	return map[string]string{
		"DATABASE_URL":        "postgres://localhost/farmroute",
		"APP_JWT_SECRET":      "secret",
		"GOOGLE_MAPS_API_KEY": "gkey",
	}
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(envFrom(baseEnv()))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ProviderGoogle, cfg.GeocodingProvider)
	assert.Equal(t, ProviderGoogle, cfg.RoutingProvider)
	assert.Equal(t, 5*time.Second, cfg.GeocodeTimeout)
	assert.Equal(t, 15*time.Second, cfg.RoutingTimeout)
	assert.Equal(t, 10*time.Minute, cfg.GeocodeCacheTTL)
	assert.Equal(t, 1000, cfg.GeocodeCacheSize)
	assert.Equal(t, 10.0, cfg.GeocodeRatePerSecond)
	assert.Equal(t, "./firebase-service-account.json", cfg.FirebaseCredentialsFile)
}

func TestFromEnvOverrides(t *testing.T) {
	env := baseEnv()
	env["PORT"] = "9090"
	env["HERE_API_KEY"] = "hkey"
	env["ROUTING_PROVIDER"] = "HERE"
	env["GEOCODE_TIMEOUT"] = "2s"
	env["GEOCODE_CACHE_TTL"] = "0s"
	env["GEOCODE_CACHE_SIZE"] = "50"
	env["GEOCODE_RATE_PER_SECOND"] = "0.5"

	cfg, err := FromEnv(envFrom(env))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, ProviderGoogle, cfg.GeocodingProvider)
	assert.Equal(t, ProviderHERE, cfg.RoutingProvider)
	assert.Equal(t, 2*time.Second, cfg.GeocodeTimeout)
	assert.Equal(t, time.Duration(0), cfg.GeocodeCacheTTL)
	assert.Equal(t, 50, cfg.GeocodeCacheSize)
	assert.Equal(t, 0.5, cfg.GeocodeRatePerSecond)
}

func TestFromEnvErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(env map[string]string)
		message string
	}{
		{"missing database", func(env map[string]string) { delete(env, "DATABASE_URL") }, "DATABASE_URL"},
		{"missing secret", func(env map[string]string) { delete(env, "APP_JWT_SECRET") }, "APP_JWT_SECRET"},
		{"missing google key", func(env map[string]string) { delete(env, "GOOGLE_MAPS_API_KEY") }, "GOOGLE_MAPS_API_KEY is required when GEOCODING_PROVIDER=google"},
		{"missing here key", func(env map[string]string) { env["GEOCODING_PROVIDER"] = "here" }, "HERE_API_KEY is required when GEOCODING_PROVIDER=here"},
		{"unknown provider", func(env map[string]string) { env["ROUTING_PROVIDER"] = "osrm" }, "ROUTING_PROVIDER must be"},
		{"bad duration", func(env map[string]string) { env["ROUTING_TIMEOUT"] = "soon" }, "ROUTING_TIMEOUT"},
		{"negative size", func(env map[string]string) { env["GEOCODE_CACHE_SIZE"] = "-1" }, "GEOCODE_CACHE_SIZE"},
		{"bad rate", func(env map[string]string) { env["GEOCODE_RATE_PER_SECOND"] = "fast" }, "GEOCODE_RATE_PER_SECOND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := baseEnv()
			tt.mutate(env)

			_, err := FromEnv(envFrom(env))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}
