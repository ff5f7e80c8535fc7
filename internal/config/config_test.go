package config

import (
	"os"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Port:         "8080",
		Env:          "development",
		JWTSecret:    "secure-secret-at-least-32-chars-long",
		JWTTTL:       time.Hour,
		Timezone:     "UTC",
		StoreDriver:  StoreMemory,
		EventsDriver: EventsNone,
		KafkaBrokers: "localhost:9092",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectError bool
	}{
		{"valid development config", func(*Config) {}, false},
		{"missing port", func(c *Config) { c.Port = "" }, true},
		{"missing secret", func(c *Config) { c.JWTSecret = "" }, true},
		{"zero ttl", func(c *Config) { c.JWTTTL = 0 }, true},
		{"negative login delay", func(c *Config) { c.LoginDelay = -time.Second }, true},
		{"unknown timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }, true},
		{"unknown store driver", func(c *Config) { c.StoreDriver = "mongo" }, true},
		{"unknown events driver", func(c *Config) { c.EventsDriver = "nats" }, true},
		{"kafka without brokers", func(c *Config) { c.EventsDriver = EventsKafka; c.KafkaBrokers = " , " }, true},
		{"redis events without redis", func(c *Config) { c.EventsDriver = EventsRedis }, true},
		{"production default secret", func(c *Config) { c.Env = "production"; c.JWTSecret = defaultJWTSecret }, true},
		{"production short secret", func(c *Config) { c.Env = "prod"; c.JWTSecret = "short" }, true},
		{"production postgres weak password", func(c *Config) {
			c.Env = "production"
			c.StoreDriver = StorePostgres
			c.DBPassword = "password"
		}, true},
		{"production memory store", func(c *Config) { c.Env = "production" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_Brokers(t *testing.T) {
	c := &Config{KafkaBrokers: " a:9092, ,b:9092 "}
	assert.Equal(t, []string{"a:9092", "b:9092"}, c.Brokers())
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	defer viper.Reset()
	t.Setenv("APP_ENV", "development")
	t.Setenv("STORE_DRIVER", "  MEMORY ")
	t.Setenv("LOGIN_DELAY", "0s")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("TIMEZONE", "UTC")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, StoreMemory, cfg.StoreDriver)
	assert.Equal(t, time.Duration(0), cfg.LoginDelay)
	assert.Equal(t, 2*time.Hour, cfg.JWTTTL)
	assert.Equal(t, "8375", cfg.Port)
}

func TestLoadConfig_MissingProductionProfile(t *testing.T) {
	defer viper.Reset()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	defer func() { _ = os.Chdir(wd) }()

	t.Setenv("APP_ENV", "production")

	_, err = LoadConfig()
	assert.Error(t, err)
}
