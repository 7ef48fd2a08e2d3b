package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_parseFlags_OverridesConfig(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"testbin",
		"-a", ":7070",
		"-d", "postgres://flag",
		"-q", "cache:6379",
		"-s", "flag_secret",
		"-t", "20",
		"-r", "10080",
		"-b", "https://api.example.com",
	}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, ":7070", cfg.EndpointAddr)
	assert.Equal(t, "postgres://flag", cfg.DatabaseDSN)
	assert.Equal(t, "cache:6379", cfg.RedisAddr)
	assert.Equal(t, "flag_secret", cfg.SecretKey)
	assert.Equal(t, 20*time.Minute, cfg.AccessTokenValidityDuration)
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTokenValidityDuration)
	assert.Equal(t, "https://api.example.com", cfg.BaseURL)
}

func Test_parseFlags_NoFlagsKeepsDefaults(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, ":8080", cfg.EndpointAddr)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenValidityDuration)
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTokenValidityDuration)
}

func Test_parseFlags_KeepsSubMinuteDurations(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin", "-s", "flag_secret"}

	cfg := &Config{}
	cfg.LoadDefaults()
	cfg.AccessTokenValidityDuration = 90 * time.Second
	cfg.RefreshTokenValidityDuration = 36 * time.Hour
	parseFlags(cfg)

	// absent -t/-r must not round the configured values to whole minutes
	assert.Equal(t, 90*time.Second, cfg.AccessTokenValidityDuration)
	assert.Equal(t, 36*time.Hour, cfg.RefreshTokenValidityDuration)
}

func Test_parseFlags_IgnoresForeignFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin", "-x", "1", "-s", "kept"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, "kept", cfg.SecretKey)
}
