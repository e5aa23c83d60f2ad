package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func resetArgs(t *testing.T) {
	t.Helper()
	origArgs := os.Args
	os.Args = []string{"testbin"}
	t.Cleanup(func() { os.Args = origArgs })
}

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, ":8080", cfg.EndpointAddrHTTP)
	assert.Equal(t, 30*time.Minute, cfg.AccessTokenValidityDuration)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, 100, cfg.DefaultFeedSize)
	assert.NotEmpty(t, cfg.DatabaseDSN)
}

func TestLoadConfig_FlagsOverrideDefaults(t *testing.T) {
	resetArgs(t)
	os.Args = []string{"testbin", "-a", ":9999", "-t", "5", "-n", "25"}

	cfg := LoadConfig()

	assert.Equal(t, ":9999", cfg.EndpointAddrHTTP)
	assert.Equal(t, 5*time.Minute, cfg.AccessTokenValidityDuration)
	assert.Equal(t, 25, cfg.DefaultFeedSize)
}

func TestLoadConfig_EnvOverlay(t *testing.T) {
	resetArgs(t)
	t.Setenv("FEEDLINE_ADDR", ":7070")
	t.Setenv("FEEDLINE_SECRET_KEY", "env-secret")
	t.Setenv("FEEDLINE_BCRYPT_COST", "4")

	cfg := LoadConfig()

	assert.Equal(t, ":7070", cfg.EndpointAddrHTTP)
	assert.Equal(t, "env-secret", cfg.SecretKey)
	assert.Equal(t, 4, cfg.BcryptCost)
}

func TestLoadConfig_EnvIgnoresBadCost(t *testing.T) {
	resetArgs(t)
	t.Setenv("FEEDLINE_BCRYPT_COST", "not-a-number")

	cfg := LoadConfig()

	assert.Equal(t, 10, cfg.BcryptCost)
}
