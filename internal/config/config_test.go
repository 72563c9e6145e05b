package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_ENV", "does-not-exist")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "release", cfg.Mode)
	assert.Equal(t, 64, cfg.SendBuffer)
	assert.Equal(t, 54*time.Second, cfg.PingPeriod)
	assert.Equal(t, 60*time.Second, cfg.PongWait)
	assert.Equal(t, "drop", cfg.SlowConsumer)
	assert.Equal(t, 20, cfg.RateLimit)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("CONFIG_ENV", "does-not-exist")
	t.Setenv("LINGO_PORT", "9191")
	t.Setenv("LINGO_SLOW_CONSUMER", "disconnect")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9191, cfg.Port)
	assert.Equal(t, "disconnect", cfg.SlowConsumer)
}

func TestLoad_RejectsPingAfterPong(t *testing.T) {
	t.Setenv("CONFIG_ENV", "does-not-exist")
	t.Setenv("LINGO_PING_PERIOD", "2m")

	_, err := Load()
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestValidate(t *testing.T) {
	base := Config{
		Port:       8080,
		SendBuffer: 8,
		ReadLimit:  1024,
		PingPeriod: time.Second,
		PongWait:   2 * time.Second,
		JWTSecret:  "s",
	}
	require.NoError(t, base.Validate())

	cases := map[string]func(c *Config){
		"port":        func(c *Config) { c.Port = 0 },
		"send buffer": func(c *Config) { c.SendBuffer = 0 },
		"read limit":  func(c *Config) { c.ReadLimit = -1 },
		"ping":        func(c *Config) { c.PingPeriod = 3 * time.Second },
		"jwt secret":  func(c *Config) { c.JWTSecret = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := base
			mutate(&c)
			assert.ErrorIs(t, c.Validate(), ErrInvalidConfig)
		})
	}
}
