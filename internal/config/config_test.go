package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) string { return "" }

func TestLoadDefaultsFromFile(t *testing.T) {
	cfg, err := Load("testdata/service.yaml", noEnv)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.API.Bind)
	assert.Equal(t, 256, cfg.Worker.QueueSize)
	assert.Equal(t, 30*time.Second, cfg.Worker.JobTimeout)
	assert.Equal(t, "auto", cfg.Kernels.Bundle)
	assert.Equal(t, "astro_com", cfg.TimeResolver.DefaultParityProfile)
}

func TestLoadAppliesLegacyEnvOverrides(t *testing.T) {
	env := map[string]string{
		"KERNEL_BUNDLE":      "DE441",
		"WORKERS":            "4",
		"DISABLE_RATE_LIMIT": "true",
		"ALLOWED_ORIGINS":    "https://a.example,https://b.example",
	}
	cfg, err := Load("testdata/service.yaml", func(k string) string { return env[k] })
	require.NoError(t, err)
	assert.Equal(t, "DE441", cfg.Kernels.Bundle)
	assert.Equal(t, 4, cfg.Worker.Count)
	assert.True(t, cfg.RateLimit.Disabled)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.API.AllowedOrigins)
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := Load("testdata/does-not-exist.yaml", noEnv)
	require.Error(t, err)
}
