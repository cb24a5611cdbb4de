package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnv_FallsBackToDefault(t *testing.T) {
	os.Unsetenv("ARI_TEST_KEY")
	assert.Equal(t, "fallback", getEnv("ARI_TEST_KEY", "fallback"))

	os.Setenv("ARI_TEST_KEY", "set")
	defer os.Unsetenv("ARI_TEST_KEY")
	assert.Equal(t, "set", getEnv("ARI_TEST_KEY", "fallback"))
}

func TestGetEnvAsInt_FallsBackOnMissingOrInvalid(t *testing.T) {
	os.Unsetenv("ARI_TEST_INT")
	assert.Equal(t, 7, getEnvAsInt("ARI_TEST_INT", 7))

	os.Setenv("ARI_TEST_INT", "not-a-number")
	defer os.Unsetenv("ARI_TEST_INT")
	assert.Equal(t, 7, getEnvAsInt("ARI_TEST_INT", 7))

	os.Setenv("ARI_TEST_INT", "42")
	assert.Equal(t, 42, getEnvAsInt("ARI_TEST_INT", 7))
}

func TestLoadConfig_Defaults(t *testing.T) {
	for _, k := range []string{"ARI_URL", "ARI_USER", "ARI_SECRET", "ARI_APP", "ARI_MAX_RETRIES"} {
		os.Unsetenv(k)
	}

	cfg := LoadConfig()

	assert.Equal(t, "http://localhost:8088", cfg.URL)
	assert.Equal(t, "asterisk", cfg.User)
	assert.Equal(t, "asterisk", cfg.Secret)
	assert.Equal(t, "ari-example", cfg.App)
	assert.Equal(t, 10, cfg.MaxRetries)
}
