package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HumbledDS/dd-intelligence-assistant/internal/config"
)

// setEnv sets environment variables for a test and restores them after.
func setEnv(t *testing.T, env map[string]string) {
	t.Helper()
	for k, v := range env {
		t.Setenv(k, v)
	}
}

// validEnv returns the minimum set of valid environment variables. Values
// not listed are explicitly blanked so the host environment cannot leak in.
func validEnv() map[string]string {
	return map[string]string{
		"DATABASE_URL":   "",
		"REDIS_URL":      "redis://localhost:6379",
		"AI_PROVIDER":    "mock",
		"GEMINI_API_KEY": "",
	}
}

func TestLoad_ValidConfig(t *testing.T) {
	setEnv(t, validEnv())

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.Equal(t, "redis://localhost:6379", cfg.Redis.URL)
	assert.Equal(t, "mock", cfg.AI.Provider)
	assert.Equal(t, "gemini-1.5-flash", cfg.AI.Gemini.Model)
	assert.Equal(t, "text-embedding-004", cfg.AI.Gemini.EmbeddingModel)
	assert.Equal(t, 15*time.Second, cfg.Collectors.Timeout)
	assert.Equal(t, 20*time.Second, cfg.Pipeline.PhaseTimeout)
	assert.Equal(t, 30*time.Minute, cfg.Pipeline.JobRetention)
	assert.Equal(t, 2048, cfg.Cache.LocalMaxEntries)
	assert.Equal(t, 5*time.Minute, cfg.Cache.LocalTTLCap)
}

func TestLoad_DatabaseURLIsOptional(t *testing.T) {
	setEnv(t, validEnv())

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.Database.URL)
}

func TestLoad_CustomPort(t *testing.T) {
	setEnv(t, validEnv())
	t.Setenv("DD_PORT", "9090")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestLoad_MissingRedisURL(t *testing.T) {
	env := validEnv()
	env["REDIS_URL"] = ""
	setEnv(t, env)

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REDIS_URL")
}

func TestLoad_MissingAIProvider(t *testing.T) {
	env := validEnv()
	env["AI_PROVIDER"] = ""
	setEnv(t, env)

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AI_PROVIDER")
}

func TestLoad_InvalidAIProvider(t *testing.T) {
	env := validEnv()
	env["AI_PROVIDER"] = "gpt4"
	setEnv(t, env)

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AI_PROVIDER")
}

func TestLoad_GeminiRequiresAPIKey(t *testing.T) {
	env := validEnv()
	env["AI_PROVIDER"] = "gemini"
	setEnv(t, env)

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")

	t.Setenv("GEMINI_API_KEY", "test-key")
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.AI.Provider)
}

func TestLoad_InvalidCollectorURL(t *testing.T) {
	setEnv(t, validEnv())
	t.Setenv("BODACC_API_URL", "not-a-url")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BODACC_API_URL")
}

func TestLoad_CustomTimeouts(t *testing.T) {
	setEnv(t, validEnv())
	t.Setenv("COLLECTOR_TIMEOUT", "5s")
	t.Setenv("PIPELINE_PHASE_TIMEOUT", "10s")
	t.Setenv("AI_INFERENCE_TIMEOUT_SECS", "120")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.Collectors.Timeout)
	assert.Equal(t, 10*time.Second, cfg.Pipeline.PhaseTimeout)
	assert.Equal(t, 2*time.Minute, cfg.AI.InferenceTimeout)
}
