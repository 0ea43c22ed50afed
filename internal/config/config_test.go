package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "ad-intel.db", cfg.Store.DatabaseURL)
	assert.Equal(t, "claude-haiku-4-5-20251001", cfg.Anthropic.Model)
	assert.Equal(t, 512, cfg.Anthropic.MaxTokens)
	assert.Equal(t, 90, cfg.Anthropic.TimeoutSecs)
	assert.Equal(t, "sonar", cfg.Perplexity.Model)
	assert.Equal(t, 60, cfg.Perplexity.TimeoutSecs)
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.InDelta(t, 5.0, cfg.LLM.RequestsPerSecond, 0.001)
	assert.Equal(t, 3, cfg.LLM.Retry.MaxAttempts)
	assert.Equal(t, 5, cfg.LLM.Circuit.FailureThreshold)
	assert.Equal(t, "https://s.jina.ai", cfg.Jina.SearchBaseURL)
	assert.Equal(t, "QA", cfg.Region.Default)
	assert.InDelta(t, 0.86, cfg.Pipeline.FuzzyThreshold, 0.001)
	assert.True(t, cfg.Pipeline.AlwaysDiscover)
	assert.InDelta(t, 0.75, cfg.Pipeline.WebValidationThreshold, 0.001)
	assert.InDelta(t, 0.5, cfg.Pipeline.WebOverrideThreshold, 0.001)
	assert.Equal(t, 60, cfg.Pipeline.ScorerTimeoutSecs)
	assert.Equal(t, 30, cfg.Pipeline.LookupTimeoutSecs)
	assert.Equal(t, 720, cfg.Pipeline.ValidationCacheTTLHours)
	assert.True(t, cfg.Pipeline.LLMFallback.Category)
	assert.False(t, cfg.Pipeline.LLMFallback.Audience)
	assert.Equal(t, 8, cfg.Batch.Concurrency)
	assert.Equal(t, 120, cfg.Fetch.TimeoutSecs)
	assert.Empty(t, cfg.Catalog.EntitiesPath)
	assert.InDelta(t, 0.005, cfg.Pricing.Perplexity.PerQuery, 0.0001)
	assert.Empty(t, cfg.Monitoring.WebhookURL)
	assert.InDelta(t, 0.10, cfg.Monitoring.FailureRateThreshold, 0.001)
	assert.InDelta(t, 0.80, cfg.Monitoring.RejectionRateThreshold, 0.001)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
store:
  driver: postgres
  database_url: postgres://localhost/ads
log:
  level: debug
  format: console
llm:
  provider: perplexity
  retry:
    max_attempts: 5
catalog:
  entities_path: catalog/entities.yaml
  advertiser_map_path: catalog/advertisers.yaml
pipeline:
  web_override_threshold: 0.6
  llm_fallback:
    audience: true
batch:
  concurrency: 2
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/ads", cfg.Store.DatabaseURL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "perplexity", cfg.LLM.Provider)
	assert.Equal(t, 5, cfg.LLM.Retry.MaxAttempts)
	assert.Equal(t, 500, cfg.LLM.Retry.InitialBackoffMs)
	assert.Equal(t, "catalog/entities.yaml", cfg.Catalog.EntitiesPath)
	assert.Equal(t, "catalog/advertisers.yaml", cfg.Catalog.AdvertiserMapPath)
	assert.InDelta(t, 0.6, cfg.Pipeline.WebOverrideThreshold, 0.001)
	assert.True(t, cfg.Pipeline.LLMFallback.Audience)
	assert.True(t, cfg.Pipeline.LLMFallback.Category)
	assert.Equal(t, 2, cfg.Batch.Concurrency)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("region:\n  default: AE\n"), 0o644))

	t.Setenv("ADINTEL_REGION_DEFAULT", "SA")
	t.Setenv("ADINTEL_ANTHROPIC_KEY", "sk-test")
	t.Setenv("ADINTEL_BATCH_CONCURRENCY", "3")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "SA", cfg.Region.Default)
	assert.Equal(t, "sk-test", cfg.Anthropic.Key)
	assert.Equal(t, 3, cfg.Batch.Concurrency)
}

func TestLoadFrom_ExplicitPath(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "prod.yaml")
	require.NoError(t, os.WriteFile(path, []byte("region:\n  default: AE\nbatch:\n  concurrency: 12\n"), 0o644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "AE", cfg.Region.Default)
	assert.Equal(t, 12, cfg.Batch.Concurrency)
}

func TestLoadFrom_MissingFile(t *testing.T) {
	dir := chdirTemp(t)
	_, err := LoadFrom(filepath.Join(dir, "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read file")
}

func TestLoadMalformedFile(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("log: [unclosed"), 0o644))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read file")
}

func TestInitLogger(t *testing.T) {
	orig := zap.L()
	t.Cleanup(func() { zap.ReplaceGlobals(orig) })

	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.True(t, zap.L().Core().Enabled(zap.DebugLevel))

	require.NoError(t, InitLogger(LogConfig{Level: "warn", Format: "json"}))
	assert.False(t, zap.L().Core().Enabled(zap.InfoLevel))

	err := InitLogger(LogConfig{Level: "loud"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: parse log level")
}
