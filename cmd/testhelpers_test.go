//go:build !integration

package main

import (
	"path/filepath"
	"testing"

	"github.com/sells-group/ad-intel/internal/config"
)

// testConfig returns an offline config backed by a temp-dir SQLite store.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Log:    config.LogConfig{Level: "error", Format: "json"},
		Store:  config.StoreConfig{Driver: "sqlite", DatabaseURL: filepath.Join(t.TempDir(), "ads.db")},
		LLM:    config.LLMConfig{Provider: "none"},
		Region: config.RegionConfig{Default: "QA"},
		Pipeline: config.PipelineConfig{
			FuzzyThreshold:          0.86,
			AlwaysDiscover:          true,
			WebValidationThreshold:  0.75,
			WebOverrideThreshold:    0.5,
			ScorerTimeoutSecs:       10,
			LookupTimeoutSecs:       10,
			ValidationCacheTTLHours: 24,
		},
		Batch: config.BatchConfig{Concurrency: 2},
		Fetch: config.FetchConfig{TimeoutSecs: 5, RequestsPerSecond: 50},
	}
}
