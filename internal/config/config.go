// Package config loads ad-intel settings from config.yaml and ADINTEL_*
// environment variables.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Anthropic  AnthropicConfig  `yaml:"anthropic" mapstructure:"anthropic"`
	Perplexity PerplexityConfig `yaml:"perplexity" mapstructure:"perplexity"`
	LLM        LLMConfig        `yaml:"llm" mapstructure:"llm"`
	Jina       JinaConfig       `yaml:"jina" mapstructure:"jina"`
	Catalog    CatalogConfig    `yaml:"catalog" mapstructure:"catalog"`
	Region     RegionConfig     `yaml:"region" mapstructure:"region"`
	Pipeline   PipelineConfig   `yaml:"pipeline" mapstructure:"pipeline"`
	Batch      BatchConfig      `yaml:"batch" mapstructure:"batch"`
	Fetch      FetchConfig      `yaml:"fetch" mapstructure:"fetch"`
	Pricing    PricingConfig    `yaml:"pricing" mapstructure:"pricing"`
	Monitoring MonitoringConfig `yaml:"monitoring" mapstructure:"monitoring"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// StoreConfig configures the record store.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"` // sqlite | postgres
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key         string `yaml:"key" mapstructure:"key"`
	Model       string `yaml:"model" mapstructure:"model"`
	MaxTokens   int    `yaml:"max_tokens" mapstructure:"max_tokens"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// PerplexityConfig holds Perplexity API settings.
type PerplexityConfig struct {
	Key         string `yaml:"key" mapstructure:"key"`
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	Model       string `yaml:"model" mapstructure:"model"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// LLMConfig selects the generative backend and its guard rails.
type LLMConfig struct {
	Provider          string        `yaml:"provider" mapstructure:"provider"` // anthropic | perplexity | none
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int           `yaml:"burst" mapstructure:"burst"`
	Retry             RetryConfig   `yaml:"retry" mapstructure:"retry"`
	Circuit           CircuitConfig `yaml:"circuit" mapstructure:"circuit"`
}

// RetryConfig configures exponential backoff.
type RetryConfig struct {
	MaxAttempts      int `yaml:"max_attempts" mapstructure:"max_attempts"`
	InitialBackoffMs int `yaml:"initial_backoff_ms" mapstructure:"initial_backoff_ms"`
	MaxBackoffMs     int `yaml:"max_backoff_ms" mapstructure:"max_backoff_ms"`
}

// CircuitConfig configures the per-service circuit breaker.
type CircuitConfig struct {
	FailureThreshold int `yaml:"failure_threshold" mapstructure:"failure_threshold"`
	CooldownSecs     int `yaml:"cooldown_secs" mapstructure:"cooldown_secs"`
}

// JinaConfig holds Jina search settings.
type JinaConfig struct {
	Key           string `yaml:"key" mapstructure:"key"`
	SearchBaseURL string `yaml:"search_base_url" mapstructure:"search_base_url"`
	Country       string `yaml:"country" mapstructure:"country"`
}

// CatalogConfig points at optional catalog overlay files.
type CatalogConfig struct {
	EntitiesPath      string `yaml:"entities_path" mapstructure:"entities_path"`
	AdvertiserMapPath string `yaml:"advertiser_map_path" mapstructure:"advertiser_map_path"`
	SubscriptionsPath string `yaml:"subscriptions_path" mapstructure:"subscriptions_path"`
}

// RegionConfig configures the region gate.
type RegionConfig struct {
	Default string `yaml:"default" mapstructure:"default"`
}

// PipelineConfig tunes the classification stages.
type PipelineConfig struct {
	FuzzyThreshold          float64           `yaml:"fuzzy_threshold" mapstructure:"fuzzy_threshold"`
	AlwaysDiscover          bool              `yaml:"always_discover" mapstructure:"always_discover"`
	WebValidationThreshold  float64           `yaml:"web_validation_threshold" mapstructure:"web_validation_threshold"`
	WebOverrideThreshold    float64           `yaml:"web_override_threshold" mapstructure:"web_override_threshold"`
	WebValidation           bool              `yaml:"web_validation" mapstructure:"web_validation"`
	ScorerTimeoutSecs       int               `yaml:"scorer_timeout_secs" mapstructure:"scorer_timeout_secs"`
	LookupTimeoutSecs       int               `yaml:"lookup_timeout_secs" mapstructure:"lookup_timeout_secs"`
	ValidationCacheTTLHours int               `yaml:"validation_cache_ttl_hours" mapstructure:"validation_cache_ttl_hours"`
	LLMFallback             LLMFallbackConfig `yaml:"llm_fallback" mapstructure:"llm_fallback"`
}

// LLMFallbackConfig toggles the generative fallback per stage.
type LLMFallbackConfig struct {
	Category bool `yaml:"category" mapstructure:"category"`
	Offer    bool `yaml:"offer" mapstructure:"offer"`
	Audience bool `yaml:"audience" mapstructure:"audience"`
	Food     bool `yaml:"food" mapstructure:"food"`
	Entity   bool `yaml:"entity" mapstructure:"entity"`
}

// BatchConfig configures batch processing.
type BatchConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
}

// FetchConfig configures remote ad-file downloads.
type FetchConfig struct {
	TimeoutSecs       int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
}

// PricingConfig overrides the built-in generative pricing.
type PricingConfig struct {
	Anthropic  map[string]ModelPricing `yaml:"anthropic" mapstructure:"anthropic"`
	Perplexity PerplexityPricing       `yaml:"perplexity" mapstructure:"perplexity"`
}

// ModelPricing holds per-model token pricing (USD per million tokens).
type ModelPricing struct {
	Input  float64 `yaml:"input" mapstructure:"input"`
	Output float64 `yaml:"output" mapstructure:"output"`
}

// PerplexityPricing holds the Perplexity request fee.
type PerplexityPricing struct {
	PerQuery float64 `yaml:"per_query" mapstructure:"per_query"`
}

// MonitoringConfig configures post-batch alerting. Zero thresholds disable
// their check.
type MonitoringConfig struct {
	WebhookURL             string  `yaml:"webhook_url" mapstructure:"webhook_url"`
	FailureRateThreshold   float64 `yaml:"failure_rate_threshold" mapstructure:"failure_rate_threshold"`
	RejectionRateThreshold float64 `yaml:"rejection_rate_threshold" mapstructure:"rejection_rate_threshold"`
	CostThresholdUSD       float64 `yaml:"cost_threshold_usd" mapstructure:"cost_threshold_usd"`
}

// Load reads configuration from ./config.yaml (optional) and environment.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom is Load with an explicit config file. Unlike ./config.yaml, a
// named file must exist.
func LoadFrom(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("ADINTEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Keys without a real default still need registering so AutomaticEnv
	// values reach Unmarshal.
	for _, key := range []string{
		"anthropic.key", "perplexity.key", "jina.key",
		"catalog.entities_path", "catalog.advertiser_map_path", "catalog.subscriptions_path",
	} {
		v.SetDefault(key, "")
	}
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "ad-intel.db")
	v.SetDefault("store.max_conns", 10)
	v.SetDefault("store.min_conns", 2)
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 512)
	v.SetDefault("anthropic.timeout_secs", 90)
	v.SetDefault("perplexity.base_url", "https://api.perplexity.ai")
	v.SetDefault("perplexity.model", "sonar")
	v.SetDefault("perplexity.timeout_secs", 60)
	v.SetDefault("llm.provider", "anthropic")
	v.SetDefault("llm.requests_per_second", 5.0)
	v.SetDefault("llm.burst", 5)
	v.SetDefault("llm.retry.max_attempts", 3)
	v.SetDefault("llm.retry.initial_backoff_ms", 500)
	v.SetDefault("llm.retry.max_backoff_ms", 10000)
	v.SetDefault("llm.circuit.failure_threshold", 5)
	v.SetDefault("llm.circuit.cooldown_secs", 30)
	v.SetDefault("jina.search_base_url", "https://s.jina.ai")
	v.SetDefault("jina.country", "qa")
	v.SetDefault("region.default", "QA")
	v.SetDefault("pipeline.fuzzy_threshold", 0.86)
	v.SetDefault("pipeline.always_discover", true)
	v.SetDefault("pipeline.web_validation_threshold", 0.75)
	v.SetDefault("pipeline.web_override_threshold", 0.5)
	v.SetDefault("pipeline.web_validation", true)
	v.SetDefault("pipeline.scorer_timeout_secs", 60)
	v.SetDefault("pipeline.lookup_timeout_secs", 30)
	v.SetDefault("pipeline.validation_cache_ttl_hours", 24*30)
	v.SetDefault("pipeline.llm_fallback.category", true)
	v.SetDefault("pipeline.llm_fallback.offer", true)
	v.SetDefault("pipeline.llm_fallback.audience", false)
	v.SetDefault("pipeline.llm_fallback.food", true)
	v.SetDefault("pipeline.llm_fallback.entity", false)
	v.SetDefault("batch.concurrency", 8)
	v.SetDefault("fetch.timeout_secs", 120)
	v.SetDefault("fetch.requests_per_second", 2.0)
	v.SetDefault("pricing.perplexity.per_query", 0.005)
	v.SetDefault("monitoring.webhook_url", "")
	v.SetDefault("monitoring.failure_rate_threshold", 0.10)
	v.SetDefault("monitoring.rejection_rate_threshold", 0.80)
	v.SetDefault("monitoring.cost_threshold_usd", 0)
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)
	// Records go to stdout; logs stay on stderr.
	zapCfg.OutputPaths = []string{"stderr"}

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)
	return nil
}
