package llm

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/ad-intel/internal/config"
	"github.com/sells-group/ad-intel/internal/resilience"
	"github.com/sells-group/ad-intel/pkg/anthropic"
	"github.com/sells-group/ad-intel/pkg/perplexity"
)

const defaultTimeout = 90 * time.Second

// Client is a Generator over one Backend with guard rails.
type Client struct {
	backend Backend
	timeout time.Duration
	limiter *rate.Limiter
	retry   resilience.RetryConfig
	breaker *resilience.CircuitBreaker
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds each Generate call, retries included.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRateLimit caps calls per second. rps <= 0 disables the limit.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithRetry sets the retry policy.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(c *Client) { c.retry = cfg }
}

// WithBreaker sets the circuit breaker.
func WithBreaker(cb *resilience.CircuitBreaker) Option {
	return func(c *Client) { c.breaker = cb }
}

// NewClient wraps backend.
func NewClient(backend Backend, opts ...Option) *Client {
	retry := resilience.DefaultRetryConfig()
	retry.Service = backend.Name()
	c := &Client{
		backend: backend,
		timeout: defaultTimeout,
		retry:   retry,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.breaker == nil {
		c.breaker = resilience.NewCircuitBreaker(backend.Name(), resilience.DefaultCircuitBreakerConfig())
	}
	return c
}

// Generate implements Generator.
func (c *Client) Generate(ctx context.Context, req Request) Result {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	comp, err := resilience.DoVal(ctx, c.retry, func(ctx context.Context) (Completion, error) {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return Completion{}, eris.Wrap(err, "llm: rate limit wait")
			}
		}
		return resilience.ExecuteVal(ctx, c.breaker, func(ctx context.Context) (Completion, error) {
			return c.backend.Complete(ctx, req)
		})
	})
	if err != nil {
		zap.L().Warn("llm: generation failed",
			zap.String("backend", c.backend.Name()),
			zap.String("stage", req.Stage),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return Failed(err)
	}

	zap.L().Debug("llm: generation complete",
		zap.String("backend", c.backend.Name()),
		zap.String("stage", req.Stage),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int64("output_tokens", comp.Usage.OutputTokens),
	)
	return Result{OK: true, Text: comp.Text, Usage: comp.Usage}
}

// BreakerState reports the backend's circuit state.
func (c *Client) BreakerState() resilience.CircuitState {
	return c.breaker.State()
}

// FromConfig builds the configured generator. A missing API key or the
// "none" provider yields Disabled, which sends every stage down its
// deterministic fallback.
func FromConfig(cfg *config.Config) (Generator, error) {
	var backend Backend
	switch cfg.LLM.Provider {
	case "", "anthropic":
		if cfg.Anthropic.Key == "" {
			zap.L().Warn("llm: anthropic key not set, generative fallback disabled")
			return Disabled, nil
		}
		backend = NewAnthropicBackend(anthropic.NewClient(cfg.Anthropic.Key), cfg.Anthropic.Model, cfg.Anthropic.MaxTokens)
	case "perplexity":
		if cfg.Perplexity.Key == "" {
			zap.L().Warn("llm: perplexity key not set, generative fallback disabled")
			return Disabled, nil
		}
		opts := []perplexity.Option{perplexity.WithTimeout(time.Duration(cfg.Perplexity.TimeoutSecs) * time.Second)}
		if cfg.Perplexity.BaseURL != "" {
			opts = append(opts, perplexity.WithBaseURL(cfg.Perplexity.BaseURL))
		}
		if cfg.Perplexity.Model != "" {
			opts = append(opts, perplexity.WithModel(cfg.Perplexity.Model))
		}
		backend = NewPerplexityBackend(perplexity.NewClient(cfg.Perplexity.Key, opts...))
	case "none":
		return Disabled, nil
	default:
		return nil, eris.Errorf("llm: unknown provider %q", cfg.LLM.Provider)
	}

	timeout := time.Duration(cfg.Anthropic.TimeoutSecs) * time.Second
	if cfg.LLM.Provider == "perplexity" {
		timeout = time.Duration(cfg.Perplexity.TimeoutSecs) * time.Second
	}
	r := cfg.LLM.Retry
	return NewClient(backend,
		WithTimeout(timeout),
		WithRateLimit(cfg.LLM.RequestsPerSecond, cfg.LLM.Burst),
		WithRetry(resilience.NewRetryConfig(backend.Name(), r.MaxAttempts, r.InitialBackoffMs, r.MaxBackoffMs)),
		WithBreaker(resilience.NewCircuitBreaker(backend.Name(),
			resilience.NewCircuitBreakerConfig(cfg.LLM.Circuit.FailureThreshold, cfg.LLM.Circuit.CooldownSecs))),
	), nil
}
