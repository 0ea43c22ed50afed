package validate

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/ad-intel/internal/llm"
	"github.com/sells-group/ad-intel/internal/model"
	"github.com/sells-group/ad-intel/internal/resilience"
	"github.com/sells-group/ad-intel/pkg/jina"
)

const (
	confNoResults   = 0.2
	confModelFailed = 0.3
	cacheableFloor  = 0.7
	maxResults      = 3
	snippetLen      = 400
)

// Cache stores validation results between runs.
type Cache interface {
	GetValidation(ctx context.Context, key string) (*model.ValidationResult, error)
	PutValidation(ctx context.Context, key string, res model.ValidationResult, ttl time.Duration) error
}

const lookupSystemPrompt = `You classify a brand or product named in a Gulf-region advertisement, using web search results.
Decide whether it is a restaurant or food brand, a physical product (and which kind), or a delivery platform's subscription.
product_type must be one of: restaurant, electronics, home_appliances, fashion, beauty, sports, pharmacy, toys, pet_supplies, grocery, flowers, entertainment, sweets_desserts, beverages, unknown_category, subscription, unknown.
Use unknown_category for a physical product that fits no listed type, and unknown (with confidence below 0.5) when the results are unclear.
Return ONLY valid JSON: {"product_type": "...", "category": "free-form category name", "confidence": 0.0-1.0, "reasoning": "brief explanation"}`

// WebLookupOptions tunes a WebLookup.
type WebLookupOptions struct {
	Country  string        // search market bias, e.g. "qa"
	CacheTTL time.Duration // 0 disables cache writes
	Retry    resilience.RetryConfig
	Breaker  *resilience.CircuitBreaker
}

// WebLookup searches the web for an entity and asks the generative model to
// classify it from the top results.
type WebLookup struct {
	search jina.Client
	gen    llm.Generator
	cache  Cache
	opts   WebLookupOptions
}

// NewWebLookup creates a lookup. cache may be nil.
func NewWebLookup(search jina.Client, gen llm.Generator, cache Cache, opts WebLookupOptions) *WebLookup {
	if opts.Retry.Service == "" {
		opts.Retry = resilience.DefaultRetryConfig()
		opts.Retry.Service = "jina"
	}
	if opts.Breaker == nil {
		opts.Breaker = resilience.NewCircuitBreaker("jina", resilience.DefaultCircuitBreakerConfig())
	}
	return &WebLookup{search: search, gen: gen, cache: cache, opts: opts}
}

// CacheKey normalizes an entity name for the validation cache.
func CacheKey(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// Lookup implements Lookup. Search and model failures produce low-confidence,
// uncacheable results rather than errors; only a cancelled context errors.
func (w *WebLookup) Lookup(ctx context.Context, name string) (model.ValidationResult, error) {
	key := CacheKey(name)
	if w.cache != nil {
		cached, err := w.cache.GetValidation(ctx, key)
		if err != nil {
			zap.L().Warn("validate: cache read failed", zap.String("entity", name), zap.Error(err))
		} else if cached != nil {
			zap.L().Debug("validate: cache hit", zap.String("entity", name))
			return *cached, nil
		}
	}

	results, err := w.searchTop(ctx, name)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return model.ValidationResult{}, eris.Wrap(ctxErr, "validate: lookup")
	}
	if err != nil || len(results) == 0 {
		reason := "no search results"
		if err != nil {
			reason = "search failed: " + err.Error()
		}
		return model.ValidationResult{Entity: name, Confidence: confNoResults, Rationale: reason}, nil
	}

	res := w.classify(ctx, name, results)
	if res.Cacheable && w.cache != nil && w.opts.CacheTTL > 0 {
		if err := w.cache.PutValidation(ctx, key, res, w.opts.CacheTTL); err != nil {
			zap.L().Warn("validate: cache write failed", zap.String("entity", name), zap.Error(err))
		}
	}
	return res, nil
}

func (w *WebLookup) searchTop(ctx context.Context, name string) ([]jina.SearchResult, error) {
	var opts []jina.SearchOption
	if w.opts.Country != "" {
		opts = append(opts, jina.WithCountry(w.opts.Country))
	}
	resp, err := resilience.DoVal(ctx, w.opts.Retry, func(ctx context.Context) (*jina.SearchResponse, error) {
		return resilience.ExecuteVal(ctx, w.opts.Breaker, func(ctx context.Context) (*jina.SearchResponse, error) {
			return w.search.Search(ctx, "What is "+name, opts...)
		})
	})
	if err != nil {
		return nil, err
	}
	var out []jina.SearchResult
	for _, r := range resp.Data {
		if r.Title == "" && r.Snippet(0) == "" {
			continue
		}
		out = append(out, r)
		if len(out) == maxResults {
			break
		}
	}
	return out, nil
}

type lookupAnswer struct {
	ProductType string   `json:"product_type"`
	Category    string   `json:"category"`
	Confidence  *float64 `json:"confidence"`
	Reasoning   string   `json:"reasoning"`
}

func (w *WebLookup) classify(ctx context.Context, name string, results []jina.SearchResult) model.ValidationResult {
	sources := make([]string, 0, len(results))
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n\nSearch results:\n", name)
	for i, r := range results {
		fmt.Fprintf(&b, "\nResult %d:\nTitle: %s\nSnippet: %s\n", i+1, r.Title, r.Snippet(snippetLen))
		if r.URL != "" {
			sources = append(sources, r.URL)
		}
	}

	out := model.ValidationResult{Entity: name, Sources: sources}
	res := w.gen.Generate(ctx, llm.Request{
		Stage:       string(model.StageArbiter),
		System:      lookupSystemPrompt,
		Prompt:      b.String(),
		MaxTokens:   300,
		Temperature: llm.Temperature(0.1),
	})
	if !res.OK {
		out.Confidence = confModelFailed
		out.Rationale = "validation error: " + res.Err.Error()
		return out
	}
	ans, err := llm.Decode[lookupAnswer](res.Text)
	if err != nil {
		out.Confidence = confModelFailed
		out.Rationale = "validation error: " + err.Error()
		return out
	}

	out.ProductType = strings.ToLower(strings.TrimSpace(ans.ProductType))
	if out.ProductType != "unknown" && out.ProductType != "" {
		if c, ok := model.ParseCategory(out.ProductType); ok {
			out.Category = c
		}
	}
	out.Confidence = 0.5
	if ans.Confidence != nil {
		out.Confidence = math.Max(0, math.Min(1, *ans.Confidence))
	}
	out.Rationale = ans.Reasoning
	if ans.Category != "" {
		out.Rationale = strings.TrimSpace(ans.Category + ": " + ans.Reasoning)
	}
	out.Cacheable = out.Confidence >= cacheableFloor && out.Category != ""
	return out
}
