// Package cost estimates spend on the generative backends.
package cost

import "github.com/sells-group/ad-intel/internal/config"

// Rates holds per-provider pricing.
type Rates struct {
	Anthropic  map[string]ModelRate
	Perplexity PerplexityRate
}

// ModelRate is per-model token pricing in USD per million tokens.
type ModelRate struct {
	Input  float64
	Output float64
}

// PerplexityRate is a flat request fee plus token pricing.
type PerplexityRate struct {
	PerQuery float64
	Input    float64
	Output   float64
}

// Calculator computes costs for API usage.
type Calculator struct {
	rates Rates
}

// NewCalculator creates a Calculator with the given rates.
func NewCalculator(rates Rates) *Calculator {
	return &Calculator{rates: rates}
}

// Claude returns the cost of one Anthropic call. Unknown models cost 0.
func (c *Calculator) Claude(model string, input, output int64) float64 {
	rate, ok := c.rates.Anthropic[model]
	if !ok {
		return 0
	}
	return perMillion(input, rate.Input) + perMillion(output, rate.Output)
}

// Perplexity returns the cost of one Perplexity call.
func (c *Calculator) Perplexity(input, output int64) float64 {
	r := c.rates.Perplexity
	return r.PerQuery + perMillion(input, r.Input) + perMillion(output, r.Output)
}

// Generation prices one call on the named provider.
func (c *Calculator) Generation(provider, model string, input, output int64) float64 {
	switch provider {
	case "", "anthropic":
		return c.Claude(model, input, output)
	case "perplexity":
		return c.Perplexity(input, output)
	}
	return 0
}

func perMillion(tokens int64, usd float64) float64 {
	return float64(tokens) / 1e6 * usd
}

// DefaultRates returns the built-in pricing.
func DefaultRates() Rates {
	return Rates{
		Anthropic: map[string]ModelRate{
			"claude-haiku-4-5-20251001":  {Input: 1.00, Output: 5.00},
			"claude-sonnet-4-5-20250929": {Input: 3.00, Output: 15.00},
		},
		Perplexity: PerplexityRate{PerQuery: 0.005, Input: 1.00, Output: 1.00},
	}
}

// RatesFromConfig overlays configured prices on DefaultRates. Zero values
// keep the default.
func RatesFromConfig(cfg config.PricingConfig) Rates {
	rates := DefaultRates()
	for model, p := range cfg.Anthropic {
		rate := rates.Anthropic[model]
		if p.Input > 0 {
			rate.Input = p.Input
		}
		if p.Output > 0 {
			rate.Output = p.Output
		}
		rates.Anthropic[model] = rate
	}
	if cfg.Perplexity.PerQuery > 0 {
		rates.Perplexity.PerQuery = cfg.Perplexity.PerQuery
	}
	return rates
}
