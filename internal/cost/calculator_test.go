package cost

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/ad-intel/internal/config"
)

func testRates() Rates {
	return Rates{
		Anthropic: map[string]ModelRate{
			"haiku":  {Input: 0.80, Output: 4.00},
			"sonnet": {Input: 3.00, Output: 15.00},
		},
		Perplexity: PerplexityRate{PerQuery: 0.005, Input: 1.00, Output: 1.00},
	}
}

func TestClaude(t *testing.T) {
	t.Parallel()
	calc := NewCalculator(testRates())

	tests := []struct {
		name   string
		model  string
		input  int64
		output int64
		want   float64
	}{
		{name: "haiku", model: "haiku", input: 1_000_000, output: 100_000, want: 0.80 + 0.40},
		{name: "sonnet", model: "sonnet", input: 200_000, output: 10_000, want: 0.60 + 0.15},
		{name: "zero tokens", model: "haiku", want: 0},
		{name: "unknown model", model: "gpt-4", input: 1_000_000, output: 1_000_000, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, calc.Claude(tt.model, tt.input, tt.output), 1e-9)
		})
	}
}

func TestGeneration(t *testing.T) {
	t.Parallel()
	calc := NewCalculator(testRates())

	assert.InDelta(t, 0.80, calc.Generation("anthropic", "haiku", 1_000_000, 0), 1e-9)
	assert.InDelta(t, 0.80, calc.Generation("", "haiku", 1_000_000, 0), 1e-9)
	assert.InDelta(t, 0.005+0.5, calc.Generation("perplexity", "sonar", 250_000, 250_000), 1e-9)
	assert.Zero(t, calc.Generation("none", "", 1000, 1000))
}

func TestRatesFromConfig(t *testing.T) {
	t.Parallel()
	rates := RatesFromConfig(config.PricingConfig{
		Anthropic: map[string]config.ModelPricing{
			"claude-haiku-4-5-20251001": {Output: 6.00},
			"custom-model":              {Input: 2.00, Output: 8.00},
		},
		Perplexity: config.PerplexityPricing{PerQuery: 0.01},
	})

	assert.Equal(t, ModelRate{Input: 1.00, Output: 6.00}, rates.Anthropic["claude-haiku-4-5-20251001"])
	assert.Equal(t, ModelRate{Input: 2.00, Output: 8.00}, rates.Anthropic["custom-model"])
	assert.Equal(t, 0.01, rates.Perplexity.PerQuery)
	assert.Contains(t, rates.Anthropic, "claude-sonnet-4-5-20250929")
}

func TestDefaultRates_NotShared(t *testing.T) {
	t.Parallel()
	a := DefaultRates()
	a.Anthropic["claude-haiku-4-5-20251001"] = ModelRate{}
	b := DefaultRates()
	assert.NotZero(t, b.Anthropic["claude-haiku-4-5-20251001"].Input)
}
