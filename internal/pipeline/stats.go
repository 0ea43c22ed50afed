package pipeline

import (
	"context"
	"errors"
	"math"
	"sync/atomic"

	"github.com/sells-group/ad-intel/internal/cost"
	"github.com/sells-group/ad-intel/internal/llm"
)

// Stats counts outcomes across every run of one Pipeline. Safe for
// concurrent use.
type Stats struct {
	Processed      atomic.Int64
	RegionRejected atomic.Int64
	FastPathWins   atomic.Int64
	LLMCalls       atomic.Int64
	WebValidations atomic.Int64
	WebOverrides   atomic.Int64
	StoreFailures  atomic.Int64
	StageFailures  atomic.Int64
	InputTokens    atomic.Int64
	OutputTokens   atomic.Int64
	// CostMicros is the estimated generative spend in millionths of a USD.
	CostMicros atomic.Int64
}

// StatsSnapshot is a point-in-time copy of Stats.
type StatsSnapshot struct {
	Processed      int64 `json:"processed"`
	RegionRejected int64 `json:"region_rejected"`
	FastPathWins   int64 `json:"fast_path_wins"`
	LLMCalls       int64 `json:"llm_calls"`
	WebValidations int64 `json:"web_validations"`
	WebOverrides   int64 `json:"web_overrides"`
	StoreFailures  int64 `json:"store_failures"`
	StageFailures  int64 `json:"stage_failures"`
	InputTokens    int64 `json:"input_tokens"`
	OutputTokens   int64 `json:"output_tokens"`

	EstimatedCostUSD float64 `json:"estimated_cost_usd"`
}

// Snapshot reads every counter.
func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Processed:      s.Processed.Load(),
		RegionRejected: s.RegionRejected.Load(),
		FastPathWins:   s.FastPathWins.Load(),
		LLMCalls:       s.LLMCalls.Load(),
		WebValidations: s.WebValidations.Load(),
		WebOverrides:   s.WebOverrides.Load(),
		StoreFailures:  s.StoreFailures.Load(),
		StageFailures:  s.StageFailures.Load(),
		InputTokens:    s.InputTokens.Load(),
		OutputTokens:   s.OutputTokens.Load(),

		EstimatedCostUSD: float64(s.CostMicros.Load()) / 1e6,
	}
}

// countingGenerator counts every call that reached a real backend and
// prices its token usage.
type countingGenerator struct {
	gen      llm.Generator
	stats    *Stats
	calc     *cost.Calculator
	provider string
	model    string
}

func (c countingGenerator) Generate(ctx context.Context, req llm.Request) llm.Result {
	res := c.gen.Generate(ctx, req)
	if errors.Is(res.Err, llm.ErrDisabled) {
		return res
	}
	c.stats.LLMCalls.Add(1)
	if res.Usage.InputTokens == 0 && res.Usage.OutputTokens == 0 {
		return res
	}
	c.stats.InputTokens.Add(res.Usage.InputTokens)
	c.stats.OutputTokens.Add(res.Usage.OutputTokens)
	usd := c.calc.Generation(c.provider, c.model, res.Usage.InputTokens, res.Usage.OutputTokens)
	c.stats.CostMicros.Add(int64(math.Round(usd * 1e6)))
	return res
}
