// Package validate decides whether a low-confidence category should be
// checked against the web, and applies the lookup's verdict.
package validate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/ad-intel/internal/model"
)

// Lookup classifies a named entity from outside evidence.
type Lookup interface {
	Lookup(ctx context.Context, name string) (model.ValidationResult, error)
}

// Options tunes an Arbiter. Zero values take the defaults.
type Options struct {
	// Threshold: categories below this confidence are looked up. Default 0.75.
	Threshold float64
	// OverrideThreshold: lookups above this confidence replace the category.
	// Default 0.5.
	OverrideThreshold float64
	// Timeout bounds one lookup. Default 30s.
	Timeout time.Duration
}

// Verdict reports what the arbiter did with one record.
type Verdict struct {
	Invoked    bool
	Overridden bool
}

// Arbiter is safe for concurrent use.
type Arbiter struct {
	lookup Lookup
	opts   Options
}

// NewArbiter creates an arbiter. A nil lookup never invokes anything.
func NewArbiter(lookup Lookup, opts Options) *Arbiter {
	if opts.Threshold <= 0 {
		opts.Threshold = 0.75
	}
	if opts.OverrideThreshold <= 0 {
		opts.OverrideThreshold = 0.5
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	return &Arbiter{lookup: lookup, opts: opts}
}

var unusableNames = map[string]bool{"": true, "n/a": true, "unknown": true, "the": true}

// Arbitrate reads rec.Category and the top entity, and may override the
// category. It records flags and evidence for every branch.
func (a *Arbiter) Arbitrate(ctx context.Context, rec *model.AdRecord) Verdict {
	if rec.Category == nil {
		return Verdict{}
	}
	current := *rec.Category
	source := string(current.Source)

	keep := func(observation string) Verdict {
		rec.SetFlag(model.FlagClassificationSource, source)
		rec.SetFlag(model.FlagWebValidated, false)
		rec.AddEvidence(model.StageArbiter, observation, current.Confidence)
		return Verdict{}
	}

	if current.Confidence >= a.opts.Threshold {
		return keep(fmt.Sprintf("trusting %s category %s (%.2f)", source, current.Label, current.Confidence))
	}
	if a.lookup == nil {
		return keep("web validation disabled")
	}
	top, ok := rec.TopEntity()
	name := strings.TrimSpace(top.Name)
	if !ok || unusableNames[strings.ToLower(name)] {
		return keep("no entity name to validate")
	}

	lctx, cancel := context.WithTimeout(ctx, a.opts.Timeout)
	defer cancel()
	res, err := a.lookup.Lookup(lctx, name)
	if err != nil {
		zap.L().Warn("validate: lookup failed", zap.String("ad_id", rec.ID), zap.String("entity", name), zap.Error(err))
		v := keep(fmt.Sprintf("web lookup for %q failed: %v", name, err))
		v.Invoked = true
		return v
	}
	rec.Validation = &res

	if res.Confidence <= a.opts.OverrideThreshold || !res.Category.Valid() {
		v := keep(fmt.Sprintf("web lookup for %q inconclusive: %s (%.2f)", name, res.Category, res.Confidence))
		v.Invoked = true
		return v
	}

	if res.Category == current.Label {
		rec.AddEvidence(model.StageArbiter, fmt.Sprintf("web lookup confirms %s for %q", res.Category, name), res.Confidence)
	}
	rec.OverrideCategory(model.CategoryDecision{
		Label:      res.Category,
		Confidence: res.Confidence,
		Signals:    append([]string{"web_validation"}, res.Sources...),
		Source:     model.CategorySourceWeb,
		Reasoning:  res.Rationale,
	}, fmt.Sprintf("web lookup for %q", name))
	rec.SetFlag(model.FlagClassificationSource, string(model.CategorySourceWeb))
	rec.SetFlag(model.FlagWebValidated, true)
	return Verdict{Invoked: true, Overridden: true}
}
