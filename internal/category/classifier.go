// Package category assigns the product category of an ad. Known brands and
// strong keyword sets decide directly; everything else goes to the generative
// model, with a signal-count heuristic when that call fails.
package category

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/ad-intel/internal/catalog"
	"github.com/sells-group/ad-intel/internal/llm"
	"github.com/sells-group/ad-intel/internal/model"
	"github.com/sells-group/ad-intel/internal/textmatch"
)

// Input is what the classifier reads from an in-flight record.
type Input struct {
	Text         string
	Matches      []model.EntityMatch
	Subscription *model.SubscriptionDecision
}

// Outcome is a category decision plus the audit trail that produced it.
type Outcome struct {
	Decision  model.CategoryDecision
	Evidence  []model.Evidence
	LLMCalled bool
}

// FastPath reports whether the decision was made without the generative model.
func (o Outcome) FastPath() bool {
	return o.Decision.Source == model.CategorySourceFastPath
}

// Apply stores the decision and evidence on rec.
func (o Outcome) Apply(rec *model.AdRecord) {
	if !rec.SetCategory(o.Decision) {
		rec.OverrideCategory(o.Decision, "category classifier re-run")
	}
	for _, ev := range o.Evidence {
		rec.AddEvidence(ev.Stage, ev.Observation, ev.Confidence)
	}
}

func (o *Outcome) note(observation string, confidence float64) {
	o.Evidence = append(o.Evidence, model.Evidence{
		Stage:       model.StageCategory,
		Observation: observation,
		Confidence:  confidence,
	})
}

// Options tunes a Classifier.
type Options struct {
	// LLMFallback enables the generative call for ads no fast path decides.
	LLMFallback bool
}

// Classifier is safe for concurrent use.
type Classifier struct {
	kw   catalog.Keywords
	gen  llm.Generator
	opts Options
}

// NewClassifier creates a classifier. A nil gen disables the generative
// fallback.
func NewClassifier(kw catalog.Keywords, gen llm.Generator, opts Options) *Classifier {
	if gen == nil {
		gen = llm.Disabled
		opts.LLMFallback = false
	}
	return &Classifier{kw: kw, gen: gen, opts: opts}
}

// Classify never fails; a failed generative call falls back to heuristics.
func (c *Classifier) Classify(ctx context.Context, in Input) Outcome {
	text := textmatch.Normalize(in.Text)

	if out, ok := c.byEntity(text, in.Matches); ok {
		return out
	}
	if out, ok := c.byDomain(text); ok {
		return out
	}

	physical := c.physicalSignals(text)
	categorySignals := textmatch.MatchedTerms(text, c.kw.CategorySignals)

	if out, ok := pureSubscription(in, physical); ok {
		return out
	}

	var out Outcome
	var dec model.CategoryDecision
	var err error
	if c.opts.LLMFallback {
		out.LLMCalled = true
		dec, err = c.byModel(ctx, in, physical, categorySignals)
	} else {
		err = llm.ErrDisabled
	}
	if err != nil {
		zap.L().Debug("category: falling back to heuristics", zap.Error(err))
		out.note("generative classification unavailable: "+err.Error(), 0.1)
		dec = heuristic(physical, categorySignals)
	}

	out.Decision = c.postOverride(&out, dec, text, physical, categorySignals)
	out.note(fmt.Sprintf("classified as %s via %s", out.Decision.Label, out.Decision.Source), out.Decision.Confidence)
	return out
}

func fastPath(label model.Category, confidence float64, reasoning string, signals ...string) Outcome {
	out := Outcome{Decision: model.CategoryDecision{
		Label:      label,
		Confidence: round2(confidence),
		Signals:    signals,
		Source:     model.CategorySourceFastPath,
		Reasoning:  reasoning,
	}}
	out.note("fast path: "+reasoning, out.Decision.Confidence)
	return out
}

// byEntity decides from the top-ranked entity's type.
func (c *Classifier) byEntity(text string, matches []model.EntityMatch) (Outcome, bool) {
	if len(matches) == 0 {
		return Outcome{}, false
	}
	top := matches[0]
	switch {
	case top.EntityType.IsProduct() && top.Confidence >= 0.82:
		label, _ := top.EntityType.Category()
		return fastPath(label, math.Min(0.95, top.Confidence+0.05),
			fmt.Sprintf("%s is a known %s brand", top.Name, strings.ReplaceAll(string(top.EntityType), "_", " ")),
			"known_product_brand", "entity_type="+string(top.EntityType)), true

	case top.EntityType == model.EntityRestaurant && top.Confidence >= 0.85:
		return fastPath(model.CategoryRestaurant, math.Min(0.95, top.Confidence+0.05),
			fmt.Sprintf("%s is a known restaurant", top.Name),
			"known_restaurant_brand", "entity_type=restaurant"), true

	case (top.EntityType == model.EntityMarketplace || top.EntityType == model.EntityGrocery) && top.Confidence >= 0.80:
		categorySignals := textmatch.MatchedTerms(text, c.kw.CategorySignals)
		offers := textmatch.MatchedTerms(text, c.kw.OfferLanguage)
		if len(categorySignals) > 0 || len(offers) > 0 {
			signals := append([]string{"marketplace_brand"}, categorySignals...)
			signals = append(signals, offers...)
			return fastPath(model.CategoryMultiPromotion, 0.88,
				fmt.Sprintf("marketplace %s with category or offer language", top.Name), signals...), true
		}
		return fastPath(model.CategoryGenericProduct, 0.85,
			fmt.Sprintf("marketplace %s promoting specific products", top.Name),
			"marketplace_brand"), true
	}
	return Outcome{}, false
}

// byDomain decides when at least two terms of one domain set appear. Sets
// are tried in table order.
func (c *Classifier) byDomain(text string) (Outcome, bool) {
	for _, d := range c.kw.Domains {
		hits := textmatch.MatchedTerms(text, d.Terms)
		if len(hits) < 2 {
			continue
		}
		shown := hits
		if len(shown) > 3 {
			shown = shown[:3]
		}
		signals := append([]string{string(d.Category) + "_keywords"}, hits...)
		return fastPath(d.Category, d.Confidence,
			fmt.Sprintf("strong %s signals: %s", d.Category, strings.Join(shown, ", ")), signals...), true
	}
	return Outcome{}, false
}

// pureSubscription decides platform_subscription when the subscription
// detector flagged the ad and nothing else is being sold.
func pureSubscription(in Input, physical []string) (Outcome, bool) {
	sub := in.Subscription
	if sub == nil || !sub.Flagged || len(physical) > 0 {
		return Outcome{}, false
	}
	for _, m := range in.Matches {
		switch m.EntityType {
		case model.EntityPlatform, model.EntityMarketplace, model.EntityGrocery:
		default:
			return Outcome{}, false
		}
	}
	name := sub.Program
	if name == "" {
		name = sub.Platform
	}
	return fastPath(model.CategorySubscription, math.Max(sub.Confidence, 0.85),
		fmt.Sprintf("pure subscription ad for %s", name),
		"subscription_detected", "no_product_signals"), true
}

func (c *Classifier) physicalSignals(text string) []string {
	signals := textmatch.MatchedTerms(text, c.kw.Physical)
	if c.kw.TechnicalSpecs != nil && c.kw.TechnicalSpecs.MatchString(text) {
		signals = append(signals, "technical_specs")
	}
	return signals
}

type modelAnswer struct {
	ProductType string   `json:"product_type"`
	Confidence  *float64 `json:"confidence"`
	Reasoning   string   `json:"reasoning"`
	KeySignals  []string `json:"key_signals"`
}

func (c *Classifier) byModel(ctx context.Context, in Input, physical, categorySignals []string) (model.CategoryDecision, error) {
	var brands []string
	for _, m := range in.Matches {
		brands = append(brands, fmt.Sprintf("%s (%s)", m.Name, m.EntityType))
	}
	var platform string
	if sub := in.Subscription; sub != nil && sub.Branding && len(in.Matches) > 0 {
		switch in.Matches[0].EntityType {
		case model.EntityProduct, model.EntityGrocery, model.EntityMarketplace:
			platform = sub.Platform
		}
	}

	res := c.gen.Generate(ctx, llm.Request{
		Stage:       string(model.StageCategory),
		System:      classifySystemPrompt,
		Prompt:      buildPrompt(strings.ToLower(in.Text), physical, categorySignals, brands, platform),
		MaxTokens:   256,
		Temperature: llm.Temperature(0.1),
	})
	if !res.OK {
		return model.CategoryDecision{}, res.Err
	}

	ans, err := llm.Decode[modelAnswer](res.Text)
	if err != nil {
		return model.CategoryDecision{}, err
	}
	label, ok := model.ParseCategory(ans.ProductType)
	if !ok {
		return model.CategoryDecision{}, eris.Errorf("category: unrecognised label %q", ans.ProductType)
	}

	confidence := 0.5
	if ans.Confidence != nil {
		confidence = math.Max(0, math.Min(1, *ans.Confidence))
	}
	if label == model.CategoryGenericProduct && len(physical) >= 3 {
		confidence = math.Min(0.95, confidence+0.1)
	}
	return model.CategoryDecision{
		Label:      label,
		Confidence: round2(confidence),
		Signals:    ans.KeySignals,
		Source:     model.CategorySourceLLM,
		Reasoning:  ans.Reasoning,
	}, nil
}

func heuristic(physical, categorySignals []string) model.CategoryDecision {
	switch {
	case len(physical) >= 2:
		return model.CategoryDecision{
			Label: model.CategoryGenericProduct, Confidence: 0.7, Signals: physical,
			Source: model.CategorySourceHeuristic, Reasoning: "multiple physical product signals",
		}
	case len(categorySignals) >= 1:
		return model.CategoryDecision{
			Label: model.CategoryMultiPromotion, Confidence: 0.6, Signals: categorySignals,
			Source: model.CategorySourceHeuristic, Reasoning: "category promotion signals",
		}
	}
	return model.CategoryDecision{
		Label: model.CategoryRestaurant, Confidence: 0.4, Signals: []string{},
		Source: model.CategorySourceHeuristic, Reasoning: "no strong signals",
	}
}

// postOverride turns a restaurant or multi-entity verdict into a generic
// physical product when the text is clearly about devices or goods and has no
// food or category language.
func (c *Classifier) postOverride(out *Outcome, dec model.CategoryDecision, text string, physical, categorySignals []string) model.CategoryDecision {
	if dec.Label != model.CategoryRestaurant && dec.Label != model.CategoryMultiPromotion {
		return dec
	}
	strong := len(physical) >= 3
	device := textmatch.MatchedTerms(text, c.kw.Device)
	if (!strong && len(device) == 0) || len(categorySignals) > 0 {
		return dec
	}
	if food := textmatch.MatchedTerms(text, c.kw.FoodAnchor); len(food) > 0 {
		return dec
	}

	merged := map[string]bool{}
	for _, s := range append(append(append([]string{}, dec.Signals...), physical...), device...) {
		merged[s] = true
	}
	signals := make([]string, 0, len(merged))
	for s := range merged {
		signals = append(signals, s)
	}
	sort.Strings(signals)

	overridden := model.CategoryDecision{
		Label:      model.CategoryGenericProduct,
		Confidence: round2(math.Max(dec.Confidence, 0.83)),
		Signals:    signals,
		Source:     dec.Source,
		Reasoning:  "physical product indicators outweigh " + string(dec.Label),
	}
	out.note(fmt.Sprintf("override %s -> %s: physical product cues without food language", dec.Label, overridden.Label), overridden.Confidence)
	return overridden
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
