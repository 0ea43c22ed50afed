package scorer

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/ad-intel/internal/catalog"
	"github.com/sells-group/ad-intel/internal/llm"
	"github.com/sells-group/ad-intel/internal/model"
	"github.com/sells-group/ad-intel/internal/textmatch"
)

// GeneralAudience is the segment used when nothing points anywhere.
const GeneralAudience = "General Audience"

const (
	pointsPerTerm      = 3.0
	audienceThreshold  = 3.0
	newCustomers       = "New Customers"
	highDiscountFloor  = 40
	defaultBudgetGroup = "Budget Shoppers"
)

// InferCategory maps a category decision onto the scoring category whose
// audience and theme tables apply. Generic products are narrowed with the
// inference keywords.
func InferCategory(tables catalog.Scoring, cat *model.CategoryDecision, text string) string {
	if cat != nil {
		switch cat.Label {
		case model.CategoryRestaurant:
			return "restaurant"
		case model.CategoryGrocery, model.CategoryMultiPromotion:
			return "grocery"
		case model.CategoryGenericProduct:
			for _, inf := range tables.Inference {
				if anyTerm(text, inf.Terms) {
					return inf.Category
				}
			}
		default:
			if _, ok := tables.Audiences[string(cat.Label)]; ok {
				return string(cat.Label)
			}
		}
	}
	if textmatch.ContainsTerm(text, "grocery") {
		return "grocery"
	}
	return "general"
}

// AudienceScorer picks the target audience segment of an ad.
type AudienceScorer struct {
	tables catalog.Scoring
	gen    llm.Generator
	useLLM bool
}

// NewAudienceScorer creates a scorer. useLLM enables the generative fallback
// when no keyword or offer signal decides; a nil gen disables it.
func NewAudienceScorer(tables catalog.Scoring, gen llm.Generator, useLLM bool) *AudienceScorer {
	if gen == nil {
		gen, useLLM = llm.Disabled, false
	}
	return &AudienceScorer{tables: tables, gen: gen, useLLM: useLLM}
}

// Score tries keyword segments, then offer shortcuts, then the generative
// model, and settles on GeneralAudience.
func (s *AudienceScorer) Score(ctx context.Context, text string, cat *model.CategoryDecision, offer *model.OfferDecision) model.AudienceDecision {
	norm := textmatch.Normalize(text)
	category := InferCategory(s.tables, cat, norm)
	table, known := s.tables.Audiences[category]

	if known {
		if dec, ok := bySegments(norm, table); ok {
			dec.Category = category
			return dec
		}
	}
	if dec, ok := byOffer(offer, table); ok {
		dec.Category = category
		return dec
	}

	if s.useLLM {
		if !known {
			table = s.tables.Audiences["restaurant"]
		}
		dec, err := s.byModel(ctx, text, category, table, offer)
		if err != nil {
			zap.L().Debug("scorer: audience generation failed", zap.Error(err))
			return model.AudienceDecision{Segment: GeneralAudience, Category: category, Confidence: 0.3, Signals: []string{"llm_failure"}}
		}
		dec.Category = category
		return dec
	}

	return model.AudienceDecision{Segment: GeneralAudience, Category: category, Confidence: 0.5, Signals: []string{"no_audience_signals"}}
}

// bySegments scores 3 points per matched phrase; the first segment in table
// order wins ties.
func bySegments(text string, table catalog.AudienceTable) (model.AudienceDecision, bool) {
	var best model.AudienceDecision
	var bestScore float64
	for _, seg := range table.Segments {
		matches := textmatch.MatchedTerms(text, seg.Terms)
		score := pointsPerTerm * float64(len(matches))
		if score >= audienceThreshold && score > bestScore {
			bestScore = score
			best = model.AudienceDecision{Segment: seg.Name, Signals: matches}
		}
	}
	if bestScore == 0 {
		return model.AudienceDecision{}, false
	}
	best.Confidence = round2(math.Min(0.95, 0.70+bestScore/30))
	best.Reasoning = fmt.Sprintf("%d segment keyword(s)", len(best.Signals))
	return best, true
}

func byOffer(offer *model.OfferDecision, table catalog.AudienceTable) (model.AudienceDecision, bool) {
	if offer == nil {
		return model.AudienceDecision{}, false
	}
	if strings.Contains(strings.ToLower(offer.Details), "first order") ||
		strings.Contains(strings.ToLower(offer.Conditions), "first order") {
		return model.AudienceDecision{Segment: newCustomers, Confidence: 0.88, Signals: []string{"first_order_offer"}}, true
	}
	if offer.Type == model.OfferPercentage {
		pct, err := strconv.Atoi(strings.TrimSpace(strings.SplitN(offer.Details, "%", 2)[0]))
		if err == nil && pct >= highDiscountFloor {
			segment := table.Budget
			if segment == "" {
				segment = defaultBudgetGroup
			}
			return model.AudienceDecision{
				Segment:    segment,
				Confidence: 0.75,
				Signals:    []string{fmt.Sprintf("high_discount_%d%%", pct)},
			}, true
		}
	}
	return model.AudienceDecision{}, false
}

type audienceAnswer struct {
	TargetAudience string   `json:"target_audience"`
	Confidence     *float64 `json:"confidence"`
	Signals        []string `json:"signals"`
}

func (s *AudienceScorer) byModel(ctx context.Context, text, category string, table catalog.AudienceTable, offer *model.OfferDecision) (model.AudienceDecision, error) {
	var offerDesc string
	if offer != nil && offer.Type != model.OfferNone {
		offerDesc = describeOffer(offer)
	}
	res := s.gen.Generate(ctx, llm.Request{
		Stage:       string(model.StageAudience),
		System:      audienceSystemPrompt,
		Prompt:      buildAudiencePrompt(text, category, table, offerDesc),
		MaxTokens:   256,
		Temperature: llm.Temperature(0.1),
	})
	if !res.OK {
		return model.AudienceDecision{}, res.Err
	}
	ans, err := llm.Decode[audienceAnswer](res.Text)
	if err != nil {
		return model.AudienceDecision{}, err
	}

	dec := model.AudienceDecision{
		Segment:    GeneralAudience,
		Confidence: 0.5,
		Signals:    ans.Signals,
		Reasoning:  "generative model",
	}
	for _, seg := range table.Segments {
		if strings.EqualFold(strings.TrimSpace(ans.TargetAudience), seg.Name) {
			dec.Segment = seg.Name
			break
		}
	}
	if ans.Confidence != nil {
		dec.Confidence = round2(clamp01(*ans.Confidence))
	}
	return dec, nil
}
