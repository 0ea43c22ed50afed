package scorer

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/ad-intel/internal/catalog"
	"github.com/sells-group/ad-intel/internal/llm"
	"github.com/sells-group/ad-intel/internal/model"
	"github.com/sells-group/ad-intel/internal/textmatch"
)

// mixedRatio is the second-best/best score ratio at which two cuisines are
// too close to call.
const mixedRatio = 0.7

// FoodClassifier assigns restaurant ads a cuisine sub-category.
type FoodClassifier struct {
	tables catalog.Scoring
	gen    llm.Generator
	useLLM bool
}

// NewFoodClassifier creates a classifier. useLLM enables the generative
// fallback for ads with no cuisine keywords; a nil gen disables it.
func NewFoodClassifier(tables catalog.Scoring, gen llm.Generator, useLLM bool) *FoodClassifier {
	if gen == nil {
		gen, useLLM = llm.Disabled, false
	}
	return &FoodClassifier{tables: tables, gen: gen, useLLM: useLLM}
}

type cuisineScore struct {
	name    string
	score   float64
	signals []string
}

// Classify scores every cuisine by weighted keywords plus a bonus when brand
// is one of its known chains.
func (f *FoodClassifier) Classify(ctx context.Context, text, brand string) model.FoodCategoryDecision {
	norm := textmatch.Normalize(text)
	ranked := f.score(norm, brand)

	if len(ranked) == 0 {
		if !f.useLLM {
			return model.FoodCategoryDecision{
				Label:      catalog.MixedCuisine,
				Confidence: 0.4,
				Signals:    []string{"no_cuisine_signals"},
				Reasoning:  "no cuisine keyword reached the threshold",
			}
		}
		dec, err := f.byModel(ctx, text, brand)
		if err != nil {
			zap.L().Debug("scorer: food category generation failed", zap.Error(err))
			return model.FoodCategoryDecision{
				Label:      catalog.MixedCuisine,
				Confidence: 0.3,
				Signals:    []string{"llm_failure"},
				Reasoning:  "unable to classify",
			}
		}
		return dec
	}

	scores := make(map[string]float64, 3)
	for i, c := range ranked {
		if i == 3 {
			break
		}
		scores[c.name] = c.score
	}

	top := ranked[0]
	if len(ranked) > 1 && ranked[1].score/top.score >= mixedRatio {
		second := ranked[1]
		signals := append([]string{}, top.signals...)
		signals = append(signals, second.signals[:min(2, len(second.signals))]...)
		return model.FoodCategoryDecision{
			Label:      catalog.MixedCuisine,
			Confidence: 0.80,
			Signals:    signals,
			Reasoning:  fmt.Sprintf("multiple cuisines detected: %s + %s", top.name, second.name),
			Scores:     scores,
		}
	}

	return model.FoodCategoryDecision{
		Label:      top.name,
		Confidence: round2(math.Min(0.95, 0.70+top.score/20)),
		Signals:    top.signals[:min(5, len(top.signals))],
		Reasoning:  fmt.Sprintf("keyword score %.1f from %d signals", top.score, len(top.signals)),
		Scores:     scores,
	}
}

// score returns the cuisines at or above the threshold, best first. Table
// order breaks ties.
func (f *FoodClassifier) score(text, brand string) []cuisineScore {
	var out []cuisineScore
	for _, c := range f.tables.Cuisines {
		cs := cuisineScore{name: c.Name}
		for _, kw := range c.Keywords {
			if textmatch.ContainsTerm(text, kw.Term) {
				cs.score += kw.Weight
				cs.signals = append(cs.signals, kw.Term)
			}
		}
		if brand != "" {
			for _, b := range c.Brands {
				if strings.EqualFold(b, brand) {
					cs.score += f.tables.CuisineBrandBonus
					cs.signals = append([]string{"brand:" + b}, cs.signals...)
					break
				}
			}
		}
		if cs.score >= f.tables.CuisineThreshold && cs.score > 0 {
			out = append(out, cs)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].score > out[j].score })
	return out
}

type foodAnswer struct {
	FoodCategory string   `json:"food_category"`
	Confidence   *float64 `json:"confidence"`
	Reasoning    string   `json:"reasoning"`
	KeySignals   []string `json:"key_signals"`
}

func (f *FoodClassifier) byModel(ctx context.Context, text, brand string) (model.FoodCategoryDecision, error) {
	res := f.gen.Generate(ctx, llm.Request{
		Stage:       string(model.StageFoodCategory),
		System:      foodSystemPrompt,
		Prompt:      buildFoodPrompt(text, brand, f.tables.Cuisines),
		MaxTokens:   256,
		Temperature: llm.Temperature(0.1),
	})
	if !res.OK {
		return model.FoodCategoryDecision{}, res.Err
	}
	ans, err := llm.Decode[foodAnswer](res.Text)
	if err != nil {
		return model.FoodCategoryDecision{}, err
	}

	dec := model.FoodCategoryDecision{
		Label:      catalog.MixedCuisine,
		Confidence: 0.5,
		Signals:    ans.KeySignals,
		Reasoning:  ans.Reasoning,
	}
	for _, c := range f.tables.Cuisines {
		if strings.EqualFold(strings.TrimSpace(ans.FoodCategory), c.Name) {
			dec.Label = c.Name
			break
		}
	}
	if ans.Confidence != nil {
		dec.Confidence = round2(clamp01(*ans.Confidence))
	}
	return dec, nil
}
