package scorer

import (
	"math"
	"sort"

	"github.com/sells-group/ad-intel/internal/catalog"
	"github.com/sells-group/ad-intel/internal/model"
	"github.com/sells-group/ad-intel/internal/textmatch"
)

// GeneralTheme is reported when no theme keyword matches.
const GeneralTheme = "general"

const (
	themeSaturation = 3.0
	priceTheme      = "price"
	priceBoost      = 0.3
)

// ThemeScorer rates each messaging theme of the ad's scoring category.
type ThemeScorer struct {
	tables catalog.Scoring
}

// NewThemeScorer creates a scorer over the given tables.
func NewThemeScorer(tables catalog.Scoring) *ThemeScorer {
	return &ThemeScorer{tables: tables}
}

// Score rates every theme in [0,1] (three matches saturate) and names the
// strongest. Discount offers push the price theme up.
func (s *ThemeScorer) Score(text string, cat *model.CategoryDecision, offer *model.OfferDecision) model.ThemeDecision {
	norm := textmatch.Normalize(text)
	themes, ok := s.tables.Themes[InferCategory(s.tables, cat, norm)]
	if !ok {
		themes = s.tables.Themes["restaurant"]
	}

	scores := make(map[string]float64, len(themes))
	matched := make(map[string][]string, len(themes))
	for _, th := range themes {
		terms := textmatch.MatchedTerms(norm, th.Terms)
		scores[th.Name] = round2(math.Min(1, float64(len(terms))/themeSaturation))
		matched[th.Name] = terms
	}
	boosted := false
	if price, ok := scores[priceTheme]; ok && offer.HasDiscount() {
		scores[priceTheme] = round2(math.Min(1, price+priceBoost))
		boosted = true
	}

	top, topScore := "", 0.0
	for _, th := range themes {
		if scores[th.Name] > topScore {
			top, topScore = th.Name, scores[th.Name]
		}
	}
	if top == "" {
		return model.ThemeDecision{Theme: GeneralTheme, Confidence: 0.3, Signals: []string{"no_theme_signals"}, Scores: scores}
	}

	signals := matched[top]
	if top == priceTheme && boosted {
		signals = append(signals, "offer:discount")
	}
	return model.ThemeDecision{
		Theme:      top,
		Confidence: themeConfidence(scores),
		Signals:    signals,
		Scores:     scores,
	}
}

// themeConfidence grows with the gap between the two best themes.
func themeConfidence(scores map[string]float64) float64 {
	vals := make([]float64, 0, len(scores))
	for _, v := range scores {
		vals = append(vals, v)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(vals)))

	switch len(vals) {
	case 0:
		return 0.3
	case 1:
		if vals[0] >= 0.7 {
			return 0.90
		}
		return 0.75
	}
	gap := round2(vals[0] - vals[1])
	switch {
	case gap >= 0.5:
		return 0.95
	case gap >= 0.3:
		return 0.85
	default:
		return 0.70
	}
}
