package scorer

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/sells-group/ad-intel/internal/llm"
	"github.com/sells-group/ad-intel/internal/model"
	"github.com/sells-group/ad-intel/internal/textmatch"
)

// Offer patterns run against normalized (lowercased) text.
var (
	percentRes = []*regexp.Regexp{
		regexp.MustCompile(`(\d+)\s*[%٪]\s*(?:off|discount|خصم)`),
		regexp.MustCompile(`(?:خصم|تخفيض)\s*(\d+)\s*[%٪]`),
		regexp.MustCompile(`save\s*(\d+)\s*[%٪]`),
	}
	fixedRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:qar|sar|aed|\$|ريال)\s*(\d+)\s*(?:off|discount|خصم)`),
		regexp.MustCompile(`(?i)(?:خصم|تخفيض)\s*(\d+)\s*(?:ريال|qar|sar)`),
	}
	freeDeliveryRes = []*regexp.Regexp{
		regexp.MustCompile(`free\s*delivery`),
		regexp.MustCompile(`توصيل\s*مجاني`),
		regexp.MustCompile(`no\s*delivery\s*fee`),
		regexp.MustCompile(`بدون\s*رسوم\s*توصيل`),
	}
	bogoRes = []*regexp.Regexp{
		regexp.MustCompile(`buy\s*\d+\s*get\s*\d+\s*free`),
		regexp.MustCompile(`\bbogo\b`),
		regexp.MustCompile(`\bb\d+g\d+\b`),
		regexp.MustCompile(`اشتر.+مجان`),
	}
	firstOrderRes = []*regexp.Regexp{
		regexp.MustCompile(`(?:first|1st)\s*order`),
		regexp.MustCompile(`new\s*customer`),
		regexp.MustCompile(`الطلب\s*الأول`),
		regexp.MustCompile(`عملاء\s*جدد`),
	}
	minOrderRes = []*regexp.Regexp{
		regexp.MustCompile(`min(?:imum)?\.?\s*order\s*(?:of\s*)?(?:qar|sar|\$)?\s*(\d+)`),
		regexp.MustCompile(`orders?\s*above\s*(?:qar|sar|\$)?\s*(\d+)`),
		regexp.MustCompile(`حد\s*أدنى\D*(\d+)`),
	}
	limitedTimeRes = []*regexp.Regexp{
		regexp.MustCompile(`today\s*only`),
		regexp.MustCompile(`limited\s*time`),
		regexp.MustCompile(`لفترة\s*محدودة`),
		regexp.MustCompile(`عرض\s*محدود`),
		regexp.MustCompile(`for\s*\d+\s*days?\s*only`),
	}
)

var (
	newWords     = []string{"new", "جديد", "launch", "إطلاق", "تقديم"}
	productWords = []string{"product", "item", "menu", "منتج", "قائمة"}
	specialWords = []string{"special offer", "عرض خاص", "عرض", "deal"}
)

// minModelTextLen is the shortest ad text worth a generative offer lookup.
const minModelTextLen = 20

// OfferExtractor finds promotional offers in ad text.
type OfferExtractor struct {
	gen    llm.Generator
	useLLM bool
}

// NewOfferExtractor creates an extractor. useLLM enables the generative
// fallback for ads no pattern matches; a nil gen disables it.
func NewOfferExtractor(gen llm.Generator, useLLM bool) *OfferExtractor {
	if gen == nil {
		gen, useLLM = llm.Disabled, false
	}
	return &OfferExtractor{gen: gen, useLLM: useLLM}
}

// Extract returns the primary offer with any others in Additional.
func (e *OfferExtractor) Extract(ctx context.Context, text string) model.OfferDecision {
	norm := textmatch.Normalize(text)

	if offers := patternOffers(norm); len(offers) > 0 {
		primary := offers[0]
		dec := model.OfferDecision{
			Type:       primary.Type,
			Details:    primary.Details,
			Conditions: offerConditions(norm),
			Confidence: primary.Confidence,
			Signals:    primary.Signals,
		}
		if len(offers) > 1 {
			dec.Additional = offers[1:]
		}
		return dec
	}

	if dec, ok := genericPromo(norm); ok {
		return dec
	}

	if e.useLLM && utf8.RuneCountInString(strings.TrimSpace(text)) > minModelTextLen {
		dec, err := e.byModel(ctx, text)
		if err != nil {
			zap.L().Debug("scorer: offer extraction failed", zap.Error(err))
			return model.OfferDecision{Type: model.OfferNone, Confidence: 0.3, Signals: []string{"llm_failure"}}
		}
		if dec.Type != model.OfferNone {
			return dec
		}
	}

	return model.OfferDecision{Type: model.OfferNone, Confidence: 0.95, Signals: []string{"no_offer_patterns"}}
}

// patternOffers returns every pattern offer in priority order. Repeated
// details (the same percentage written twice) are kept once.
func patternOffers(text string) []model.Offer {
	var out []model.Offer
	seen := map[string]bool{}
	add := func(o model.Offer) {
		key := string(o.Type) + "|" + o.Details
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, o)
	}

	for _, re := range percentRes {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			add(model.Offer{
				Type:       model.OfferPercentage,
				Details:    m[1] + "% off",
				Confidence: 0.92,
				Signals:    []string{"regex:percentage_" + m[1], "match:" + m[0]},
			})
		}
	}
	for _, re := range fixedRes {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			add(model.Offer{
				Type:       model.OfferFixed,
				Details:    "QAR " + m[1] + " off",
				Confidence: 0.90,
				Signals:    []string{"regex:fixed_" + m[1], "match:" + m[0]},
			})
		}
	}
	if anyMatch(freeDeliveryRes, text) {
		add(model.Offer{Type: model.OfferFreeDelivery, Details: "Free delivery", Confidence: 0.95, Signals: []string{"regex:free_delivery"}})
	}
	if anyMatch(bogoRes, text) {
		add(model.Offer{Type: model.OfferBOGO, Details: "Buy one, get one offer", Confidence: 0.88, Signals: []string{"regex:bogo"}})
	}
	if anyMatch(firstOrderRes, text) {
		add(model.Offer{Type: model.OfferFirstOrder, Details: "First order discount", Confidence: 0.85, Signals: []string{"regex:first_order"}})
	}
	return out
}

// offerConditions lists the restrictions attached to the offers.
func offerConditions(text string) string {
	var conds []string
	if anyMatch(firstOrderRes, text) {
		conds = append(conds, "first order only")
	}
	for _, re := range minOrderRes {
		if m := re.FindStringSubmatch(text); m != nil {
			conds = append(conds, "min order QAR "+m[1])
			break
		}
	}
	if anyMatch(limitedTimeRes, text) {
		conds = append(conds, "limited time")
	}
	return strings.Join(conds, "; ")
}

func genericPromo(text string) (model.OfferDecision, bool) {
	if anyTerm(text, newWords) && anyTerm(text, productWords) {
		return model.OfferDecision{
			Type:       model.OfferNewProduct,
			Details:    "New product/menu item",
			Confidence: 0.75,
			Signals:    []string{"generic:new_product"},
		}, true
	}
	if anyTerm(text, specialWords) {
		return model.OfferDecision{
			Type:       model.OfferSpecial,
			Details:    "Special offer (details unclear)",
			Confidence: 0.60,
			Signals:    []string{"generic:special_offer"},
		}, true
	}
	return model.OfferDecision{}, false
}

type offerAnswer struct {
	OfferType       string   `json:"offer_type"`
	OfferDetails    string   `json:"offer_details"`
	OfferConditions *string  `json:"offer_conditions"`
	Confidence      *float64 `json:"confidence"`
}

func (e *OfferExtractor) byModel(ctx context.Context, text string) (model.OfferDecision, error) {
	res := e.gen.Generate(ctx, llm.Request{
		Stage:       string(model.StageOffer),
		System:      offerSystemPrompt,
		Prompt:      "Advertisement text:\n" + truncateRunes(text, 800),
		MaxTokens:   256,
		Temperature: llm.Temperature(0.1),
	})
	if !res.OK {
		return model.OfferDecision{}, res.Err
	}
	ans, err := llm.Decode[offerAnswer](res.Text)
	if err != nil {
		return model.OfferDecision{}, err
	}

	dec := model.OfferDecision{
		Type:       parseOfferType(ans.OfferType),
		Details:    strings.TrimSpace(ans.OfferDetails),
		Confidence: 0.5,
		Signals:    []string{"llm_extraction"},
	}
	if ans.OfferConditions != nil && !strings.EqualFold(*ans.OfferConditions, "null") {
		dec.Conditions = strings.TrimSpace(*ans.OfferConditions)
	}
	if ans.Confidence != nil {
		dec.Confidence = clamp01(*ans.Confidence)
	}
	return dec, nil
}

// parseOfferType maps the generative service's offer vocabulary onto
// OfferType. Anything unrecognised is treated as no offer.
func parseOfferType(s string) model.OfferType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "percentage_discount", "percentage":
		return model.OfferPercentage
	case "fixed_discount", "fixed":
		return model.OfferFixed
	case "free_delivery":
		return model.OfferFreeDelivery
	case "bogo":
		return model.OfferBOGO
	case "first_order":
		return model.OfferFirstOrder
	case "limited_time":
		return model.OfferLimitedTime
	case "new_product":
		return model.OfferNewProduct
	case "special_offer":
		return model.OfferSpecial
	default:
		return model.OfferNone
	}
}

func anyMatch(res []*regexp.Regexp, text string) bool {
	for _, re := range res {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

func anyTerm(text string, terms []string) bool {
	for _, t := range terms {
		if textmatch.ContainsTerm(text, t) {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func describeOffer(o *model.OfferDecision) string {
	if o == nil {
		return "none"
	}
	return fmt.Sprintf("%s (%s)", o.Type, o.Details)
}
