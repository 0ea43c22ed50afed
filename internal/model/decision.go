package model

// MatchSource records how an entity match was found.
type MatchSource string

const (
	SourceCatalogExact         MatchSource = "catalog_exact"
	SourceCatalogSubstring     MatchSource = "catalog_substring"
	SourceCatalogFuzzy         MatchSource = "catalog_fuzzy"
	SourceHeuristicSemantic    MatchSource = "heuristic_semantic"
	SourceHeuristicURL         MatchSource = "heuristic_url"
	SourceHeuristicCapitalized MatchSource = "heuristic_capitalized"
	SourceHeuristicScript      MatchSource = "heuristic_script"
	SourceExternalHint         MatchSource = "external_hint"
	SourceExternalResolver     MatchSource = "external_resolver"
)

// IsCatalog reports whether the match came from the entity catalog.
func (s MatchSource) IsCatalog() bool {
	return s == SourceCatalogExact || s == SourceCatalogSubstring || s == SourceCatalogFuzzy
}

// EntityMatch is one candidate brand or merchant found in ad text.
type EntityMatch struct {
	Name             string      `json:"name"`
	Confidence       float64     `json:"confidence"`
	Alias            string      `json:"alias,omitempty"`
	Source           MatchSource `json:"source"`
	EntityType       EntityType  `json:"entity_type,omitempty"`
	Priority         int         `json:"priority"`
	IsExpectedEntity bool        `json:"is_expected_entity"`
	Occurrences      int         `json:"occurrences"`
	Position         int         `json:"position"`
}

// RegionInvalid is the detected code for ads written in a non-market script.
const RegionInvalid = "INVALID"

// RegionDecision is the terminal verdict of the region gate.
type RegionDecision struct {
	Detected   string   `json:"detected"`
	Expected   string   `json:"expected"`
	Confidence float64  `json:"confidence"`
	Signals    []string `json:"signals"`
	Mismatches []string `json:"mismatches,omitempty"`
	Valid      bool     `json:"valid"`
}

// CategorySource records which path produced a category decision.
type CategorySource string

const (
	CategorySourceFastPath  CategorySource = "fast_path"
	CategorySourceLLM       CategorySource = "llm"
	CategorySourceHeuristic CategorySource = "heuristic"
	CategorySourceWeb       CategorySource = "web"
)

// CategoryDecision is the product category assigned to an ad.
type CategoryDecision struct {
	Label      Category       `json:"label"`
	Confidence float64        `json:"confidence"`
	Signals    []string       `json:"signals"`
	Source     CategorySource `json:"source"`
	Reasoning  string         `json:"reasoning,omitempty"`
}

// FoodCategoryDecision is the cuisine sub-category of a restaurant ad.
type FoodCategoryDecision struct {
	Label      string             `json:"label"`
	Confidence float64            `json:"confidence"`
	Signals    []string           `json:"signals"`
	Reasoning  string             `json:"reasoning,omitempty"`
	Scores     map[string]float64 `json:"scores,omitempty"`
}

// OfferType is the closed set of promotional offer labels.
type OfferType string

const (
	OfferPercentage   OfferType = "percentage"
	OfferFixed        OfferType = "fixed"
	OfferFreeDelivery OfferType = "free_delivery"
	OfferBOGO         OfferType = "bogo"
	OfferFirstOrder   OfferType = "first_order"
	OfferNewProduct   OfferType = "new_product"
	OfferSpecial      OfferType = "special_offer"
	OfferLimitedTime  OfferType = "limited_time"
	OfferMinimumOrder OfferType = "minimum_order"
	OfferNone         OfferType = "none"
)

// Offer is a single promotional offer found in an ad.
type Offer struct {
	Type       OfferType `json:"type"`
	Details    string    `json:"details"`
	Confidence float64   `json:"confidence"`
	Signals    []string  `json:"signals,omitempty"`
}

// OfferDecision is the primary offer plus any secondary offers.
type OfferDecision struct {
	Type       OfferType `json:"type"`
	Details    string    `json:"details"`
	Conditions string    `json:"conditions,omitempty"`
	Confidence float64   `json:"confidence"`
	Signals    []string  `json:"signals"`
	Additional []Offer   `json:"additional,omitempty"`
}

// HasDiscount reports whether the primary or an additional offer is a price
// reduction.
func (o *OfferDecision) HasDiscount() bool {
	if o == nil {
		return false
	}
	isDiscount := func(t OfferType) bool {
		return t == OfferPercentage || t == OfferFixed || t == OfferBOGO
	}
	if isDiscount(o.Type) {
		return true
	}
	for _, a := range o.Additional {
		if isDiscount(a.Type) {
			return true
		}
	}
	return false
}

// AudienceDecision is the target audience segment.
type AudienceDecision struct {
	Segment    string   `json:"segment"`
	Category   string   `json:"category"`
	Confidence float64  `json:"confidence"`
	Signals    []string `json:"signals"`
	Reasoning  string   `json:"reasoning,omitempty"`
}

// ThemeDecision is the dominant messaging theme.
type ThemeDecision struct {
	Theme      string             `json:"theme"`
	Confidence float64            `json:"confidence"`
	Signals    []string           `json:"signals"`
	Scores     map[string]float64 `json:"scores,omitempty"`
}

// SubscriptionDecision reports whether an ad promotes a platform membership.
type SubscriptionDecision struct {
	Platform   string   `json:"platform,omitempty"`
	Program    string   `json:"program,omitempty"`
	Flagged    bool     `json:"flagged"`
	Confidence float64  `json:"confidence"`
	Signals    []string `json:"signals"`
	Branding   bool     `json:"branding"`
	Reasoning  string   `json:"reasoning,omitempty"`
}

// ValidationResult is the outcome of an external entity lookup.
type ValidationResult struct {
	Entity      string   `json:"entity"`
	Category    Category `json:"category"`
	ProductType string   `json:"product_type,omitempty"`
	Confidence  float64  `json:"confidence"`
	Rationale   string   `json:"rationale,omitempty"`
	Cacheable   bool     `json:"cacheable"`
	Sources     []string `json:"sources,omitempty"`
}
