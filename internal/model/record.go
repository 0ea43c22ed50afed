package model

import (
	"fmt"
	"sync"
	"time"
)

// RecordStatus is the terminal state of a pipeline run.
type RecordStatus string

const (
	RecordStatusPending  RecordStatus = "pending"
	RecordStatusRejected RecordStatus = "rejected"
	RecordStatusEnriched RecordStatus = "enriched"
)

// AdInput is one ad as delivered by the upstream producer.
type AdInput struct {
	ID             string `json:"id" yaml:"id"`
	AdvertiserID   string `json:"advertiser_id" yaml:"advertiser_id"`
	ExpectedRegion string `json:"expected_region" yaml:"expected_region"`
	ExpectedEntity string `json:"expected_entity" yaml:"expected_entity"`
	Text           string `json:"text" yaml:"text"`
}

// AdRecord accumulates every decision made about one ad. Decision slots are
// written once; later changes go through the Override helpers so the evidence
// log shows them.
type AdRecord struct {
	ID               string   `json:"id"`
	AdvertiserID     string   `json:"advertiser_id,omitempty"`
	ExpectedRegion   string   `json:"expected_region"`
	ExpectedEntities []string `json:"expected_entities,omitempty"`
	Text             string   `json:"text"`

	Region       *RegionDecision       `json:"region,omitempty"`
	Entities     []EntityMatch         `json:"entities"`
	Category     *CategoryDecision     `json:"category,omitempty"`
	FoodCategory *FoodCategoryDecision `json:"food_category,omitempty"`
	Offer        *OfferDecision        `json:"offer,omitempty"`
	Audience     *AudienceDecision     `json:"audience,omitempty"`
	Theme        *ThemeDecision        `json:"theme,omitempty"`
	Subscription *SubscriptionDecision `json:"subscription,omitempty"`
	Validation   *ValidationResult     `json:"validation,omitempty"`

	Evidence    []Evidence     `json:"evidence"`
	Flags       map[string]any `json:"flags"`
	Status      RecordStatus   `json:"status"`
	StartedAt   time.Time      `json:"started_at"`
	CompletedAt time.Time      `json:"completed_at,omitempty"`

	mu sync.Mutex
}

// NewAdRecord creates a pending record from an upstream input. Additional
// expected entities (e.g. from an advertiser brand map) are appended after the
// input's own expected entity.
func NewAdRecord(in AdInput, expected ...string) *AdRecord {
	rec := &AdRecord{
		ID:             in.ID,
		AdvertiserID:   in.AdvertiserID,
		ExpectedRegion: in.ExpectedRegion,
		Text:           in.Text,
		Entities:       []EntityMatch{},
		Evidence:       []Evidence{},
		Flags:          map[string]any{},
		Status:         RecordStatusPending,
		StartedAt:      time.Now().UTC(),
	}
	seen := map[string]bool{}
	for _, e := range append([]string{in.ExpectedEntity}, expected...) {
		if e == "" || seen[e] {
			continue
		}
		seen[e] = true
		rec.ExpectedEntities = append(rec.ExpectedEntities, e)
	}
	return rec
}

// AddEvidence appends an audit entry. Safe for concurrent use.
func (r *AdRecord) AddEvidence(stage Stage, observation string, confidence float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Evidence = append(r.Evidence, Evidence{
		Stage:       stage,
		Observation: observation,
		Confidence:  confidence,
		Timestamp:   time.Now().UTC(),
	})
}

// SetFlag sets a flag value. Safe for concurrent use.
func (r *AdRecord) SetFlag(key string, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Flags == nil {
		r.Flags = map[string]any{}
	}
	r.Flags[key] = value
}

// Flag returns a flag value and whether it is set.
func (r *AdRecord) Flag(key string) (any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.Flags[key]
	return v, ok
}

// HasFlag reports whether a flag is set to true.
func (r *AdRecord) HasFlag(key string) bool {
	v, ok := r.Flag(key)
	if !ok {
		return false
	}
	b, isBool := v.(bool)
	return isBool && b
}

// SetCategory sets the category slot if it is empty. It returns false when a
// category is already present; callers must use OverrideCategory instead.
func (r *AdRecord) SetCategory(dec CategoryDecision) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Category != nil {
		return false
	}
	r.Category = &dec
	return true
}

// OverrideCategory replaces the category and records the change as evidence.
func (r *AdRecord) OverrideCategory(dec CategoryDecision, reason string) {
	r.mu.Lock()
	prev := r.Category
	r.Category = &dec
	r.mu.Unlock()

	from := "none"
	if prev != nil {
		from = fmt.Sprintf("%s (%.2f)", prev.Label, prev.Confidence)
	}
	r.AddEvidence(StageArbiter,
		fmt.Sprintf("category overridden %s -> %s (%.2f): %s", from, dec.Label, dec.Confidence, reason),
		dec.Confidence)
	r.SetFlag(FlagCategoryOverridden, true)
}

// SetAudience stores the audience decision if the slot is empty.
func (r *AdRecord) SetAudience(dec AudienceDecision) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Audience == nil {
		r.Audience = &dec
	}
}

// SetTheme stores the theme decision if the slot is empty.
func (r *AdRecord) SetTheme(dec ThemeDecision) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Theme == nil {
		r.Theme = &dec
	}
}

// TopEntity returns the highest ranked entity match, if any.
func (r *AdRecord) TopEntity() (EntityMatch, bool) {
	if len(r.Entities) == 0 {
		return EntityMatch{}, false
	}
	return r.Entities[0], true
}

// Complete stamps the terminal status.
func (r *AdRecord) Complete(status RecordStatus) {
	r.Status = status
	r.CompletedAt = time.Now().UTC()
}
