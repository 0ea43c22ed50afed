package model

import "time"

// Stage names the pipeline step that produced an evidence entry.
type Stage string

const (
	StageRegion       Stage = "region"
	StageEntity       Stage = "entity"
	StageCategory     Stage = "category"
	StageArbiter      Stage = "arbiter"
	StageFoodCategory Stage = "food_category"
	StageOffer        Stage = "offer"
	StageAudience     Stage = "audience"
	StageTheme        Stage = "theme"
	StageSubscription Stage = "subscription"
	StagePipeline     Stage = "pipeline"
)

// Evidence is one append-only audit entry on an AdRecord.
type Evidence struct {
	Stage       Stage     `json:"stage"`
	Observation string    `json:"observation"`
	Confidence  float64   `json:"confidence"`
	Timestamp   time.Time `json:"timestamp"`
}

// Flag keys set on AdRecord.Flags.
const (
	FlagRejectedWrongRegion    = "rejected_wrong_region"
	FlagClassificationSource   = "classification_source"
	FlagWebValidated           = "web_validated"
	FlagEntityConflict         = "entity_conflict"
	FlagEntityInferredFromHint = "entity_inferred_from_hint"
	FlagMultipleEntities       = "multiple_entities_detected"
	FlagEntityNotFound         = "entity_not_found"
	FlagCategoryOverridden     = "category_overridden"
	FlagSubscriptionDetected   = "subscription_detected"
)
