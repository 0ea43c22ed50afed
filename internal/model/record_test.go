package model

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAdRecord_DedupesExpectedEntities(t *testing.T) {
	rec := NewAdRecord(AdInput{ID: "ad-1", ExpectedEntity: "KFC", Text: "x"}, "KFC", "Popeyes", "")

	assert.Equal(t, []string{"KFC", "Popeyes"}, rec.ExpectedEntities)
	assert.Equal(t, RecordStatusPending, rec.Status)
	assert.NotNil(t, rec.Flags)
	assert.False(t, rec.StartedAt.IsZero())
}

func TestAdRecord_SetCategoryOnlyOnce(t *testing.T) {
	rec := NewAdRecord(AdInput{ID: "ad-1"})

	assert.True(t, rec.SetCategory(CategoryDecision{Label: CategoryRestaurant, Confidence: 0.9}))
	assert.False(t, rec.SetCategory(CategoryDecision{Label: CategoryFashion, Confidence: 0.99}))
	assert.Equal(t, CategoryRestaurant, rec.Category.Label)
	assert.Empty(t, rec.Evidence)
}

func TestAdRecord_OverrideCategoryRecordsEvidence(t *testing.T) {
	rec := NewAdRecord(AdInput{ID: "ad-1"})
	rec.SetCategory(CategoryDecision{Label: CategoryRestaurant, Confidence: 0.4})

	rec.OverrideCategory(CategoryDecision{Label: CategoryElectronics, Confidence: 0.8, Source: CategorySourceWeb}, "web lookup")

	require.Len(t, rec.Evidence, 1)
	assert.Equal(t, StageArbiter, rec.Evidence[0].Stage)
	assert.Contains(t, rec.Evidence[0].Observation, "restaurant (0.40) -> electronics (0.80)")
	assert.True(t, rec.HasFlag(FlagCategoryOverridden))
	assert.Equal(t, CategoryElectronics, rec.Category.Label)
}

func TestAdRecord_ConcurrentEvidence(t *testing.T) {
	rec := NewAdRecord(AdInput{ID: "ad-1"})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec.AddEvidence(StageTheme, "scored", 0.5)
			rec.SetFlag("k", true)
		}()
	}
	wg.Wait()

	assert.Len(t, rec.Evidence, 50)
	assert.True(t, rec.HasFlag("k"))
}

func TestAdRecord_HasFlagNonBool(t *testing.T) {
	rec := NewAdRecord(AdInput{ID: "ad-1"})
	rec.SetFlag(FlagClassificationSource, "llm")

	assert.False(t, rec.HasFlag(FlagClassificationSource))
	v, ok := rec.Flag(FlagClassificationSource)
	assert.True(t, ok)
	assert.Equal(t, "llm", v)
}

func TestAdRecord_JSON(t *testing.T) {
	rec := NewAdRecord(AdInput{ID: "ad-1", Text: "hello"})
	rec.AddEvidence(StageRegion, "ok", 0.9)
	rec.Complete(RecordStatusEnriched)

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var out AdRecord
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "ad-1", out.ID)
	assert.Equal(t, RecordStatusEnriched, out.Status)
	require.Len(t, out.Evidence, 1)
	assert.Equal(t, StageRegion, out.Evidence[0].Stage)
}

func TestOfferDecision_HasDiscount(t *testing.T) {
	var nilOffer *OfferDecision
	assert.False(t, nilOffer.HasDiscount())
	assert.True(t, (&OfferDecision{Type: OfferPercentage}).HasDiscount())
	assert.False(t, (&OfferDecision{Type: OfferFreeDelivery}).HasDiscount())
	assert.True(t, (&OfferDecision{
		Type:       OfferFreeDelivery,
		Additional: []Offer{{Type: OfferBOGO}},
	}).HasDiscount())
}
