package region

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/ad-intel/internal/catalog"
	"github.com/sells-group/ad-intel/internal/model"
)

func newGate() *Gatekeeper {
	return NewGatekeeper(catalog.DefaultRegions(), catalog.RejectedScripts(), "")
}

func TestValidate_ChineseScriptRejected(t *testing.T) {
	dec := newGate().Validate("限时优惠 全场五折 Order now", "QA")

	assert.Equal(t, model.RegionInvalid, dec.Detected)
	assert.False(t, dec.Valid)
	assert.Equal(t, 0.98, dec.Confidence)
	assert.Equal(t, []string{"chinese_script_detected"}, dec.Signals)
}

func TestValidate_NonGulfScripts(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		signal string
	}{
		{"malayalam", "മലയാളം ഓഫർ", "malayalam_script_detected"},
		{"tamil", "தள்ளுபடி விற்பனை", "tamil_script_detected"},
		{"bengali", "বিশেষ ছাড়", "bengali_script_detected"},
		{"hebrew", "מבצע חם היום", "hebrew_script_detected"},
		{"greek", "Προσφορά σήμερα", "greek_script_detected"},
		{"cyrillic keeps its label", "Скидка сегодня", "cyrillic_script_detected"},
		{"kana keeps its label", "セール開催中", "japanese_script_detected"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec := newGate().Validate(tt.text, "QA")
			assert.Equal(t, model.RegionInvalid, dec.Detected)
			assert.False(t, dec.Valid)
			assert.Equal(t, 0.98, dec.Confidence)
			assert.Equal(t, []string{tt.signal}, dec.Signals)
		})
	}
}

func TestValidate_ArabicAndLatinLettersNeverCountAsForeign(t *testing.T) {
	dec := newGate().Validate("عرض خاص Special offer café ＫＦＣ", "QA")
	assert.True(t, dec.Valid)
	assert.NotEqual(t, model.RegionInvalid, dec.Detected)
}

func TestValidate_ScriptBelowThreshold(t *testing.T) {
	dec := newGate().Validate("Sushi 寿司 tonight", "QA")
	assert.True(t, dec.Valid)
}

func TestValidate_ForeignCity(t *testing.T) {
	dec := newGate().Validate("Now open in Dubai Mall! Order your burger today", "QA")

	assert.Equal(t, "AE", dec.Detected)
	assert.False(t, dec.Valid)
	assert.Equal(t, 0.95, dec.Confidence)
	assert.Equal(t, []string{"city_AE_dubai"}, dec.Signals)
	assert.Equal(t, []string{"Expected QA, found AE city: dubai"}, dec.Mismatches)
}

func TestValidate_ArabicCitySubstring(t *testing.T) {
	dec := newGate().Validate("افتتاح فرعنا الجديد بالرياض", "QA")
	assert.Equal(t, "SA", dec.Detected)
	assert.False(t, dec.Valid)
}

func TestValidate_ExpectedRegionCityAllowed(t *testing.T) {
	dec := newGate().Validate("Now open in Dubai Mall, call +971 501234567", "AE")
	assert.Equal(t, "AE", dec.Detected)
	assert.True(t, dec.Valid)
}

func TestValidate_NoSignals(t *testing.T) {
	dec := newGate().Validate("Big Mac meal, order now", "QA")

	assert.Equal(t, "QA", dec.Detected)
	assert.True(t, dec.Valid)
	assert.Equal(t, 0.40, dec.Confidence)
	assert.Equal(t, []string{"no_region_signals"}, dec.Signals)
}

func TestValidate_DefaultExpected(t *testing.T) {
	dec := newGate().Validate("nothing here", "")
	assert.Equal(t, "QA", dec.Expected)

	gate := NewGatekeeper(catalog.DefaultRegions(), nil, "ae")
	assert.Equal(t, "AE", gate.Validate("nothing here", " ").Expected)
}

func TestValidate_WeightedAggregation(t *testing.T) {
	dec := newGate().Validate("Visit talabat.qa for delivery in Doha, only 25 QAR", "QA")

	assert.Equal(t, "QA", dec.Detected)
	assert.True(t, dec.Valid)
	// domain 8 + currency 3 + keyword 2
	assert.Equal(t, 0.98, dec.Confidence)
	assert.Contains(t, dec.Signals, "domain_QA_x1")
	assert.Contains(t, dec.Signals, "currency_QA_x1")
	assert.Contains(t, dec.Signals, "keyword_QA_x1")
}

func TestValidate_DomainMismatch(t *testing.T) {
	dec := newGate().Validate("Shop at noon.com/sa/ today", "QA")

	assert.Equal(t, "SA", dec.Detected)
	assert.False(t, dec.Valid)
	assert.Equal(t, []string{"Expected QA, detected SA"}, dec.Mismatches)
	assert.Equal(t, 0.98, dec.Confidence)
}

func TestValidate_DomainNeedsBoundary(t *testing.T) {
	dec := newGate().Validate("see www.example.qatarair", "AE")
	assert.Equal(t, []string{"no_region_signals"}, dec.Signals)
}

func TestValidate_TieFavoursExpected(t *testing.T) {
	// "riyal" is a currency token for QA, SA and OM alike.
	dec := newGate().Validate("only 10 riyal", "SA")
	assert.Equal(t, "SA", dec.Detected)
	assert.True(t, dec.Valid)

	dec = newGate().Validate("only 10 riyal", "KW")
	assert.Equal(t, "OM", dec.Detected)
	assert.False(t, dec.Valid)
}

func TestValidate_Idempotent(t *testing.T) {
	gate := newGate()
	texts := []string{
		"限时优惠 全场五折",
		"Now open in Dubai",
		"talabat.qa Doha 25 QAR",
		"",
	}
	for _, text := range texts {
		assert.Equal(t, gate.Validate(text, "QA"), gate.Validate(text, "QA"), text)
	}
}
