package scorer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/ad-intel/internal/catalog"
)

func TestValidateTables_Defaults(t *testing.T) {
	require.NoError(t, ValidateTables(catalog.DefaultScoring(), catalog.DefaultSubscriptions()))
}

func TestValidateTables_Errors(t *testing.T) {
	s := catalog.DefaultScoring()
	s.CuisineThreshold = 0
	s.Inference = append(s.Inference, catalog.Inference{Category: "toys", Terms: []string{"lego"}})
	s.Audiences["electronics"] = catalog.AudienceTable{}
	delete(s.Themes, "restaurant")
	s.Cuisines = append(s.Cuisines, catalog.Cuisine{Name: "Broken", Keywords: []catalog.CuisineKeyword{{Term: "x", Weight: 0}}})

	subs := catalog.DefaultSubscriptions()
	subs.Platforms["A1"] = catalog.Platform{Name: "Acme", Enabled: true}

	err := ValidateTables(s, subs)
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "scorer: table validation failed")
	assert.Contains(t, msg, "cuisine threshold must be > 0")
	assert.Contains(t, msg, `inference category "toys" has no audience table`)
	assert.Contains(t, msg, `audience "electronics" has no segments`)
	assert.Contains(t, msg, "themes must define a restaurant table")
	assert.Contains(t, msg, `cuisine "Broken" keyword "x" must have weight > 0`)
	assert.Contains(t, msg, "subscription A1 needs keywords and platform terms")
}
