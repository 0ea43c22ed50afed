// Package scorer implements the secondary ad scorers: offer extraction,
// audience and theme scoring, subscription detection and the restaurant
// cuisine sub-category.
package scorer

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/ad-intel/internal/catalog"
)

// ValidateTables checks that the scoring and subscription tables are
// internally consistent.
func ValidateTables(s catalog.Scoring, subs catalog.Subscriptions) error {
	var errs []string

	// Every audience category needs segments and a budget segment.
	for cat, table := range s.Audiences {
		if len(table.Segments) == 0 {
			errs = append(errs, fmt.Sprintf("audience %q has no segments", cat))
		}
		if table.Budget == "" {
			errs = append(errs, fmt.Sprintf("audience %q has no budget segment", cat))
		}
	}

	// Themes fall back to the restaurant table.
	if _, ok := s.Themes["restaurant"]; !ok {
		errs = append(errs, "themes must define a restaurant table")
	}

	// Inference must point at a known audience table.
	for _, inf := range s.Inference {
		if _, ok := s.Audiences[inf.Category]; !ok {
			errs = append(errs, fmt.Sprintf("inference category %q has no audience table", inf.Category))
		}
	}

	// Cuisine weights.
	for _, c := range s.Cuisines {
		for _, kw := range c.Keywords {
			if kw.Weight <= 0 {
				errs = append(errs, fmt.Sprintf("cuisine %q keyword %q must have weight > 0", c.Name, kw.Term))
			}
		}
	}
	if s.CuisineThreshold <= 0 {
		errs = append(errs, "cuisine threshold must be > 0")
	}
	if s.CuisineBrandBonus < 0 {
		errs = append(errs, "cuisine brand bonus must be >= 0")
	}

	// Subscription platforms.
	for id, p := range subs.Platforms {
		if p.Name == "" {
			errs = append(errs, fmt.Sprintf("subscription %s has no platform name", id))
		}
		if p.Enabled && (len(p.Keywords) == 0 || len(p.PlatformTerms) == 0) {
			errs = append(errs, fmt.Sprintf("subscription %s needs keywords and platform terms", id))
		}
	}

	if len(errs) > 0 {
		return eris.Errorf("scorer: table validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
