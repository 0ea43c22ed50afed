package scorer

import (
	"fmt"
	"strings"

	"github.com/sells-group/ad-intel/internal/catalog"
	"github.com/sells-group/ad-intel/internal/model"
	"github.com/sells-group/ad-intel/internal/textmatch"
)

// subscriptionHintPrefix marks upstream annotations such as
// "SUBSCRIPTION_SERVICE: Talabat Pro" appended to the ad text.
const subscriptionHintPrefix = "subscription_service:"

// SubscriptionDetector decides whether an ad sells a delivery platform's
// membership program. Only advertisers mapped in the platform table can be
// flagged; both a platform term and a program keyword must appear.
type SubscriptionDetector struct {
	subs catalog.Subscriptions
}

// NewSubscriptionDetector creates a detector over the platform table. Terms
// are normalized once so YAML overrides may use any case.
func NewSubscriptionDetector(subs catalog.Subscriptions) *SubscriptionDetector {
	norm := catalog.Subscriptions{
		Platforms: make(map[string]catalog.Platform, len(subs.Platforms)),
		Generic:   normalizeTerms(subs.Generic),
	}
	for id, p := range subs.Platforms {
		p.Keywords = normalizeTerms(p.Keywords)
		p.PlatformTerms = normalizeTerms(p.PlatformTerms)
		norm.Platforms[id] = p
	}
	return &SubscriptionDetector{subs: norm}
}

func normalizeTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if n := textmatch.Normalize(t); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// Detect never fails; unmapped advertisers only ever get a low-confidence
// generic signal.
func (d *SubscriptionDetector) Detect(advertiserID, text string) model.SubscriptionDecision {
	norm := textmatch.Normalize(text)
	if advertiserID == "" && norm == "" {
		return model.SubscriptionDecision{Signals: []string{}}
	}

	p, mapped := d.subs.Platform(advertiserID)
	if !mapped {
		generic := textmatch.MatchedTerms(norm, d.subs.Generic)
		if len(generic) == 0 {
			return model.SubscriptionDecision{Signals: []string{}}
		}
		return model.SubscriptionDecision{
			Confidence: 0.15,
			Signals:    generic,
			Reasoning:  "generic subscription language without a mapped platform",
		}
	}

	dec := model.SubscriptionDecision{Platform: p.Name, Program: p.Program, Branding: true, Signals: []string{}}
	if !p.Enabled {
		dec.Reasoning = fmt.Sprintf("%s subscription disabled for advertiser", p.Name)
		return dec
	}

	platformTerms := textmatch.MatchedTerms(norm, p.PlatformTerms)
	keywords := textmatch.MatchedTerms(norm, p.Keywords)
	if len(keywords) == 0 && strings.Contains(norm, subscriptionHintPrefix) &&
		strings.Contains(norm, strings.ToLower(p.Program)) {
		keywords = []string{subscriptionHintPrefix + " " + p.Program}
	}

	switch {
	case len(platformTerms) > 0 && len(keywords) > 0:
		dec.Flagged = true
		dec.Confidence = 0.95
		dec.Signals = append(keywords, platformTerms...)
		dec.Reasoning = fmt.Sprintf("advertiser maps to %s; detected %s", p.Name, strings.Join(keywords, ", "))
	case len(platformTerms) > 0:
		dec.Confidence = 0.2
		dec.Signals = platformTerms
		dec.Reasoning = "platform detected without subscription keyword"
	case len(keywords) > 0:
		dec.Confidence = 0.3
		dec.Signals = keywords
		dec.Reasoning = "subscription keyword found but platform term missing"
	default:
		dec.Confidence = 0.05
		dec.Reasoning = "no subscription signals for mapped advertiser"
	}
	return dec
}
