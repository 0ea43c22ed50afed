// Package region decides whether an ad belongs to the expected market before
// any other stage spends effort on it.
package region

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/sells-group/ad-intel/internal/catalog"
	"github.com/sells-group/ad-intel/internal/model"
	"github.com/sells-group/ad-intel/internal/textmatch"
)

// Marker weights in the aggregation step.
const (
	weightDomain   = 8.0
	weightPhone    = 5.0
	weightCurrency = 3.0
	weightKeyword  = 2.0

	scriptThreshold = 3

	confScript   = 0.98
	confCity     = 0.95
	confNoSignal = 0.40
	confMax      = 0.98
)

// DefaultRegion is used when neither the caller nor config names a market.
const DefaultRegion = "QA"

// Gatekeeper validates ad text against an expected market. It holds no
// mutable state and is safe for concurrent use.
type Gatekeeper struct {
	regions       []catalog.Region
	scripts       []catalog.Script
	others        []catalog.Script
	defaultRegion string
}

// NewGatekeeper builds a gatekeeper over the given markers. Regions are
// evaluated in code order.
func NewGatekeeper(regions []catalog.Region, scripts []catalog.Script, defaultRegion string) *Gatekeeper {
	sorted := append([]catalog.Region(nil), regions...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Code < sorted[j].Code })
	if defaultRegion == "" {
		defaultRegion = DefaultRegion
	}
	return &Gatekeeper{
		regions:       sorted,
		scripts:       scripts,
		others:        otherScripts(),
		defaultRegion: strings.ToUpper(defaultRegion),
	}
}

// otherScripts lists every Unicode script outside the served ones, in name
// order. Letters are matched against the named scripts first so familiar
// families keep their labels.
func otherScripts() []catalog.Script {
	names := make([]string, 0, len(unicode.Scripts))
	for name := range unicode.Scripts {
		switch name {
		case "Arabic", "Latin", "Common", "Inherited":
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]catalog.Script, len(names))
	for i, name := range names {
		out[i] = catalog.Script{Name: strings.ToLower(name), Table: unicode.Scripts[name]}
	}
	return out
}

// Validate runs the rejection cascade:
//  1. Foreign script: three or more letters of one script other than
//     Arabic or Latin
//  2. Foreign city: a city belonging to a region other than expected
//  3. Weighted aggregation of domain, phone, currency and keyword markers
//
// The result depends only on text and expected.
func (g *Gatekeeper) Validate(text, expected string) model.RegionDecision {
	expected = strings.ToUpper(strings.TrimSpace(expected))
	if expected == "" {
		expected = g.defaultRegion
	}

	if script, n := g.foreignScript(text); script != "" {
		return model.RegionDecision{
			Detected:   model.RegionInvalid,
			Expected:   expected,
			Confidence: confScript,
			Signals:    []string{script + "_script_detected"},
			Mismatches: []string{fmt.Sprintf("Non-Gulf script: %s (%d chars)", script, n)},
			Valid:      false,
		}
	}

	norm := textmatch.Normalize(text)

	if code, city := g.foreignCity(norm, expected); code != "" {
		return model.RegionDecision{
			Detected:   code,
			Expected:   expected,
			Confidence: confCity,
			Signals:    []string{fmt.Sprintf("city_%s_%s", code, city)},
			Mismatches: []string{fmt.Sprintf("Expected %s, found %s city: %s", expected, code, city)},
			Valid:      false,
		}
	}

	scores := map[string]float64{}
	var signals []string
	tally := func(kind string, weight float64, count func(catalog.Region) int) {
		for _, r := range g.regions {
			if n := count(r); n > 0 {
				scores[r.Code] += float64(n) * weight
				signals = append(signals, fmt.Sprintf("%s_%s_x%d", kind, r.Code, n))
			}
		}
	}
	urls := urlTokens(norm)
	tally("domain", weightDomain, func(r catalog.Region) int { return countDomains(urls, r.Domains) })
	tally("phone", weightPhone, func(r catalog.Region) int {
		n := 0
		for _, re := range r.Phones {
			n += len(re.FindAllStringIndex(norm, -1))
		}
		return n
	})
	tally("currency", weightCurrency, func(r catalog.Region) int { return countTerms(norm, r.Currencies) })
	tally("keyword", weightKeyword, func(r catalog.Region) int { return countTerms(norm, r.Keywords) })

	if len(scores) == 0 {
		return model.RegionDecision{
			Detected:   expected,
			Expected:   expected,
			Confidence: confNoSignal,
			Signals:    []string{"no_region_signals"},
			Valid:      true,
		}
	}

	detected := pickRegion(scores, expected)
	dec := model.RegionDecision{
		Detected:   detected,
		Expected:   expected,
		Confidence: round(math.Min(confMax, 0.60+scores[detected]/20.0)),
		Signals:    signals,
		Valid:      detected == expected,
	}
	if !dec.Valid {
		dec.Mismatches = []string{fmt.Sprintf("Expected %s, detected %s", expected, detected)}
	}
	return dec
}

// foreignScript counts letters outside Arabic and Latin per script and
// returns the first script to reach the threshold while scanning.
func (g *Gatekeeper) foreignScript(text string) (string, int) {
	counts := make(map[string]int)
	for _, r := range text {
		if !unicode.IsLetter(r) || unicode.In(r, unicode.Arabic, unicode.Latin) {
			continue
		}
		name := g.scriptOf(r)
		if name == "" {
			continue
		}
		counts[name]++
		if counts[name] >= scriptThreshold {
			return name, g.countScript(text, name)
		}
	}
	return "", 0
}

func (g *Gatekeeper) scriptOf(r rune) string {
	for _, s := range g.scripts {
		if unicode.Is(s.Table, r) {
			return s.Name
		}
	}
	for _, s := range g.others {
		if unicode.Is(s.Table, r) {
			return s.Name
		}
	}
	return ""
}

func (g *Gatekeeper) countScript(text, name string) int {
	n := 0
	for _, r := range text {
		if unicode.IsLetter(r) && !unicode.In(r, unicode.Arabic, unicode.Latin) && g.scriptOf(r) == name {
			n++
		}
	}
	return n
}

// foreignCity matches Latin city names as whole words and Arabic ones as
// substrings, since Arabic attaches prepositions to the noun.
func (g *Gatekeeper) foreignCity(norm, expected string) (string, string) {
	for _, r := range g.regions {
		if r.Code == expected {
			continue
		}
		for _, city := range r.Cities {
			c := textmatch.Normalize(city)
			var hit bool
			if textmatch.ContainsArabic(c) {
				hit = strings.Contains(norm, c)
			} else {
				hit = textmatch.IndexWord(norm, c, 0) >= 0
			}
			if hit {
				return r.Code, city
			}
		}
	}
	return "", ""
}

// pickRegion returns the top scorer. Ties go to expected, then to the
// lexically smallest code.
func pickRegion(scores map[string]float64, expected string) string {
	best, bestScore := "", -1.0
	codes := make([]string, 0, len(scores))
	for c := range scores {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	for _, c := range codes {
		if scores[c] > bestScore {
			best, bestScore = c, scores[c]
		}
	}
	if s, ok := scores[expected]; ok && s == bestScore {
		return expected
	}
	return best
}

// urlTokens returns whitespace-separated tokens that look like a URL or
// host name.
func urlTokens(norm string) []string {
	var out []string
	for _, tok := range strings.Fields(norm) {
		if strings.Contains(tok, "/") || strings.Contains(tok, ".") {
			out = append(out, tok)
		}
	}
	return out
}

// countDomains counts marker occurrences inside URL tokens. A marker must not
// run into a following letter, so ".qa" does not fire on ".qatar".
func countDomains(tokens, markers []string) int {
	n := 0
	for _, tok := range tokens {
		for _, m := range markers {
			for from := 0; ; {
				i := strings.Index(tok[from:], m)
				if i < 0 {
					break
				}
				end := from + i + len(m)
				if next, ok := nextRune(tok, end); !ok || !unicode.IsLetter(next) {
					n++
				}
				from = end
			}
		}
	}
	return n
}

func nextRune(s string, i int) (rune, bool) {
	if i >= len(s) {
		return 0, false
	}
	for _, r := range s[i:] {
		return r, true
	}
	return 0, false
}

func countTerms(norm string, terms []string) int {
	n := 0
	for _, t := range terms {
		n += textmatch.CountTerm(norm, textmatch.Normalize(t))
	}
	return n
}

func round(f float64) float64 { return math.Round(f*1000) / 1000 }
