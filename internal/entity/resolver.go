// Package entity finds the brands and merchants an ad names.
package entity

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agext/levenshtein"
	"go.uber.org/zap"

	"github.com/sells-group/ad-intel/internal/catalog"
	"github.com/sells-group/ad-intel/internal/model"
	"github.com/sells-group/ad-intel/internal/textmatch"
)

// Base confidences per match class.
const (
	confExactCanonical = 0.92
	confExactAlias     = 0.87
	confSubstring      = 0.85
	confFuzzyBase      = 0.75
	confHintCatalog    = 0.82
	confHintUnknown    = 0.75
	confMax            = 0.99

	hintBoost      = 0.12
	conflictFloor  = 0.80
	minSubstrRunes = 3

	// DefaultFuzzyThreshold is the minimum similarity for a fuzzy alias hit.
	DefaultFuzzyThreshold = 0.86
)

// ExternalResolver supplies matches when the catalog finds nothing, for
// example a generative model asked to name the advertiser.
type ExternalResolver interface {
	Resolve(ctx context.Context, text string) ([]model.EntityMatch, error)
}

// Options tunes a Resolver.
type Options struct {
	FuzzyThreshold float64
	// AlwaysDiscover runs the discovery heuristics even when the catalog
	// matched something.
	AlwaysDiscover bool
	External       ExternalResolver
}

// Resolver extracts ranked entity matches from ad text. It reads only
// immutable catalog tables and is safe for concurrent use.
type Resolver struct {
	entities  *catalog.Entities
	discovery catalog.Discovery
	platforms []string
	opts      Options
}

// NewResolver builds a resolver over the given catalog.
func NewResolver(entities *catalog.Entities, discovery catalog.Discovery, opts Options) *Resolver {
	if opts.FuzzyThreshold <= 0 || opts.FuzzyThreshold > 1 {
		opts.FuzzyThreshold = DefaultFuzzyThreshold
	}
	var platforms []string
	for _, e := range entities.All() {
		if e.Type != model.EntityPlatform {
			continue
		}
		platforms = append(platforms, textmatch.Normalize(e.Name))
		for _, a := range e.Aliases {
			platforms = append(platforms, textmatch.Normalize(a))
		}
	}
	return &Resolver{entities: entities, discovery: discovery, platforms: platforms, opts: opts}
}

// Resolution is the outcome of one extraction pass.
type Resolution struct {
	Matches  []model.EntityMatch
	Flags    map[string]bool
	Evidence []model.Evidence
}

// Top returns the highest-ranked match.
func (r Resolution) Top() (model.EntityMatch, bool) {
	if len(r.Matches) == 0 {
		return model.EntityMatch{}, false
	}
	return r.Matches[0], true
}

// Apply writes the matches, flags and evidence into rec.
func (r Resolution) Apply(rec *model.AdRecord) {
	rec.Entities = r.Matches
	for k, v := range r.Flags {
		rec.SetFlag(k, v)
	}
	for _, ev := range r.Evidence {
		rec.AddEvidence(ev.Stage, ev.Observation, ev.Confidence)
	}
}

func (r *Resolution) flag(name string) {
	if r.Flags == nil {
		r.Flags = map[string]bool{}
	}
	r.Flags[name] = true
}

func (r *Resolution) note(observation string, confidence float64) {
	r.Evidence = append(r.Evidence, model.Evidence{
		Stage:       model.StageEntity,
		Observation: observation,
		Confidence:  confidence,
	})
}

// Extract runs the catalog scan, the external resolver, discovery, hint
// reconciliation and ranking. hints are expected entity names from
// advertiser metadata, most authoritative first.
func (r *Resolver) Extract(ctx context.Context, text string, hints []string) Resolution {
	var res Resolution
	norm := textmatch.Normalize(text)

	matches := r.scanCatalog(norm)

	if len(matches) == 0 && r.opts.External != nil && norm != "" {
		ext, err := r.opts.External.Resolve(ctx, text)
		if err != nil {
			zap.L().Debug("entity: external resolver failed", zap.Error(err))
			res.note("external resolver failed: "+err.Error(), 0.1)
		}
		for _, m := range ext {
			m.Source = model.SourceExternalResolver
			m.Confidence = clamp(m.Confidence, 0.90)
			if e, ok := r.entities.Lookup(m.Name); ok {
				m.Name, m.EntityType = e.Name, e.Type
			}
			matches = append(matches, m)
		}
	}

	if len(matches) == 0 || r.opts.AlwaysDiscover {
		matches = append(matches, r.discover(text, matches)...)
	}

	kept := matches[:0]
	for _, m := range matches {
		if m.EntityType != model.EntityPlatform {
			kept = append(kept, m)
		}
	}
	matches = kept

	matches = r.reconcile(&res, matches, hints)
	res.Matches = r.rank(matches)

	if top, ok := res.Top(); ok {
		res.note(fmt.Sprintf("primary entity: %s (%s)", top.Name, top.Source), top.Confidence)
		if len(res.Matches) > 1 {
			res.flag(model.FlagMultipleEntities)
		}
	} else {
		res.flag(model.FlagEntityNotFound)
		res.note("no entity found", 0)
	}
	return res
}

// scanCatalog tries every alias against the normalized text. The first
// strategy that hits wins for that alias.
func (r *Resolver) scanCatalog(norm string) []model.EntityMatch {
	if norm == "" {
		return nil
	}
	textRunes := utf8.RuneCountInString(norm)
	var tokens []textmatch.Token

	var out []model.EntityMatch
	for _, a := range r.entities.Aliases() {
		ent := r.entities.Get(a.Entity)
		if ent.Type == model.EntityPlatform {
			continue
		}
		m := model.EntityMatch{
			Name:       ent.Name,
			Alias:      a.Original,
			EntityType: ent.Type,
			Priority:   ent.Priority,
		}

		if hits := allIndexes(norm, a.Text, textmatch.IndexWord); len(hits) > 0 {
			base := confExactAlias
			if a.Canonical {
				base = confExactCanonical
			}
			m.Source = model.SourceCatalogExact
			m.Position = textmatch.RuneOffset(norm, hits[0])
			m.Occurrences = len(hits)
			m.Confidence = boost(base, m.Position, textRunes, m.Occurrences)
			out = append(out, m)
			continue
		}

		if utf8.RuneCountInString(a.Text) >= minSubstrRunes {
			if hits := allIndexes(norm, a.Text, textmatch.IndexBounded); len(hits) > 0 {
				m.Source = model.SourceCatalogSubstring
				m.Position = textmatch.RuneOffset(norm, hits[0])
				m.Occurrences = len(hits)
				m.Confidence = boost(confSubstring, m.Position, textRunes, m.Occurrences)
				out = append(out, m)
				continue
			}
		}

		if tokens == nil {
			tokens = textmatch.Tokens(norm)
		}
		if start, sim, candidate, ok := fuzzyWindow(tokens, a.Text, r.opts.FuzzyThreshold); ok {
			m.Source = model.SourceCatalogFuzzy
			m.Alias = candidate
			m.Position = textmatch.RuneOffset(norm, start)
			m.Occurrences = 1
			base := confFuzzyBase + math.Max(0, sim-r.opts.FuzzyThreshold)*0.25
			m.Confidence = boost(base, m.Position, textRunes, 1)
			out = append(out, m)
		}
	}
	return out
}

func allIndexes(text, term string, index func(string, string, int) int) []int {
	var hits []int
	for from := 0; from <= len(text); {
		i := index(text, term, from)
		if i < 0 {
			break
		}
		hits = append(hits, i)
		from = i + len(term)
	}
	return hits
}

// fuzzyWindow slides a window of the alias's word count over the tokens and
// returns the first window whose similarity reaches threshold.
func fuzzyWindow(tokens []textmatch.Token, alias string, threshold float64) (int, float64, string, bool) {
	width := len(strings.Fields(alias))
	if width == 0 || len(tokens) < width {
		return 0, 0, "", false
	}
	for i := 0; i+width <= len(tokens); i++ {
		parts := make([]string, width)
		for j := range parts {
			parts[j] = tokens[i+j].Text
		}
		candidate := strings.Join(parts, " ")
		if sim := levenshtein.Match(alias, candidate, nil); sim >= threshold {
			return tokens[i].Start, sim, candidate, true
		}
	}
	return 0, 0, "", false
}

// boost applies the positional and repetition boosts: +0.05 inside the first
// 20% of the text, +0.03 inside the first 40%, +0.02 per extra occurrence up
// to +0.05.
func boost(base float64, position, textLen, occurrences int) float64 {
	b := 0.0
	if textLen > 0 {
		ratio := float64(position) / float64(textLen)
		switch {
		case ratio <= 0.2:
			b += 0.05
		case ratio <= 0.4:
			b += 0.03
		}
	}
	if occurrences > 1 {
		b += math.Min(0.05, 0.02*float64(occurrences-1))
	}
	return clamp(base+b, confMax)
}

func clamp(v, ceiling float64) float64 {
	v = math.Max(0, math.Min(ceiling, v))
	return math.Round(v*1000) / 1000
}

// reconcile marks matches that agree with the expected entities, or appends
// a synthetic match for the first expected entity when none agree.
func (r *Resolver) reconcile(res *Resolution, matches []model.EntityMatch, hints []string) []model.EntityMatch {
	expected := r.canonicalHints(hints)
	if len(expected) == 0 {
		return matches
	}
	want := make(map[string]bool, len(expected))
	for _, h := range expected {
		want[strings.ToLower(h)] = true
	}

	matched := false
	var conflicting []model.EntityMatch
	for i := range matches {
		m := &matches[i]
		if e, ok := r.entities.Lookup(m.Name); ok {
			m.Name = e.Name
			if m.EntityType == "" {
				m.EntityType = e.Type
			}
		}
		if want[strings.ToLower(m.Name)] {
			m.IsExpectedEntity = true
			m.Confidence = clamp(m.Confidence+hintBoost, confMax)
			matched = true
		} else if m.Confidence >= conflictFloor {
			conflicting = append(conflicting, *m)
		}
	}

	if len(conflicting) > 0 {
		res.flag(model.FlagEntityConflict)
		prefix := "detected entities not matching advertiser identity: "
		if !matched {
			prefix = "expected entity missing from text; detected other entities: "
		}
		res.note(prefix+conflictNames(conflicting), maxConfidence(conflicting))
	}
	if matched {
		return matches
	}

	name := expected[0]
	hint := model.EntityMatch{
		Name:             name,
		Alias:            name,
		Source:           model.SourceExternalHint,
		Confidence:       confHintUnknown,
		IsExpectedEntity: true,
		Position:         -1,
	}
	if e, ok := r.entities.Lookup(name); ok {
		hint.Confidence = confHintCatalog
		hint.EntityType = e.Type
		hint.Priority = e.Priority
	}
	res.flag(model.FlagEntityInferredFromHint)
	res.note("inferred entity from advertiser metadata: "+name, hint.Confidence)
	return append(matches, hint)
}

func (r *Resolver) canonicalHints(hints []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, h := range hints {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		c := r.entities.Canonicalize(h)
		key := strings.ToLower(c)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}

func conflictNames(ms []model.EntityMatch) string {
	set := map[string]bool{}
	for _, m := range ms {
		set[m.Name] = true
	}
	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func maxConfidence(ms []model.EntityMatch) float64 {
	best := 0.0
	for _, m := range ms {
		best = math.Max(best, m.Confidence)
	}
	return best
}

// rank keeps the highest-confidence match per canonical name and sorts by
// (expected, priority, confidence, name length) descending.
func (r *Resolver) rank(matches []model.EntityMatch) []model.EntityMatch {
	best := map[string]int{}
	var unique []model.EntityMatch
	for _, m := range matches {
		m.Priority = r.priority(m)
		key := strings.ToLower(m.Name)
		if i, ok := best[key]; ok {
			prev := unique[i]
			if m.Confidence > prev.Confidence {
				m.IsExpectedEntity = m.IsExpectedEntity || prev.IsExpectedEntity
				unique[i] = m
			} else if m.IsExpectedEntity {
				unique[i].IsExpectedEntity = true
			}
			continue
		}
		best[key] = len(unique)
		unique = append(unique, m)
	}

	sort.SliceStable(unique, func(i, j int) bool {
		a, b := unique[i], unique[j]
		if a.IsExpectedEntity != b.IsExpectedEntity {
			return a.IsExpectedEntity
		}
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		return utf8.RuneCountInString(a.Name) > utf8.RuneCountInString(b.Name)
	})
	return unique
}

// priority is the catalog priority, 1 for typed non-catalog matches and -1
// for untyped ones.
func (r *Resolver) priority(m model.EntityMatch) int {
	if e, ok := r.entities.Lookup(m.Name); ok {
		return e.Priority
	}
	if m.EntityType != "" {
		return 1
	}
	return -1
}
