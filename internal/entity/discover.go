package entity

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/ad-intel/internal/model"
	"github.com/sells-group/ad-intel/internal/textmatch"
)

// Discovery base confidences. Discovered names never exceed confHeuristicMax.
const (
	confSemantic     = 0.90
	confURL          = 0.72
	confCapitalized  = 0.68
	confScript       = 0.70
	confHeuristicMax = 0.90

	minNameLen    = 3
	maxNameLen    = 50
	maxNameTokens = 5
)

var (
	merchantRe = regexp.MustCompile(`(?i)\b(?:shop|order|buy|available|delivered|delivery)[ \t]+(?:online[ \t]+)?(?:from|at|by)[ \t]+([a-z][a-z &'.-]*?)(?:[ \t]*[-|\n]|[ \t]+on[ \t]|[ \t]+in[ \t]|$)`)
	slugRe     = regexp.MustCompile(`(?:talabat|deliveroo|snoonu|rafeeq|keeta)\.com/[a-z-]+/([a-z0-9-]+)`)
	titleRe    = regexp.MustCompile(`\b([A-Z][A-Za-z]+(?:[ \t]+[A-Z][A-Za-z]+){0,2})\b`)
	arabicRe   = regexp.MustCompile(`[\x{0600}-\x{06FF}]{3,}(?:[ \t]+[\x{0600}-\x{06FF}]{3,})*`)
)

// discover proposes entities the catalog does not know, using four
// structural heuristics in order: merchant phrasing, marketplace URL slugs,
// capitalized phrases and Arabic phrases.
func (r *Resolver) discover(text string, known []model.EntityMatch) []model.EntityMatch {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	d := &discoverer{r: r, text: text, textLen: utf8.RuneCountInString(text), known: map[string]bool{}}
	for _, m := range known {
		d.known[strings.ToLower(m.Name)] = true
		if m.Alias != "" {
			d.knownAliases = append(d.knownAliases, textmatch.Normalize(m.Alias))
		}
	}
	d.merchantPhrases()
	d.marketplaceSlugs()
	d.capitalized()
	d.arabicPhrases()
	return d.out
}

type discoverer struct {
	r            *Resolver
	text         string
	textLen      int
	known        map[string]bool
	knownAliases []string
	out          []model.EntityMatch
}

func (d *discoverer) add(name, alias string, source model.MatchSource, base float64, byteStart, occurrences int) {
	m := model.EntityMatch{Name: name, Alias: alias, Source: source, Occurrences: occurrences}
	if e, ok := d.r.entities.Lookup(name); ok {
		m.Name, m.EntityType, m.Priority = e.Name, e.Type, e.Priority
	}
	key := strings.ToLower(m.Name)
	if d.known[key] {
		return
	}
	m.Position = textmatch.RuneOffset(d.text, byteStart)
	m.Confidence = clamp(boost(base, m.Position, d.textLen, occurrences), confHeuristicMax)
	d.known[key] = true
	d.out = append(d.out, m)
}

// passes applies the filters shared by every heuristic.
func (d *discoverer) passes(name string) bool {
	n := utf8.RuneCountInString(name)
	if n < minNameLen || n > maxNameLen {
		return false
	}
	key := textmatch.Normalize(name)
	if d.isPlatform(key) {
		return false
	}
	// A single token must be a known name; bare words are mostly OCR noise.
	if len(strings.Fields(key)) == 1 {
		if _, ok := d.r.entities.Lookup(key); !ok {
			return false
		}
	}
	return true
}

func (d *discoverer) isPlatform(key string) bool {
	for _, p := range d.r.platforms {
		if key == p {
			return true
		}
		for _, w := range strings.Fields(key) {
			if w == p {
				return true
			}
		}
	}
	return false
}

// containsKnownAlias reports whether the candidate wraps an alias the catalog
// scan already matched, as in "Samsung Galaxy" around "samsung".
func (d *discoverer) containsKnownAlias(key string) bool {
	for _, a := range d.knownAliases {
		if a != key && textmatch.IndexWord(key, a, 0) >= 0 {
			return true
		}
	}
	return false
}

func (d *discoverer) merchantPhrases() {
	for _, sm := range merchantRe.FindAllStringSubmatchIndex(d.text, -1) {
		raw := strings.TrimRight(strings.TrimSpace(d.text[sm[2]:sm[3]]), ".,;!?-")
		name := d.trimSuffix(raw)
		if name == "" || !d.passes(name) {
			continue
		}
		d.add(name, name, model.SourceHeuristicSemantic, confSemantic, sm[0], 1)
	}
}

func (d *discoverer) marketplaceSlugs() {
	lower := strings.ToLower(d.text)
	for _, sm := range slugRe.FindAllStringSubmatchIndex(lower, -1) {
		name := slugName(lower[sm[2]:sm[3]])
		if name == "" || !d.passes(name) {
			continue
		}
		if d.r.discovery.StopEN.Has(name) {
			continue
		}
		d.add(name, name, model.SourceHeuristicURL, confURL, sm[0], 1)
	}
}

func (d *discoverer) capitalized() {
	disc := d.r.discovery
	for _, sm := range titleRe.FindAllStringSubmatchIndex(d.text, -1) {
		cand := d.text[sm[2]:sm[3]]
		key := textmatch.Normalize(cand)
		words := strings.Fields(key)
		if !d.passes(cand) || disc.Generic.Has(key) || disc.MarketingPhrases.Has(key) {
			continue
		}
		if _, known := d.r.entities.Lookup(key); !known && d.containsKnownAlias(key) {
			continue
		}
		generic, stop, marketing := 0, 0, 0
		for _, w := range words {
			if disc.Generic.Has(w) {
				generic++
			}
			if disc.StopEN.Has(w) {
				stop++
			}
			if disc.Marketing.Has(w) {
				marketing++
			}
		}
		if generic > 0 || stop == len(words) {
			continue
		}
		if marketing > 0 && (marketing == len(words) || marketing >= len(words)-1) {
			continue
		}
		d.add(cand, cand, model.SourceHeuristicCapitalized, confCapitalized, sm[0], strings.Count(d.text, cand))
	}
}

func (d *discoverer) arabicPhrases() {
	disc := d.r.discovery
	for _, loc := range arabicRe.FindAllStringIndex(d.text, -1) {
		cand := d.text[loc[0]:loc[1]]
		key := textmatch.Normalize(cand)
		if disc.StopAR.Has(key) || !d.passes(cand) || d.containsKnownAlias(key) {
			continue
		}
		if d.containsPlatformTerm(key) || d.allStopAR(key) {
			continue
		}
		d.add(cand, cand, model.SourceHeuristicScript, confScript, loc[0], 1)
	}
}

func (d *discoverer) containsPlatformTerm(key string) bool {
	for _, p := range d.r.platforms {
		if strings.Contains(key, p) {
			return true
		}
	}
	return false
}

func (d *discoverer) allStopAR(key string) bool {
	for _, w := range strings.Fields(key) {
		if !d.r.discovery.StopAR.Has(w) && !d.r.discovery.SuffixStopAR.Has(w) {
			return false
		}
	}
	return true
}

// trimSuffix cuts a captured merchant phrase at the first call-to-action or
// generic word, keeps at most five tokens and title-cases the result, so
// "DE'LONGHI ONLINE WITH ONE HOUR DELIVERY" becomes "De'Longhi".
func (d *discoverer) trimSuffix(s string) string {
	disc := d.r.discovery
	s = strings.Trim(strings.Join(strings.Fields(s), " "), " -–|")
	stop := disc.SuffixStopEN
	if textmatch.ContainsArabic(s) {
		stop = disc.SuffixStopAR
	}
	var out []string
	for _, tok := range strings.Fields(s) {
		clean := strings.TrimRight(tok, ".,;!?")
		key := strings.ToLower(clean)
		if stop.Has(key) || disc.Generic.Has(key) || disc.Marketing.Has(key) || disc.StopEN.Has(key) {
			break
		}
		out = append(out, smartTitle(clean))
		if clean != tok || len(out) >= maxNameTokens {
			break
		}
	}
	return strings.Join(out, " ")
}

// smartTitle title-cases each apostrophe- or hyphen-separated part and
// leaves short words alone.
func smartTitle(w string) string {
	if utf8.RuneCountInString(w) <= 2 {
		return w
	}
	caser := cases.Title(language.Und)
	var b strings.Builder
	start := 0
	for i, r := range w {
		if r == '\'' || r == '-' {
			b.WriteString(caser.String(w[start:i]))
			b.WriteRune(r)
			start = i + 1
		}
	}
	b.WriteString(caser.String(w[start:]))
	return b.String()
}

// slugName turns "smash-me" into "Smash Me".
func slugName(slug string) string {
	var words []string
	for _, w := range strings.Split(slug, "-") {
		switch {
		case w == "":
			continue
		case isDigits(w):
			words = append(words, w)
		case len(w) == 1:
			words = append(words, strings.ToUpper(w))
		default:
			words = append(words, strings.ToUpper(w[:1])+w[1:])
		}
	}
	name := strings.Join(words, " ")
	if isDigits(strings.ReplaceAll(name, " ", "")) || len(name) <= 2 {
		return ""
	}
	return name
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
