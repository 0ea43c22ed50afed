// Package textmatch normalizes bilingual ad text and finds catalog terms in it.
package textmatch

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var spaceRe = regexp.MustCompile(`\s+`)

var tokenRe = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Normalize prepares text for matching by:
//  1. Applying NFKC (folds Arabic presentation forms and full-width Latin)
//  2. Dropping tatweel and Arabic diacritics
//  3. Lowercasing
//  4. Collapsing whitespace runs into single spaces
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = norm.NFKC.String(s)
	s = strings.Map(func(r rune) rune {
		if r == '\u0640' || (r >= '\u064B' && r <= '\u0652') {
			return -1
		}
		return r
	}, s)
	s = strings.ToLower(s)
	s = spaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// IsWordRune reports whether r can be part of a word in any script.
func IsWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// IsArabic reports whether r is in the basic Arabic block.
func IsArabic(r rune) bool {
	return r >= '\u0600' && r <= '\u06FF'
}

func isASCIIAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// IsASCII reports whether s contains only ASCII characters.
func IsASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// ContainsArabic reports whether s has at least one Arabic character.
func ContainsArabic(s string) bool {
	for _, r := range s {
		if IsArabic(r) {
			return true
		}
	}
	return false
}

func runeBefore(s string, i int) (rune, bool) {
	if i <= 0 {
		return 0, false
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return r, true
}

func runeAt(s string, i int) (rune, bool) {
	if i >= len(s) {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return r, true
}

func firstRune(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	return r
}

func lastRune(s string) rune {
	r, _ := utf8.DecodeLastRuneInString(s)
	return r
}

// indexWhere returns the byte offset of the first occurrence of term at or
// after from that satisfies ok, or -1.
func indexWhere(text, term string, from int, ok func(start, end int) bool) int {
	if term == "" || from < 0 {
		return -1
	}
	for from <= len(text) {
		i := strings.Index(text[from:], term)
		if i < 0 {
			return -1
		}
		start := from + i
		if ok(start, start+len(term)) {
			return start
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		from = start + size
	}
	return -1
}

// IndexWord finds term as a whole word. A side whose edge character is a word
// character requires a non-word neighbour; other sides match freely.
func IndexWord(text, term string, from int) int {
	checkStart := IsWordRune(firstRune(term))
	checkEnd := IsWordRune(lastRune(term))
	return indexWhere(text, term, from, func(start, end int) bool {
		if checkStart {
			if r, ok := runeBefore(text, start); ok && IsWordRune(r) {
				return false
			}
		}
		if checkEnd {
			if r, ok := runeAt(text, end); ok && IsWordRune(r) {
				return false
			}
		}
		return true
	})
}

// IndexBounded finds term where neither neighbour is an ASCII letter, digit
// or Arabic character.
func IndexBounded(text, term string, from int) int {
	blocked := func(r rune) bool { return isASCIIAlnum(r) || IsArabic(r) }
	return indexWhere(text, term, from, func(start, end int) bool {
		if r, ok := runeBefore(text, start); ok && blocked(r) {
			return false
		}
		if r, ok := runeAt(text, end); ok && blocked(r) {
			return false
		}
		return true
	})
}

// IndexTerm finds a keyword the way the keyword tables expect: ASCII terms
// match on word boundaries (a trailing plural "s" is tolerated), terms with
// any non-ASCII character match as plain substrings since Arabic attaches
// prefixes to words.
func IndexTerm(text, term string, from int) int {
	if !IsASCII(term) {
		if from > len(text) {
			return -1
		}
		i := strings.Index(text[from:], term)
		if i < 0 {
			return -1
		}
		return from + i
	}
	checkStart := isASCIIAlnum(firstRune(term))
	checkEnd := isASCIIAlnum(lastRune(term))
	return indexWhere(text, term, from, func(start, end int) bool {
		if checkStart {
			if r, ok := runeBefore(text, start); ok && isASCIIAlnum(r) {
				return false
			}
		}
		if checkEnd {
			r, ok := runeAt(text, end)
			if ok && r == 's' {
				r, ok = runeAt(text, end+1)
			}
			if ok && isASCIIAlnum(r) {
				return false
			}
		}
		return true
	})
}

// ContainsTerm reports whether text contains term under IndexTerm rules.
func ContainsTerm(text, term string) bool {
	return IndexTerm(text, term, 0) >= 0
}

// CountTerm counts non-overlapping occurrences of term under IndexTerm rules.
func CountTerm(text, term string) int {
	n := 0
	for from := 0; ; {
		i := IndexTerm(text, term, from)
		if i < 0 {
			return n
		}
		n++
		from = i + len(term)
	}
}

// CountWord counts non-overlapping whole-word occurrences of term.
func CountWord(text, term string) int {
	n := 0
	for from := 0; ; {
		i := IndexWord(text, term, from)
		if i < 0 {
			return n
		}
		n++
		from = i + len(term)
	}
}

// MatchedTerms returns the terms found in text, in table order, without
// duplicates.
func MatchedTerms(text string, terms []string) []string {
	var out []string
	seen := make(map[string]bool, len(terms))
	for _, t := range terms {
		if seen[t] {
			continue
		}
		if ContainsTerm(text, t) {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

// Token is one word of text with its byte offsets.
type Token struct {
	Text  string
	Start int
	End   int
}

// Tokens splits text into letter/digit runs.
func Tokens(text string) []Token {
	spans := tokenRe.FindAllStringIndex(text, -1)
	out := make([]Token, 0, len(spans))
	for _, sp := range spans {
		out = append(out, Token{Text: text[sp[0]:sp[1]], Start: sp[0], End: sp[1]})
	}
	return out
}

// RuneOffset converts a byte offset into a rune offset.
func RuneOffset(text string, byteOffset int) int {
	if byteOffset > len(text) {
		byteOffset = len(text)
	}
	return utf8.RuneCountInString(text[:byteOffset])
}
