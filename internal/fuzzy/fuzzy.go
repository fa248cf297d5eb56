// Package fuzzy provides field-name normalization and string similarity
// scoring used to match source field definitions against target catalogs.
// Header spellings drift across systems (case, accents, separators), so all
// comparisons run on normalized forms.
package fuzzy

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Config controls fuzzy matching behavior.
type Config struct {
	// Enabled turns the fuzzy stage on. Exact and synonym matching run
	// regardless.
	Enabled bool

	// Threshold is the minimum combined similarity for a fuzzy match or
	// suggestion.
	Threshold float64

	// MaxSuggestions caps the number of scored suggestions attached to an
	// unmatched field.
	MaxSuggestions int

	// LevenshteinWeight and JaroWinklerWeight blend the two algorithms into
	// the combined score. They are renormalized, so only their ratio matters.
	LevenshteinWeight float64
	JaroWinklerWeight float64
}

// DefaultConfig mirrors the conventional thresholds used by the mapping
// pipeline.
func DefaultConfig() Config {
	return Config{
		Enabled:           true,
		Threshold:         0.6,
		MaxSuggestions:    3,
		LevenshteinWeight: 0.5,
		JaroWinklerWeight: 0.5,
	}
}

// stripAccents decomposes, removes nonspacing marks, and recomposes, turning
// accented letters into their ASCII base forms.
func stripAccents(s string) string {
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Normalize canonicalizes a field name for identity comparison: accents
// stripped, lowercased, everything outside [a-z0-9] dropped. "Bank-Key",
// "BANK KEY", and "bank_key" all normalize to "bankkey".
func Normalize(name string) string {
	s := stripAccents(strings.ToLower(strings.TrimSpace(name)))
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeDescription canonicalizes a description for comparison: accents
// stripped, lowercased, whitespace runs collapsed to single spaces.
func NormalizeDescription(desc string) string {
	s := stripAccents(strings.ToLower(strings.TrimSpace(desc)))
	return strings.Join(strings.Fields(s), " ")
}

// LevenshteinDistance returns the edit distance between a and b, computed
// over runes with a two-row table.
func LevenshteinDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) < len(rb) {
		ra, rb = rb, ra
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i, ca := range ra {
		curr[0] = i + 1
		for j, cb := range rb {
			cost := 0
			if ca != cb {
				cost = 1
			}
			curr[j+1] = min(prev[j+1]+1, curr[j]+1, prev[j]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// LevenshteinSimilarity maps edit distance into [0,1]; identical strings
// score 1, fully dissimilar strings score 0.
func LevenshteinSimilarity(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	maxLen := len([]rune(a))
	if n := len([]rune(b)); n > maxLen {
		maxLen = n
	}
	return 1 - float64(LevenshteinDistance(a, b))/float64(maxLen)
}

// JaroWinklerSimilarity returns the Jaro similarity boosted by a common-prefix
// bonus (up to 4 runes, scaling factor 0.1).
func JaroWinklerSimilarity(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	jaro := jaroSimilarity([]rune(a), []rune(b))

	ra, rb := []rune(a), []rune(b)
	prefix := 0
	for i := 0; i < len(ra) && i < len(rb) && i < 4; i++ {
		if ra[i] != rb[i] {
			break
		}
		prefix++
	}
	return jaro + 0.1*float64(prefix)*(1-jaro)
}

func jaroSimilarity(a, b []rune) float64 {
	la, lb := len(a), len(b)
	if la == 0 && lb == 0 {
		return 1
	}
	if la == 0 || lb == 0 {
		return 0
	}

	window := max(la, lb)/2 - 1
	if window < 0 {
		window = 0
	}

	aMatched := make([]bool, la)
	bMatched := make([]bool, lb)
	matches := 0
	for i := 0; i < la; i++ {
		lo := max(0, i-window)
		hi := min(i+window+1, lb)
		for j := lo; j < hi; j++ {
			if bMatched[j] || a[i] != b[j] {
				continue
			}
			aMatched[i] = true
			bMatched[j] = true
			matches++
			break
		}
	}
	if matches == 0 {
		return 0
	}

	transpositions := 0
	k := 0
	for i := 0; i < la; i++ {
		if !aMatched[i] {
			continue
		}
		for !bMatched[k] {
			k++
		}
		if a[i] != b[k] {
			transpositions++
		}
		k++
	}

	m := float64(matches)
	return (m/float64(la) + m/float64(lb) + (m-float64(transpositions)/2)/m) / 3
}

// Similarity blends Levenshtein and Jaro-Winkler per the configured weights
// into a single [0,1] score. Zero weights fall back to an even split.
func (c Config) Similarity(a, b string) float64 {
	lw, jw := c.LevenshteinWeight, c.JaroWinklerWeight
	if lw <= 0 && jw <= 0 {
		lw, jw = 0.5, 0.5
	}
	total := lw + jw
	return (lw*LevenshteinSimilarity(a, b) + jw*JaroWinklerSimilarity(a, b)) / total
}
