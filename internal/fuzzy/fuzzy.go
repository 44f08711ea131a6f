// Package fuzzy scores approximate substring similarity between two strings on a 0-100 scale.
package fuzzy

import (
	"math"

	"github.com/pmezard/go-difflib/difflib"
)

// perfect is the ratio above which a window counts as a full match.
const perfect = 0.995

// PartialRatio scores how well the shorter string matches its best-aligned window in the
// longer one. Identical strings score 100; an empty operand scores 0.
// Comparison is rune-wise, so callers should normalize both sides first.
func PartialRatio(s1, s2 string) int {
	if s1 == "" || s2 == "" {
		return 0
	}
	if s1 == s2 {
		return 100
	}

	shorter, longer := runes(s1), runes(s2)
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}

	window := difflib.NewMatcher(shorter, nil)
	best := 0.0
	for _, blk := range difflib.NewMatcher(shorter, longer).GetMatchingBlocks() {
		start := blk.B - blk.A
		if start < 0 {
			start = 0
		}
		end := start + len(shorter)
		if end > len(longer) {
			end = len(longer)
		}

		window.SetSeq2(longer[start:end])
		r := window.Ratio()
		if r > perfect {
			return 100
		}
		if r > best {
			best = r
		}
	}
	return int(math.RoundToEven(100 * best))
}

// runes splits s into one-rune strings, the element type difflib compares.
func runes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
