package textproc

import (
	"math"
	"unicode/utf8"

	"github.com/hbollon/go-edlib"
)

// Similarity compares two strings and returns a score from 0 (unrelated)
// to 100 (identical). Fuzzy extractors and comparators take one as a
// dependency so the matching technique can be swapped.
type Similarity func(a, b string) int

// EditRatio is the default Similarity: Levenshtein distance scaled by the
// longer string's rune count.
func EditRatio(a, b string) int {
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 100
	}
	dist := edlib.LevenshteinDistance(a, b)
	return int(math.Round(100 * (1 - float64(dist)/float64(longest))))
}

// JaroWinklerRatio is an alternative Similarity that favours shared prefixes,
// which suits short keyword typos ("fotografia" vs "fotogarfia").
func JaroWinklerRatio(a, b string) int {
	return int(math.Round(100 * float64(edlib.JaroWinklerSimilarity(a, b))))
}
