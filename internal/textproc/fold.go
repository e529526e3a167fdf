package textproc

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// StripDiacritics removes combining marks after canonical decomposition,
// so "política" becomes "politica" and "ñ" becomes "n".
func StripDiacritics(s string) string {
	if isASCII(s) {
		return s
	}
	// Transformers carry state, so each call builds its own chain.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Fold lowercases s and strips its diacritics.
func Fold(s string) string {
	return StripDiacritics(strings.ToLower(s))
}

// Words splits folded text into letter/digit tokens of at least minLen runes.
func Words(text string, minLen int) []string {
	fields := strings.FieldsFunc(Fold(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) >= minLen {
			out = append(out, f)
		}
	}
	return out
}

// LetterWords is Words restricted to purely alphabetic tokens.
func LetterWords(text string, minLen int) []string {
	fields := strings.FieldsFunc(Fold(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	out := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) >= minLen {
			out = append(out, f)
		}
	}
	return out
}

// WordSet returns the distinct Words of text.
func WordSet(text string, minLen int) map[string]struct{} {
	words := Words(text, minLen)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
