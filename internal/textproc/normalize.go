package textproc

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/custodia-labs/archivo/internal/core/domain"
)

// Normalizer canonicalises text for matching. A Normalizer is immutable and
// safe for concurrent use.
//
// Normalize runs, in order: lowercase, diacritic stripping, plural stemming
// and abbreviation expansion. Expansion entries are applied once each, in
// table order, on whole-token sequences. An occurrence that already sits
// inside a spelled-out expansion is left alone, which keeps
// Normalize(Normalize(x)) == Normalize(x).
type Normalizer struct {
	rules     []expansionRule
	protected [][]string
}

type expansionRule struct {
	keys      [][]string
	expansion []string
}

// NewNormalizer builds a normalizer from an ordered abbreviation table.
// Keys and expansions are themselves normalised, so the table can be
// written in natural spelling ("fotos", "derechos humanos").
func NewNormalizer(table []domain.AbbreviationEntry) *Normalizer {
	n := &Normalizer{}
	for _, entry := range table {
		expansion := baseTokens(entry.Expansion)
		if len(expansion) == 0 {
			continue
		}
		rule := expansionRule{expansion: expansion}
		for _, key := range entry.Keys {
			if tokens := baseTokens(key); len(tokens) > 0 {
				rule.keys = append(rule.keys, tokens)
			}
		}
		if len(rule.keys) == 0 {
			continue
		}
		n.rules = append(n.rules, rule)
		n.protected = append(n.protected, expansion)
	}
	return n
}

// Normalize returns the canonical form of text. Blank input yields "".
// Punctuation around a word is kept in place; only the word itself is
// stemmed and matched, so "ddhh?" becomes "derecho humano?".
func (n *Normalizer) Normalize(text string) string {
	tokens := splitTokens(text)
	if len(tokens) == 0 {
		return ""
	}
	if n != nil {
		for _, rule := range n.rules {
			tokens = n.apply(rule, tokens)
		}
	}
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = tok.String()
	}
	return strings.Join(parts, " ")
}

// token is a whitespace-separated word split into its stemmed core and
// the punctuation around it.
type token struct {
	lead, core, trail string
}

func (t token) String() string {
	return t.lead + t.core + t.trail
}

func (n *Normalizer) apply(rule expansionRule, tokens []token) []token {
	covered := n.coverage(tokens)
	out := make([]token, 0, len(tokens)+len(rule.expansion))

	for i := 0; i < len(tokens); {
		if k := matchAny(rule.keys, tokens, i); k > 0 && !allCovered(covered[i:i+k]) {
			last := len(out) + len(rule.expansion) - 1
			for _, word := range rule.expansion {
				out = append(out, token{core: word})
			}
			out[len(out)-len(rule.expansion)].lead = tokens[i].lead
			out[last].trail = tokens[i+k-1].trail
			i += k
			continue
		}
		out = append(out, tokens[i])
		i++
	}
	return out
}

// coverage marks tokens that belong to a spelled-out expansion.
func (n *Normalizer) coverage(tokens []token) []bool {
	covered := make([]bool, len(tokens))
	for _, span := range n.protected {
		for i := 0; i+len(span) <= len(tokens); i++ {
			if spanEqual(tokens, i, span) {
				for j := i; j < i+len(span); j++ {
					covered[j] = true
				}
			}
		}
	}
	return covered
}

// matchAny returns the length of the first key found at position i, or 0.
func matchAny(keys [][]string, tokens []token, i int) int {
	for _, key := range keys {
		if i+len(key) <= len(tokens) && spanEqual(tokens, i, key) {
			return len(key)
		}
	}
	return 0
}

// spanEqual reports whether the cores starting at i spell words. Punctuation
// between two of the words breaks the span, so "dd, hh" is not "dd hh".
func spanEqual(tokens []token, i int, words []string) bool {
	for j, w := range words {
		tok := tokens[i+j]
		if tok.core != w {
			return false
		}
		if j > 0 && tok.lead != "" {
			return false
		}
		if j < len(words)-1 && tok.trail != "" {
			return false
		}
	}
	return true
}

func allCovered(marks []bool) bool {
	for _, m := range marks {
		if !m {
			return false
		}
	}
	return true
}

// splitTokens folds text, splits on whitespace, peels leading and trailing
// punctuation off every field and stems the remaining core. Inner
// punctuation stays with the core, which keeps keys like "dd.hh" intact.
func splitTokens(text string) []token {
	fields := strings.Fields(Fold(text))
	tokens := make([]token, len(fields))
	for i, f := range fields {
		core := strings.TrimLeftFunc(f, isPunct)
		lead := f[:len(f)-len(core)]
		trimmed := strings.TrimRightFunc(core, isPunct)
		tokens[i] = token{
			lead:  lead,
			core:  Stem(trimmed),
			trail: core[len(trimmed):],
		}
	}
	return tokens
}

// baseTokens returns the stemmed word cores of text, dropping fields that
// are only punctuation.
func baseTokens(text string) []string {
	var out []string
	for _, tok := range splitTokens(text) {
		if tok.core != "" {
			out = append(out, tok.core)
		}
	}
	return out
}

func isPunct(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

// Stem strips Spanish plural suffixes from a folded word: "es" when the
// word is longer than four runes, otherwise a single "s" (never "ss") when
// longer than three. The rule is repeated until the word is stable.
func Stem(word string) string {
	for {
		next := stemOnce(word)
		if next == word {
			return word
		}
		word = next
	}
}

func stemOnce(word string) string {
	n := utf8.RuneCountInString(word)
	switch {
	case strings.HasSuffix(word, "es") && n > 4:
		return word[:len(word)-2]
	case strings.HasSuffix(word, "s") && !strings.HasSuffix(word, "ss") && n > 3:
		return word[:len(word)-1]
	default:
		return word
	}
}
