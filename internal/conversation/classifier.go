package conversation

import (
	"fmt"
	"regexp"
	"strings"
	"sync/atomic"
	"unicode/utf8"

	"github.com/custodia-labs/archivo/internal/core/domain"
	"github.com/custodia-labs/archivo/internal/textproc"
)

// Short utterances made only of acknowledgements are smalltalk, not queries.
const (
	casualMaxWords = 2
	casualMaxRunes = 15
)

var punctuation = regexp.MustCompile(`[¿?¡!.,;:]`)

// PatternGroup is a compiled set of patterns for one conversation type.
type PatternGroup struct {
	Type     domain.ConversationType
	Patterns []*regexp.Regexp
}

// CompileGroups compiles table groups in order. Group names must be
// conversational types.
func CompileGroups(groups []domain.PatternGroup) ([]PatternGroup, error) {
	out := make([]PatternGroup, 0, len(groups))
	for _, g := range groups {
		t := domain.ConversationType(g.Name)
		if !t.IsConversational() {
			return nil, fmt.Errorf("pattern group %q: %w", g.Name, domain.ErrInvalidTables)
		}
		patterns, err := compile(g.Patterns)
		if err != nil {
			return nil, fmt.Errorf("pattern group %q: %w", g.Name, err)
		}
		out = append(out, PatternGroup{Type: t, Patterns: patterns})
	}
	return out, nil
}

type classifierState struct {
	groups []PatternGroup
	casual map[string]struct{}
}

// Classifier labels an utterance as a conversation type. It is safe for
// concurrent use; SetGroups swaps patterns without blocking readers.
type Classifier struct {
	state atomic.Pointer[classifierState]
}

// NewClassifier compiles the conversation groups and casual words of t.
func NewClassifier(t domain.IntentTables) (*Classifier, error) {
	c := &Classifier{}
	if err := c.Reload(t); err != nil {
		return nil, err
	}
	return c, nil
}

// Reload recompiles from t and publishes the result. On error the current
// patterns stay in place.
func (c *Classifier) Reload(t domain.IntentTables) error {
	groups, err := CompileGroups(t.Conversation)
	if err != nil {
		return err
	}
	c.SetGroups(groups, t.CasualWords)
	return nil
}

// SetGroups replaces the pattern groups and casual words.
func (c *Classifier) SetGroups(groups []PatternGroup, casualWords []string) {
	casual := make(map[string]struct{}, len(casualWords))
	for _, w := range casualWords {
		if w = textproc.Fold(strings.TrimSpace(w)); w != "" {
			casual[w] = struct{}{}
		}
	}
	c.state.Store(&classifierState{groups: groups, casual: casual})
}

// Classify returns the conversation type of text. Anything that is not
// recognised as casual conversation is ConversationSearch.
func (c *Classifier) Classify(text string) domain.ConversationType {
	st := c.state.Load()
	if st == nil {
		return domain.ConversationSearch
	}

	clean := punctuation.ReplaceAllString(strings.ToLower(strings.TrimSpace(text)), "")
	folded := textproc.StripDiacritics(clean)

	for _, g := range st.groups {
		if matchAny(g.Patterns, folded) {
			return g.Type
		}
	}

	words := strings.Fields(folded)
	if len(words) <= casualMaxWords && utf8.RuneCountInString(clean) < casualMaxRunes {
		for _, w := range words {
			if _, ok := st.casual[w]; ok {
				return domain.ConversationSmalltalk
			}
		}
	}
	return domain.ConversationSearch
}
