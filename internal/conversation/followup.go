package conversation

import (
	"regexp"
	"strings"
	"sync/atomic"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/custodia-labs/archivo/internal/core/domain"
	"github.com/custodia-labs/archivo/internal/textproc"
)

type detectorState struct {
	unsatisfied []*regexp.Regexp
	satisfied   []*regexp.Regexp
	signals     []*regexp.Regexp
	greetings   []*regexp.Regexp
}

// Detector interprets a message sent after a search. It is safe for
// concurrent use.
type Detector struct {
	state     atomic.Pointer[detectorState]
	extractor textproc.Extractor
}

// NewDetector compiles the follow-up patterns of t. extractor decides
// whether a message carries new search information; it may be nil.
func NewDetector(t domain.IntentTables, extractor textproc.Extractor) (*Detector, error) {
	d := &Detector{extractor: extractor}
	if err := d.Reload(t); err != nil {
		return nil, err
	}
	return d, nil
}

// Reload recompiles from t and publishes the result. On error the current
// patterns stay in place.
func (d *Detector) Reload(t domain.IntentTables) error {
	var (
		st  detectorState
		err error
	)
	if st.unsatisfied, err = compile(t.Unsatisfied); err != nil {
		return err
	}
	if st.satisfied, err = compile(t.Satisfied); err != nil {
		return err
	}
	if st.signals, err = compile(t.SearchSignals); err != nil {
		return err
	}
	if st.greetings, err = compile(t.Greetings); err != nil {
		return err
	}
	d.state.Store(&st)
	return nil
}

func (d *Detector) load() *detectorState {
	if st := d.state.Load(); st != nil {
		return st
	}
	return &detectorState{}
}

// Detect classifies a follow-up without an explicit search. Unsatisfied
// patterns take precedence over satisfied ones; a message with new entities
// is a refinement; anything else is treated as unsatisfied.
func (d *Detector) Detect(message string) domain.FollowUpIntent {
	st := d.load()
	folded := textproc.Fold(strings.TrimSpace(message))

	switch {
	case matchAny(st.unsatisfied, folded):
		return domain.IntentUnsatisfied
	case matchAny(st.satisfied, folded):
		return domain.IntentSatisfied
	case d.hasNewInfo(message):
		return domain.IntentRefinement
	default:
		return domain.IntentUnsatisfied
	}
}

// HasExplicitSearch reports whether message asks for something concrete:
// a search verb, a doc type or topic keyword, a preposition introducing a
// subject, a year, or any entity the extractor recognises.
func (d *Detector) HasExplicitSearch(message string) bool {
	folded := textproc.Fold(strings.TrimSpace(message))
	if matchAny(d.load().signals, folded) {
		return true
	}
	return d.hasNewInfo(message)
}

func (d *Detector) hasNewInfo(message string) bool {
	if d.extractor == nil {
		return false
	}
	return d.extractor.Extract(message).HasNewInfo
}

// RemoveGreetings strips leading greetings ("hola, busco..." becomes
// "busco..."). The result is lowercased. If nothing would remain, message is
// returned unchanged.
func (d *Detector) RemoveGreetings(message string) string {
	cleaned := norm.NFC.String(strings.ToLower(strings.TrimSpace(message)))
	for _, re := range d.load().greetings {
		cleaned = cutPrefix(cleaned, re)
	}
	if cleaned = strings.TrimSpace(cleaned); cleaned == "" {
		return message
	}
	return cleaned
}

// cutPrefix removes the match of an anchored pattern, located on the folded
// text, from the original text. Folding NFC text keeps one rune per rune,
// so rune offsets carry over.
func cutPrefix(text string, re *regexp.Regexp) string {
	folded := textproc.StripDiacritics(text)
	loc := re.FindStringIndex(folded)
	if loc == nil || loc[0] != 0 {
		return text
	}
	if utf8.RuneCountInString(folded) != utf8.RuneCountInString(text) {
		return folded[loc[1]:]
	}
	n := utf8.RuneCountInString(folded[:loc[1]])
	i := 0
	for ; n > 0; n-- {
		_, size := utf8.DecodeRuneInString(text[i:])
		i += size
	}
	return text[i:]
}
