// Package status renders the one-line bar under the chat: what the archive
// is doing, what the last turn found, and the active key hints.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/archivo/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/archivo/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/archivo/internal/core/domain"
)

// State is what the bar is reporting.
type State string

const (
	StateReady    State = "ready"
	StateThinking State = "thinking"
	StateError    State = "error"
	StateResults  State = "results"
)

var intentLabels = map[domain.FollowUpIntent]string{
	domain.IntentSatisfied:   "satisfecho",
	domain.IntentUnsatisfied: "insatisfecho",
	domain.IntentRefinement:  "refinamiento",
	domain.IntentNewSearch:   "búsqueda nueva",
}

// Bar is passive: the chat view sets its state after each turn.
type Bar struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	state    State
	message  string
	turn     turnSummary
	browsing bool
	width    int
}

type turnSummary struct {
	documents int
	fresh     int
	repeated  int
	intent    domain.FollowUpIntent
}

func (t turnSummary) String() string {
	if t.documents == 0 {
		return ""
	}
	parts := []string{fmt.Sprintf("%d documentos", t.documents)}
	if label, ok := intentLabels[t.intent]; ok {
		parts = append(parts, label, fmt.Sprintf("%d nuevos, %d ya vistos", t.fresh, t.repeated))
	}
	return strings.Join(parts, " · ")
}

// NewBar creates a status bar. Nil arguments use the defaults.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &Bar{styles: s, keymap: km, state: StateReady, width: 80}
}

func (s *Bar) Init() tea.Cmd { return nil }

func (s *Bar) Update(_ tea.Msg) (*Bar, tea.Cmd) { return s, nil }

// View renders the status on the left and key hints on the right.
func (s *Bar) View() string {
	left, right := s.status(), s.hints()
	gap := max(s.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return s.styles.StatusBar.Width(s.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (s *Bar) status() string {
	switch s.state {
	case StateThinking:
		return s.styles.Muted.Render("Buscando en el archivo...")
	case StateError:
		return s.styles.Error.Render(strings.TrimSuffix("Error: "+s.message, ": "))
	case StateReady, StateResults:
	}
	if s.message != "" {
		return s.styles.Normal.Render(s.message)
	}
	if summary := s.turn.String(); summary != "" {
		return s.styles.Normal.Render(summary)
	}
	return s.styles.Muted.Render("Listo")
}

func (s *Bar) hints() string {
	bindings := s.keymap.ShortHelp()
	if s.browsing {
		bindings = s.keymap.ResultsHelp()
	}
	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, h.Key+": "+h.Desc)
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// ShowReply summarises a finished chat turn. Turns that did not search
// leave the bar ready.
func (s *Bar) ShowReply(reply *domain.ChatReply) {
	s.message = ""
	if reply == nil || !reply.Searched() {
		s.state = StateReady
		s.turn = turnSummary{}
		return
	}
	s.state = StateResults
	s.turn = turnSummary{
		documents: len(reply.Documents),
		fresh:     reply.NewCount,
		repeated:  reply.RepeatedCount,
		intent:    reply.Intent,
	}
}

// ShowError reports a failed turn.
func (s *Bar) ShowError(err error) {
	s.state = StateError
	s.message = ""
	if err != nil {
		s.message = err.Error()
	}
}

func (s *Bar) SetState(state State) { s.state = state }

func (s *Bar) State() State { return s.state }

// SetMessage overrides the turn summary until the next turn.
func (s *Bar) SetMessage(message string) { s.message = message }

func (s *Bar) Message() string { return s.message }

// ResultCount is the number of documents in the last searched turn.
func (s *Bar) ResultCount() int { return s.turn.documents }

// SetBrowsing switches the hints to the result list bindings.
func (s *Bar) SetBrowsing(browsing bool) { s.browsing = browsing }

func (s *Bar) SetWidth(width int) { s.width = width }

func (s *Bar) Width() int { return s.width }

// Clear resets the bar for a new conversation.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
	s.turn = turnSummary{}
	s.browsing = false
}
