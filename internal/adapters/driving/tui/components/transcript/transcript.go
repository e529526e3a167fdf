// Package transcript renders the scrolling conversation history.
package transcript

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/archivo/internal/adapters/driving/tui/styles"
)

// Role is who wrote a turn.
type Role int

const (
	RoleUser Role = iota
	RoleBot
)

// Turn is one message in the conversation.
type Turn struct {
	Role Role
	Text string
}

// Transcript shows the conversation in a viewport that follows new turns.
type Transcript struct {
	viewport viewport.Model
	styles   *styles.Styles
	turns    []Turn
}

// New creates an empty transcript.
func New(s *styles.Styles) *Transcript {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &Transcript{
		viewport: viewport.New(80, 10),
		styles:   s,
	}
}

// Update forwards scrolling keys and mouse events to the viewport.
func (t *Transcript) Update(msg tea.Msg) (*Transcript, tea.Cmd) {
	var cmd tea.Cmd
	t.viewport, cmd = t.viewport.Update(msg)
	return t, cmd
}

// View renders the visible part of the transcript.
func (t *Transcript) View() string {
	return t.viewport.View()
}

// AddUser appends a user message.
func (t *Transcript) AddUser(text string) {
	t.add(Turn{Role: RoleUser, Text: text})
}

// AddBot appends an assistant reply.
func (t *Transcript) AddBot(text string) {
	t.add(Turn{Role: RoleBot, Text: text})
}

func (t *Transcript) add(turn Turn) {
	t.turns = append(t.turns, turn)
	t.refresh()
	t.viewport.GotoBottom()
}

// Turns returns the conversation so far.
func (t *Transcript) Turns() []Turn {
	return t.turns
}

// Clear forgets all turns.
func (t *Transcript) Clear() {
	t.turns = nil
	t.refresh()
}

// SetDimensions resizes the viewport and rewraps the turns.
func (t *Transcript) SetDimensions(width, height int) {
	t.viewport.Width = width
	t.viewport.Height = max(height, 1)
	t.refresh()
	t.viewport.GotoBottom()
}

// Content returns the full rendered transcript, including off-screen lines.
func (t *Transcript) Content() string {
	return t.render()
}

func (t *Transcript) refresh() {
	t.viewport.SetContent(t.render())
}

func (t *Transcript) render() string {
	if len(t.turns) == 0 {
		return t.styles.Muted.Render("Pregunta por documentos, fotografías o eventos del archivo.")
	}

	wrap := lipgloss.NewStyle().Width(max(t.viewport.Width-2, 10))
	blocks := make([]string, 0, len(t.turns))
	for _, turn := range t.turns {
		var label string
		if turn.Role == RoleUser {
			label = t.styles.UserTurn.Render("Tú")
		} else {
			label = t.styles.BotTurn.Render("Archivo")
		}
		blocks = append(blocks, label+"\n"+wrap.Render(strings.TrimSpace(turn.Text)))
	}
	return strings.Join(blocks, "\n\n")
}
