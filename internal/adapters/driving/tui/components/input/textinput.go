// Package input provides text input components for the TUI.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/archivo/internal/adapters/driving/tui/styles"
)

// MessageLimit caps the length of a chat message.
const MessageLimit = 500

// ChatInput wraps a bubbles textinput with chat styling.
type ChatInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	width     int
}

// NewChatInput creates a new chat input component.
func NewChatInput(s *styles.Styles) *ChatInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = "Escribe tu consulta sobre el archivo..."
	ti.Focus()
	ti.CharLimit = MessageLimit
	ti.Width = 50

	return &ChatInput{
		textinput: ti,
		styles:    s,
		width:     50,
	}
}

// Init initialises the chat input.
func (c *ChatInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (c *ChatInput) Update(msg tea.Msg) (*ChatInput, tea.Cmd) {
	var cmd tea.Cmd
	c.textinput, cmd = c.textinput.Update(msg)
	return c, cmd
}

// View renders the chat input.
func (c *ChatInput) View() string {
	label := c.styles.UserTurn.Render("Tú: ")
	input := c.styles.InputField.Render(c.textinput.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, label, input)
}

// Value returns the current input value.
func (c *ChatInput) Value() string {
	return c.textinput.Value()
}

// SetValue sets the input value.
func (c *ChatInput) SetValue(value string) {
	c.textinput.SetValue(value)
}

// Focus sets focus on the input.
func (c *ChatInput) Focus() tea.Cmd {
	return c.textinput.Focus()
}

// Blur removes focus from the input.
func (c *ChatInput) Blur() {
	c.textinput.Blur()
}

// Focused returns whether the input is focused.
func (c *ChatInput) Focused() bool {
	return c.textinput.Focused()
}

// SetWidth sets the width of the input.
func (c *ChatInput) SetWidth(width int) {
	c.width = width
	// label and border
	c.textinput.Width = max(width-10, 20)
}

// Width returns the current width.
func (c *ChatInput) Width() int {
	return c.width
}

// Reset clears the input.
func (c *ChatInput) Reset() {
	c.textinput.Reset()
}
