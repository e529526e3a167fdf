// Package chat provides the conversation view for the TUI.
package chat

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/archivo/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/archivo/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/archivo/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/archivo/internal/adapters/driving/tui/components/transcript"
	"github.com/custodia-labs/archivo/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/archivo/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/archivo/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/archivo/internal/core/domain"
	"github.com/custodia-labs/archivo/internal/core/ports/driving"
)

// Fixed rows: header, blank, input box, status bar.
const chromeHeight = 7

// maxListHeight caps the document list so the transcript stays visible.
const maxListHeight = 10

// View is the conversation view: transcript, documents of the last reply,
// input and status bar.
type View struct {
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	input      *input.ChatInput
	transcript *transcript.Transcript
	list       *list.ResultList
	statusbar  *status.Bar

	chatService driving.ChatService
	ctx         context.Context

	sessionID  string
	width      int
	height     int
	ready      bool
	err        error
	focusInput bool // true = typing, false = browsing documents
	pending    bool
}

// NewView creates a new chat view.
func NewView(s *styles.Styles, km *keymap.KeyMap, chatService driving.ChatService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:      s,
		keymap:      km,
		input:       input.NewChatInput(s),
		transcript:  transcript.New(s),
		list:        list.NewResultList(s),
		statusbar:   status.NewBar(s, km),
		chatService: chatService,
		ctx:         context.Background(),
		width:       80,
		height:      24,
		focusInput:  true,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.ChatCompleted:
		v.handleChatCompleted(msg)
		return v, nil

	case messages.SessionReset:
		v.statusbar.Clear()
		v.statusbar.SetMessage("Nueva conversación")
		return v, nil

	case messages.ErrorOccurred:
		v.pending = false
		v.err = msg.Err
		v.statusbar.ShowError(msg.Err)
		return v, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	cmds = append(cmds, cmd)
	v.transcript, cmd = v.transcript.Update(msg)
	cmds = append(cmds, cmd)
	return v, tea.Batch(cmds...)
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()

	switch {
	case keymap.Matches(keyStr, v.keymap.Help):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewHelp} }
	case keymap.Matches(keyStr, v.keymap.Reset):
		return v, v.resetSession()
	case keymap.Matches(keyStr, v.keymap.ScrollUp), keymap.Matches(keyStr, v.keymap.ScrollDown):
		var cmd tea.Cmd
		v.transcript, cmd = v.transcript.Update(msg)
		return v, cmd
	case keymap.Matches(keyStr, v.keymap.Focus):
		v.toggleFocus()
		return v, nil
	}

	if v.focusInput {
		if keymap.Matches(keyStr, v.keymap.Send) {
			return v, v.send()
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	// Browsing documents.
	switch {
	case keymap.Matches(keyStr, v.keymap.Details):
		if doc := v.list.SelectedResult(); doc != nil {
			selected := *doc
			return v, func() tea.Msg { return messages.DocumentSelected{Document: selected} }
		}
	case keymap.Matches(keyStr, v.keymap.Back):
		v.toggleFocus()
	case keymap.Matches(keyStr, v.keymap.Up):
		v.list.MoveUp()
	case keymap.Matches(keyStr, v.keymap.Down):
		v.list.MoveDown()
	}
	return v, nil
}

func (v *View) toggleFocus() {
	if v.focusInput && v.list.IsEmpty() {
		return
	}
	v.focusInput = !v.focusInput
	if v.focusInput {
		v.input.Focus()
	} else {
		v.input.Blur()
	}
	v.list.SetFocused(!v.focusInput)
	v.statusbar.SetBrowsing(!v.focusInput)
}

// send submits the typed message unless a reply is still pending.
func (v *View) send() tea.Cmd {
	text := strings.TrimSpace(v.input.Value())
	if text == "" || v.pending {
		return nil
	}
	v.input.Reset()
	v.transcript.AddUser(text)
	v.pending = true
	v.err = nil
	v.statusbar.SetMessage("")
	v.statusbar.SetState(status.StateThinking)
	return v.performChat(v.sessionID, text)
}

func (v *View) performChat(sessionID, text string) tea.Cmd {
	return func() tea.Msg {
		if v.chatService == nil {
			return messages.ErrorOccurred{Err: ErrNoChatService}
		}
		reply, err := v.chatService.Chat(v.ctx, sessionID, text)
		return messages.ChatCompleted{Reply: reply, Err: err}
	}
}

func (v *View) resetSession() tea.Cmd {
	id := v.sessionID
	v.sessionID = ""
	v.pending = false
	v.err = nil
	v.transcript.Clear()
	v.list.SetResults(nil)
	if !v.focusInput {
		v.toggleFocus()
	}
	v.layout()

	return func() tea.Msg {
		if v.chatService != nil && id != "" {
			v.chatService.Reset(v.ctx, id)
		}
		return messages.SessionReset{}
	}
}

func (v *View) handleChatCompleted(msg messages.ChatCompleted) {
	v.pending = false
	if msg.Err != nil {
		v.err = msg.Err
		v.transcript.AddBot("⚠️ No pude procesar tu consulta. Intenta nuevamente.")
		v.statusbar.ShowError(msg.Err)
		return
	}

	reply := msg.Reply
	v.err = nil
	v.sessionID = reply.SessionID
	v.transcript.AddBot(reply.Text)
	v.statusbar.ShowReply(reply)

	if reply.Searched() {
		v.list.SetResults(reply.Documents)
		v.layout()
	}
}

// View renders the chat view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	header := v.styles.Title.Render("Archivo Patrimonial UAH")
	if v.sessionID != "" {
		header += v.styles.Muted.Render("  sesión " + shortID(v.sessionID))
	}

	sections := make([]string, 0, 8)
	sections = append(sections, header, "", v.transcript.View())
	if !v.list.IsEmpty() {
		sections = append(sections, "", v.list.View())
	}
	sections = append(sections, v.input.View(), v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)
	v.layout()
}

// layout splits the rows left by the chrome between transcript and list.
func (v *View) layout() {
	listHeight := 0
	if !v.list.IsEmpty() {
		listHeight = min(v.list.Count()*2+2, maxListHeight)
		v.list.SetDimensions(v.width, listHeight)
		listHeight++ // separator
	}
	v.transcript.SetDimensions(v.width, v.height-chromeHeight-listHeight)
}

// Width returns the current width.
func (v *View) Width() int {
	return v.width
}

// Height returns the current height.
func (v *View) Height() int {
	return v.height
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// SessionID returns the current conversation id, empty before the first reply.
func (v *View) SessionID() string {
	return v.sessionID
}

// Turns returns the conversation so far.
func (v *View) Turns() []transcript.Turn {
	return v.transcript.Turns()
}

// Documents returns the documents of the last search reply.
func (v *View) Documents() []domain.ScoredDocument {
	return v.list.Results()
}

// Pending reports whether a reply is outstanding.
func (v *View) Pending() bool {
	return v.pending
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// InputFocused returns whether the input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}

// SetInput sets the text being typed.
func (v *View) SetInput(text string) {
	v.input.SetValue(text)
}
