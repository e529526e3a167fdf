package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/archivo/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/archivo/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/archivo/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/archivo/internal/adapters/driving/tui/views/chat"
	"github.com/custodia-labs/archivo/internal/adapters/driving/tui/views/docdetails"
	"github.com/custodia-labs/archivo/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap
	help   help.Model

	chatView       *chat.View
	docDetailsView *docdetails.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// status is what the ranking engine reported at start-up.
	status *domain.SearchStatus

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:          ports,
		ctx:            context.Background(),
		styles:         s,
		keymap:         km,
		help:           help.New(),
		chatView:       chat.NewView(s, km, ports.Chat),
		docDetailsView: docdetails.NewView(s),
		currentView:    messages.ViewChat,
	}, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.chatView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("archivo - Archivo Patrimonial"),
		a.chatView.Init(),
		a.loadStatus(),
	)
}

func (a *App) loadStatus() tea.Cmd {
	if a.ports.Search == nil {
		return nil
	}
	search := a.ports.Search
	return func() tea.Msg {
		return messages.StatusLoaded{Status: search.Status()}
	}
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if keymap.Matches(msg.String(), a.keymap.Quit) {
			return a, tea.Quit
		}
		return a, a.routeKey(msg)

	case messages.DocumentSelected:
		a.docDetailsView.SetDocument(msg.Document)
		a.currentView = messages.ViewDocDetails
		return a, nil

	case messages.ViewChanged:
		a.currentView = msg.View
		return a, nil

	case messages.StatusLoaded:
		status := msg.Status
		a.status = &status
		return a, nil

	case messages.ChatCompleted, messages.SessionReset, messages.ErrorOccurred:
		a.chatView, cmd = a.chatView.Update(msg)
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	// Blink and mouse events go to the active view.
	switch a.currentView {
	case messages.ViewChat:
		a.chatView, cmd = a.chatView.Update(msg)
	case messages.ViewDocDetails:
		a.docDetailsView, cmd = a.docDetailsView.Update(msg)
	case messages.ViewHelp:
	}
	return a, cmd
}

func (a *App) routeKey(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewChat:
		a.chatView, cmd = a.chatView.Update(msg)
	case messages.ViewDocDetails:
		a.docDetailsView, cmd = a.docDetailsView.Update(msg)
	case messages.ViewHelp:
		keyStr := msg.String()
		if keymap.Matches(keyStr, a.keymap.Back) || keymap.Matches(keyStr, a.keymap.Help) {
			a.currentView = messages.ViewChat
		}
	}
	return cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewDocDetails:
		return a.docDetailsView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.chatView.View()
	}
}

// viewHelp renders the keybindings and the loaded corpus.
func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Ayuda"))
	b.WriteString("\n\n")
	b.WriteString(a.help.FullHelpView(a.keymap.FullHelp()))
	b.WriteString("\n\n")

	if a.status != nil {
		b.WriteString(a.styles.Subtitle.Render("Corpus"))
		b.WriteString("\n")
		b.WriteString(a.styles.Normal.Render(fmt.Sprintf(
			"  %d documentos, %d embeddings, índice TF-IDF: %s, búsqueda semántica: %s",
			a.status.Documents, a.status.Embeddings, yesNo(a.status.Index), yesNo(a.status.Semantic))))
		b.WriteString("\n")
		if len(a.status.Strategies) > 0 {
			b.WriteString(a.styles.Muted.Render("  Estrategias: " + strings.Join(a.status.Strategies, ", ")))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(a.styles.Help.Render("[esc] back"))
	return b.String()
}

func yesNo(v bool) string {
	if v {
		return "sí"
	}
	return "no"
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Status returns the loaded corpus status, nil before it arrives.
func (a *App) Status() *domain.SearchStatus {
	return a.status
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on the app and its views.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.help.Width = width
	a.chatView.SetDimensions(width, height)
	a.docDetailsView.SetDimensions(width, height)
}
