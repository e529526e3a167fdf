// Package docdetails provides the document details view component for the TUI.
package docdetails

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/archivo/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/archivo/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/archivo/internal/core/domain"
)

// View shows the Dublin Core metadata of one ranked document.
type View struct {
	styles *styles.Styles

	doc          *domain.ScoredDocument
	scrollOffset int
	width        int
	height       int
	ready        bool
}

// NewView creates a new document details view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles: s,
		width:  80,
		height: 24,
	}
}

// SetDocument sets the document to display.
func (v *View) SetDocument(doc domain.ScoredDocument) {
	v.doc = &doc
	v.scrollOffset = 0
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the document details view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.scrollOffset > 0 {
			v.scrollOffset--
		}
	case "down", "j":
		if v.scrollOffset < v.maxScrollOffset() {
			v.scrollOffset++
		}
	case "esc", "q":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewChat}
		}
	}

	return v, nil
}

// visibleLines returns the number of lines that can be displayed.
func (v *View) visibleLines() int {
	// title, separator, help and padding
	return max(v.height-6, 1)
}

func (v *View) maxScrollOffset() int {
	return max(len(v.buildContent())-v.visibleLines(), 0)
}

// buildContent builds the content lines for display.
func (v *View) buildContent() []string {
	if v.doc == nil {
		return nil
	}

	lines := []string{
		v.formatField("Título", v.doc.Title),
		v.formatField("Enlace", v.styles.Link.Render(v.doc.Href)),
		v.formatField("Relevancia", fmt.Sprintf("%.3f (%s)", v.doc.Score, v.doc.MatchType)),
	}
	if len(v.doc.Strategies) > 0 {
		lines = append(lines, v.formatField("Estrategias", strings.Join(v.doc.Strategies, ", ")))
	}

	lines = v.appendList(lines, "Fechas", v.doc.Dates)
	lines = v.appendList(lines, "Temas", v.doc.Subjects)
	lines = v.appendList(lines, "Autores", v.doc.Creators)
	lines = v.appendList(lines, "Cobertura", v.doc.Coverages)
	return lines
}

func (v *View) appendList(lines []string, label string, values []string) []string {
	if len(values) == 0 {
		return lines
	}
	lines = append(lines, "", label+":")
	for _, value := range values {
		lines = append(lines, "  • "+value)
	}
	return lines
}

func (v *View) formatField(label, value string) string {
	return fmt.Sprintf("%-12s %s", label+":", value)
}

// View renders the document details view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Detalle del documento"))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", max(min(v.width-4, 60), 0)))
	b.WriteString("\n\n")

	if v.doc == nil {
		b.WriteString(v.styles.Muted.Render("Ningún documento seleccionado"))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	lines := v.buildContent()
	visible := v.visibleLines()
	for i := v.scrollOffset; i < len(lines) && i < v.scrollOffset+visible; i++ {
		line := lines[i]
		switch {
		case strings.HasPrefix(line, "  "):
			b.WriteString(v.styles.Normal.Render(line))
		case strings.HasSuffix(line, ":"):
			b.WriteString(v.styles.Subtitle.Render(line))
		case strings.Contains(line, ":"):
			label, value, _ := strings.Cut(line, ":")
			b.WriteString(v.styles.Subtitle.Render(label + ":"))
			b.WriteString(v.styles.Normal.Render(value))
		default:
			b.WriteString(v.styles.Normal.Render(line))
		}
		b.WriteString("\n")
	}

	if len(lines) > visible {
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [Línea %d-%d de %d]",
			v.scrollOffset+1, min(v.scrollOffset+visible, len(lines)), len(lines))))
	}

	b.WriteString("\n\n")
	b.WriteString(v.renderHelp())
	return b.String()
}

func (v *View) renderHelp() string {
	return v.styles.Help.Render("[↑/↓] scroll  [esc] back")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Document returns the displayed document.
func (v *View) Document() *domain.ScoredDocument {
	return v.doc
}
