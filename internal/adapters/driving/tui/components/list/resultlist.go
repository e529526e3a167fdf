// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/archivo/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/archivo/internal/core/domain"
)

// ResultList displays the documents of the last reply in a navigable list.
type ResultList struct {
	results  []domain.ScoredDocument
	selected int
	focused  bool
	styles   *styles.Styles
	width    int
	height   int
}

// NewResultList creates a new result list component.
func NewResultList(s *styles.Styles) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ResultList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the result list.
func (r *ResultList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *ResultList) Update(msg tea.Msg) (*ResultList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			r.MoveUp()
		case "down", "j":
			r.MoveDown()
		}
	}
	return r, nil
}

// View renders the result list.
func (r *ResultList) View() string {
	if len(r.results) == 0 {
		return r.styles.Muted.Render("Sin documentos")
	}

	lines := make([]string, 0, len(r.results)*2+2)
	header := r.styles.Subtitle.Render(fmt.Sprintf("Documentos (%d)", len(r.results)))
	lines = append(lines, header, "")

	// Each document takes two lines.
	visibleCount := max((r.height-2)/2, 1)

	start := 0
	if r.selected >= visibleCount {
		start = r.selected - visibleCount + 1
	}
	end := min(start+visibleCount, len(r.results))

	for i := start; i < end; i++ {
		lines = append(lines, r.renderResult(i, &r.results[i]))
	}

	return strings.Join(lines, "\n")
}

// renderResult formats one document: title and score, then its match
// type and first date.
func (r *ResultList) renderResult(index int, doc *domain.ScoredDocument) string {
	indicator := "  "
	if index == r.selected && r.focused {
		indicator = "> "
	}

	maxTitleLen := max(r.width-12, 10)
	title := Truncate(doc.Title, maxTitleLen)
	score := fmt.Sprintf("%.2f", doc.Score)

	var titleLine string
	if index == r.selected && r.focused {
		titleLine = r.styles.Selected.Render(fmt.Sprintf("%s%s  %s", indicator, pad(title, maxTitleLen), score))
	} else {
		titleLine = r.styles.Normal.Render(fmt.Sprintf("%s%s  ", indicator, pad(title, maxTitleLen))) +
			r.styles.Score(doc.Score).Render(score)
	}

	var meta []string
	if len(doc.Dates) > 0 {
		meta = append(meta, doc.Dates[0])
	}
	if len(doc.Subjects) > 0 {
		meta = append(meta, doc.Subjects[0])
	}
	metaLine := "    " + r.styles.Match(doc.MatchType).Render(doc.MatchType.String())
	if len(meta) > 0 {
		metaLine += r.styles.Muted.Render(" · " + Truncate(strings.Join(meta, " · "), max(r.width-8-len(doc.MatchType), 12)))
	}

	return titleLine + "\n" + metaLine
}

// Truncate shortens s to at most n runes, ending with an ellipsis when cut.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

func pad(s string, n int) string {
	if gap := n - len([]rune(s)); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

// SetResults updates the result list.
func (r *ResultList) SetResults(results []domain.ScoredDocument) {
	r.results = results
	r.selected = 0
}

// Results returns the current results.
func (r *ResultList) Results() []domain.ScoredDocument {
	return r.results
}

// SetFocused toggles the selection highlight.
func (r *ResultList) SetFocused(focused bool) {
	r.focused = focused
}

// Focused reports whether the list has focus.
func (r *ResultList) Focused() bool {
	return r.focused
}

// Selected returns the index of the selected result.
func (r *ResultList) Selected() int {
	return r.selected
}

// SetSelected sets the selected index.
func (r *ResultList) SetSelected(index int) {
	if index >= 0 && index < len(r.results) {
		r.selected = index
	}
}

// SelectedResult returns the currently selected result, or nil if none.
func (r *ResultList) SelectedResult() *domain.ScoredDocument {
	if len(r.results) == 0 || r.selected < 0 || r.selected >= len(r.results) {
		return nil
	}
	return &r.results[r.selected]
}

// MoveUp moves selection up.
func (r *ResultList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *ResultList) MoveDown() {
	if r.selected < len(r.results)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *ResultList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Width returns the current width.
func (r *ResultList) Width() int {
	return r.width
}

// Height returns the current height.
func (r *ResultList) Height() int {
	return r.height
}

// Count returns the number of results.
func (r *ResultList) Count() int {
	return len(r.results)
}

// IsEmpty returns whether the list is empty.
func (r *ResultList) IsEmpty() bool {
	return len(r.results) == 0
}
