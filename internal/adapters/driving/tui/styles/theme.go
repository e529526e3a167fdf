// Package styles holds the archive TUI palette and the lipgloss styles
// built from it.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/archivo/internal/core/domain"
)

// Relevance bands used to colour document scores.
const (
	StrongScore = 0.8
	FairScore   = 0.5
)

// Theme is the colour palette. Accents are amber and teal on stone.
type Theme struct {
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Background lipgloss.Color
	Foreground lipgloss.Color
	Muted      lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
	Border     lipgloss.Color

	// User colours the user's turns in the transcript.
	User lipgloss.Color
	// Link colours document URLs.
	Link lipgloss.Color
}

// DefaultTheme returns the stone palette.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    "#B45309",
		Secondary:  "#0E7490",
		Background: "#1C1917",
		Foreground: "#E7E5E4",
		Muted:      "#78716C",
		Success:    "#84CC16",
		Warning:    "#FACC15",
		Error:      "#F87171",
		Border:     "#44403C",
		User:       "#FDBA74",
		Link:       "#67E8F9",
	}
}

// Styles are the rendered styles for one theme.
type Styles struct {
	theme *Theme

	Title      lipgloss.Style
	Subtitle   lipgloss.Style
	Normal     lipgloss.Style
	Muted      lipgloss.Style
	Selected   lipgloss.Style
	Error      lipgloss.Style
	Success    lipgloss.Style
	Warning    lipgloss.Style
	InputField lipgloss.Style
	StatusBar  lipgloss.Style
	Help       lipgloss.Style
	Border     lipgloss.Style

	// UserTurn and BotTurn label the speakers in the transcript.
	UserTurn lipgloss.Style
	BotTurn  lipgloss.Style

	// Link renders document URLs.
	Link lipgloss.Style
}

// NewStyles builds styles from theme. A nil theme means DefaultTheme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}
	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }
	rounded := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)

	return &Styles{
		theme:      theme,
		Title:      fg(theme.Primary).Bold(true),
		Subtitle:   fg(theme.Secondary).Bold(true),
		Normal:     fg(theme.Foreground),
		Muted:      fg(theme.Muted),
		Selected:   fg(theme.Foreground).Background(theme.Primary).Bold(true),
		Error:      fg(theme.Error),
		Success:    fg(theme.Success),
		Warning:    fg(theme.Warning),
		InputField: rounded.Padding(0, 1),
		StatusBar:  fg(theme.Muted).Background(lipgloss.Color("#0C0A09")).Padding(0, 1),
		Help:       fg(theme.Muted),
		Border:     rounded,
		UserTurn:   fg(theme.User).Bold(true),
		BotTurn:    fg(theme.Secondary).Bold(true),
		Link:       fg(theme.Link).Underline(true),
	}
}

// DefaultStyles returns styles for DefaultTheme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the palette the styles were built from.
func (s *Styles) Theme() *Theme {
	return s.theme
}

// Score colours a relevance score by band.
func (s *Styles) Score(score float64) lipgloss.Style {
	switch {
	case score >= StrongScore:
		return s.Success
	case score >= FairScore:
		return s.Warning
	default:
		return s.Muted
	}
}

// Match colours a match type: title matches in the primary accent,
// meaning-based matches in the secondary one.
func (s *Styles) Match(mt domain.MatchType) lipgloss.Style {
	switch mt {
	case domain.MatchExact, domain.MatchContains, domain.MatchReverseContains:
		return s.Title
	case domain.MatchSemantic, domain.MatchHybrid:
		return s.Subtitle
	default:
		return s.Muted
	}
}
