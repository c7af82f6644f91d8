// Package styles holds the chat's colours and lipgloss styles.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/campusnotice/noticeagent/internal/core/domain"
)

// Palette colours. Official notices and dynamic updates get distinct
// hues so the reader can tell which kind of source backs an answer.
const (
	accent = lipgloss.Color("#7C3AED")
	notice = lipgloss.Color("#06B6D4")
	update = lipgloss.Color("#F9E2AF")
	text   = lipgloss.Color("#CDD6F4")
	muted  = lipgloss.Color("#6C7086")
	good   = lipgloss.Color("#A6E3A1")
	bad    = lipgloss.Color("#F38BA8")
	border = lipgloss.Color("#45475A")
	bar    = lipgloss.Color("#181825")
)

// Styles is the set of styles the chat renders with.
type Styles struct {
	Title    lipgloss.Style
	Question lipgloss.Style
	Answer   lipgloss.Style
	Muted    lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Help     lipgloss.Style

	// Boxed panes.
	InputField lipgloss.Style
	Transcript lipgloss.Style
	StatusBar  lipgloss.Style

	noticeSource lipgloss.Style
	updateSource lipgloss.Style
}

func fg(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

func pane() lipgloss.Style {
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1)
}

// DefaultStyles returns the chat's styles.
func DefaultStyles() *Styles {
	return &Styles{
		Title:    fg(accent).Bold(true),
		Question: fg(accent).Bold(true),
		Answer:   fg(text),
		Muted:    fg(muted),
		Error:    fg(bad),
		Success:  fg(good),
		Help:     fg(muted),

		InputField: pane(),
		Transcript: pane(),
		StatusBar:  fg(muted).Background(bar).Padding(0, 1),

		noticeSource: fg(notice),
		updateSource: fg(update),
	}
}

// Source returns the style for a cited origin of the given type.
func (s *Styles) Source(t domain.SourceType) lipgloss.Style {
	if t == domain.SourceTypeDynamicUpdate {
		return s.updateSource
	}
	return s.noticeSource
}
