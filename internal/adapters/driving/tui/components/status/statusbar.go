// Package status provides the status bar component for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/campusnotice/noticeagent/internal/adapters/driving/tui/keymap"
	"github.com/campusnotice/noticeagent/internal/adapters/driving/tui/styles"
)

// State represents what the chat is doing.
type State string

const (
	StateReady    State = "ready"
	StateThinking State = "thinking"
	StateSyncing  State = "syncing"
	StateError    State = "error"
)

// Bar displays the chat state, index size and keybinding hints.
type Bar struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	state    State
	message  string
	engine   string
	passages int
	width    int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateReady,
		width:  80,
	}
}

// View renders the status bar.
func (b *Bar) View() string {
	left := b.renderLeft()
	right := b.renderRight()

	padding := b.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if padding < 1 {
		padding = 1
	}

	return b.styles.StatusBar.Width(b.width).Render(left + strings.Repeat(" ", padding) + right)
}

func (b *Bar) renderLeft() string {
	switch b.state {
	case StateThinking:
		return b.styles.Muted.Render("Thinking...")
	case StateSyncing:
		return b.styles.Muted.Render("Syncing data folder...")
	case StateError:
		if b.message != "" {
			return b.styles.Error.Render("Error: " + b.message)
		}
		return b.styles.Error.Render("Error")
	case StateReady:
	}

	parts := make([]string, 0, 2)
	if b.engine != "" {
		parts = append(parts, b.engine)
	}
	if b.passages > 0 {
		parts = append(parts, fmt.Sprintf("%d passages indexed", b.passages))
	} else {
		parts = append(parts, "not indexed")
	}
	return b.styles.Muted.Render(strings.Join(parts, " · "))
}

func (b *Bar) renderRight() string {
	bindings := b.keymap.ShortHelp()
	hints := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		h := binding.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return b.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (b *Bar) SetState(state State) {
	b.state = state
}

// State returns the current state.
func (b *Bar) State() State {
	return b.state
}

// SetMessage sets the error message shown in StateError.
func (b *Bar) SetMessage(message string) {
	b.message = message
}

// SetIndex records the engine description and index size.
func (b *Bar) SetIndex(engine string, passages int) {
	b.engine = engine
	b.passages = passages
}

// Passages returns the recorded index size.
func (b *Bar) Passages() int {
	return b.passages
}

// SetWidth sets the status bar width.
func (b *Bar) SetWidth(width int) {
	b.width = width
}
