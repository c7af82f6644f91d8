// Package input provides text input components for the TUI.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/campusnotice/noticeagent/internal/adapters/driving/tui/styles"
)

// maxQuestionLength caps what can be typed into the box.
const maxQuestionLength = 500

// QuestionInput wraps a bubbles textinput for entering questions.
type QuestionInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	width     int
}

// NewQuestionInput creates a focused question input.
func NewQuestionInput(s *styles.Styles) *QuestionInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about fees, exams, holidays..."
	ti.Focus()
	ti.CharLimit = maxQuestionLength
	ti.Width = 50

	return &QuestionInput{
		textinput: ti,
		styles:    s,
		width:     50,
	}
}

// Init starts the cursor blinking.
func (q *QuestionInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (q *QuestionInput) Update(msg tea.Msg) (*QuestionInput, tea.Cmd) {
	var cmd tea.Cmd
	q.textinput, cmd = q.textinput.Update(msg)
	return q, cmd
}

// View renders the input box.
func (q *QuestionInput) View() string {
	return q.styles.InputField.Width(q.width - 2).Render(q.textinput.View())
}

// Value returns the current input value.
func (q *QuestionInput) Value() string {
	return q.textinput.Value()
}

// SetValue sets the input value.
func (q *QuestionInput) SetValue(value string) {
	q.textinput.SetValue(value)
}

// SetWidth sets the width of the box.
func (q *QuestionInput) SetWidth(width int) {
	q.width = max(width, 24)
	// Border, padding and prompt.
	q.textinput.Width = q.width - 8
}

// Height is the number of lines the box occupies.
func (q *QuestionInput) Height() int {
	return 3
}

// Reset clears the input.
func (q *QuestionInput) Reset() {
	q.textinput.Reset()
}
