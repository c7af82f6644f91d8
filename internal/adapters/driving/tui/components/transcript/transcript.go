// Package transcript provides the scrolling conversation pane.
package transcript

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/campusnotice/noticeagent/internal/adapters/driving/tui/styles"
	"github.com/campusnotice/noticeagent/internal/core/domain"
)

// Kind identifies a transcript entry.
type Kind int

const (
	// KindQuestion is a question typed by the user.
	KindQuestion Kind = iota
	// KindAnswer is a reply from the answer service.
	KindAnswer
	// KindNotice is a system message such as a sync result.
	KindNotice
	// KindError is a failed operation.
	KindError
)

// Source is a passage origin cited by an answer.
type Source struct {
	Origin     string
	SourceType domain.SourceType
}

// Entry is one item in the conversation.
type Entry struct {
	Kind    Kind
	Text    string
	Sources []Source
}

// Transcript renders entries inside a viewport.
type Transcript struct {
	viewport viewport.Model
	styles   *styles.Styles
	entries  []Entry
}

// New creates an empty transcript.
func New(s *styles.Styles) *Transcript {
	if s == nil {
		s = styles.DefaultStyles()
	}
	t := &Transcript{
		viewport: viewport.New(80, 20),
		styles:   s,
	}
	t.refresh()
	return t
}

// Add appends an entry and scrolls to it.
func (t *Transcript) Add(e Entry) {
	t.entries = append(t.entries, e)
	t.refresh()
	t.viewport.GotoBottom()
}

// AddAnswer appends a reply with its distinct cited origins.
func (t *Transcript) AddAnswer(a domain.Answer) {
	kind := KindAnswer
	if a.Outcome == domain.OutcomeError {
		kind = KindError
	}
	t.Add(Entry{Kind: kind, Text: a.Text, Sources: distinctSources(a.Sources)})
}

// Clear removes all entries.
func (t *Transcript) Clear() {
	t.entries = nil
	t.refresh()
}

// Entries returns the current entries.
func (t *Transcript) Entries() []Entry {
	return t.entries
}

// SetSize resizes the pane. The frame is drawn outside these bounds.
func (t *Transcript) SetSize(width, height int) {
	frameW, frameH := t.styles.Transcript.GetFrameSize()
	t.viewport.Width = max(width-frameW, 20)
	t.viewport.Height = max(height-frameH, 3)
	t.refresh()
}

// Update forwards scrolling keys and mouse events to the viewport.
func (t *Transcript) Update(msg tea.Msg) (*Transcript, tea.Cmd) {
	var cmd tea.Cmd
	t.viewport, cmd = t.viewport.Update(msg)
	return t, cmd
}

// View renders the pane.
func (t *Transcript) View() string {
	return t.styles.Transcript.Render(t.viewport.View())
}

func (t *Transcript) refresh() {
	if len(t.entries) == 0 {
		t.viewport.SetContent(t.styles.Muted.Render(
			"Ask a question about campus notices. Press ctrl+s to re-index the data folder."))
		return
	}

	width := t.viewport.Width
	blocks := make([]string, 0, len(t.entries))
	for _, e := range t.entries {
		blocks = append(blocks, t.render(e, width))
	}
	t.viewport.SetContent(strings.Join(blocks, "\n\n"))
}

func (t *Transcript) render(e Entry, width int) string {
	switch e.Kind {
	case KindQuestion:
		return t.styles.Question.Width(width).Render("You: " + e.Text)
	case KindNotice:
		return t.styles.Success.Width(width).Render(e.Text)
	case KindError:
		return t.styles.Error.Width(width).Render(e.Text)
	case KindAnswer:
	}

	var b strings.Builder
	b.WriteString(t.styles.Answer.Width(width).Render(e.Text))
	for _, src := range e.Sources {
		b.WriteString("\n")
		b.WriteString(t.styles.Source(src.SourceType).Render("  · " + src.Origin))
	}
	return b.String()
}

func distinctSources(passages []domain.Passage) []Source {
	seen := make(map[string]bool, len(passages))
	var out []Source
	for i := range passages {
		origin := passages[i].Origin
		if origin == "" || seen[origin] {
			continue
		}
		seen[origin] = true
		out = append(out, Source{Origin: origin, SourceType: passages[i].SourceType})
	}
	return out
}
