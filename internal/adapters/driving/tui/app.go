package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/campusnotice/noticeagent/internal/adapters/driving/tui/components/input"
	"github.com/campusnotice/noticeagent/internal/adapters/driving/tui/components/status"
	"github.com/campusnotice/noticeagent/internal/adapters/driving/tui/components/transcript"
	"github.com/campusnotice/noticeagent/internal/adapters/driving/tui/keymap"
	"github.com/campusnotice/noticeagent/internal/adapters/driving/tui/messages"
	"github.com/campusnotice/noticeagent/internal/adapters/driving/tui/styles"
	"github.com/campusnotice/noticeagent/internal/core/domain"
)

// App is the chat application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles     *styles.Styles
	keymap     *keymap.KeyMap
	input      *input.QuestionInput
	transcript *transcript.Transcript
	statusBar  *status.Bar

	// pending is set while a question is being answered.
	pending bool

	// syncing is set while a sync started here is running.
	syncing bool

	showHelp bool

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has received its first size.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new chat application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:      ports,
		ctx:        context.Background(),
		styles:     s,
		keymap:     km,
		input:      input.NewQuestionInput(s),
		transcript: transcript.New(s),
		statusBar:  status.NewBar(s, km),
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("noticeagent"),
		a.input.Init(),
		a.loadStatus(),
	)
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		a.transcript, cmd = a.transcript.Update(msg)
		return a, cmd

	case messages.AnswerReceived:
		a.pending = false
		a.transcript.AddAnswer(msg.Answer)
		if msg.Answer.Outcome == domain.OutcomeError {
			a.statusBar.SetState(status.StateError)
			a.statusBar.SetMessage("completion service failed")
		} else {
			a.statusBar.SetState(status.StateReady)
		}
		return a, nil

	case messages.SyncCompleted:
		a.syncing = false
		if msg.Err != nil {
			a.transcript.Add(transcript.Entry{Kind: transcript.KindError, Text: syncFailureText(msg.Err)})
			a.statusBar.SetState(status.StateError)
			a.statusBar.SetMessage("sync failed")
			return a, nil
		}
		a.transcript.Add(transcript.Entry{
			Kind: transcript.KindNotice,
			Text: fmt.Sprintf("Re-indexed %d passages from %d notices and %d updates.",
				msg.Result.Passages, msg.Result.OfficialNotices, msg.Result.DynamicUpdates),
		})
		a.statusBar.SetState(status.StateReady)
		return a, a.loadStatus()

	case messages.StatusLoaded:
		if msg.Err == nil && msg.Status != nil {
			a.statusBar.SetIndex(msg.Status.Engine, msg.Status.Index.Entries)
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch {
	case keymap.Matches(key, a.keymap.Quit):
		return a, tea.Quit

	case keymap.Matches(key, a.keymap.Help):
		a.showHelp = !a.showHelp
		a.layout()
		return a, nil

	case keymap.Matches(key, a.keymap.Send):
		return a, a.submit()

	case keymap.Matches(key, a.keymap.Sync):
		return a, a.startSync()

	case keymap.Matches(key, a.keymap.Clear):
		a.transcript.Clear()
		return a, nil

	case keymap.Matches(key, a.keymap.ScrollUp), keymap.Matches(key, a.keymap.ScrollDown):
		var cmd tea.Cmd
		a.transcript, cmd = a.transcript.Update(msg)
		return a, cmd
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// submit sends the typed question. Only one question is in flight at a time.
func (a *App) submit() tea.Cmd {
	question := strings.TrimSpace(a.input.Value())
	if question == "" || a.pending {
		return nil
	}

	a.pending = true
	a.input.Reset()
	a.transcript.Add(transcript.Entry{Kind: transcript.KindQuestion, Text: question})
	a.statusBar.SetState(status.StateThinking)

	ctx := a.ctx
	answers := a.ports.Answer
	return func() tea.Msg {
		return messages.AnswerReceived{Question: question, Answer: answers.Answer(ctx, question)}
	}
}

func (a *App) startSync() tea.Cmd {
	if a.ports.Sync == nil || a.syncing {
		return nil
	}

	a.syncing = true
	a.statusBar.SetState(status.StateSyncing)

	ctx := a.ctx
	orch := a.ports.Sync
	return func() tea.Msg {
		result, err := orch.Sync(ctx, domain.TriggerCLI)
		return messages.SyncCompleted{Result: result, Err: err}
	}
}

func (a *App) loadStatus() tea.Cmd {
	if a.ports.Status == nil {
		return nil
	}

	ctx := a.ctx
	svc := a.ports.Status
	return func() tea.Msg {
		st, err := svc.Status(ctx)
		return messages.StatusLoaded{Status: st, Err: err}
	}
}

func syncFailureText(err error) string {
	switch {
	case errors.Is(err, domain.ErrNoDocumentsFound):
		return "Sync failed: the data folder has no PDF or text files. The previous index is still in use."
	case errors.Is(err, domain.ErrSyncInProgress):
		return "A sync is already running."
	default:
		return "Sync failed: " + err.Error()
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	sections := []string{
		a.styles.Title.Render("Campus Notice Agent"),
		a.transcript.View(),
		a.input.View(),
	}
	if a.showHelp {
		sections = append(sections, a.renderHelp())
	}
	sections = append(sections, a.statusBar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (a *App) renderHelp() string {
	var lines []string
	for _, group := range a.keymap.FullHelp() {
		hints := make([]string, 0, len(group))
		for _, b := range group {
			h := b.Help()
			hints = append(hints, fmt.Sprintf("%-8s %s", h.Key, h.Desc))
		}
		lines = append(lines, strings.Join(hints, "   "))
	}
	return a.styles.Help.Render(strings.Join(lines, "\n"))
}

// helpHeight is the number of lines the help panel occupies.
func (a *App) helpHeight() int {
	if !a.showHelp {
		return 0
	}
	return len(a.keymap.FullHelp())
}

// layout sizes the components to the terminal.
func (a *App) layout() {
	const titleHeight, statusHeight = 1, 1
	a.input.SetWidth(a.width)
	a.statusBar.SetWidth(a.width)
	a.transcript.SetSize(a.width, a.height-titleHeight-statusHeight-a.input.Height()-a.helpHeight())
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.layout()
}

// Pending reports whether a question is awaiting its answer.
func (a *App) Pending() bool {
	return a.pending
}

// Syncing reports whether a sync started from the chat is running.
func (a *App) Syncing() bool {
	return a.syncing
}

// Transcript returns the conversation entries.
func (a *App) Transcript() []transcript.Entry {
	return a.transcript.Entries()
}

// StatusState returns the status bar state.
func (a *App) StatusState() status.State {
	return a.statusBar.State()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
