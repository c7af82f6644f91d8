package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/campusnotice/noticeagent/internal/adapters/driving/tui"
)

// isTerminal is replaced in tests.
var isTerminal = term.IsTerminal

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open the interactive chat",
	Long: `Open a full-screen chat with the notice assistant.

Keys: Enter sends, Ctrl+S syncs, Ctrl+L clears, PgUp/PgDn scroll,
F1 toggles help, Esc or Ctrl+C quits.`,
	Args:        cobra.NoArgs,
	Annotations: coreServices,
	RunE:        runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	if !isTerminal(int(os.Stdout.Fd())) {
		return errors.New("chat needs an interactive terminal; use 'noticeagent ask' instead")
	}
	if answerService == nil {
		return errors.New("answer service not configured")
	}

	app, err := tui.NewApp(&tui.Ports{
		Answer: answerService,
		Sync:   syncOrchestrator,
		Status: statusService,
	})
	if err != nil {
		return err
	}

	stop := startScheduler(cmd.Context())
	defer stop()

	return app.Run()
}
