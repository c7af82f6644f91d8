package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/campusnotice/noticeagent/internal/core/domain"
	"github.com/campusnotice/noticeagent/internal/logger"
)

var askSources bool

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about campus notices",
	Long: `Answers a question from the indexed notices and updates.
The words after 'ask' form the question, so quoting is optional.`,
	Args:        cobra.MinimumNArgs(1),
	Annotations: coreServices,
	RunE:        runAsk,
}

func init() {
	askCmd.Flags().BoolVarP(&askSources, "sources", "s", false, "list the files the answer was drawn from")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if answerService == nil {
		return errors.New("answer service not configured")
	}

	answer := answerService.Answer(cmd.Context(), strings.Join(args, " "))
	if answer.Err != nil {
		logger.Debug("ask: %s: %v", answer.Outcome, answer.Err)
	}

	cmd.Println(answer.Text)

	if askSources && len(answer.Sources) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		seen := make(map[string]bool, len(answer.Sources))
		for i := range answer.Sources {
			p := &answer.Sources[i]
			if seen[p.Origin] {
				continue
			}
			seen[p.Origin] = true
			cmd.Printf("  [%s] %s\n", p.SourceType.Label(), p.Origin)
		}
	}

	if answer.Outcome == domain.OutcomeError {
		return errAnswerFailed
	}
	return nil
}

// errAnswerFailed gives a non-zero exit status once the failure text has
// been printed.
var errAnswerFailed = errors.New("the question could not be answered")
