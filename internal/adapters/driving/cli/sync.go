package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/campusnotice/noticeagent/internal/core/domain"
	"github.com/campusnotice/noticeagent/internal/core/ports/driving"
)

// progressInterval is how often a running sync reports elapsed time.
var progressInterval = 2 * time.Second

var historyLimit int

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Rebuild the index from the data folder",
	Long: `Reads every PDF (official notice) and TXT/MD file (update) in the data
folder, splits them into passages, embeds them and replaces the index.

The previous index stays in use until the new one is complete. If the
folder has no usable files the previous index is kept.`,
	Args:        cobra.NoArgs,
	Annotations: coreServices,
	RunE:        runSync,
}

var syncHistoryCmd = &cobra.Command{
	Use:         "history",
	Short:       "Show recent syncs",
	Args:        cobra.NoArgs,
	Annotations: coreServices,
	RunE:        runSyncHistory,
}

func init() {
	syncHistoryCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "number of runs to show")
	syncCmd.AddCommand(syncHistoryCmd)
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	if syncOrchestrator == nil {
		return errors.New("sync service not configured")
	}

	cmd.Println("Synchronising data folder...")

	result, err := syncWithProgress(cmd.Context(), cmd, syncOrchestrator)
	if err != nil {
		if errors.Is(err, domain.ErrNoDocumentsFound) {
			cmd.Println("No PDF or text files with content were found. The previous index is unchanged.")
		}
		return fmt.Errorf("sync failed: %w", err)
	}

	cmd.Printf("Indexed %d passages from %d documents (%d official notices, %d updates) in %s.\n",
		result.Passages, result.Documents, result.OfficialNotices, result.DynamicUpdates,
		result.Duration.Round(time.Millisecond))
	if result.Skipped > 0 {
		cmd.Printf("Skipped %d unreadable or empty files. Run with --verbose for details.\n", result.Skipped)
	}
	return nil
}

// syncWithProgress runs sync while reporting elapsed time.
func syncWithProgress(
	ctx context.Context,
	cmd *cobra.Command,
	syncOrch driving.SyncOrchestrator,
) (*domain.SyncResult, error) {
	type outcome struct {
		result *domain.SyncResult
		err    error
	}

	done := make(chan outcome, 1)
	go func() {
		result, err := syncOrch.Sync(ctx, domain.TriggerCLI)
		done <- outcome{result: result, err: err}
	}()

	started := time.Now()
	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()

	reported := false
	for {
		select {
		case out := <-done:
			if reported {
				cmd.Println()
			}
			return out.result, out.err
		case <-ticker.C:
			cmd.Printf("\rIndexing... %s", time.Since(started).Round(time.Second))
			reported = true
		}
	}
}

func runSyncHistory(cmd *cobra.Command, _ []string) error {
	if syncOrchestrator == nil {
		return errors.New("sync service not configured")
	}

	runs, err := syncOrchestrator.History(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("failed to load sync history: %w", err)
	}
	if len(runs) == 0 {
		cmd.Println("No syncs recorded.")
		return nil
	}

	for i := range runs {
		run := &runs[i]
		outcome := fmt.Sprintf("%d passages from %d documents", run.Passages, run.Documents)
		if !run.Success {
			outcome = "failed: " + run.Error
		}
		cmd.Printf("  %s  %-8s  %s\n", run.StartedAt.Local().Format("2006-01-02 15:04:05"), run.Trigger, outcome)
	}
	return nil
}
