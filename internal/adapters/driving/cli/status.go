package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:         "status",
	Short:       "Show engine, index and sync status",
	Args:        cobra.NoArgs,
	Annotations: coreServices,
	RunE:        runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output status as JSON")
	rootCmd.AddCommand(statusCmd)
}

// statusOutput is the JSON form of the status command.
type statusOutput struct {
	Status         string `json:"status"`
	Engine         string `json:"engine"`
	EmbeddingModel string `json:"embedding_model"`
	Backend        string `json:"backend"`
	Indexed        bool   `json:"indexed"`
	Passages       int    `json:"passages"`
	Dimensions     int    `json:"dimensions"`
	SyncRunning    bool   `json:"sync_running"`
	LastSync       string `json:"last_sync,omitempty"`
	LastError      string `json:"last_error,omitempty"`
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if statusService == nil {
		return errors.New("status service not configured")
	}

	status, err := statusService.Status(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get status: %w", err)
	}

	out := statusOutput{
		Status:         "online",
		Engine:         status.Engine,
		EmbeddingModel: status.EmbeddingModel,
		Backend:        status.Index.Backend,
		Indexed:        status.Indexed(),
		Passages:       status.Index.Entries,
		Dimensions:     status.Index.Dimensions,
		SyncRunning:    status.Sync.Running,
		LastError:      status.Sync.LastError,
	}
	if !status.Sync.LastSync.IsZero() {
		out.LastSync = status.Sync.LastSync.Format(time.RFC3339)
	}

	if statusJSON {
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal status: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	cmd.Printf("Engine:     %s\n", out.Engine)
	cmd.Printf("Embeddings: %s\n", out.EmbeddingModel)
	if out.Indexed {
		cmd.Printf("Index:      %d passages (%s, %d dimensions)\n", out.Passages, out.Backend, out.Dimensions)
	} else {
		cmd.Printf("Index:      empty (%s). Run 'noticeagent sync'.\n", out.Backend)
	}
	switch {
	case out.SyncRunning:
		cmd.Println("Sync:       running")
	case out.LastSync != "":
		cmd.Printf("Sync:       last completed %s\n", status.Sync.LastSync.Local().Format("2006-01-02 15:04:05"))
	default:
		cmd.Println("Sync:       never run in this process")
	}
	if out.LastError != "" {
		cmd.Printf("Last error: %s\n", out.LastError)
	}
	return nil
}
