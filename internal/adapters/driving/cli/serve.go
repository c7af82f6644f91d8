package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/campusnotice/noticeagent/internal/adapters/driving/httpapi"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API for web front ends:

  POST /chat    {"question": "..."} -> {"answer": "..."}
  POST /sync    rebuild the index (GET is accepted too)
  GET  /status  engine and index information

Scheduled and watch-triggered syncs run alongside the server when enabled
in settings.`,
	Args:        cobra.NoArgs,
	Annotations: coreServices,
	RunE:        runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from settings, e.g. :8000)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if answerService == nil {
		return errors.New("answer service not configured")
	}

	addr := serveAddr
	if addr == "" {
		addr = serverSettings.Addr
	}

	server, err := httpapi.NewServer(&httpapi.Ports{
		Answer: answerService,
		Sync:   syncOrchestrator,
		Status: statusService,
	}, httpapi.Config{
		Addr:        addr,
		CORSOrigins: serverSettings.CORSOrigins,
		Engine:      engineName,
	})
	if err != nil {
		return err
	}

	stop := startScheduler(cmd.Context())
	defer stop()

	cmd.Printf("Serving on %s (engine: %s). Press Ctrl+C to stop.\n", addr, engineName)
	return server.Run(cmd.Context())
}
