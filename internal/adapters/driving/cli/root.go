// Package cli provides the noticeagent command-line interface.
//
// Commands read their services from package-level variables. A bootstrap
// hook installed by main builds those services before a command runs, so
// that settings commands work without reaching the embedding provider.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/campusnotice/noticeagent/internal/core/domain"
	"github.com/campusnotice/noticeagent/internal/core/ports/driving"
	"github.com/campusnotice/noticeagent/internal/logger"
)

// Command annotations select how much of the service graph is built.
const (
	annotationServices = "services"
	servicesNone       = "none"
	servicesCore       = "core"
)

var coreServices = map[string]string{annotationServices: servicesCore}

// Services is the service graph made available to commands.
type Services struct {
	Sync            driving.SyncOrchestrator
	Answer          driving.AnswerService
	Status          driving.StatusService
	Settings        driving.SettingsService
	Scheduler       driving.Scheduler
	SchedulerConfig domain.SchedulerConfig
	Server          domain.ServerSettings

	// Engine describes the completion service, e.g. "Groq (llama-3.3-70b-versatile)".
	Engine string

	// Close releases stores and locks. May be nil.
	Close func() error
}

// BootstrapOptions tells the bootstrap what a command needs.
type BootstrapOptions struct {
	// ConfigDir overrides the configuration directory.
	ConfigDir string

	// Core requests the full service graph. Without it only settings
	// are available.
	Core bool
}

// BootstrapFunc builds the services for a command.
type BootstrapFunc func(ctx context.Context, opts BootstrapOptions) (*Services, error)

var (
	version = "dev"

	verbose   bool
	configDir string

	bootstrap     BootstrapFunc
	closeServices func() error

	syncOrchestrator driving.SyncOrchestrator
	answerService    driving.AnswerService
	statusService    driving.StatusService
	settingsService  driving.SettingsService
	scheduler        driving.Scheduler
	schedulerConfig  domain.SchedulerConfig
	serverSettings   domain.ServerSettings
	engineName       string
)

var rootCmd = &cobra.Command{
	Use:   "noticeagent",
	Short: "Answer questions about campus notices",
	Long: `noticeagent indexes official notices (PDF) and informal updates (TXT/MD)
from a data folder and answers questions about them. When an update
contradicts a notice, the update wins.

Run 'noticeagent sync' after changing the data folder, then ask away with
'noticeagent ask', 'noticeagent chat' or the HTTP API from 'noticeagent serve'.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "",
		"configuration directory (default ~/.noticeagent)")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetBootstrap installs the hook that builds services before each command.
func SetBootstrap(fn BootstrapFunc) {
	bootstrap = fn
}

// SetServices installs services for the commands.
func SetServices(s *Services) {
	syncOrchestrator = s.Sync
	answerService = s.Answer
	statusService = s.Status
	settingsService = s.Settings
	scheduler = s.Scheduler
	schedulerConfig = s.SchedulerConfig
	serverSettings = s.Server
	engineName = s.Engine
	closeServices = s.Close
}

// Execute runs the root command and releases services afterwards.
func Execute(ctx context.Context) error {
	defer release()
	return rootCmd.ExecuteContext(ctx)
}

// setup configures logging and builds the services the command needs.
func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	need := cmd.Annotations[annotationServices]
	if bootstrap == nil || need == servicesNone {
		return nil
	}

	services, err := bootstrap(cmd.Context(), BootstrapOptions{
		ConfigDir: configDir,
		Core:      need == servicesCore,
	})
	if err != nil {
		return err
	}
	SetServices(services)
	return nil
}

func release() {
	if closeServices == nil {
		return
	}
	if err := closeServices(); err != nil {
		logger.Warn("closing services: %v", err)
	}
	closeServices = nil
}
