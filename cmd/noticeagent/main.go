// Command noticeagent answers questions about campus notices.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/campusnotice/noticeagent/internal/adapters/driving/cli"
	"github.com/campusnotice/noticeagent/internal/app"
	"github.com/campusnotice/noticeagent/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cli.SetVersion(version)
	cli.SetBootstrap(app.Bootstrap)

	err := cli.Execute(ctx)
	stop()
	_ = logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}
