// Command seedsong turns seed strings into reproducible compositions.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/roach88/seedsong/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.NewRootCommand().ExecuteContext(ctx)
	stop()

	cli.ReportError(os.Stderr, err)
	os.Exit(cli.GetExitCode(err))
}
