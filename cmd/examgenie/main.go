package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/futig/examgenie/internal/builder"
	"github.com/futig/examgenie/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx, builder.BuildCLI, os.Args[1:])
	stop()
	os.Exit(code)
}
