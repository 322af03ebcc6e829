package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/futig/examgenie/internal/builder"
)

func main() {
	env := flag.String("env", "local", "environment, selects the .env.<env> file")
	flag.Parse()

	app, err := builder.BuildMockBackend(*env)
	if err != nil {
		log.Fatal("Failed to build application:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatal("Application error:", err)
	}
}
