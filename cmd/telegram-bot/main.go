package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/futig/examgenie/internal/builder"
	"go.uber.org/zap"
)

func main() {
	env := flag.String("env", "local", "environment, selects the .env.<env> file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bot, logger, cleanup, err := builder.BuildTelegramBot(ctx, *env)
	if err != nil {
		log.Fatal("Failed to build telegram bot:", err)
	}
	defer func() {
		cleanup()
		_ = logger.Sync()
	}()

	if err := bot.Start(ctx); err != nil {
		logger.Error("telegram bot failed to start", zap.Error(err))
		return
	}

	<-ctx.Done()
	logger.Info("shutdown signal received, draining updates")

	if err := bot.Stop(); err != nil {
		logger.Error("error stopping bot", zap.Error(err))
		return
	}
	logger.Info("telegram bot stopped")
}
