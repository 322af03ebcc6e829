package telegram

import (
	"context"
	"fmt"

	"github.com/futig/examgenie/internal/config"
	"github.com/futig/examgenie/internal/pkg/validator"
	"github.com/futig/examgenie/internal/telegram/bot"
	"github.com/futig/examgenie/internal/telegram/handlers"
	"github.com/futig/examgenie/internal/telegram/state"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Bot is the main telegram bot interface
type Bot interface {
	Start(ctx context.Context) error
	Stop() error
}

// NewBot initializes the telegram bot with all dependencies
func NewBot(
	cfg *config.TelegramConfig,
	backend handlers.Backend,
	prefs handlers.PreferencesFactory,
	v *validator.SelectionValidator,
	logger *zap.Logger,
) (Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create bot API: %w", err)
	}

	logger.Info("telegram bot authorized",
		zap.String("username", api.Self.UserName),
		zap.Int64("id", api.Self.ID),
	)

	handler := handlers.NewHandler(handlers.Deps{
		API:         api,
		Backend:     backend,
		Fetcher:     bot.NewFileFetcher(api, logger),
		Preferences: prefs,
		Validator:   v,
		Storage:     state.NewCacheStorage(cfg.SessionTTL, cfg.SessionTTL/4),
		MaxFileSize: cfg.MaxFileSize,
		Logger:      logger,
	})

	b := bot.New(api, cfg, handler, logger)

	logger.Info("telegram bot initialized successfully",
		zap.Duration("session_ttl", cfg.SessionTTL),
	)

	return b, nil
}
