package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/futig/examgenie/internal/config"
	"github.com/futig/examgenie/internal/telegram/handlers"
	"github.com/futig/examgenie/internal/telegram/middleware"
	"github.com/futig/examgenie/internal/telegram/render"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Commands lists the commands announced to Telegram
var Commands = []tgbotapi.BotCommand{
	{Command: handlers.CommandStart, Description: "Show the welcome message"},
	{Command: handlers.CommandFiles, Description: "Show the selected files"},
	{Command: handlers.CommandUpload, Description: "Extract text from the selected files"},
	{Command: handlers.CommandPredict, Description: "Predict the exam paper"},
	{Command: handlers.CommandDownload, Description: "Get the predicted paper as PDF"},
	{Command: handlers.CommandExport, Description: "Export the prediction (md, pdf, docx, xlsx)"},
	{Command: handlers.CommandTheme, Description: "Toggle light/dark theme"},
	{Command: handlers.CommandLogin, Description: "Log in: /login <email> <password>"},
	{Command: handlers.CommandLogout, Description: "Log out"},
	{Command: handlers.CommandReset, Description: "Start over"},
	{Command: handlers.CommandHelp, Description: "Show help"},
}

// Bot represents the Telegram bot
type Bot struct {
	api         *tgbotapi.BotAPI
	cfg         *config.TelegramConfig
	handler     *handlers.Handler
	logger      *zap.Logger
	loggingMW   *middleware.LoggingMiddleware
	recoveryMW  *middleware.RecoveryMiddleware
	rateLimitMW *middleware.RateLimiterMiddleware
	updatesChan tgbotapi.UpdatesChannel
	stopChan    chan struct{}
	wg          sync.WaitGroup
}

// New creates a new Telegram bot over an authorized API client
func New(api *tgbotapi.BotAPI, cfg *config.TelegramConfig, handler *handlers.Handler, logger *zap.Logger) *Bot {
	return &Bot{
		api:         api,
		cfg:         cfg,
		handler:     handler,
		logger:      logger,
		loggingMW:   middleware.NewLoggingMiddleware(logger),
		recoveryMW:  middleware.NewRecoveryMiddleware(logger, api),
		rateLimitMW: middleware.NewRateLimiterMiddleware(cfg.RateLimitPerMinute, cfg.RateLimitBurst, logger, api),
		stopChan:    make(chan struct{}),
	}
}

// Start starts the bot
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("starting telegram bot")

	if _, err := b.api.Request(tgbotapi.NewSetMyCommands(Commands...)); err != nil {
		b.logger.Warn("failed to register bot commands", zap.Error(err))
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.UpdateTimeout
	b.updatesChan = b.api.GetUpdatesChan(u)

	ctx = ctxzap.ToContext(ctx, b.logger)
	go b.processUpdates(ctx)

	b.logger.Info("telegram bot started successfully")
	return nil
}

// Stop stops the bot gracefully with timeout
func (b *Bot) Stop() error {
	b.logger.Info("stopping telegram bot")

	close(b.stopChan)
	b.api.StopReceivingUpdates()
	b.rateLimitMW.Close()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	shutdownTimeout := time.Duration(b.cfg.ShutdownTimeout) * time.Second
	select {
	case <-done:
		b.logger.Info("all handlers completed gracefully")
	case <-time.After(shutdownTimeout):
		b.logger.Warn("shutdown timeout exceeded, some handlers may not have completed",
			zap.Duration("timeout", shutdownTimeout),
		)
		return fmt.Errorf("shutdown timeout exceeded")
	}

	b.logger.Info("telegram bot stopped successfully",
		zap.Int("open_sessions", b.handler.Sessions().Active()),
	)
	return nil
}

// processUpdates processes incoming updates
func (b *Bot) processUpdates(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			ctxzap.Info(ctx, "context cancelled, stopping update processing")
			return
		case <-b.stopChan:
			ctxzap.Info(ctx, "stop signal received, stopping update processing")
			return
		case update, ok := <-b.updatesChan:
			if !ok {
				return
			}
			b.wg.Add(1)
			go func(u tgbotapi.Update) {
				defer b.wg.Done()
				b.handleUpdateWithMiddleware(ctx, u)
			}(update)
		}
	}
}

// handleUpdateWithMiddleware processes update through middleware chain
func (b *Bot) handleUpdateWithMiddleware(ctx context.Context, update tgbotapi.Update) {
	b.rateLimitMW.Handle(update, func(u tgbotapi.Update) {
		b.loggingMW.Handle(u, func(u2 tgbotapi.Update) {
			b.recoveryMW.Handle(u2, func(u3 tgbotapi.Update) {
				b.handleUpdate(ctx, u3)
			})
		})
	})
}

// handleUpdate routes update to the handler
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		b.handleCallbackQuery(ctx, update.CallbackQuery)
		return
	}

	message := update.Message
	if message == nil || message.From == nil {
		return
	}

	msg := &handlers.Message{
		ChatID:    message.Chat.ID,
		UserID:    message.From.ID,
		MessageID: message.MessageID,
		Text:      message.Text,
		Document:  message.Document,
		Photo:     message.Photo,
	}
	ctx = ctxzap.ToContext(ctx, b.logger.With(
		zap.Int64("chat_id", msg.ChatID),
		zap.Int64("user_id", msg.UserID),
	))

	var err error
	if message.IsCommand() {
		msg.Command = message.Command()
		msg.CommandArgs = message.CommandArguments()
		err = b.handler.HandleCommand(ctx, msg)
	} else {
		err = b.handler.HandleMessage(ctx, msg)
	}

	if err != nil {
		b.handler.HandleError(ctx, msg.ChatID, err)
	}
}

// handleCallbackQuery handles callback button clicks
func (b *Bot) handleCallbackQuery(ctx context.Context, query *tgbotapi.CallbackQuery) {
	if query.Message == nil {
		b.answerCallback(query.ID, render.ErrInvalidData)
		return
	}

	msg := &handlers.Message{
		ChatID:       query.Message.Chat.ID,
		UserID:       query.From.ID,
		MessageID:    query.Message.MessageID,
		CallbackData: query.Data,
		CallbackID:   query.ID,
	}
	ctx = ctxzap.ToContext(ctx, b.logger.With(
		zap.Int64("chat_id", msg.ChatID),
		zap.Int64("user_id", msg.UserID),
	))

	// Answer right away so Telegram does not treat the query as stale;
	// results and errors arrive as regular chat messages.
	b.answerCallback(query.ID, "")

	if err := b.handler.HandleCallback(ctx, msg); err != nil {
		b.handler.HandleError(ctx, msg.ChatID, err)
	}
}

// answerCallback answers a callback query
func (b *Bot) answerCallback(callbackID string, text string) {
	callback := tgbotapi.NewCallback(callbackID, text)
	if _, err := b.api.Request(callback); err != nil {
		b.logger.Error("failed to answer callback",
			zap.Error(err),
			zap.String("callback_id", callbackID),
		)
	}
}
