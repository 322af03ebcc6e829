package handlers

import (
	"context"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// TypingNotifier sends periodic chat actions while a short task runs
type TypingNotifier struct {
	bot      API
	chatID   int64
	action   string
	done     chan struct{}
	logger   *zap.Logger
	stopOnce sync.Once
}

// NewTypingNotifier creates a new indicator; action is one of the tgbotapi.Chat* constants
func NewTypingNotifier(bot API, chatID int64, action string, logger *zap.Logger) *TypingNotifier {
	return &TypingNotifier{
		bot:    bot,
		chatID: chatID,
		action: action,
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Start begins sending the action every 4 seconds
// Telegram chat actions expire after 5 seconds, so we send every 4 seconds
func (t *TypingNotifier) Start(ctx context.Context) {
	t.send()

	go func() {
		ticker := time.NewTicker(typingActionInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				t.send()
			case <-t.done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (t *TypingNotifier) send() {
	if _, err := t.bot.Request(tgbotapi.NewChatAction(t.chatID, t.action)); err != nil {
		t.logger.Warn("failed to send chat action",
			zap.Error(err),
			zap.String("action", t.action),
			zap.Int64("chat_id", t.chatID),
		)
	}
}

// Stop stops sending chat actions
func (t *TypingNotifier) Stop() {
	t.stopOnce.Do(func() {
		close(t.done)
	})
}
