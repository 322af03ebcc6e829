package handlers

import (
	"context"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	progressInterval     = 15 * time.Second
	typingActionInterval = 4 * time.Second // Telegram typing expires after 5s
)

// ProgressNotifier shows that a phase is busy: a first message, then typing
// indicators and periodic reminders until Stop.
type ProgressNotifier struct {
	bot      API
	chatID   int64
	done     chan struct{}
	messages []string
	index    int
	stopOnce sync.Once
}

// NewProgressNotifier creates a new progress notifier
func NewProgressNotifier(bot API, chatID int64) *ProgressNotifier {
	return &ProgressNotifier{
		bot:    bot,
		chatID: chatID,
		done:   make(chan struct{}),
		messages: []string{
			"⏳ Still working...",
			"⏳ This takes a little longer...",
			"⏳ Almost there...",
		},
	}
}

// Start sends text right away and keeps the chat informed in the background
func (pn *ProgressNotifier) Start(ctx context.Context, text string) {
	pn.sendTypingAction()
	if text != "" {
		_, _ = pn.bot.Send(tgbotapi.NewMessage(pn.chatID, text))
	}

	go func() {
		progress := time.NewTicker(progressInterval)
		typing := time.NewTicker(typingActionInterval)
		defer progress.Stop()
		defer typing.Stop()

		for {
			select {
			case <-progress.C:
				message := pn.messages[pn.index%len(pn.messages)]
				pn.index++
				_, _ = pn.bot.Send(tgbotapi.NewMessage(pn.chatID, message))

			case <-typing.C:
				pn.sendTypingAction()

			case <-pn.done:
				return

			case <-ctx.Done():
				return
			}
		}
	}()
}

// sendTypingAction sends a "typing" action to show user the bot is working
func (pn *ProgressNotifier) sendTypingAction() {
	_, _ = pn.bot.Request(tgbotapi.NewChatAction(pn.chatID, tgbotapi.ChatTyping))
}

// Stop stops sending progress messages and typing indicators
func (pn *ProgressNotifier) Stop() {
	pn.stopOnce.Do(func() {
		close(pn.done)
	})
}
