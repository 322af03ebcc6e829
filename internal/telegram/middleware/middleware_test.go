package middleware

import (
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []tgbotapi.MessageConfig
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, m)
	}
	return tgbotapi.Message{}, nil
}

func textUpdate(userID, chatID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{
		Message: &tgbotapi.Message{
			From: &tgbotapi.User{ID: userID},
			Chat: &tgbotapi.Chat{ID: chatID},
			Text: text,
		},
	}
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newLimiter(t *testing.T, rpm, burst int) (*RateLimiterMiddleware, *fakeSender, *clock) {
	t.Helper()

	sender := &fakeSender{}
	c := &clock{t: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
	rl := NewRateLimiterMiddleware(rpm, burst, zap.NewNop(), sender)
	rl.now = c.now
	t.Cleanup(rl.Close)
	return rl, sender, c
}

func TestRateLimiter_BurstThenWarn(t *testing.T) {
	rl, sender, _ := newLimiter(t, 60, 3)

	handled := 0
	for i := 0; i < 5; i++ {
		rl.Handle(textUpdate(1, 100, "hi"), func(tgbotapi.Update) { handled++ })
	}

	assert.Equal(t, 3, handled)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, int64(100), sender.sent[0].ChatID)
	assert.Contains(t, sender.sent[0].Text, "Too many requests")
}

func TestRateLimiter_Refills(t *testing.T) {
	rl, _, c := newLimiter(t, 60, 1)

	handled := 0
	next := func(tgbotapi.Update) { handled++ }

	rl.Handle(textUpdate(1, 100, "a"), next)
	rl.Handle(textUpdate(1, 100, "b"), next)
	assert.Equal(t, 1, handled)

	c.t = c.t.Add(time.Second)
	rl.Handle(textUpdate(1, 100, "c"), next)
	assert.Equal(t, 2, handled)
}

func TestRateLimiter_PerUser(t *testing.T) {
	rl, _, _ := newLimiter(t, 60, 1)

	handled := 0
	next := func(tgbotapi.Update) { handled++ }

	rl.Handle(textUpdate(1, 100, "a"), next)
	rl.Handle(textUpdate(2, 200, "a"), next)
	assert.Equal(t, 2, handled)
}

func TestRateLimiter_EvictsInactive(t *testing.T) {
	rl, _, c := newLimiter(t, 60, 1)

	rl.Handle(textUpdate(1, 100, "a"), func(tgbotapi.Update) {})
	c.t = c.t.Add(2 * inactiveUserThreshold)
	rl.evictInactive()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.Empty(t, rl.limits)
}

func TestRecovery_SendsMessageOnPanic(t *testing.T) {
	sender := &fakeSender{}
	m := NewRecoveryMiddleware(zap.NewNop(), sender)

	assert.NotPanics(t, func() {
		m.Handle(textUpdate(1, 100, "hi"), func(tgbotapi.Update) { panic("boom") })
	})
	require.Len(t, sender.sent, 1)
	assert.Equal(t, recoveryMessage, sender.sent[0].Text)
}

func TestUpdateType(t *testing.T) {
	assert.Equal(t, "text", UpdateType(textUpdate(1, 1, "hi")))
	assert.Equal(t, "callback", UpdateType(tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{From: &tgbotapi.User{ID: 1}}}))
	assert.Equal(t, "other", UpdateType(tgbotapi.Update{}))

	doc := textUpdate(1, 1, "")
	doc.Message.Document = &tgbotapi.Document{FileID: "x"}
	assert.Equal(t, "document", UpdateType(doc))
}
