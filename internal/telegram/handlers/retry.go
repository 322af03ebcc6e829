package handlers

import (
	"context"
	"errors"
	"time"

	pkgRetry "github.com/futig/examgenie/internal/pkg/retry"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

var criticalRetry = &pkgRetry.RetryConfig{
	Attempts: 3,
	Delay:    500 * time.Millisecond,
	MaxDelay: 2 * time.Second,
}

// sendCritical sends a message that must be delivered (documents, results), retrying failed sends
func sendCritical(ctx context.Context, bot API, c tgbotapi.Chattable) error {
	attempt := 0
	err := pkgRetry.Do(ctx, criticalRetry, isRetryableSend, func() error {
		attempt++
		_, err := bot.Send(c)
		if err != nil {
			ctxzap.Warn(ctx, "failed to send message, retrying",
				zap.Error(err),
				zap.Int("attempt", attempt),
			)
		}
		return err
	})
	if err != nil {
		ctxzap.Error(ctx, "failed to send message after all retries",
			zap.Error(err),
			zap.Int("attempts", attempt),
		)
		return err
	}

	if attempt > 1 {
		ctxzap.Info(ctx, "message sent after retry", zap.Int("attempt", attempt))
	}
	return nil
}

// Telegram answers bad requests (4xx) with an *tgbotapi.Error; resending those cannot succeed.
func isRetryableSend(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == 429 || apiErr.Code >= 500
	}
	return true
}
