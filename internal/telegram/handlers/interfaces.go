package handlers

import (
	"context"
	"io"

	"github.com/futig/examgenie/internal/entity"
	"github.com/futig/examgenie/internal/preferences"
	"github.com/futig/examgenie/internal/workflow"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// API is the part of *tgbotapi.BotAPI the handlers use
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Backend is the Backend Service as seen by the bot
type Backend interface {
	workflow.Backend
	Download(ctx context.Context, ref string, w io.Writer) (int64, error)
	Login(ctx context.Context, email, password string) (*entity.Account, error)
}

// FileFetcher downloads a file a user sent to the bot
type FileFetcher interface {
	Fetch(ctx context.Context, fileID string, maxSize int64) ([]byte, error)
}

// PreferencesFactory returns the preference manager of a Telegram user
type PreferencesFactory func(userID int64) *preferences.Manager
