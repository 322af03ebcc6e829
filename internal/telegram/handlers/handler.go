package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/futig/examgenie/internal/entity"
	"github.com/futig/examgenie/internal/pkg/validator"
	"github.com/futig/examgenie/internal/telegram/keyboard"
	"github.com/futig/examgenie/internal/telegram/render"
	"github.com/futig/examgenie/internal/telegram/state"
	"github.com/futig/examgenie/internal/workflow"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Message represents a normalized Telegram message
type Message struct {
	ChatID       int64
	UserID       int64
	MessageID    int
	Text         string
	Command      string
	CommandArgs  string
	Document     *tgbotapi.Document
	Photo        []tgbotapi.PhotoSize
	CallbackData string
	CallbackID   string
}

// Deps groups the collaborators of a Handler
type Deps struct {
	API         API
	Backend     Backend
	Fetcher     FileFetcher
	Preferences PreferencesFactory
	Validator   *validator.SelectionValidator
	Storage     state.Storage
	MaxFileSize int64
	Logger      *zap.Logger
}

// Handler routes commands, button presses and documents to the chat's workflow controller
type Handler struct {
	api         API
	backend     Backend
	fetcher     FileFetcher
	prefs       PreferencesFactory
	sessions    *state.Manager
	keyboard    *keyboard.Builder
	sender      *MessageSender
	maxFileSize int64
	logger      *zap.Logger
}

func NewHandler(d Deps) *Handler {
	h := &Handler{
		api:         d.API,
		backend:     d.Backend,
		fetcher:     d.Fetcher,
		prefs:       d.Preferences,
		keyboard:    keyboard.NewBuilder(),
		sender:      NewMessageSender(d.API, d.Logger),
		maxFileSize: d.MaxFileSize,
		logger:      d.Logger,
	}

	h.sessions = state.NewManager(d.Storage, func(chatID int64) *workflow.Controller {
		renderer := NewChatRenderer(chatID, h.api, h.sender, h.keyboard, h.backend)
		return workflow.NewController(h.backend, renderer, d.Validator)
	})

	return h
}

// Sessions exposes the per-chat controllers
func (h *Handler) Sessions() *state.Manager {
	return h.sessions
}

// HandleMessage processes a non-command message
func (h *Handler) HandleMessage(ctx context.Context, msg *Message) error {
	switch {
	case msg.Document != nil:
		return h.handleDocument(ctx, msg)
	case len(msg.Photo) > 0:
		return h.handlePhoto(ctx, msg)
	default:
		return h.sender.Send(msg.ChatID, render.MsgUnsupportedMsg, nil)
	}
}

// workflowDone logs the outcome of a controller call. The controller already
// rendered a notice for every error it returns.
func (h *Handler) workflowDone(ctx context.Context, step string, err error) {
	if err == nil {
		return
	}

	if errors.Is(err, entity.ErrBusy) {
		ctxzap.Debug(ctx, "step already running", zap.String("step", step))
		return
	}
	ctxzap.Info(ctx, "workflow step failed", zap.String("step", step), zap.Error(err))
}

func errorText(err error) string {
	var appErr *entity.ApplicationError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return strings.TrimSpace(err.Error())
}
