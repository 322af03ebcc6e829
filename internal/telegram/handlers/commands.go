package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/futig/examgenie/internal/pkg/formatter"
	"github.com/futig/examgenie/internal/telegram/render"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Bot commands
const (
	CommandStart    = "start"
	CommandHelp     = "help"
	CommandFiles    = "files"
	CommandUpload   = "upload"
	CommandPredict  = "predict"
	CommandDownload = "download"
	CommandExport   = "export"
	CommandTheme    = "theme"
	CommandLogin    = "login"
	CommandLogout   = "logout"
	CommandReset    = "reset"
)

// HandleCommand processes a bot command
func (h *Handler) HandleCommand(ctx context.Context, msg *Message) error {
	ctxzap.Info(ctx, "command received",
		zap.String("command", msg.Command),
		zap.Int64("user_id", msg.UserID),
	)

	switch msg.Command {
	case CommandStart:
		if err := h.sender.Send(msg.ChatID, render.MsgWelcome, nil); err != nil {
			return err
		}
		return h.sendHeader(ctx, msg.ChatID, msg.UserID)
	case CommandHelp:
		return h.sender.Send(msg.ChatID, render.MsgHelp, nil)
	case CommandFiles, CommandUpload, CommandPredict, CommandDownload, CommandReset:
		h.runStep(ctx, msg.ChatID, msg.Command)
	case CommandExport:
		return h.export(ctx, msg)
	case CommandTheme:
		return h.toggleTheme(ctx, msg.ChatID, msg.UserID)
	case CommandLogin:
		return h.login(ctx, msg)
	case CommandLogout:
		return h.logout(ctx, msg.ChatID, msg.UserID)
	default:
		return h.sender.Send(msg.ChatID, render.ErrUnknownCmd, nil)
	}
	return nil
}

// runStep triggers one workflow phase on the chat's controller
func (h *Handler) runStep(ctx context.Context, chatID int64, step string) {
	ctrl := h.sessions.Controller(chatID)

	var err error
	switch step {
	case CommandUpload:
		err = ctrl.Upload(ctx)
	case CommandPredict:
		err = ctrl.Predict(ctx)
	case CommandDownload:
		err = ctrl.Download(ctx)
	case CommandFiles:
		ctrl.ListFiles(ctx)
	case CommandReset:
		ctrl.Reset(ctx)
	}
	h.workflowDone(ctx, step, err)
}

// export sends the live prediction in the requested format
func (h *Handler) export(ctx context.Context, msg *Message) error {
	arg := strings.TrimSpace(msg.CommandArgs)
	if arg == "" {
		arg = "pdf"
	}

	format, err := formatter.ParseFormat(arg)
	if err != nil {
		return err
	}

	result := h.sessions.Controller(msg.ChatID).Prediction()
	data, name, err := formatter.NewFactory().Export(result, format)
	if err != nil {
		return err
	}

	doc := tgbotapi.NewDocument(msg.ChatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	if err := sendCritical(ctx, h.api, doc); err != nil {
		return fmt.Errorf("send export: %w", err)
	}

	ctxzap.Info(ctx, "prediction exported",
		zap.String("format", string(format)),
		zap.Int("size", len(data)),
	)
	return nil
}

func (h *Handler) sendHeader(ctx context.Context, chatID, userID int64) error {
	header, err := h.prefs(userID).Header(ctx)
	if err != nil {
		return fmt.Errorf("load header: %w", err)
	}
	return h.sender.Send(chatID, render.Header(header), h.keyboard.HeaderKeyboard(header))
}

func (h *Handler) toggleTheme(ctx context.Context, chatID, userID int64) error {
	theme, err := h.prefs(userID).ToggleTheme(ctx)
	if err != nil {
		return err
	}
	if err := h.sender.Send(chatID, render.ThemeChanged(theme), nil); err != nil {
		return err
	}
	return h.sendHeader(ctx, chatID, userID)
}

// login authenticates against the backend and stores the returned name.
// The message carrying the password is deleted from the chat.
func (h *Handler) login(ctx context.Context, msg *Message) error {
	fields := strings.Fields(msg.CommandArgs)
	if len(fields) != 2 {
		return h.sender.Send(msg.ChatID, render.MsgLoginUsage, nil)
	}

	if msg.MessageID != 0 {
		if _, err := h.api.Request(tgbotapi.NewDeleteMessage(msg.ChatID, msg.MessageID)); err != nil {
			ctxzap.Warn(ctx, "failed to delete login message", zap.Error(err))
		}
	}

	account, err := h.backend.Login(ctx, fields[0], fields[1])
	if err != nil {
		return err
	}

	name := account.Name
	if name == "" {
		name = account.Email
	}
	if err := h.prefs(msg.UserID).Login(ctx, name); err != nil {
		return err
	}

	ctxzap.Info(ctx, "user logged in", zap.Int64("user_id", msg.UserID))
	return h.sendHeader(ctx, msg.ChatID, msg.UserID)
}

func (h *Handler) logout(ctx context.Context, chatID, userID int64) error {
	if err := h.prefs(userID).Logout(ctx); err != nil {
		return err
	}
	if err := h.sender.Send(chatID, render.MsgLoggedOut, nil); err != nil {
		return err
	}
	return h.sendHeader(ctx, chatID, userID)
}
