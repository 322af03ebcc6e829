package handlers

import (
	"context"
	"fmt"
	"strconv"

	"github.com/futig/examgenie/internal/preferences"
	"github.com/futig/examgenie/internal/telegram/keyboard"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// HandleCallback processes an inline button press
func (h *Handler) HandleCallback(ctx context.Context, msg *Message) error {
	data, err := keyboard.ParseCallback(msg.CallbackData)
	if err != nil {
		return err
	}

	ctxzap.Debug(ctx, "callback received",
		zap.String("action", data.Action),
		zap.String("value", data.Value),
	)

	switch data.Action {
	case keyboard.ActionStep:
		return h.handleStep(ctx, msg, data.Value)
	case keyboard.ActionRemove:
		n, err := strconv.Atoi(data.Value)
		if err != nil {
			return fmt.Errorf("parse file number %q: %w", data.Value, err)
		}
		err = h.sessions.Controller(msg.ChatID).RemoveFile(ctx, n-1)
		h.workflowDone(ctx, "remove_file", err)
		return nil
	case keyboard.ActionTheme:
		return h.toggleTheme(ctx, msg.ChatID, msg.UserID)
	case keyboard.ActionHeader:
		if data.Value == string(preferences.ActionLogout) {
			return h.logout(ctx, msg.ChatID, msg.UserID)
		}
	}

	return fmt.Errorf("unknown callback %q", msg.CallbackData)
}

func (h *Handler) handleStep(ctx context.Context, msg *Message, step string) error {
	switch step {
	case keyboard.StepUpload:
		h.runStep(ctx, msg.ChatID, CommandUpload)
	case keyboard.StepPredict:
		h.runStep(ctx, msg.ChatID, CommandPredict)
	case keyboard.StepDownload:
		h.runStep(ctx, msg.ChatID, CommandDownload)
	case keyboard.StepFiles:
		h.runStep(ctx, msg.ChatID, CommandFiles)
	case keyboard.StepReset:
		h.runStep(ctx, msg.ChatID, CommandReset)
	default:
		return fmt.Errorf("unknown step %q", step)
	}
	return nil
}
