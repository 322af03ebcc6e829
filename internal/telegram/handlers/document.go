package handlers

import (
	"context"
	"fmt"

	"github.com/futig/examgenie/internal/entity"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

func (h *Handler) handleDocument(ctx context.Context, msg *Message) error {
	doc := msg.Document
	return h.addFile(ctx, msg.ChatID, doc.FileID, doc.FileName, int64(doc.FileSize))
}

// handlePhoto adds the largest size of a compressed photo. Photos carry no file name.
func (h *Handler) handlePhoto(ctx context.Context, msg *Message) error {
	photo := msg.Photo[len(msg.Photo)-1]
	name := fmt.Sprintf("photo_%d.jpg", msg.MessageID)
	return h.addFile(ctx, msg.ChatID, photo.FileID, name, int64(photo.FileSize))
}

func (h *Handler) addFile(ctx context.Context, chatID int64, fileID, name string, size int64) error {
	ctrl := h.sessions.Controller(chatID)

	// Unsupported types are rejected by the controller before anything is fetched.
	if !entity.IsAllowed(name) {
		err := ctrl.AddFiles(ctx, []entity.SelectedFile{entity.NewSelectedFile(name, size, nil)})
		h.workflowDone(ctx, "select_files", err)
		return nil
	}

	if h.maxFileSize > 0 && size > h.maxFileSize {
		return fmt.Errorf("%w: %s is %d bytes", ErrFileTooLarge, name, size)
	}

	typing := NewTypingNotifier(h.api, chatID, tgbotapi.ChatUploadDocument, h.logger)
	typing.Start(ctx)
	data, err := h.fetcher.Fetch(ctx, fileID, h.maxFileSize)
	typing.Stop()
	if err != nil {
		return fmt.Errorf("fetch %s: %w", name, err)
	}

	ctxzap.Debug(ctx, "document received",
		zap.String("file_name", name),
		zap.Int("size", len(data)),
	)

	err = ctrl.AddFiles(ctx, []entity.SelectedFile{entity.FileFromBytes(name, data)})
	h.workflowDone(ctx, "select_files", err)
	return nil
}
