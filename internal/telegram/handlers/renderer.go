package handlers

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/futig/examgenie/internal/pkg/validator"
	"github.com/futig/examgenie/internal/telegram/keyboard"
	"github.com/futig/examgenie/internal/telegram/render"
	"github.com/futig/examgenie/internal/workflow"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// ChatRenderer applies workflow effects to one Telegram chat
type ChatRenderer struct {
	mu       sync.Mutex
	chatID   int64
	bot      API
	sender   *MessageSender
	keyboard *keyboard.Builder
	backend  Backend

	uploadVisible bool
	progress      map[workflow.Phase]*ProgressNotifier
}

func NewChatRenderer(chatID int64, bot API, sender *MessageSender, kb *keyboard.Builder, backend Backend) *ChatRenderer {
	return &ChatRenderer{
		chatID:   chatID,
		bot:      bot,
		sender:   sender,
		keyboard: kb,
		backend:  backend,
		progress: make(map[workflow.Phase]*ProgressNotifier),
	}
}

func (r *ChatRenderer) Apply(ctx context.Context, effect workflow.Effect) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch e := effect.(type) {
	case workflow.RenderFileList:
		var markup any
		if kb := r.keyboard.FileListKeyboard(e.Items); kb != nil {
			markup = kb
		}
		r.send(render.FileList(e.Items), markup)
	case workflow.SetUploadAction:
		if e.Visible && !r.uploadVisible {
			r.send(render.MsgUploadHint, r.keyboard.UploadKeyboard())
		}
		r.uploadVisible = e.Visible
	case workflow.SetBusy:
		r.setBusy(ctx, e)
	case workflow.RenderExtracted:
		r.send(render.Extracted(e.Previews), nil)
	case workflow.RenderPrediction:
		text := render.Prediction(e.View)
		if utf8.RuneCountInString(text) > maxMessageLength {
			r.send(text, nil)
			break
		}
		if err := sendCritical(ctx, r.bot, tgbotapi.NewMessage(r.chatID, text)); err != nil {
			ctxzap.Error(ctx, "failed to deliver prediction", zap.Error(err))
		}
	case workflow.Reveal:
		r.reveal(e.Region)
	case workflow.OpenDownload:
		r.sendArtifact(ctx, e)
	case workflow.Notify:
		r.send(render.Notice(e.Notice), nil)
	}
}

func (r *ChatRenderer) send(text string, markup any) {
	_ = r.sender.Send(r.chatID, text, markup)
}

func (r *ChatRenderer) setBusy(ctx context.Context, e workflow.SetBusy) {
	if !e.Busy {
		if p, ok := r.progress[e.Phase]; ok {
			p.Stop()
			delete(r.progress, e.Phase)
		}
		return
	}

	if _, ok := r.progress[e.Phase]; ok {
		return
	}
	// the notifier outlives the request context of the update that started it
	p := NewProgressNotifier(r.bot, r.chatID)
	p.Start(context.WithoutCancel(ctx), render.BusyMessage(e.Phase))
	r.progress[e.Phase] = p
}

func (r *ChatRenderer) reveal(region workflow.Region) {
	switch region {
	case workflow.RegionExtracted:
		r.send(render.MsgPredictHint, r.keyboard.PredictKeyboard())
	case workflow.RegionPrediction:
		r.send(render.MsgDownloadHint, r.keyboard.DownloadKeyboard())
	}
}

// sendArtifact fetches the artifact from the backend and sends it as a document
func (r *ChatRenderer) sendArtifact(ctx context.Context, e workflow.OpenDownload) {
	typing := NewTypingNotifier(r.bot, r.chatID, tgbotapi.ChatUploadDocument, ctxzap.Extract(ctx))
	typing.Start(ctx)
	defer typing.Stop()

	var buf bytes.Buffer
	if _, err := r.backend.Download(ctx, e.Ref, &buf); err != nil {
		ctxzap.Warn(ctx, "artifact download failed", zap.String("artifact", e.Ref), zap.Error(err))
		r.send(fmt.Sprintf(render.MsgDownloadFailed, errorText(err)), nil)
		return
	}

	doc := tgbotapi.NewDocument(r.chatID, tgbotapi.FileBytes{
		Name:  validator.SanitizeFilename(e.Ref),
		Bytes: buf.Bytes(),
	})
	doc.Caption = render.MsgDocumentReady

	if err := sendCritical(ctx, r.bot, doc); err != nil {
		r.send(fmt.Sprintf(render.MsgDownloadFailed, errorText(err)), nil)
		return
	}

	ctxzap.Info(ctx, "artifact delivered",
		zap.String("artifact", e.Ref),
		zap.Int("size", buf.Len()),
	)
}
