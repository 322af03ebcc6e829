package handlers

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/futig/examgenie/internal/entity"
	"github.com/futig/examgenie/internal/integration/backend"
	"github.com/futig/examgenie/internal/pkg/validator"
	"github.com/futig/examgenie/internal/preferences"
	"github.com/futig/examgenie/internal/telegram/render"
	"github.com/futig/examgenie/internal/telegram/state"
	"github.com/futig/examgenie/internal/workflow"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testChatID = int64(42)
	testUserID = int64(7)
)

type fakeAPI struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, c := range f.sent {
		if m, ok := c.(tgbotapi.MessageConfig); ok {
			out = append(out, m.Text)
		}
	}
	return out
}

func (f *fakeAPI) allText() string {
	return strings.Join(f.texts(), "\n---\n")
}

func (f *fakeAPI) documents() []tgbotapi.FileBytes {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []tgbotapi.FileBytes
	for _, c := range f.sent {
		if d, ok := c.(tgbotapi.DocumentConfig); ok {
			if fb, ok := d.File.(tgbotapi.FileBytes); ok {
				out = append(out, fb)
			}
		}
	}
	return out
}

func (f *fakeAPI) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = nil
	f.requests = nil
}

type fakeFetcher struct {
	mu    sync.Mutex
	calls int
	data  []byte
	err   error
}

func (f *fakeFetcher) Fetch(_ context.Context, _ string, _ int64) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.data, f.err
}

type harness struct {
	handler *Handler
	api     *fakeAPI
	fetcher *fakeFetcher
	prefs   map[int64]*preferences.Manager
	ctx     context.Context
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		api:     &fakeAPI{},
		fetcher: &fakeFetcher{data: []byte("%PDF-1.4 test")},
		prefs:   map[int64]*preferences.Manager{},
		ctx:     ctxzap.ToContext(context.Background(), zap.NewNop()),
	}

	var mu sync.Mutex
	h.handler = NewHandler(Deps{
		API:     h.api,
		Backend: backend.NewMockConnector(zap.NewNop()),
		Fetcher: h.fetcher,
		Preferences: func(userID int64) *preferences.Manager {
			mu.Lock()
			defer mu.Unlock()
			m, ok := h.prefs[userID]
			if !ok {
				m = preferences.NewManager(preferences.NewMemoryStorage())
				h.prefs[userID] = m
			}
			return m
		},
		Validator:   validator.NewSelectionValidator(),
		Storage:     state.NewCacheStorage(time.Hour, time.Hour),
		MaxFileSize: 1 << 20,
		Logger:      zap.NewNop(),
	})
	return h
}

func (h *harness) command(t *testing.T, command, args string) error {
	t.Helper()
	return h.handler.HandleCommand(h.ctx, &Message{
		ChatID:      testChatID,
		UserID:      testUserID,
		MessageID:   100,
		Command:     command,
		CommandArgs: args,
	})
}

func (h *harness) callback(t *testing.T, data string) error {
	t.Helper()
	return h.handler.HandleCallback(h.ctx, &Message{
		ChatID:       testChatID,
		UserID:       testUserID,
		CallbackData: data,
		CallbackID:   "cb",
	})
}

func (h *harness) document(t *testing.T, name string, size int) error {
	t.Helper()
	return h.handler.HandleMessage(h.ctx, &Message{
		ChatID:   testChatID,
		UserID:   testUserID,
		Document: &tgbotapi.Document{FileID: "file-" + name, FileName: name, FileSize: size},
	})
}

func TestHandler_FullWorkflow(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.command(t, CommandStart, ""))
	assert.Contains(t, h.api.allText(), "I'm ExamGenie")
	assert.Contains(t, h.api.allText(), "Not logged in")

	h.api.reset()
	require.NoError(t, h.document(t, "paper.pdf", 13))
	assert.Contains(t, h.api.allText(), "1. 📄 paper.pdf (13 Bytes)")
	assert.Contains(t, h.api.allText(), render.MsgUploadHint)

	h.api.reset()
	require.NoError(t, h.callback(t, "step:upload"))
	assert.Contains(t, h.api.allText(), render.MsgUploading)
	assert.Contains(t, h.api.allText(), "📝 Extracted text:")
	assert.Contains(t, h.api.allText(), render.MsgPredictHint)
	assert.Len(t, h.handler.Sessions().Controller(testChatID).Extracted(), 1)

	h.api.reset()
	require.NoError(t, h.callback(t, "step:predict"))
	assert.Contains(t, h.api.allText(), "🎯 Predicted exam paper")
	assert.Contains(t, h.api.allText(), "Algebra — 2x")
	assert.Contains(t, h.api.allText(), render.MsgDownloadHint)

	h.api.reset()
	require.NoError(t, h.callback(t, "step:download"))
	docs := h.api.documents()
	require.Len(t, docs, 1)
	assert.True(t, strings.HasPrefix(docs[0].Name, "predicted_paper_"))
	assert.True(t, bytes.HasPrefix(docs[0].Bytes, []byte("%PDF-")))

	h.api.reset()
	require.NoError(t, h.command(t, CommandExport, "md"))
	docs = h.api.documents()
	require.Len(t, docs, 1)
	assert.True(t, strings.HasSuffix(docs[0].Name, "_export.md"))
	assert.Contains(t, string(docs[0].Bytes), "Most Frequent Topics")
}

func TestHandler_RejectsUnsupportedDocumentWithoutFetching(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.document(t, "notes.txt", 10))

	assert.Equal(t, 0, h.fetcher.calls)
	assert.Contains(t, h.api.allText(), "⚠️ "+workflow.MsgInvalidSelection)
	assert.Empty(t, h.handler.Sessions().Controller(testChatID).Files())
}

func TestHandler_DocumentTooLarge(t *testing.T) {
	h := newHarness(t)

	err := h.document(t, "huge.pdf", 2<<20)
	require.ErrorIs(t, err, ErrFileTooLarge)
	assert.Equal(t, 0, h.fetcher.calls)

	h.handler.HandleError(h.ctx, testChatID, err)
	assert.Contains(t, h.api.allText(), "too large (max ")
}

func TestHandler_FetchFailure(t *testing.T) {
	h := newHarness(t)
	h.fetcher.err = errors.New("telegram unavailable")

	err := h.document(t, "paper.pdf", 10)
	require.Error(t, err)
	assert.Empty(t, h.handler.Sessions().Controller(testChatID).Files())
}

func TestHandler_PhotoIsAddedAsImage(t *testing.T) {
	h := newHarness(t)

	err := h.handler.HandleMessage(h.ctx, &Message{
		ChatID:    testChatID,
		UserID:    testUserID,
		MessageID: 5,
		Photo: []tgbotapi.PhotoSize{
			{FileID: "small", FileSize: 10},
			{FileID: "large", FileSize: 100},
		},
	})
	require.NoError(t, err)

	files := h.handler.Sessions().Controller(testChatID).Files()
	require.Len(t, files, 1)
	assert.Equal(t, "photo_5.jpg", files[0].Name)
	assert.Equal(t, entity.FileKindImage, files[0].Kind)
}

func TestHandler_Preconditions(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.command(t, CommandUpload, ""))
	assert.Contains(t, h.api.allText(), workflow.MsgNoFilesSelected)

	require.NoError(t, h.command(t, CommandPredict, ""))
	assert.Contains(t, h.api.allText(), workflow.MsgNoExtractedText)

	require.NoError(t, h.command(t, CommandDownload, ""))
	assert.Contains(t, h.api.allText(), workflow.MsgNoPrediction)

	err := h.command(t, CommandExport, "pdf")
	assert.ErrorIs(t, err, entity.ErrNoPrediction)

	err = h.command(t, CommandExport, "odt")
	assert.ErrorIs(t, err, entity.ErrInvalidFormat)
}

func TestHandler_RemoveAndReset(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.document(t, "a.pdf", 13))
	require.NoError(t, h.document(t, "b.png", 13))

	require.NoError(t, h.callback(t, "rm:3"))
	assert.Contains(t, h.api.allText(), "There is no file number 3 in the selection.")

	require.NoError(t, h.callback(t, "rm:1"))
	files := h.handler.Sessions().Controller(testChatID).Files()
	require.Len(t, files, 1)
	assert.Equal(t, "b.png", files[0].Name)

	h.api.reset()
	require.NoError(t, h.command(t, CommandReset, ""))
	assert.Contains(t, h.api.allText(), render.MsgNoFiles)
	assert.Empty(t, h.handler.Sessions().Controller(testChatID).Files())
}

func TestHandler_ChatsAreIsolated(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.document(t, "a.pdf", 13))

	other := h.handler.Sessions().Controller(testChatID + 1)
	assert.Empty(t, other.Files())
	assert.Len(t, h.handler.Sessions().Controller(testChatID).Files(), 1)
}

func TestHandler_ThemeToggle(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.callback(t, "theme:toggle"))
	assert.Contains(t, h.api.allText(), "Theme switched to dark ☀️")

	theme, err := h.prefs[testUserID].Theme(h.ctx)
	require.NoError(t, err)
	assert.Equal(t, entity.ThemeDark, theme)

	require.NoError(t, h.command(t, CommandTheme, ""))
	theme, err = h.prefs[testUserID].Theme(h.ctx)
	require.NoError(t, err)
	assert.Equal(t, entity.ThemeLight, theme)
}

func TestHandler_LoginLogout(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.command(t, CommandLogin, "ada"))
	assert.Contains(t, h.api.allText(), render.MsgLoginUsage)

	h.api.reset()
	require.NoError(t, h.command(t, CommandLogin, "ada@example.com secret"))
	assert.Contains(t, h.api.allText(), "Welcome, ada!")

	var deleted bool
	for _, r := range h.api.requests {
		if _, ok := r.(tgbotapi.DeleteMessageConfig); ok {
			deleted = true
		}
	}
	assert.True(t, deleted, "message with the password is deleted")

	h.api.reset()
	require.NoError(t, h.callback(t, "header:logout"))
	assert.Contains(t, h.api.allText(), render.MsgLoggedOut)
	assert.Contains(t, h.api.allText(), "Not logged in")

	user, err := h.prefs[testUserID].User(h.ctx)
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestHandler_UnknownInput(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.command(t, "frobnicate", ""))
	assert.Contains(t, h.api.allText(), render.ErrUnknownCmd)

	require.NoError(t, h.handler.HandleMessage(h.ctx, &Message{ChatID: testChatID, UserID: testUserID, Text: "hello"}))
	assert.Contains(t, h.api.allText(), render.MsgUnsupportedMsg)

	assert.Error(t, h.callback(t, "garbage"))
	assert.Error(t, h.callback(t, "step:launch"))
	assert.Error(t, h.callback(t, "rm:first"))
}

func TestClassifyHandlerError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		message  string
		severity ErrorSeverity
	}{
		{"too large", ErrFileTooLarge, "too large", SeverityWarning},
		{"bad format", entity.ErrInvalidFormat, render.MsgExportUsage, SeverityWarning},
		{"no prediction", entity.ErrNoPrediction, render.MsgNoPrediction, SeverityWarning},
		{"backend rejected", &entity.ApplicationError{Message: "Invalid credentials", StatusCode: 401}, "Invalid credentials", SeverityWarning},
		{"transport", &entity.TransportError{Err: errors.New("connection refused")}, render.ErrNetworkIssue, SeverityError},
		{"timeout", context.DeadlineExceeded, render.ErrTimeout, SeverityError},
		{"other", errors.New("boom"), render.ErrGeneric, SeverityError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyHandlerError(tt.err, 1<<20)
			assert.Contains(t, got.UserMessage, tt.message)
			assert.Equal(t, tt.severity, got.Severity)
		})
	}
}

func TestSplitMessage(t *testing.T) {
	assert.Equal(t, []string{"short"}, splitMessage("short", 10))

	parts := splitMessage("line one\nline two\nline three", 12)
	assert.Equal(t, []string{"line one", "line two", "line three"}, parts)

	parts = splitMessage(strings.Repeat("é", 25), 10)
	require.Len(t, parts, 3)
	assert.Equal(t, strings.Repeat("é", 10), parts[0])
	assert.Equal(t, strings.Repeat("é", 5), parts[2])
}
