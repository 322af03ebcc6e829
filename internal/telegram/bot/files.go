package bot

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/futig/examgenie/internal/telegram/handlers"
	pkgHTTP "github.com/futig/examgenie/pkg/http"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const fileDownloadTimeout = time.Minute

// FileFetcher downloads documents users sent to the bot
type FileFetcher struct {
	api  *tgbotapi.BotAPI
	conn *pkgHTTP.Connector
}

// NewFileFetcher creates a fetcher. Requests are not logged, file links carry the bot token.
func NewFileFetcher(api *tgbotapi.BotAPI, logger *zap.Logger) *FileFetcher {
	conn := pkgHTTP.NewConnector(
		&pkgHTTP.ConnectorConfig{Logger: logger},
		pkgHTTP.WithRequestTimeout(fileDownloadTimeout),
	)
	return &FileFetcher{api: api, conn: conn}
}

// Fetch implements handlers.FileFetcher
func (f *FileFetcher) Fetch(ctx context.Context, fileID string, maxSize int64) ([]byte, error) {
	file, err := f.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file info: %w", err)
	}

	if maxSize > 0 && int64(file.FileSize) > maxSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", handlers.ErrFileTooLarge, file.FileSize, maxSize)
	}

	var buf bytes.Buffer
	buf.Grow(file.FileSize)
	if _, _, err := f.conn.DoStream(ctx, "", &buf, pkgHTTP.WithURL(file.Link(f.api.Token))); err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}

	if maxSize > 0 && int64(buf.Len()) > maxSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", handlers.ErrFileTooLarge, buf.Len(), maxSize)
	}
	return buf.Bytes(), nil
}
