package exam

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/futig/examgenie/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

const (
	noPDFText   = "No text could be extracted from this PDF."
	noImageText = "No text could be extracted from this image. OCR is not available in the development backend."
)

// TextExtractor turns uploaded paper content into plain text
type TextExtractor interface {
	Extract(ctx context.Context, name string, data []byte) string
}

// DocumentExtractor reads the text layer of PDFs. Images get a placeholder,
// there is no OCR engine behind the development backend.
type DocumentExtractor struct{}

func NewDocumentExtractor() *DocumentExtractor {
	return &DocumentExtractor{}
}

// Extract never fails: extraction problems are reported inside the text, as the
// Backend Service does.
func (e *DocumentExtractor) Extract(ctx context.Context, name string, data []byte) string {
	if entity.AllowedExtensions[entity.Extension(name)] != entity.FileKindPDF {
		return noImageText
	}

	text, err := extractPDF(data)
	if err != nil {
		ctxzap.Warn(ctx, "pdf text extraction failed", zap.String("filename", name), zap.Error(err))
		return fmt.Sprintf("Error extracting text from PDF: %v", err)
	}
	if text == "" {
		return noPDFText
	}
	return text
}

func extractPDF(data []byte) (text string, err error) {
	// The pdf reader panics on some malformed documents.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if pageText = strings.TrimSpace(pageText); pageText != "" {
			sb.WriteString(pageText)
			sb.WriteString("\n\n")
		}
	}

	return strings.TrimSpace(sb.String()), nil
}
