package formatter

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/futig/examgenie/internal/entity"
)

const (
	baseTitle        = "ExamGenie - Predicted Exam Paper"
	summaryTitle     = "Analysis Summary"
	topicsTitle      = "Most Frequent Topics"
	questionsTitle   = "Predicted Exam Questions"
	generatedOnLabel = "Generated on"
	papersLabel      = "Papers Analyzed"
	questionsLabel   = "Questions Found"
)

type Formatter interface {
	Format(result *entity.PredictionResult) ([]byte, error)
	ContentType() string
	FileExtension() string
}

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create(format entity.ExportFormat) (Formatter, error) {
	switch format {
	case entity.FormatMarkdown:
		return NewMarkdownFormatter(), nil
	case entity.FormatDOCX:
		return NewDOCXFormatter(), nil
	case entity.FormatPDF:
		return NewPDFFormatter(), nil
	case entity.FormatXLSX:
		return NewXLSXFormatter(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", entity.ErrInvalidFormat, format)
	}
}

// Filename returns the export name for an artifact base name and formatter.
func Filename(base string, f Formatter) string {
	return base + f.FileExtension()
}

const (
	defaultExportName = "predicted_paper"
	exportSuffix      = "_export"
)

var formatAliases = map[string]entity.ExportFormat{
	"md":       entity.FormatMarkdown,
	"markdown": entity.FormatMarkdown,
	"pdf":      entity.FormatPDF,
	"docx":     entity.FormatDOCX,
	"word":     entity.FormatDOCX,
	"xlsx":     entity.FormatXLSX,
	"excel":    entity.FormatXLSX,
}

// ParseFormat maps a user supplied format name to an ExportFormat
func ParseFormat(s string) (entity.ExportFormat, error) {
	f, ok := formatAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("%w: %q (use md, pdf, docx or xlsx)", entity.ErrInvalidFormat, s)
	}
	return f, nil
}

// Export renders result in format and returns the content with its file name.
// The name carries an _export suffix so a downloaded artifact of the same base is kept.
func (f *Factory) Export(result *entity.PredictionResult, format entity.ExportFormat) ([]byte, string, error) {
	if err := checkResult(result); err != nil {
		return nil, "", err
	}

	fm, err := f.Create(format)
	if err != nil {
		return nil, "", err
	}

	data, err := fm.Format(result)
	if err != nil {
		return nil, "", fmt.Errorf("format %s: %w", format, err)
	}

	base := defaultExportName
	if result.PDFPath != "" {
		base = strings.TrimSuffix(filepath.Base(result.PDFPath), filepath.Ext(result.PDFPath))
	}
	return data, Filename(base+exportSuffix, fm), nil
}

func generatedLine(p *entity.PredictedPaper) string {
	return generatedOnLabel + ": " + p.GeneratedDate
}

func summaryLines(p *entity.PredictedPaper) []string {
	return []string{
		papersLabel + ": " + strconv.Itoa(p.TotalPapersAnalyzed),
		questionsLabel + ": " + strconv.Itoa(p.TotalQuestionsFound),
	}
}

func topicLine(t entity.TopicFrequency) string {
	return fmt.Sprintf("- %s (frequency: %d)", capitalize(t.Topic), t.Frequency)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func checkResult(result *entity.PredictionResult) error {
	if result == nil {
		return entity.ErrNoPrediction
	}
	return nil
}
