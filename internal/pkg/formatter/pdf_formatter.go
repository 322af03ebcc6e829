package formatter

import (
	"bytes"
	"os"

	"github.com/futig/examgenie/internal/entity"
	"github.com/jung-kurt/gofpdf"
)

const (
	pdfContentType   = "application/pdf"
	pdfFileExtension = ".pdf"

	// pdfFontName is the internal name used by gofpdf
	// for the UTF-8 capable font.
	pdfFontName = "DejaVuSans"

	// Relative paths where the TTF font may live.
	// For the compiled binary the path is ./ttf/DejaVuSans.ttf.
	pdfFontRuntimePath = "ttf/DejaVuSans.ttf"

	// Source-relative path (useful when running from repo root with `go run`).
	pdfFontSourcePath = "internal/pkg/formatter/ttf/DejaVuSans.ttf"
)

type PDFFormatter struct {
	fontPath string
}

func NewPDFFormatter() *PDFFormatter {
	return &PDFFormatter{fontPath: resolveFontPath()}
}

// resolveFontPath tries to find the DejaVuSans font in
// runtime layout (next to the binary) or source layout.
func resolveFontPath() string {
	if path := os.Getenv("EXAMGENIE_PDF_FONT"); path != "" {
		return path
	}

	if _, err := os.Stat(pdfFontRuntimePath); err == nil {
		return pdfFontRuntimePath
	}

	if _, err := os.Stat(pdfFontSourcePath); err == nil {
		return pdfFontSourcePath
	}

	return ""
}

func (mf *PDFFormatter) Format(result *entity.PredictionResult) ([]byte, error) {
	if err := checkResult(result); err != nil {
		return nil, err
	}
	p := &result.Paper

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	// Core fonts only cover cp1252, so text is translated unless the
	// UTF-8 capable DejaVuSans font is available.
	fontName := "Arial"
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	if mf.fontPath != "" {
		pdf.AddUTF8Font(pdfFontName, "", mf.fontPath)
		pdf.AddUTF8Font(pdfFontName, "B", mf.fontPath)
		fontName = pdfFontName
		tr = func(s string) string { return s }
	}

	pdf.SetFont(fontName, "B", 16)
	pdf.CellFormat(0, 10, tr(baseTitle), "", 1, "C", false, 0, "")
	pdf.SetFont(fontName, "", 10)
	pdf.CellFormat(0, 10, tr(generatedLine(p)), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont(fontName, "B", 12)
	pdf.CellFormat(0, 10, tr(summaryTitle+":"), "", 1, "", false, 0, "")
	pdf.SetFont(fontName, "", 10)
	for _, line := range summaryLines(p) {
		pdf.CellFormat(0, 6, tr(line), "", 1, "", false, 0, "")
	}
	pdf.Ln(5)

	pdf.SetFont(fontName, "B", 12)
	pdf.CellFormat(0, 10, tr(topicsTitle+":"), "", 1, "", false, 0, "")
	pdf.SetFont(fontName, "", 10)
	for _, t := range p.TopTopics {
		pdf.CellFormat(0, 6, tr(topicLine(t)), "", 1, "", false, 0, "")
	}
	pdf.Ln(5)

	pdf.SetFont(fontName, "B", 14)
	pdf.CellFormat(0, 10, tr(questionsTitle+":"), "", 1, "", false, 0, "")
	pdf.Ln(3)

	for _, s := range p.PredictedQuestions {
		pdf.SetFont(fontName, "B", 12)
		pdf.CellFormat(0, 8, tr(s.Section), "", 1, "", false, 0, "")
		pdf.SetFont(fontName, "", 10)
		for _, q := range s.Questions {
			pdf.MultiCell(0, 6, tr(q), "", "", false)
			pdf.Ln(2)
		}
		pdf.Ln(3)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (mf *PDFFormatter) ContentType() string {
	return pdfContentType
}

func (mf *PDFFormatter) FileExtension() string {
	return pdfFileExtension
}
