package formatter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/futig/examgenie/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleResult() *entity.PredictionResult {
	return &entity.PredictionResult{
		Paper: entity.PredictedPaper{
			TotalPapersAnalyzed: 2,
			TotalQuestionsFound: 14,
			GeneratedDate:       "2024-05-01 10:00:00",
			TopTopics: []entity.TopicFrequency{
				{Topic: "algebra", Frequency: 7},
				{Topic: "géométrie", Frequency: 3},
			},
			PredictedQuestions: []entity.QuestionSection{
				{Section: "Section A - High Probability Questions", Questions: []string{"Q1. Solve x", "Q2. Prove y"}},
				{Section: "Section B - Analytical & Comparison Questions", Questions: []string{"Q6. Compare a and b"}},
			},
		},
		PDFPath: "predicted_paper_20240501_100000.pdf",
	}
}

func TestFactory_Create(t *testing.T) {
	f := NewFactory()

	tests := []struct {
		format entity.ExportFormat
		ext    string
	}{
		{entity.FormatMarkdown, ".md"},
		{entity.FormatPDF, ".pdf"},
		{entity.FormatDOCX, ".docx"},
		{entity.FormatXLSX, ".xlsx"},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			formatter, err := f.Create(tt.format)
			require.NoError(t, err)
			assert.Equal(t, tt.ext, formatter.FileExtension())
			assert.Equal(t, "paper"+tt.ext, Filename("paper", formatter))
		})
	}

	_, err := f.Create("odt")
	assert.ErrorIs(t, err, entity.ErrInvalidFormat)
}

func TestMarkdownFormatter(t *testing.T) {
	out, err := NewMarkdownFormatter().Format(sampleResult())
	require.NoError(t, err)

	md := string(out)
	assert.True(t, strings.HasPrefix(md, "# ExamGenie - Predicted Exam Paper\n"))
	assert.Contains(t, md, "Generated on: 2024-05-01 10:00:00")
	assert.Contains(t, md, "- Papers Analyzed: 2\n")
	assert.Contains(t, md, "- Questions Found: 14\n")
	assert.Contains(t, md, "- Algebra (frequency: 7)\n")
	assert.Contains(t, md, "- Géométrie (frequency: 3)\n")

	sectionA := strings.Index(md, "### Section A")
	sectionB := strings.Index(md, "### Section B")
	require.NotEqual(t, -1, sectionA)
	assert.Greater(t, sectionB, sectionA)
	assert.Less(t, strings.Index(md, "Q1. Solve x"), strings.Index(md, "Q2. Prove y"))
}

func TestFormatters_RejectMissingPrediction(t *testing.T) {
	for _, f := range []Formatter{NewMarkdownFormatter(), NewPDFFormatter(), NewXLSXFormatter()} {
		_, err := f.Format(nil)
		assert.ErrorIs(t, err, entity.ErrNoPrediction)
	}
}

func TestPDFFormatter(t *testing.T) {
	t.Setenv("EXAMGENIE_PDF_FONT", "")

	out, err := NewPDFFormatter().Format(sampleResult())

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Equal(t, "application/pdf", NewPDFFormatter().ContentType())
}

func TestXLSXFormatter(t *testing.T) {
	out, err := NewXLSXFormatter().Format(sampleResult())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetSummary, SheetTopics, SheetQuestions}, f.GetSheetList())

	date, err := f.GetCellValue(SheetSummary, "B2")
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01 10:00:00", date)

	topic, _ := f.GetCellValue(SheetTopics, "A2")
	freq, _ := f.GetCellValue(SheetTopics, "B2")
	assert.Equal(t, "Algebra", topic)
	assert.Equal(t, "7", freq)

	rows, err := f.GetRows(SheetQuestions)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Section A - High Probability Questions", "Q1. Solve x"}, rows[1])
	assert.Equal(t, []string{"Section B - Analytical & Comparison Questions", "Q6. Compare a and b"}, rows[3])
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("MD")
	require.NoError(t, err)
	assert.Equal(t, entity.FormatMarkdown, f)

	f, err = ParseFormat(" excel ")
	require.NoError(t, err)
	assert.Equal(t, entity.FormatXLSX, f)

	_, err = ParseFormat("odt")
	assert.ErrorIs(t, err, entity.ErrInvalidFormat)
}

func TestFactory_Export(t *testing.T) {
	data, name, err := NewFactory().Export(sampleResult(), entity.FormatMarkdown)
	require.NoError(t, err)
	assert.Equal(t, "predicted_paper_20240501_100000_export.md", name)
	assert.Contains(t, string(data), "Most Frequent Topics")

	result := sampleResult()
	result.PDFPath = ""
	_, name, err = NewFactory().Export(result, entity.FormatXLSX)
	require.NoError(t, err)
	assert.Equal(t, "predicted_paper_export.xlsx", name)

	_, _, err = NewFactory().Export(nil, entity.FormatPDF)
	assert.ErrorIs(t, err, entity.ErrNoPrediction)
}
