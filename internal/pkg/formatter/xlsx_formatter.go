package formatter

import (
	"fmt"

	"github.com/futig/examgenie/internal/entity"
	"github.com/xuri/excelize/v2"
)

const (
	xlsxContentType   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	xlsxFileExtension = ".xlsx"

	SheetSummary   = "Summary"
	SheetTopics    = "Topics"
	SheetQuestions = "Questions"
)

// XLSXFormatter lays the paper out over three sheets: summary, topics and questions.
type XLSXFormatter struct{}

func NewXLSXFormatter() *XLSXFormatter {
	return &XLSXFormatter{}
}

func (mf *XLSXFormatter) Format(result *entity.PredictionResult) ([]byte, error) {
	if err := checkResult(result); err != nil {
		return nil, err
	}
	p := &result.Paper

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, fmt.Errorf("xlsx sheet: %w", err)
	}
	for _, sheet := range []string{SheetTopics, SheetQuestions} {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, fmt.Errorf("xlsx sheet: %w", err)
		}
	}

	write := func(sheet string, col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}

	write(SheetSummary, 1, 1, baseTitle)
	write(SheetSummary, 1, 2, generatedOnLabel)
	write(SheetSummary, 2, 2, p.GeneratedDate)
	write(SheetSummary, 1, 3, papersLabel)
	write(SheetSummary, 2, 3, p.TotalPapersAnalyzed)
	write(SheetSummary, 1, 4, questionsLabel)
	write(SheetSummary, 2, 4, p.TotalQuestionsFound)
	_ = f.SetColWidth(SheetSummary, "A", "A", 20)
	_ = f.SetColWidth(SheetSummary, "B", "B", 24)

	write(SheetTopics, 1, 1, "Topic")
	write(SheetTopics, 2, 1, "Frequency")
	for i, t := range p.TopTopics {
		write(SheetTopics, 1, i+2, capitalize(t.Topic))
		write(SheetTopics, 2, i+2, t.Frequency)
	}
	_ = f.SetColWidth(SheetTopics, "A", "A", 28)

	write(SheetQuestions, 1, 1, "Section")
	write(SheetQuestions, 2, 1, "Question")
	row := 2
	for _, s := range p.PredictedQuestions {
		for _, q := range s.Questions {
			write(SheetQuestions, 1, row, s.Section)
			write(SheetQuestions, 2, row, q)
			row++
		}
	}
	_ = f.SetColWidth(SheetQuestions, "A", "A", 40)
	_ = f.SetColWidth(SheetQuestions, "B", "B", 100)

	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

func (mf *XLSXFormatter) ContentType() string {
	return xlsxContentType
}

func (mf *XLSXFormatter) FileExtension() string {
	return xlsxFileExtension
}
