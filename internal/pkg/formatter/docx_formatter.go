package formatter

import (
	"bytes"

	"github.com/futig/examgenie/internal/entity"
	"github.com/unidoc/unioffice/document"
)

const (
	docxContentType   = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	docxFileExtension = ".docx"
)

type DOCXFormatter struct{}

func NewDOCXFormatter() *DOCXFormatter {
	return &DOCXFormatter{}
}

func (mf *DOCXFormatter) Format(result *entity.PredictionResult) ([]byte, error) {
	if err := checkResult(result); err != nil {
		return nil, err
	}
	p := &result.Paper

	doc := document.New()
	defer doc.Close()

	heading := func(style, text string) {
		par := doc.AddParagraph()
		par.SetStyle(style)
		par.AddRun().AddText(text)
	}
	line := func(text string) {
		doc.AddParagraph().AddRun().AddText(text)
	}

	heading("Title", baseTitle)
	line(generatedLine(p))

	heading("Heading1", summaryTitle)
	for _, l := range summaryLines(p) {
		line(l)
	}

	heading("Heading1", topicsTitle)
	for _, t := range p.TopTopics {
		line(topicLine(t))
	}

	heading("Heading1", questionsTitle)
	for _, s := range p.PredictedQuestions {
		heading("Heading2", s.Section)
		for _, q := range s.Questions {
			line(q)
		}
	}

	var buf bytes.Buffer
	if err := doc.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (mf *DOCXFormatter) ContentType() string {
	return docxContentType
}

func (mf *DOCXFormatter) FileExtension() string {
	return docxFileExtension
}
