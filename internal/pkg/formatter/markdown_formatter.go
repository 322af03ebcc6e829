package formatter

import (
	"bytes"
	"fmt"

	"github.com/futig/examgenie/internal/entity"
)

const (
	markdownContentType   = "text/markdown; charset=utf-8"
	markdownFileExtension = ".md"
)

type MarkdownFormatter struct{}

func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

func (mf *MarkdownFormatter) Format(result *entity.PredictionResult) ([]byte, error) {
	if err := checkResult(result); err != nil {
		return nil, err
	}
	p := &result.Paper

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n\n_%s_\n\n", baseTitle, generatedLine(p))

	fmt.Fprintf(&buf, "## %s\n\n", summaryTitle)
	for _, line := range summaryLines(p) {
		fmt.Fprintf(&buf, "- %s\n", line)
	}

	fmt.Fprintf(&buf, "\n## %s\n\n", topicsTitle)
	for _, t := range p.TopTopics {
		fmt.Fprintf(&buf, "%s\n", topicLine(t))
	}

	fmt.Fprintf(&buf, "\n## %s\n", questionsTitle)
	for _, s := range p.PredictedQuestions {
		fmt.Fprintf(&buf, "\n### %s\n\n", s.Section)
		for _, q := range s.Questions {
			fmt.Fprintf(&buf, "%s\n\n", q)
		}
	}

	return buf.Bytes(), nil
}

func (mf *MarkdownFormatter) ContentType() string {
	return markdownContentType
}

func (mf *MarkdownFormatter) FileExtension() string {
	return markdownFileExtension
}
