package render

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/futig/examgenie/internal/entity"
	"github.com/futig/examgenie/internal/preferences"
	"github.com/futig/examgenie/internal/workflow"
	"github.com/stretchr/testify/assert"
)

func TestFileList(t *testing.T) {
	assert.Equal(t, MsgNoFiles, FileList(nil))

	got := FileList([]workflow.FileListItem{
		{Index: 0, Name: "paper.pdf", Icon: "📄", Size: "2 KB"},
		{Index: 1, Name: "scan.png", Icon: "🖼️", Size: "10 Bytes"},
	})
	assert.Equal(t, "📂 Selected files:\n\n1. 📄 paper.pdf (2 KB)\n2. 🖼️ scan.png (10 Bytes)", got)
}

func TestPrediction(t *testing.T) {
	got := Prediction(workflow.PredictionView{
		PapersAnalyzed: 2,
		QuestionsFound: 5,
		GeneratedDate:  "2024-05-01",
		Topics:         []workflow.TopicView{{Label: "Algebra", Frequency: 3}},
		Sections: []entity.QuestionSection{
			{Section: "Section A", Questions: []string{"1. Solve x"}},
		},
	})

	assert.Contains(t, got, "Papers analyzed: 2")
	assert.Contains(t, got, "Questions found: 5")
	assert.Contains(t, got, "• Algebra — 3x")
	assert.Contains(t, got, "Section A\n1. Solve x")
	assert.NotContains(t, got[len(got)-1:], "\n")
}

func TestNotice(t *testing.T) {
	assert.Equal(t, "⚠️ pick files", Notice(workflow.Notice{Kind: workflow.NoticeValidation, Message: "pick files"}))
	assert.Equal(t, "❌ offline", Notice(workflow.Notice{Kind: workflow.NoticeTransport, Message: "offline"}))
}

func TestHeader(t *testing.T) {
	in := Header(preferences.BuildHeader(&entity.UserSession{Name: "Ada"}, entity.ThemeLight))
	assert.Equal(t, "ExamGenie 🌙  Welcome, Ada!", in)

	out := Header(preferences.BuildHeader(nil, entity.ThemeDark))
	assert.Equal(t, "ExamGenie ☀️  Not logged in. Use /login", out)
}

func TestBusyMessage(t *testing.T) {
	assert.Equal(t, MsgUploading, BusyMessage(workflow.PhaseUpload))
	assert.Equal(t, MsgPredicting, BusyMessage(workflow.PhasePredict))
}

func TestClassifyError(t *testing.T) {
	assert.Equal(t, ErrGeneric, ClassifyError(nil))
	assert.Equal(t, ErrGeneric, ClassifyError(errors.New("boom")))
	assert.Equal(t, ErrTimeout, ClassifyError(fmt.Errorf("wrap: %w", context.DeadlineExceeded)))
	assert.Equal(t, "❌ Invalid credentials",
		ClassifyError(&entity.ApplicationError{Message: "Invalid credentials"}))
}
