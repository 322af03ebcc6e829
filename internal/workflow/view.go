package workflow

import (
	"fmt"
	"math"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/futig/examgenie/internal/entity"
)

const (
	// PreviewLimit is the number of characters shown per extracted text
	PreviewLimit = 500
	// MaxTopics is the number of ranked topics rendered
	MaxTopics = 5

	ellipsis = "..."
)

const (
	iconPDF   = "📄"
	iconImage = "🖼️"
)

type FileListItem struct {
	Index int
	Name  string
	Icon  string
	Size  string
	Kind  entity.FileKind
}

type TextPreview struct {
	Filename  string
	Text      string
	Truncated bool
}

type TopicView struct {
	Label     string
	Frequency int
}

func (t TopicView) String() string {
	return fmt.Sprintf("%s — %dx", t.Label, t.Frequency)
}

// PredictionView is what the adapters render for a PredictionResult
type PredictionView struct {
	PapersAnalyzed int
	QuestionsFound int
	GeneratedDate  string
	Topics         []TopicView
	Sections       []entity.QuestionSection
}

func buildFileList(files []entity.SelectedFile) []FileListItem {
	items := make([]FileListItem, 0, len(files))
	for i, f := range files {
		icon := iconImage
		if f.Kind == entity.FileKindPDF {
			icon = iconPDF
		}
		items = append(items, FileListItem{
			Index: i,
			Name:  f.Name,
			Icon:  icon,
			Size:  FormatFileSize(f.Size),
			Kind:  f.Kind,
		})
	}
	return items
}

func buildPreviews(texts []entity.ExtractedText) []TextPreview {
	previews := make([]TextPreview, 0, len(texts))
	for _, t := range texts {
		text, truncated := Preview(t.Text, PreviewLimit)
		previews = append(previews, TextPreview{Filename: t.Filename, Text: text, Truncated: truncated})
	}
	return previews
}

// BuildPredictionView derives the rendered form of a prediction. Questions are passed through untouched.
func BuildPredictionView(result *entity.PredictionResult) PredictionView {
	paper := result.Paper

	n := min(MaxTopics, len(paper.TopTopics))
	topics := make([]TopicView, 0, n)
	for _, t := range paper.TopTopics[:n] {
		topics = append(topics, TopicView{Label: Capitalize(t.Topic), Frequency: t.Frequency})
	}

	sections := make([]entity.QuestionSection, len(paper.PredictedQuestions))
	copy(sections, paper.PredictedQuestions)

	return PredictionView{
		PapersAnalyzed: paper.TotalPapersAnalyzed,
		QuestionsFound: paper.TotalQuestionsFound,
		GeneratedDate:  paper.GeneratedDate,
		Topics:         topics,
		Sections:       sections,
	}
}

// Preview returns the first limit characters of text, with an ellipsis when it was longer.
func Preview(text string, limit int) (string, bool) {
	if utf8.RuneCountInString(text) <= limit {
		return text, false
	}
	runes := []rune(text)
	return string(runes[:limit]) + ellipsis, true
}

// Capitalize upper-cases the first character only.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

var sizeUnits = []string{"Bytes", "KB", "MB", "GB", "TB"}

// FormatFileSize renders a byte count in base 1024 with at most two decimals.
func FormatFileSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}

	i := int(math.Floor(math.Log(float64(bytes)) / math.Log(1024)))
	i = min(i, len(sizeUnits)-1)

	value := math.Round(float64(bytes)/math.Pow(1024, float64(i))*100) / 100
	return strconv.FormatFloat(value, 'f', -1, 64) + " " + sizeUnits[i]
}
