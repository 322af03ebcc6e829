package workflow

import (
	"strings"
	"testing"

	"github.com/futig/examgenie/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0 Bytes"},
		{1, "1 Bytes"},
		{1023, "1023 Bytes"},
		{1024, "1 KB"},
		{1536, "1.5 KB"},
		{1234567, "1.18 MB"},
		{5 * 1024 * 1024 * 1024, "5 GB"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatFileSize(tt.bytes))
		})
	}
}

func TestPreview(t *testing.T) {
	short, truncated := Preview("Lorem ipsum", PreviewLimit)
	assert.Equal(t, "Lorem ipsum", short)
	assert.False(t, truncated)

	exact := strings.Repeat("a", PreviewLimit)
	got, truncated := Preview(exact, PreviewLimit)
	assert.Equal(t, exact, got)
	assert.False(t, truncated)

	long := strings.Repeat("é", PreviewLimit+10)
	got, truncated = Preview(long, PreviewLimit)
	assert.True(t, truncated)
	assert.Equal(t, strings.Repeat("é", PreviewLimit)+"...", got)
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Algebra", Capitalize("algebra"))
	assert.Equal(t, "Linear algebra", Capitalize("linear algebra"))
	assert.Equal(t, "ÉQuations", Capitalize("éQuations"))
	assert.Equal(t, "", Capitalize(""))
}

func TestBuildPredictionView(t *testing.T) {
	result := &entity.PredictionResult{
		Paper: entity.PredictedPaper{
			TotalPapersAnalyzed: 2,
			TotalQuestionsFound: 14,
			GeneratedDate:       "2024-05-01 10:00:00",
			TopTopics: []entity.TopicFrequency{
				{Topic: "algebra", Frequency: 7},
				{Topic: "geometry", Frequency: 3},
				{Topic: "calculus", Frequency: 3},
				{Topic: "vectors", Frequency: 2},
				{Topic: "matrices", Frequency: 2},
				{Topic: "probability", Frequency: 1},
			},
			PredictedQuestions: []entity.QuestionSection{
				{Section: "Section B", Questions: []string{"Q6. b", "Q7. a"}},
				{Section: "Section A", Questions: []string{"Q1. z", "Q1. z", "Q2. y"}},
				{Section: "Section C", Questions: nil},
			},
		},
	}

	view := BuildPredictionView(result)

	assert.Equal(t, 2, view.PapersAnalyzed)
	assert.Equal(t, 14, view.QuestionsFound)
	assert.Equal(t, "2024-05-01 10:00:00", view.GeneratedDate)

	require.Len(t, view.Topics, MaxTopics)
	assert.Equal(t, "Algebra — 7x", view.Topics[0].String())
	assert.Equal(t, "Geometry — 3x", view.Topics[1].String())
	for i, topic := range view.Topics {
		assert.Equal(t, result.Paper.TopTopics[i].Frequency, topic.Frequency)
	}

	require.Len(t, view.Sections, 3)
	assert.Equal(t, "Section B", view.Sections[0].Section)
	assert.Equal(t, []string{"Q1. z", "Q1. z", "Q2. y"}, view.Sections[1].Questions)

	total := 0
	for _, s := range view.Sections {
		total += len(s.Questions)
	}
	assert.Equal(t, result.Paper.QuestionCount(), total)
}

func TestBuildPredictionView_FewerTopicsThanLimit(t *testing.T) {
	view := BuildPredictionView(&entity.PredictionResult{
		Paper: entity.PredictedPaper{TopTopics: []entity.TopicFrequency{{Topic: "algebra", Frequency: 7}}},
	})
	assert.Len(t, view.Topics, 1)

	view = BuildPredictionView(&entity.PredictionResult{})
	assert.Empty(t, view.Topics)
	assert.Empty(t, view.Sections)
}
