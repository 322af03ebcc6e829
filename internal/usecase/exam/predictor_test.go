package exam

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedPredictor() *Predictor {
	return &Predictor{now: func() time.Time {
		return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	}}
}

func TestExtractQuestions(t *testing.T) {
	t.Run("numbered questions", func(t *testing.T) {
		got := ExtractQuestions("Q1. Explain photosynthesis in plants\nQ2. Describe cellular respiration process")

		assert.Len(t, got, 4)
		assert.Contains(t, got, "Explain photosynthesis in plants")
		assert.Contains(t, got, "Describe cellular respiration process")
		assert.NotContains(t, got, "Q")
	})

	t.Run("paragraph fallback", func(t *testing.T) {
		got := ExtractQuestions("First paragraph here\n\nSecond paragraph here\n\nok")
		assert.Equal(t, []string{"First paragraph here", "Second paragraph here"}, got)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, ExtractQuestions(""))
	})
}

func TestExtractKeywords(t *testing.T) {
	got := ExtractKeywords("The Photosynthesis of plants, and PLANTS! Explain it.")
	assert.Equal(t, []string{"photosynthesis", "plants"}, got)
}

func TestPredictor_Predict(t *testing.T) {
	paper := fixedPredictor().Predict([]string{
		"Q1. Explain photosynthesis in plants\nQ2. Describe cellular respiration process",
		"Q1. Explain photosynthesis in plants\nQ2. Outline genetics inheritance rules",
	})

	assert.Equal(t, 2, paper.TotalPapersAnalyzed)
	assert.Equal(t, 8, paper.TotalQuestionsFound)
	assert.Equal(t, "2024-05-01 10:00:00", paper.GeneratedDate)

	require.Len(t, paper.TopTopics, 9)
	assert.Equal(t, "photosynthesis", paper.TopTopics[0].Topic)
	assert.Equal(t, 2, paper.TopTopics[0].Frequency)
	assert.Equal(t, "plants", paper.TopTopics[1].Topic)
	assert.Equal(t, "cellular", paper.TopTopics[2].Topic)
	assert.Equal(t, 1, paper.TopTopics[2].Frequency)

	require.Len(t, paper.PredictedQuestions, 3)

	a := paper.PredictedQuestions[0]
	assert.Equal(t, "Section A - High Probability Questions", a.Section)
	assert.Equal(t, []string{
		"Q1. Explain photosynthesis in plants",
		"Q2. Describe cellular respiration process",
		"Q3. Outline genetics inheritance rules",
	}, a.Questions)

	b := paper.PredictedQuestions[1]
	require.Len(t, b.Questions, 3)
	assert.Equal(t, "Q6. How would you integrate photosynthesis with plants in a practical scenario?", b.Questions[0])
	assert.Equal(t, "Q7. Compare the effects of cellular and genetics in system performance.", b.Questions[1])

	c := paper.PredictedQuestions[2]
	require.Len(t, c.Questions, 4)
	assert.Equal(t, "Q9. Design a scenario where photosynthesis can solve a real-world problem.", c.Questions[0])
	assert.Equal(t, "Q12. Design a scenario where genetics can solve a real-world problem.", c.Questions[3])
}

func TestPredictor_FewTopics(t *testing.T) {
	paper := fixedPredictor().Predict([]string{"Algebra matrices"})

	require.Len(t, paper.TopTopics, 2)
	assert.NotNil(t, paper.PredictedQuestions[1].Questions)
	assert.Empty(t, paper.PredictedQuestions[1].Questions)
	assert.Len(t, paper.PredictedQuestions[2].Questions, 2)
}

func TestMostCommon_TiesKeepFirstSeenOrder(t *testing.T) {
	got := mostCommon([]string{"b", "a", "c", "a", "d", "e", "f"}, 3)
	assert.Equal(t, []string{"a", "b", "c"}, got)
}
