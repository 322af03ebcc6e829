package exam

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/futig/examgenie/internal/entity"
)

const (
	topTopicsLimit      = 10
	topQuestionsLimit   = 5
	applicationLimit    = 4
	minQuestionLength   = 5
	minKeywordLength    = 3
	generatedDateLayout = "2006-01-02 15:04:05"
)

var questionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Q\d+[.):]`),
	regexp.MustCompile(`(?i)\d+[.):]`),
	regexp.MustCompile(`(?i)Question\s+\d+`),
}

var nonLetters = regexp.MustCompile(`[^a-zA-Z\s]`)

// Question words and generic verbs that never make a topic
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {}, "in": {}, "on": {}, "at": {}, "to": {}, "for": {},
	"of": {}, "with": {}, "is": {}, "are": {}, "was": {}, "were": {}, "be": {}, "been": {}, "being": {},
	"what": {}, "which": {}, "who": {}, "when": {}, "where": {}, "why": {}, "how": {}, "question": {},
	"their": {}, "explain": {}, "describe": {}, "concept": {}, "provide": {}, "discuss": {},
	"compare": {}, "contrast": {}, "relate": {}, "show": {}, "analyze": {}, "demonstrate": {},
	"apply": {}, "address": {}, "give": {}, "list": {}, "application": {}, "case": {}, "study": {},
}

var applicationTemplates = []string{
	"Q%d. Design a scenario where %s can solve a real-world problem.",
	"Q%d. Explain how %s can be applied in a practical project or experiment.",
	"Q%d. Discuss a real-life example where %s is used effectively.",
}

// Predictor builds a predicted paper from the text of previous papers
type Predictor struct {
	now func() time.Time
}

func NewPredictor() *Predictor {
	return &Predictor{now: time.Now}
}

// Predict analyses texts. Topic frequency counts the papers a keyword appears in.
func (p *Predictor) Predict(texts []string) entity.PredictedPaper {
	var questions []string
	counts := map[string]int{}

	for _, text := range texts {
		questions = append(questions, ExtractQuestions(text)...)
		for _, kw := range ExtractKeywords(text) {
			counts[kw]++
		}
	}

	topics := rankTopics(counts, topTopicsLimit)

	return entity.PredictedPaper{
		TotalPapersAnalyzed: len(texts),
		TotalQuestionsFound: len(questions),
		GeneratedDate:       p.now().Format(generatedDateLayout),
		TopTopics:           topics,
		PredictedQuestions:  predictSections(questions, topics),
	}
}

// ExtractQuestions splits text on question markers (Q1. 1) Question 3) and keeps
// every non-trivial line after a marker. Without markers it falls back to paragraphs.
func ExtractQuestions(text string) []string {
	var questions []string
	for _, pattern := range questionPatterns {
		chunks := pattern.Split(text, -1)
		for _, chunk := range chunks[1:] {
			for _, line := range strings.Split(chunk, "\n") {
				if line = strings.TrimSpace(line); len(line) > minQuestionLength {
					questions = append(questions, line)
				}
			}
		}
	}

	if len(questions) == 0 {
		for _, para := range strings.Split(text, "\n\n") {
			if para = strings.TrimSpace(para); len(para) > minQuestionLength {
				questions = append(questions, para)
			}
		}
	}
	return questions
}

// ExtractKeywords returns the distinct lowercased keywords of text, sorted
func ExtractKeywords(text string) []string {
	cleaned := nonLetters.ReplaceAllString(strings.ToLower(text), "")

	seen := map[string]struct{}{}
	for _, w := range strings.Fields(cleaned) {
		if len(w) <= minKeywordLength {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		seen[w] = struct{}{}
	}

	keywords := make([]string, 0, len(seen))
	for w := range seen {
		keywords = append(keywords, w)
	}
	sort.Strings(keywords)
	return keywords
}

func rankTopics(counts map[string]int, limit int) []entity.TopicFrequency {
	topics := make([]entity.TopicFrequency, 0, len(counts))
	for topic, n := range counts {
		topics = append(topics, entity.TopicFrequency{Topic: topic, Frequency: n})
	}
	sort.Slice(topics, func(i, j int) bool {
		if topics[i].Frequency != topics[j].Frequency {
			return topics[i].Frequency > topics[j].Frequency
		}
		return topics[i].Topic < topics[j].Topic
	})
	if len(topics) > limit {
		topics = topics[:limit]
	}
	return topics
}

// mostCommon ranks questions by repetition; ties keep first-seen order
func mostCommon(questions []string, limit int) []string {
	counts := map[string]int{}
	var order []string
	for _, q := range questions {
		if counts[q] == 0 {
			order = append(order, q)
		}
		counts[q]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > limit {
		order = order[:limit]
	}
	return order
}

func predictSections(questions []string, topics []entity.TopicFrequency) []entity.QuestionSection {
	high := entity.QuestionSection{Section: "Section A - High Probability Questions", Questions: []string{}}
	for i, q := range mostCommon(questions, topQuestionsLimit) {
		high.Questions = append(high.Questions, fmt.Sprintf("Q%d. %s", i+1, q))
	}

	analytical := entity.QuestionSection{Section: "Section B - Analytical & Comparison Questions", Questions: []string{}}
	if len(topics) >= 4 {
		analytical.Questions = append(analytical.Questions,
			fmt.Sprintf("Q6. How would you integrate %s with %s in a practical scenario?", topics[0].Topic, topics[1].Topic),
			fmt.Sprintf("Q7. Compare the effects of %s and %s in system performance.", topics[2].Topic, topics[3].Topic),
			fmt.Sprintf("Q8. Propose a method to optimize %s using principles of %s.", topics[0].Topic, topics[2].Topic),
		)
	}

	applied := entity.QuestionSection{Section: "Section C - Application-Based Questions", Questions: []string{}}
	for i, t := range topics {
		if i == applicationLimit {
			break
		}
		n := 9 + i
		applied.Questions = append(applied.Questions,
			fmt.Sprintf(applicationTemplates[i%len(applicationTemplates)], n, t.Topic))
	}

	return []entity.QuestionSection{high, analytical, applied}
}
