package entity

import (
	"encoding/json"
	"fmt"
	"slices"
)

// ExtractedText is the plain text the backend extracted from one uploaded file
type ExtractedText struct {
	Filename string `json:"filename"`
	Text     string `json:"text"`
}

// TopicFrequency is one entry of the ranked topic list.
// On the wire it is a two element array: [topic, frequency].
type TopicFrequency struct {
	Topic     string
	Frequency int
}

func (t TopicFrequency) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{t.Topic, t.Frequency})
}

func (t *TopicFrequency) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("topic entry: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("%w: topic entry has %d elements, want 2", ErrInvalidFormat, len(pair))
	}
	if err := json.Unmarshal(pair[0], &t.Topic); err != nil {
		return fmt.Errorf("topic label: %w", err)
	}
	if err := json.Unmarshal(pair[1], &t.Frequency); err != nil {
		return fmt.Errorf("topic frequency: %w", err)
	}
	return nil
}

type QuestionSection struct {
	Section   string   `json:"section"`
	Questions []string `json:"questions"`
}

// PredictedPaper is the analysis payload returned by /predict
type PredictedPaper struct {
	TotalPapersAnalyzed int               `json:"total_papers_analyzed"`
	TotalQuestionsFound int               `json:"total_questions_found"`
	GeneratedDate       string            `json:"generated_date"`
	TopTopics           []TopicFrequency  `json:"top_topics"`
	PredictedQuestions  []QuestionSection `json:"predicted_questions"`
}

// QuestionCount returns the number of questions across all sections
func (p *PredictedPaper) QuestionCount() int {
	total := 0
	for _, s := range p.PredictedQuestions {
		total += len(s.Questions)
	}
	return total
}

// PredictionResult is the live result of the last successful prediction
type PredictionResult struct {
	Paper   PredictedPaper `json:"predicted_paper"`
	PDFPath string         `json:"pdf_path,omitempty"`
}

// Clone returns a copy that shares no slices with r
func (r *PredictionResult) Clone() *PredictionResult {
	if r == nil {
		return nil
	}

	out := *r
	out.Paper.TopTopics = slices.Clone(r.Paper.TopTopics)
	if r.Paper.PredictedQuestions != nil {
		out.Paper.PredictedQuestions = make([]QuestionSection, len(r.Paper.PredictedQuestions))
		for i, sec := range r.Paper.PredictedQuestions {
			out.Paper.PredictedQuestions[i] = QuestionSection{
				Section:   sec.Section,
				Questions: slices.Clone(sec.Questions),
			}
		}
	}
	return &out
}

// HasArtifact reports whether a downloadable document was generated
func (r *PredictionResult) HasArtifact() bool {
	return r != nil && r.PDFPath != ""
}
