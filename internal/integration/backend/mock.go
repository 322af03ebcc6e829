package backend

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/futig/examgenie/internal/entity"
	"github.com/futig/examgenie/internal/pkg/formatter"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const mockBaseURL = "mock://backend"

// MockConnector answers like the Backend Service without any network calls
type MockConnector struct {
	mu          sync.Mutex
	predictions map[string]*entity.PredictionResult
	logger      *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		predictions: make(map[string]*entity.PredictionResult),
		logger:      logger,
	}
}

func (m *MockConnector) BaseURL() string {
	return mockBaseURL
}

func (m *MockConnector) DownloadURL(ref string) string {
	return mockBaseURL + "/download/" + ref
}

// Upload returns a placeholder text per file
func (m *MockConnector) Upload(ctx context.Context, files []entity.SelectedFile) ([]entity.ExtractedText, error) {
	ctxzap.Info(ctx, "[MOCK] uploading files", zap.Int("file_count", len(files)))

	texts := make([]entity.ExtractedText, 0, len(files))
	for _, f := range files {
		texts = append(texts, entity.ExtractedText{
			Filename: f.Name,
			Text: fmt.Sprintf("Q1. Explain the main topic covered in %s.\n"+
				"Q2. Solve the algebra problem from %s.\n"+
				"Q3. Describe the geometry of the figure.", f.Name, f.Name),
		})
	}
	return texts, nil
}

// Predict returns a fixed paper built from the number of texts
func (m *MockConnector) Predict(ctx context.Context, texts []string) (*entity.PredictionResult, error) {
	ctxzap.Info(ctx, "[MOCK] generating prediction", zap.Int("text_count", len(texts)))

	if len(texts) == 0 {
		return nil, &entity.ApplicationError{Message: "No texts provided", StatusCode: 400}
	}

	now := time.Now()
	result := &entity.PredictionResult{
		Paper: entity.PredictedPaper{
			TotalPapersAnalyzed: len(texts),
			TotalQuestionsFound: 3 * len(texts),
			GeneratedDate:       now.Format("2006-01-02 15:04:05"),
			TopTopics: []entity.TopicFrequency{
				{Topic: "algebra", Frequency: 2 * len(texts)},
				{Topic: "geometry", Frequency: len(texts)},
			},
			PredictedQuestions: []entity.QuestionSection{
				{Section: "Section A - Short Answer", Questions: []string{
					"Q1. Explain the main topic covered in the course.",
					"Q2. Solve the algebra problem.",
				}},
				{Section: "Section B - Long Answer", Questions: []string{
					"Q3. Describe the geometry of the figure.",
				}},
			},
		},
		PDFPath: fmt.Sprintf("predicted_paper_%s.pdf", now.Format("20060102_150405")),
	}

	m.mu.Lock()
	m.predictions[result.PDFPath] = result
	m.mu.Unlock()

	return result, nil
}

// Download renders the remembered prediction as PDF
func (m *MockConnector) Download(ctx context.Context, ref string, w io.Writer) (int64, error) {
	ctxzap.Info(ctx, "[MOCK] downloading artifact", zap.String("artifact", ref))

	m.mu.Lock()
	result, ok := m.predictions[ref]
	m.mu.Unlock()
	if !ok {
		return 0, &entity.ApplicationError{Message: "File not found", StatusCode: 404}
	}

	data, err := formatter.NewPDFFormatter().Format(result)
	if err != nil {
		return 0, err
	}

	n, err := w.Write(data)
	return int64(n), err
}

// Login accepts any non-empty credentials and derives the name from the email
func (m *MockConnector) Login(ctx context.Context, email, password string) (*entity.Account, error) {
	ctxzap.Info(ctx, "[MOCK] login", zap.String("email", email))

	if email == "" || password == "" {
		return nil, &entity.ApplicationError{Message: "Email and password required", StatusCode: 400}
	}

	name, _, _ := strings.Cut(email, "@")
	return &entity.Account{ID: "1", Name: name, Email: email}, nil
}

func (m *MockConnector) Register(ctx context.Context, req entity.RegisterRequest) (string, error) {
	ctxzap.Info(ctx, "[MOCK] register", zap.String("email", req.Email))

	if req.Username == "" || req.Email == "" || req.Password == "" {
		return "", &entity.ApplicationError{Message: "All fields are required", StatusCode: 400}
	}
	return "Registration successful", nil
}
