package workflow

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/futig/examgenie/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	mu sync.Mutex

	uploadFn  func(files []entity.SelectedFile) ([]entity.ExtractedText, error)
	predictFn func(texts []string) (*entity.PredictionResult, error)

	uploadCalls  int
	predictCalls int
	predictTexts []string
}

func (f *fakeBackend) Upload(_ context.Context, files []entity.SelectedFile) ([]entity.ExtractedText, error) {
	f.mu.Lock()
	f.uploadCalls++
	fn := f.uploadFn
	f.mu.Unlock()
	return fn(files)
}

func (f *fakeBackend) Predict(_ context.Context, texts []string) (*entity.PredictionResult, error) {
	f.mu.Lock()
	f.predictCalls++
	f.predictTexts = texts
	fn := f.predictFn
	f.mu.Unlock()
	return fn(texts)
}

func (f *fakeBackend) DownloadURL(ref string) string {
	return "http://localhost:5000/download/" + ref
}

func (f *fakeBackend) BaseURL() string {
	return "http://localhost:5000"
}

type recorder struct {
	mu      sync.Mutex
	effects []Effect
}

func (r *recorder) Apply(_ context.Context, e Effect) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.effects = append(r.effects, e)
}

func (r *recorder) take() []Effect {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.effects
	r.effects = nil
	return out
}

func echoUpload(files []entity.SelectedFile) ([]entity.ExtractedText, error) {
	out := make([]entity.ExtractedText, 0, len(files))
	for _, f := range files {
		out = append(out, entity.ExtractedText{Filename: f.Name, Text: "text of " + f.Name})
	}
	return out, nil
}

func samplePrediction() *entity.PredictionResult {
	return &entity.PredictionResult{
		Paper: entity.PredictedPaper{
			TotalPapersAnalyzed: 2,
			TotalQuestionsFound: 10,
			GeneratedDate:       "2024-05-01 10:00:00",
			TopTopics: []entity.TopicFrequency{
				{Topic: "algebra", Frequency: 7},
				{Topic: "geometry", Frequency: 3},
			},
			PredictedQuestions: []entity.QuestionSection{
				{Section: "Section A", Questions: []string{"Q1. Solve x", "Q2. Prove y"}},
			},
		},
		PDFPath: "predicted_exam_20240501_100000.pdf",
	}
}

func TestController_EndToEnd(t *testing.T) {
	ctx := context.Background()
	backend := &fakeBackend{
		uploadFn: echoUpload,
		predictFn: func([]string) (*entity.PredictionResult, error) {
			return samplePrediction(), nil
		},
	}
	rec := &recorder{}
	c := NewController(backend, rec, nil)

	require.NoError(t, c.AddFiles(ctx, []entity.SelectedFile{file("paper1.pdf"), file("scan.png")}))
	rec.take()

	require.NoError(t, c.Upload(ctx))
	effects := rec.take()
	require.Len(t, effects, 4)
	assert.Equal(t, SetBusy{Phase: PhaseUpload, Busy: true}, effects[0])
	previews := effects[1].(RenderExtracted).Previews
	require.Len(t, previews, 2)
	assert.Equal(t, "paper1.pdf", previews[0].Filename)
	assert.Equal(t, Reveal{Region: RegionExtracted}, effects[2])
	assert.Equal(t, SetBusy{Phase: PhaseUpload, Busy: false}, effects[3])

	require.NoError(t, c.Predict(ctx))
	assert.Equal(t, []string{"text of paper1.pdf", "text of scan.png"}, backend.predictTexts)
	effects = rec.take()
	require.Len(t, effects, 4)
	view := effects[1].(RenderPrediction).View
	require.Len(t, view.Topics, 2)
	assert.Equal(t, "Algebra — 7x", view.Topics[0].String())
	assert.Equal(t, 2, view.PapersAnalyzed)

	require.NoError(t, c.Download(ctx))
	assert.Equal(t, []Effect{OpenDownload{
		URL: "http://localhost:5000/download/predicted_exam_20240501_100000.pdf",
		Ref: "predicted_exam_20240501_100000.pdf",
	}}, rec.take())
}

func TestController_UploadWithoutFilesSkipsBackend(t *testing.T) {
	backend := &fakeBackend{uploadFn: echoUpload}
	rec := &recorder{}
	c := NewController(backend, rec, nil)

	err := c.Upload(context.Background())

	assert.ErrorIs(t, err, entity.ErrNoFilesSelected)
	assert.Zero(t, backend.uploadCalls)
	effects := rec.take()
	require.Len(t, effects, 1)
	assert.Equal(t, MsgNoFilesSelected, effects[0].(Notify).Notice.Message)
}

func TestController_UploadFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	calls := 0
	backend := &fakeBackend{
		uploadFn: func(files []entity.SelectedFile) ([]entity.ExtractedText, error) {
			calls++
			if calls == 1 {
				return echoUpload(files)
			}
			return nil, &entity.TransportError{Err: errors.New("dial tcp: connection refused")}
		},
	}
	rec := &recorder{}
	c := NewController(backend, rec, nil)
	require.NoError(t, c.AddFiles(ctx, []entity.SelectedFile{file("a.pdf")}))
	require.NoError(t, c.Upload(ctx))
	before := c.Extracted()
	rec.take()

	err := c.Upload(ctx)

	assert.True(t, entity.IsTransport(err))
	assert.Equal(t, before, c.Extracted())
	assert.False(t, c.Busy(PhaseUpload))
	effects := rec.take()
	require.Len(t, effects, 3)
	n := effects[1].(Notify).Notice
	assert.Equal(t, NoticeTransport, n.Kind)
	assert.Contains(t, n.Message, "http://localhost:5000")
	assert.Equal(t, SetBusy{Phase: PhaseUpload, Busy: false}, effects[2])
}

func TestController_PredictApplicationError(t *testing.T) {
	ctx := context.Background()
	backend := &fakeBackend{
		uploadFn: echoUpload,
		predictFn: func([]string) (*entity.PredictionResult, error) {
			return nil, &entity.ApplicationError{Message: "No texts provided", StatusCode: 400}
		},
	}
	rec := &recorder{}
	c := NewController(backend, rec, nil)
	require.NoError(t, c.AddFiles(ctx, []entity.SelectedFile{file("a.pdf")}))
	require.NoError(t, c.Upload(ctx))
	rec.take()

	err := c.Predict(ctx)

	assert.True(t, entity.IsApplication(err))
	assert.Nil(t, c.Prediction())
	effects := rec.take()
	require.Len(t, effects, 3)
	assert.Equal(t, "Error: No texts provided", effects[1].(Notify).Notice.Message)
	assert.False(t, c.Busy(PhasePredict))
}

func TestController_ConcurrentUploadIsRejected(t *testing.T) {
	ctx := context.Background()
	started := make(chan struct{})
	release := make(chan struct{})
	backend := &fakeBackend{
		uploadFn: func(files []entity.SelectedFile) ([]entity.ExtractedText, error) {
			close(started)
			<-release
			return echoUpload(files)
		},
	}
	c := NewController(backend, &recorder{}, nil)
	require.NoError(t, c.AddFiles(ctx, []entity.SelectedFile{file("a.pdf")}))

	done := make(chan error, 1)
	go func() { done <- c.Upload(ctx) }()
	<-started

	assert.True(t, c.Busy(PhaseUpload))
	assert.ErrorIs(t, c.Upload(ctx), entity.ErrBusy)

	// the lock is not held across the backend call
	require.NoError(t, c.AddFiles(ctx, []entity.SelectedFile{file("b.png")}))
	assert.Len(t, c.Files(), 2)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, c.Busy(PhaseUpload))
	assert.Equal(t, 1, backend.uploadCalls)
}

func TestController_DownloadWithoutPrediction(t *testing.T) {
	rec := &recorder{}
	c := NewController(&fakeBackend{}, rec, nil)

	err := c.Download(context.Background())

	assert.ErrorIs(t, err, entity.ErrNoArtifact)
	effects := rec.take()
	require.Len(t, effects, 1)
	assert.Equal(t, NoticeValidation, effects[0].(Notify).Notice.Kind)
}

func TestController_Refresh(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{}
	c := NewController(&fakeBackend{uploadFn: echoUpload}, rec, nil)
	require.NoError(t, c.AddFiles(ctx, []entity.SelectedFile{file("a.pdf")}))
	require.NoError(t, c.Upload(ctx))
	rec.take()

	c.Refresh(ctx)

	effects := rec.take()
	require.Len(t, effects, 3)
	assert.IsType(t, RenderFileList{}, effects[0])
	assert.Equal(t, SetUploadAction{Visible: true}, effects[1])
	assert.IsType(t, RenderExtracted{}, effects[2])
}
