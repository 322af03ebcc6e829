package workflow

import (
	"context"
	"sync"

	"github.com/futig/examgenie/internal/entity"
	"github.com/futig/examgenie/internal/pkg/logger"
	"github.com/futig/examgenie/internal/pkg/validator"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Backend is the part of the Backend Service the workflow consumes
type Backend interface {
	Upload(ctx context.Context, files []entity.SelectedFile) ([]entity.ExtractedText, error)
	Predict(ctx context.Context, texts []string) (*entity.PredictionResult, error)
	DownloadURL(ref string) string
	BaseURL() string
}

// Renderer applies effects to a rendering surface
type Renderer interface {
	Apply(ctx context.Context, effect Effect)
}

// RendererFunc adapts a function to Renderer
type RendererFunc func(ctx context.Context, effect Effect)

func (f RendererFunc) Apply(ctx context.Context, effect Effect) {
	f(ctx, effect)
}

// Controller drives the select → upload → predict → download workflow over
// one Session. State transitions run under mu; network calls never do.
type Controller struct {
	mu       sync.Mutex
	session  *Session
	backend  Backend
	renderer Renderer
}

func NewController(backend Backend, renderer Renderer, v *validator.SelectionValidator) *Controller {
	return &Controller{
		session:  NewSession(backend.BaseURL(), v),
		backend:  backend,
		renderer: renderer,
	}
}

// AddFiles appends the valid part of batch to the selection.
func (c *Controller) AddFiles(ctx context.Context, batch []entity.SelectedFile) error {
	ctx = logger.WithAction(ctx, "select_files")

	effects, err := c.transition(func(s *Session) ([]Effect, error) {
		return s.AddFiles(batch)
	})
	c.apply(ctx, effects)

	if err != nil {
		ctxzap.Info(ctx, "file batch rejected", zap.Int("batch_size", len(batch)))
		return err
	}

	ctxzap.Debug(ctx, "files selected", zap.Int("batch_size", len(batch)))
	return nil
}

// RemoveFile deletes the selection entry at index.
func (c *Controller) RemoveFile(ctx context.Context, index int) error {
	effects, err := c.transition(func(s *Session) ([]Effect, error) {
		return s.RemoveFile(index)
	})
	c.apply(ctx, effects)
	return err
}

// Upload sends the selection for extraction.
func (c *Controller) Upload(ctx context.Context) error {
	ctx = logger.WithAction(ctx, "upload")

	var files []entity.SelectedFile
	effects, err := c.transition(func(s *Session) ([]Effect, error) {
		var (
			effects []Effect
			err     error
		)
		files, effects, err = s.BeginUpload()
		return effects, err
	})
	c.apply(ctx, effects)
	if err != nil {
		return err
	}

	ctxzap.Info(ctx, "uploading files", zap.Int("file_count", len(files)))

	texts, callErr := c.backend.Upload(ctx, files)
	if callErr != nil {
		ctxzap.Warn(ctx, "upload failed", zap.Error(callErr))
	} else {
		ctxzap.Info(ctx, "text extracted", zap.Int("text_count", len(texts)))
	}

	effects, _ = c.transition(func(s *Session) ([]Effect, error) {
		return s.FinishUpload(texts, callErr), nil
	})
	c.apply(ctx, effects)

	return callErr
}

// Predict sends the extracted texts for prediction.
func (c *Controller) Predict(ctx context.Context) error {
	ctx = logger.WithAction(ctx, "predict")

	var texts []string
	effects, err := c.transition(func(s *Session) ([]Effect, error) {
		var (
			effects []Effect
			err     error
		)
		texts, effects, err = s.BeginPredict()
		return effects, err
	})
	c.apply(ctx, effects)
	if err != nil {
		return err
	}

	ctxzap.Info(ctx, "requesting prediction", zap.Int("text_count", len(texts)))

	result, callErr := c.backend.Predict(ctx, texts)
	if callErr != nil {
		ctxzap.Warn(ctx, "prediction failed", zap.Error(callErr))
	}

	effects, _ = c.transition(func(s *Session) ([]Effect, error) {
		return s.FinishPredict(result, callErr), nil
	})
	c.apply(ctx, effects)

	return callErr
}

// Download emits OpenDownload for the live artifact. It performs no request itself.
func (c *Controller) Download(ctx context.Context) error {
	effects, err := c.transition(func(s *Session) ([]Effect, error) {
		return s.Download(c.backend.DownloadURL)
	})
	c.apply(ctx, effects)
	return err
}

// Reset starts over with an empty selection.
func (c *Controller) Reset(ctx context.Context) {
	effects, _ := c.transition(func(s *Session) ([]Effect, error) {
		return s.Reset(), nil
	})
	c.apply(ctx, effects)
}

// ListFiles re-renders the selection.
func (c *Controller) ListFiles(ctx context.Context) {
	effects, _ := c.transition(func(s *Session) ([]Effect, error) {
		return []Effect{RenderFileList{Items: buildFileList(s.files)}}, nil
	})
	c.apply(ctx, effects)
}

// Refresh re-renders everything the session currently holds.
func (c *Controller) Refresh(ctx context.Context) {
	effects, _ := c.transition(func(s *Session) ([]Effect, error) {
		effects := []Effect{
			RenderFileList{Items: buildFileList(s.files)},
			SetUploadAction{Visible: len(s.files) > 0},
		}
		if len(s.extracted) > 0 {
			effects = append(effects, RenderExtracted{Previews: buildPreviews(s.extracted)})
		}
		if s.prediction != nil {
			effects = append(effects, RenderPrediction{View: BuildPredictionView(s.prediction)})
		}
		return effects, nil
	})
	c.apply(ctx, effects)
}

func (c *Controller) Files() []entity.SelectedFile {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Files()
}

func (c *Controller) Extracted() []entity.ExtractedText {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Extracted()
}

func (c *Controller) Prediction() *entity.PredictionResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Prediction()
}

func (c *Controller) Busy(phase Phase) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Busy(phase)
}

func (c *Controller) transition(fn func(s *Session) ([]Effect, error)) ([]Effect, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return fn(c.session)
}

func (c *Controller) apply(ctx context.Context, effects []Effect) {
	if c.renderer == nil {
		return
	}
	for _, e := range effects {
		c.renderer.Apply(ctx, e)
	}
}
