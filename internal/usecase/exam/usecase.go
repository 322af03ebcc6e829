package exam

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/futig/examgenie/internal/config"
	"github.com/futig/examgenie/internal/entity"
	"github.com/futig/examgenie/internal/pkg/validator"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const artifactTimeLayout = "20060102_150405"

// ArtifactRenderer renders the downloadable document of a prediction
type ArtifactRenderer interface {
	Format(result *entity.PredictionResult) ([]byte, error)
}

// UploadedFile is one part of an upload request
type UploadedFile struct {
	Name string
	Data []byte
}

// Usecase implements the development Backend Service
type Usecase struct {
	uploadDir string
	outputDir string
	extractor TextExtractor
	predictor *Predictor
	renderer  ArtifactRenderer
	accounts  AccountStore
	now       func() time.Time
}

// NewUsecase creates the use case. The upload and output directories are created on demand.
func NewUsecase(
	cfg *config.MockBackendConfig,
	extractor TextExtractor,
	predictor *Predictor,
	renderer ArtifactRenderer,
	accounts AccountStore,
) *Usecase {
	return &Usecase{
		uploadDir: cfg.UploadDir,
		outputDir: cfg.OutputDir,
		extractor: extractor,
		predictor: predictor,
		renderer:  renderer,
		accounts:  accounts,
		now:       time.Now,
	}
}

// Upload stores the accepted files and extracts their text. Files with an
// extension outside pdf, png, jpg, jpeg are skipped.
func (uc *Usecase) Upload(ctx context.Context, files []UploadedFile) ([]entity.ExtractedText, error) {
	if len(files) == 0 {
		return nil, entity.ErrNoFilesProvided
	}

	if err := os.MkdirAll(uc.uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	extracted := make([]entity.ExtractedText, 0, len(files))
	for _, f := range files {
		if !entity.IsAllowed(f.Name) {
			ctxzap.Debug(ctx, "skipping file with unsupported extension", zap.String("filename", f.Name))
			continue
		}

		name := validator.SanitizeFilename(f.Name)
		stored := filepath.Join(uc.uploadDir, uuid.New().String()+"_"+name)
		if err := os.WriteFile(stored, f.Data, 0o644); err != nil {
			return nil, fmt.Errorf("save %s: %w", name, err)
		}

		extracted = append(extracted, entity.ExtractedText{
			Filename: name,
			Text:     uc.extractor.Extract(ctx, name, f.Data),
		})
	}

	ctxzap.Info(ctx, "files processed",
		zap.Int("received", len(files)),
		zap.Int("extracted", len(extracted)),
	)

	return extracted, nil
}

// Predict analyses texts and writes the predicted paper PDF to the output directory.
func (uc *Usecase) Predict(ctx context.Context, texts []string) (*entity.PredictionResult, error) {
	if len(texts) == 0 {
		return nil, entity.ErrNoTextsProvided
	}

	result := &entity.PredictionResult{Paper: uc.predictor.Predict(texts)}

	data, err := uc.renderer.Format(result)
	if err != nil {
		return nil, fmt.Errorf("render artifact: %w", err)
	}

	if err := os.MkdirAll(uc.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	name := fmt.Sprintf("predicted_paper_%s.pdf", uc.now().Format(artifactTimeLayout))
	if err := os.WriteFile(filepath.Join(uc.outputDir, name), data, 0o644); err != nil {
		return nil, fmt.Errorf("write artifact: %w", err)
	}
	result.PDFPath = name

	ctxzap.Info(ctx, "prediction generated",
		zap.Int("papers", result.Paper.TotalPapersAnalyzed),
		zap.Int("questions", result.Paper.TotalQuestionsFound),
		zap.String("artifact", name),
	)

	return result, nil
}

// OpenArtifact opens a generated document by the name Predict returned.
// Names that point outside the output directory are not found.
func (uc *Usecase) OpenArtifact(ctx context.Context, name string) (*os.File, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return nil, fmt.Errorf("%w: %q", entity.ErrArtifactNotFound, name)
	}

	path := filepath.Join(uc.outputDir, name)
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && info.IsDir()) {
		return nil, fmt.Errorf("%w: %q", entity.ErrArtifactNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("stat artifact: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open artifact: %w", err)
	}

	ctxzap.Debug(ctx, "serving artifact", zap.String("artifact", name))
	return f, nil
}
