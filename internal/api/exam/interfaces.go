package exam

import (
	"context"
	"os"

	"github.com/futig/examgenie/internal/entity"
	examuc "github.com/futig/examgenie/internal/usecase/exam"
)

type ExamUsecase interface {
	Upload(ctx context.Context, files []examuc.UploadedFile) ([]entity.ExtractedText, error)
	Predict(ctx context.Context, texts []string) (*entity.PredictionResult, error)
	OpenArtifact(ctx context.Context, name string) (*os.File, error)
	Register(ctx context.Context, req *entity.RegisterRequest) error
	Login(ctx context.Context, req *entity.LoginRequest) (*entity.Account, error)
}
