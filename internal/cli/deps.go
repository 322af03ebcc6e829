package cli

import (
	"context"
	"io"

	"github.com/futig/examgenie/internal/config"
	"github.com/futig/examgenie/internal/entity"
	"github.com/futig/examgenie/internal/pkg/validator"
	"github.com/futig/examgenie/internal/preferences"
	"github.com/futig/examgenie/internal/workflow"
	"go.uber.org/zap"
)

// Backend is everything the CLI needs from the Backend Service
type Backend interface {
	workflow.Backend
	Download(ctx context.Context, ref string, w io.Writer) (int64, error)
	Login(ctx context.Context, email, password string) (*entity.Account, error)
	Register(ctx context.Context, req entity.RegisterRequest) (string, error)
}

// Deps are the collaborators the commands run against
type Deps struct {
	Config      *config.Config
	Logger      *zap.Logger
	Backend     Backend
	Preferences *preferences.Manager
	Validator   *validator.SelectionValidator
}

// BuildFunc wires Deps for an environment name
type BuildFunc func(environment string) (*Deps, error)
