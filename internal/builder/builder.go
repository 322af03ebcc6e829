package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/futig/examgenie/internal/api"
	examapi "github.com/futig/examgenie/internal/api/exam"
	"github.com/futig/examgenie/internal/cli"
	"github.com/futig/examgenie/internal/config"
	"github.com/futig/examgenie/internal/integration/backend"
	"github.com/futig/examgenie/internal/pkg/formatter"
	"github.com/futig/examgenie/internal/pkg/logger"
	"github.com/futig/examgenie/internal/pkg/validator"
	"github.com/futig/examgenie/internal/preferences"
	"github.com/futig/examgenie/internal/repository"
	"github.com/futig/examgenie/internal/telegram"
	"github.com/futig/examgenie/internal/usecase/exam"
	"go.uber.org/zap"
)

// BuildCLI wires the dependencies of the examgenie command
func BuildCLI(environment string) (*cli.Deps, error) {
	cfg, err := config.LoadConfig(environment)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.NewConsole(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	conn, err := buildBackend(cfg, log)
	if err != nil {
		return nil, err
	}

	log.Debug("CLI built",
		zap.String("environment", cfg.Environment),
		zap.String("backend", conn.BaseURL()),
		zap.String("preferences", cfg.PreferencesCfg.File),
	)

	return &cli.Deps{
		Config:      cfg,
		Logger:      log,
		Backend:     conn,
		Preferences: preferences.NewManager(preferences.NewFileStorage(cfg.PreferencesCfg.File)),
		Validator:   validator.NewSelectionValidator(),
	}, nil
}

// BuildTelegramBot creates and initializes the Telegram bot. The returned
// cleanup closes the database pool once the bot has stopped.
func BuildTelegramBot(ctx context.Context, environment string) (telegram.Bot, *zap.Logger, func(), error) {
	cfg, err := config.LoadConfig(environment)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.ValidateTelegram(); err != nil {
		return nil, nil, nil, fmt.Errorf("invalid telegram configuration: %w", err)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("setup logger: %w", err)
	}

	log.Info("Building Telegram bot",
		zap.String("environment", cfg.Environment),
	)

	db, err := openPreferenceStore(ctx, cfg, log)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open preference store: %w", err)
	}

	prefsRepo := repository.NewPreferencesRepository(db)
	prefs := func(userID int64) *preferences.Manager {
		return preferences.NewManager(prefsRepo.ForUser(userID))
	}

	conn, err := buildBackend(cfg, log)
	if err != nil {
		db.Close()
		return nil, nil, nil, err
	}

	bot, err := telegram.NewBot(&cfg.TelegramCfg, conn, prefs, validator.NewSelectionValidator(), log)
	if err != nil {
		db.Close()
		return nil, nil, nil, fmt.Errorf("initialize telegram bot: %w", err)
	}

	log.Info("Telegram bot built successfully",
		zap.String("environment", cfg.Environment),
		zap.String("backend", conn.BaseURL()),
	)

	return bot, log, db.Close, nil
}

// BuildMockBackend builds the development Backend Service
func BuildMockBackend(environment string) (*App, error) {
	cfg, err := config.LoadConfig(environment)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	mockCfg := &cfg.MockBackendCfg
	log.Info("Building development backend",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", mockCfg.ServerAddr),
	)

	uc := exam.NewUsecase(
		mockCfg,
		exam.NewDocumentExtractor(),
		exam.NewPredictor(),
		formatter.NewPDFFormatter(),
		exam.NewMemoryAccounts(),
	)

	router := api.SetupRouter(examapi.NewHandler(uc, mockCfg.MaxUploadSize), log)

	server := &http.Server{
		Addr:         mockCfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Info("Application built successfully",
		zap.String("upload_dir", mockCfg.UploadDir),
		zap.String("output_dir", mockCfg.OutputDir),
	)

	return &App{
		server: server,
		logger: log,
	}, nil
}

// buildBackend picks the HTTP connector or, with ENABLE_MOCKS, the in-process mock
func buildBackend(cfg *config.Config, log *zap.Logger) (cli.Backend, error) {
	if cfg.EnableMocks {
		log.Info("Using mock backend connector")
		return backend.NewMockConnector(log), nil
	}

	conn, err := backend.NewConnector(cfg.BackendConnectorCfg, log)
	if err != nil {
		return nil, fmt.Errorf("create backend connector: %w", err)
	}
	return conn, nil
}
