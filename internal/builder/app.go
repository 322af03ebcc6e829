package builder

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

// App is the development backend server
type App struct {
	server *http.Server
	logger *zap.Logger
}

// Run serves until ctx is cancelled or the listener fails, then drains
// in-flight requests.
func (a *App) Run(ctx context.Context) error {
	defer func() { _ = a.logger.Sync() }()

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info("dev backend listening", zap.String("addr", a.server.Addr))
		serveErr <- a.server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		a.logger.Error("server stopped unexpectedly", zap.Error(err))
		return fmt.Errorf("listen %s: %w", a.server.Addr, err)
	case <-ctx.Done():
	}

	a.logger.Info("shutting down dev backend", zap.Duration("timeout", shutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	a.logger.Info("dev backend stopped")
	return nil
}
