package api

import (
	"net/http"
	"time"

	"github.com/futig/examgenie/internal/api/docs"
	examapi "github.com/futig/examgenie/internal/api/exam"
	"github.com/futig/examgenie/internal/api/middleware"
	"github.com/futig/examgenie/internal/pkg/response"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// requestTimeout covers extraction of a full 16 MiB upload
const requestTimeout = 60 * time.Second

// SetupRouter builds the dev Backend Service router
func SetupRouter(examHandler *examapi.Handler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS)
	r.Use(chimiddleware.Timeout(requestTimeout))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		response.Success(w, map[string]string{"status": "healthy"})
	})

	r.Mount("/docs", docs.Router())
	examapi.RegisterRoutes(r, examHandler)

	return r
}
