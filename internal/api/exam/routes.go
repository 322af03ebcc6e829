package exam

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers the Backend Service routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/upload", h.Upload)
	r.Post("/predict", h.Predict)
	r.Get("/download/{filename}", h.Download)
	r.Post("/login", h.Login)
	r.Post("/register", h.Register)
}
