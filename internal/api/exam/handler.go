package exam

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/futig/examgenie/internal/entity"
	"github.com/futig/examgenie/internal/pkg/logger"
	"github.com/futig/examgenie/internal/pkg/response"
	examuc "github.com/futig/examgenie/internal/usecase/exam"
	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// uploadField is the multipart field carrying the papers
const uploadField = "files[]"

type Handler struct {
	usecase       ExamUsecase
	maxUploadSize int64
}

func NewHandler(usecase ExamUsecase, maxUploadSize int64) *Handler {
	return &Handler{
		usecase:       usecase,
		maxUploadSize: maxUploadSize,
	}
}

// Upload handles POST /upload - extract text from uploaded papers
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Upload")

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.respondError(ctx, w, http.StatusRequestEntityTooLarge, "File too large", err)
			return
		}
		h.respondError(ctx, w, http.StatusBadRequest, "No files provided", err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File[uploadField]
	files := make([]examuc.UploadedFile, 0, len(headers))
	for _, fh := range headers {
		data, err := readPart(fh)
		if err != nil {
			h.respondError(ctx, w, http.StatusBadRequest, "failed to read file", err)
			return
		}
		files = append(files, examuc.UploadedFile{Name: fh.Filename, Data: data})
	}

	ctxzap.Info(ctx, "upload received", zap.Int("files", len(files)))

	extracted, err := h.usecase.Upload(ctx, files)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, entity.UploadResponse{
		Success: true,
		Message: fmt.Sprintf("%d file(s) processed successfully", len(extracted)),
		Data:    extracted,
	})
}

// Predict handles POST /predict - generate the predicted paper
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Predict")

	var req entity.PredictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	result, err := h.usecase.Predict(ctx, req.Texts)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, entity.PredictResponse{
		Success:        true,
		PredictedPaper: &result.Paper,
		PDFPath:        result.PDFPath,
	})
}

// Download handles GET /download/{filename} - serve a generated paper
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "filename")
	ctx := logger.AddFields(r.Context(),
		zap.String("artifact", name),
		zap.String("action", "Download"),
	)

	f, err := h.usecase.OpenArtifact(ctx, name)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		h.respondError(ctx, w, http.StatusInternalServerError, "internal server error", err)
		return
	}

	response.Attachment(w, name)
	http.ServeContent(w, r, name, info.ModTime(), f)
}

// Login handles POST /login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Login")

	var req entity.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	acc, err := h.usecase.Login(ctx, &req)
	switch {
	case errors.Is(err, entity.ErrMissingField):
		h.respondError(ctx, w, http.StatusBadRequest, "Email and password required", err)
		return
	case err != nil:
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "user logged in", zap.String("user_id", string(acc.ID)))
	response.Success(w, entity.LoginResponse{
		Success: true,
		Message: "Login successful",
		User:    acc,
	})
}

// Register handles POST /register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Register")

	var req entity.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.usecase.Register(ctx, &req); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, entity.RegisterResponse{
		Success: true,
		Message: "Registration successful",
	})
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	if status >= http.StatusInternalServerError {
		ctxzap.Error(ctx, message, zap.Error(err))
	} else {
		ctxzap.Warn(ctx, message, zap.Error(err))
	}
	response.Error(w, status, message)
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrNoFilesProvided):
		h.respondError(ctx, w, http.StatusBadRequest, "No files provided", err)
	case errors.Is(err, entity.ErrNoTextsProvided):
		h.respondError(ctx, w, http.StatusBadRequest, "No texts provided", err)
	case errors.Is(err, entity.ErrMissingField):
		h.respondError(ctx, w, http.StatusBadRequest, "All fields are required", err)
	case errors.Is(err, entity.ErrEmailTaken):
		h.respondError(ctx, w, http.StatusBadRequest, "Email already registered", err)
	case errors.Is(err, entity.ErrInvalidCredentials):
		h.respondError(ctx, w, http.StatusUnauthorized, "Invalid email or password", err)
	case errors.Is(err, entity.ErrArtifactNotFound):
		h.respondError(ctx, w, http.StatusNotFound, "File not found", err)
	default:
		h.respondError(ctx, w, http.StatusInternalServerError, "internal server error", err)
	}
}
