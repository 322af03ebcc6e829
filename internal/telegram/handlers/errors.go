package handlers

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/futig/examgenie/internal/entity"
	"github.com/futig/examgenie/internal/telegram/render"
	"github.com/futig/examgenie/internal/workflow"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// ErrFileTooLarge is returned when a sent document exceeds the size limit
var ErrFileTooLarge = errors.New("file too large")

// ErrorSeverity represents the severity level of an error
type ErrorSeverity int

const (
	SeverityWarning ErrorSeverity = iota
	SeverityError
	SeverityCritical
)

// String returns string representation of error severity
func (s ErrorSeverity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// HandlerError represents a structured error with user message and logging info
type HandlerError struct {
	Err         error
	UserMessage string
	LogMessage  string
	Severity    ErrorSeverity
}

// classifyHandlerError analyzes an error and returns a HandlerError with appropriate severity and messages
func classifyHandlerError(err error, maxFileSize int64) *HandlerError {
	if err == nil {
		return &HandlerError{
			Err:         nil,
			UserMessage: render.ErrGeneric,
			LogMessage:  "unknown error",
			Severity:    SeverityWarning,
		}
	}

	var appErr *entity.ApplicationError
	switch {
	case errors.Is(err, ErrFileTooLarge):
		return &HandlerError{
			Err:         err,
			UserMessage: fmt.Sprintf(render.ErrFileTooLarge, workflow.FormatFileSize(maxFileSize)),
			LogMessage:  "file too large",
			Severity:    SeverityWarning,
		}
	case errors.Is(err, entity.ErrInvalidFormat):
		return &HandlerError{
			Err:         err,
			UserMessage: render.MsgExportUsage,
			LogMessage:  "invalid export format",
			Severity:    SeverityWarning,
		}
	case errors.Is(err, entity.ErrNoPrediction):
		return &HandlerError{
			Err:         err,
			UserMessage: "⚠️ " + render.MsgNoPrediction,
			LogMessage:  "no prediction",
			Severity:    SeverityWarning,
		}
	case errors.Is(err, entity.ErrMissingField):
		return &HandlerError{
			Err:         err,
			UserMessage: render.MsgLoginUsage,
			LogMessage:  "missing field",
			Severity:    SeverityWarning,
		}
	case errors.As(err, &appErr):
		return &HandlerError{
			Err:         err,
			UserMessage: render.ClassifyError(err),
			LogMessage:  "backend rejected request",
			Severity:    SeverityWarning,
		}
	}

	// Check for timeout errors
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &HandlerError{
			Err:         err,
			UserMessage: render.ErrTimeout,
			LogMessage:  "operation timed out",
			Severity:    SeverityError,
		}
	}

	// Check for network errors
	var netErr net.Error
	if errors.As(err, &netErr) || entity.IsTransport(err) {
		if netErr != nil && netErr.Timeout() {
			return &HandlerError{
				Err:         err,
				UserMessage: render.ErrTimeout,
				LogMessage:  "network timeout",
				Severity:    SeverityError,
			}
		}
		return &HandlerError{
			Err:         err,
			UserMessage: render.ErrNetworkIssue,
			LogMessage:  "network error",
			Severity:    SeverityError,
		}
	}

	// Default to generic error
	return &HandlerError{
		Err:         err,
		UserMessage: render.ErrGeneric,
		LogMessage:  "handler error",
		Severity:    SeverityError,
	}
}

// HandleError provides centralized error handling for all handlers
// It logs the error with appropriate severity and sends a user-friendly message
func (h *Handler) HandleError(ctx context.Context, chatID int64, err error) {
	if err == nil {
		return
	}

	handlerErr := classifyHandlerError(err, h.maxFileSize)

	switch handlerErr.Severity {
	case SeverityCritical, SeverityError:
		ctxzap.Error(ctx, handlerErr.LogMessage,
			zap.Error(handlerErr.Err),
			zap.Int64("chat_id", chatID),
		)
	case SeverityWarning:
		ctxzap.Warn(ctx, handlerErr.LogMessage,
			zap.Error(handlerErr.Err),
			zap.Int64("chat_id", chatID),
		)
	}

	_ = h.sender.Send(chatID, handlerErr.UserMessage, nil)
}
