package entity

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	// Selection errors
	ErrNoValidFiles        = errors.New("no valid PDF or image files in selection")
	ErrNoFilesSelected     = errors.New("no files selected")
	ErrFileIndexOutOfRange = errors.New("file index out of range")
	ErrInvalidFile         = errors.New("invalid file")

	// Workflow errors
	ErrNoExtractedText = errors.New("no extracted text available")
	ErrNoPrediction    = errors.New("no prediction available")
	ErrNoArtifact      = errors.New("no downloadable artifact available")
	ErrBusy            = errors.New("operation already in progress")

	// Validation errors
	ErrMissingField  = errors.New("required field is missing")
	ErrInvalidFormat = errors.New("invalid format")

	// Development backend errors
	ErrNoFilesProvided    = errors.New("no files provided")
	ErrNoTextsProvided    = errors.New("no texts provided")
	ErrArtifactNotFound   = errors.New("artifact not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ApplicationError is a failure the backend reported in its response body
type ApplicationError struct {
	Message    string
	StatusCode int
}

func (e *ApplicationError) Error() string {
	if e.Message == "" {
		return "backend reported failure"
	}
	return fmt.Sprintf("backend reported failure: %s", e.Message)
}

// TransportError covers unreachable backends and unexpected responses
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("backend unreachable: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

func IsApplication(err error) bool {
	var ae *ApplicationError
	return errors.As(err, &ae)
}
