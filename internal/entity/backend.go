package entity

import (
	"bytes"
	"encoding/json"
)

// Wire types of the Backend Service.

type UploadResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    []ExtractedText `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

type PredictRequest struct {
	Texts []string `json:"texts"`
}

type PredictResponse struct {
	Success        bool            `json:"success"`
	PredictedPaper *PredictedPaper `json:"predicted_paper,omitempty"`
	PDFPath        string          `json:"pdf_path,omitempty"`
	Error          string          `json:"error,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AccountID accepts both numeric and string ids on the wire.
type AccountID string

func (id *AccountID) UnmarshalJSON(data []byte) error {
	if bytes.HasPrefix(data, []byte(`"`)) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = AccountID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = AccountID(n.String())
	return nil
}

type Account struct {
	ID    AccountID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

type LoginResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	User    *Account `json:"user,omitempty"`
	Error   string   `json:"error,omitempty"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ErrorEnvelope is the body the backend sends with non-2xx statuses
type ErrorEnvelope struct {
	Error string `json:"error"`
}
