package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/futig/examgenie/internal/entity"
)

// JSON writes data with the given status. A nil body writes headers only.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return
	}
	// headers are already sent; an encode failure can only truncate the body
	_ = json.NewEncoder(w).Encode(data)
}

// Error writes the {"error": message} envelope clients classify as an application failure
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, entity.ErrorEnvelope{Error: message})
}

func Success(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}

// Attachment marks the response as a download saved under name
func Attachment(w http.ResponseWriter, name string) {
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(name)))
}
