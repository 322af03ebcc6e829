package validator

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/futig/examgenie/internal/entity"
)

// Rejection records why a file was left out of a selection
type Rejection struct {
	Name   string
	Reason error
}

// SelectionValidator filters candidate files before they enter a selection.
// Only the extension decides membership; size limits belong to whoever
// transfers the bytes.
type SelectionValidator struct{}

func NewSelectionValidator() *SelectionValidator {
	return &SelectionValidator{}
}

// Filter keeps the files with an allowed extension in their original order.
func (v *SelectionValidator) Filter(batch []entity.SelectedFile) ([]entity.SelectedFile, []Rejection) {
	accepted := make([]entity.SelectedFile, 0, len(batch))
	var rejected []Rejection

	for _, f := range batch {
		if err := v.Validate(f); err != nil {
			rejected = append(rejected, Rejection{Name: f.Name, Reason: err})
			continue
		}
		accepted = append(accepted, f)
	}

	return accepted, rejected
}

// Validate checks a single file
func (v *SelectionValidator) Validate(f entity.SelectedFile) error {
	if !entity.IsAllowed(f.Name) {
		return fmt.Errorf("%w: %q (allowed: pdf, png, jpg, jpeg)", entity.ErrInvalidFile, f.Name)
	}
	return nil
}

// SanitizeFilename sanitizes a filename for safe storage
func SanitizeFilename(filename string) string {
	filename = filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	replacer := strings.NewReplacer(
		" ", "_",
		"(", "",
		")", "",
		"[", "",
		"]", "",
		"{", "",
		"}", "",
		"..", "",
	)
	filename = replacer.Replace(filename)
	if filename == "" || filename == "." || filename == "/" {
		return "file"
	}
	return filename
}
