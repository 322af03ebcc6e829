package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/futig/examgenie/internal/entity"
	"github.com/futig/examgenie/internal/pkg/formatter"
)

// exportPrediction writes result in the given format into dir and returns the path
func exportPrediction(result *entity.PredictionResult, format entity.ExportFormat, dir string) (string, error) {
	data, name, err := formatter.NewFactory().Export(result, format)
	if err != nil {
		return "", err
	}

	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
