package keyboard

import (
	"fmt"
	"strings"
)

// Callback actions
const (
	ActionStep   = "step"   // upload, predict, download, files, reset
	ActionRemove = "rm"     // 1-based file number
	ActionTheme  = "theme"  // toggle
	ActionHeader = "header" // logout
)

// Step values
const (
	StepUpload   = "upload"
	StepPredict  = "predict"
	StepDownload = "download"
	StepFiles    = "files"
	StepReset    = "reset"
)

// CallbackData represents parsed callback data
type CallbackData struct {
	Action string
	Value  string
}

// ParseCallback parses callback data string
func ParseCallback(data string) (*CallbackData, error) {
	parts := strings.SplitN(data, ":", 2)
	if len(parts) != 2 || parts[0] == "" {
		return nil, fmt.Errorf("invalid callback format: %s", data)
	}

	return &CallbackData{
		Action: parts[0],
		Value:  parts[1],
	}, nil
}

// EncodeCallback creates callback data string
func EncodeCallback(action, value string) string {
	return fmt.Sprintf("%s:%s", action, value)
}
