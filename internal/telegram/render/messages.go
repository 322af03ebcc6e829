package render

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"

	"github.com/futig/examgenie/internal/entity"
	"github.com/futig/examgenie/internal/preferences"
	"github.com/futig/examgenie/internal/workflow"
)

const (
	// Welcome messages
	MsgWelcome = `👋 Hi! I'm ExamGenie.

Send me past exam papers (PDF, PNG, JPG) as documents and I will:
• Extract the text from every paper
• Find the most frequent topics
• Predict the questions of your next exam`

	MsgHelp = `🤖 Commands:

/start - Show the welcome message
/files - Show the selected files
/upload - Extract text from the selected files
/predict - Predict the exam paper
/download - Get the predicted paper as PDF
/export <md|pdf|docx|xlsx> - Export the prediction
/theme - Toggle light/dark theme
/login <email> <password> - Log in
/logout - Log out
/reset - Start over
/help - Show this help

How it works:
1. Send past papers as documents
2. Press "Upload" to extract the text
3. Press "Predict" to analyse the papers
4. Press "Download" to get the PDF`

	MsgNoFiles        = "📭 No files selected. Send PDF or image documents to add them."
	MsgUploadHint     = "Press \"Upload\" to extract text from the selected files."
	MsgPredictHint    = "✅ Text extracted. Press \"Predict\" to generate the predicted paper."
	MsgDownloadHint   = "✅ Prediction ready. Press \"Download\" for the PDF or use /export."
	MsgUnsupportedMsg = "Send exam papers as documents (PDF, PNG, JPG) or use /help."
	MsgNoPrediction   = "No prediction available to export."
	MsgLoginUsage     = "Usage: /login <email> <password>"
	MsgExportUsage    = "Usage: /export <md|pdf|docx|xlsx>"
	MsgLoggedOut      = "👋 Logged out."
	MsgWelcomeUser    = "Welcome, %s!"
	MsgThemeChanged   = "Theme switched to %s %s"
	MsgDownloadFailed = "❌ Download failed: %s"
	MsgDocumentReady  = "📄 Your predicted exam paper"

	// Busy indicators
	MsgUploading  = "⏳ Uploading and extracting text..."
	MsgPredicting = "⏳ Analyzing papers and predicting questions..."

	// Errors
	ErrGeneric      = "❌ Something went wrong. Try again or press /start"
	ErrTimeout      = "⏱ The operation took too long. Try again later."
	ErrNetworkIssue = "🌐 Network problem. Check the connection and try again."
	ErrFileTooLarge = "❌ The file is too large (max %s)."
	ErrUnknownCmd   = "❌ Unknown command. Use /help"
	ErrInvalidData  = "❌ Invalid data"
)

// BusyMessage returns the indicator text for a phase
func BusyMessage(phase workflow.Phase) string {
	switch phase {
	case workflow.PhaseUpload:
		return MsgUploading
	case workflow.PhasePredict:
		return MsgPredicting
	default:
		return "⏳ Working..."
	}
}

// FileList renders the current selection
func FileList(items []workflow.FileListItem) string {
	if len(items) == 0 {
		return MsgNoFiles
	}

	var sb strings.Builder
	sb.WriteString("📂 Selected files:\n")
	for _, item := range items {
		fmt.Fprintf(&sb, "\n%d. %s %s (%s)", item.Index+1, item.Icon, item.Name, item.Size)
	}
	return sb.String()
}

// Extracted renders the text previews, one block per file
func Extracted(previews []workflow.TextPreview) string {
	var sb strings.Builder
	sb.WriteString("📝 Extracted text:")
	for _, p := range previews {
		fmt.Fprintf(&sb, "\n\n📄 %s\n%s", p.Filename, p.Text)
	}
	return sb.String()
}

// Prediction renders the predicted paper
func Prediction(view workflow.PredictionView) string {
	var sb strings.Builder

	sb.WriteString("🎯 Predicted exam paper\n\n")
	fmt.Fprintf(&sb, "Papers analyzed: %d\n", view.PapersAnalyzed)
	fmt.Fprintf(&sb, "Questions found: %d\n", view.QuestionsFound)
	fmt.Fprintf(&sb, "Generated: %s\n", view.GeneratedDate)

	if len(view.Topics) > 0 {
		sb.WriteString("\n📊 Top topics:\n")
		for _, t := range view.Topics {
			fmt.Fprintf(&sb, "• %s\n", t.String())
		}
	}

	for _, s := range view.Sections {
		fmt.Fprintf(&sb, "\n%s\n", s.Section)
		for _, q := range s.Questions {
			fmt.Fprintf(&sb, "%s\n", q)
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

// Notice renders a workflow notice
func Notice(n workflow.Notice) string {
	if n.Kind == workflow.NoticeValidation {
		return "⚠️ " + n.Message
	}
	return "❌ " + n.Message
}

// Header renders the header line of a chat
func Header(h preferences.Header) string {
	if h.Variant == preferences.HeaderLoggedIn {
		return fmt.Sprintf("ExamGenie %s  %s", h.ThemeIcon, fmt.Sprintf(MsgWelcomeUser, h.UserName))
	}
	return fmt.Sprintf("ExamGenie %s  Not logged in. Use /login", h.ThemeIcon)
}

// ThemeChanged confirms a theme switch
func ThemeChanged(theme entity.Theme) string {
	return fmt.Sprintf(MsgThemeChanged, theme, theme.Icon())
}

// ClassifyError returns user-friendly error message based on error type
func ClassifyError(err error) string {
	if err == nil {
		return ErrGeneric
	}

	var appErr *entity.ApplicationError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return "❌ " + appErr.Message
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return ErrTimeout
		}
		return ErrNetworkIssue
	}

	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return ErrNetworkIssue
	}

	return ErrGeneric
}
