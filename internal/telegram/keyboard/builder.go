package keyboard

import (
	"fmt"
	"strconv"

	"github.com/futig/examgenie/internal/preferences"
	"github.com/futig/examgenie/internal/workflow"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram limits inline keyboards; longer selections only get remove buttons for the first files.
const maxRemoveButtons = 10

// Builder creates inline keyboards
type Builder struct{}

// NewBuilder creates a keyboard builder
func NewBuilder() *Builder {
	return &Builder{}
}

// FileListKeyboard lists a remove button per file
func (b *Builder) FileListKeyboard(items []workflow.FileListItem) *tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{}

	count := min(len(items), maxRemoveButtons)
	for i := 0; i < count; i++ {
		n := strconv.Itoa(items[i].Index + 1)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("🗑 %s. %s", n, items[i].Name),
				EncodeCallback(ActionRemove, n),
			),
		))
	}

	if len(rows) == 0 {
		return nil
	}
	return &tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// UploadKeyboard offers the upload step
func (b *Builder) UploadKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📤 Upload", EncodeCallback(ActionStep, StepUpload)),
		),
	)
}

// PredictKeyboard offers the prediction step
func (b *Builder) PredictKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎯 Predict", EncodeCallback(ActionStep, StepPredict)),
		),
	)
}

// DownloadKeyboard offers the download and a fresh start
func (b *Builder) DownloadKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📥 Download PDF", EncodeCallback(ActionStep, StepDownload)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Start over", EncodeCallback(ActionStep, StepReset)),
		),
	)
}

// HeaderKeyboard binds the header actions
func (b *Builder) HeaderKeyboard(h preferences.Header) tgbotapi.InlineKeyboardMarkup {
	row := []tgbotapi.InlineKeyboardButton{}
	for _, action := range h.Actions {
		switch action {
		case preferences.ActionLogout:
			row = append(row, tgbotapi.NewInlineKeyboardButtonData("🚪 Logout", EncodeCallback(ActionHeader, string(action))))
		case preferences.ActionToggleTheme:
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(h.ThemeIcon, EncodeCallback(ActionTheme, "toggle")))
		}
	}
	row = append(row, tgbotapi.NewInlineKeyboardButtonData("📂 Files", EncodeCallback(ActionStep, StepFiles)))

	return tgbotapi.NewInlineKeyboardMarkup(row)
}
