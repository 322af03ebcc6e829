package keyboard

import (
	"testing"

	"github.com/futig/examgenie/internal/entity"
	"github.com/futig/examgenie/internal/preferences"
	"github.com/futig/examgenie/internal/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCallback(t *testing.T) {
	tests := []struct {
		data    string
		want    *CallbackData
		wantErr bool
	}{
		{data: "step:upload", want: &CallbackData{Action: ActionStep, Value: StepUpload}},
		{data: "rm:3", want: &CallbackData{Action: ActionRemove, Value: "3"}},
		{data: "theme:", want: &CallbackData{Action: ActionTheme, Value: ""}},
		{data: "header:a:b", want: &CallbackData{Action: ActionHeader, Value: "a:b"}},
		{data: "garbage", wantErr: true},
		{data: ":upload", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.data, func(t *testing.T) {
			got, err := ParseCallback(tt.data)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeCallback_RoundTrip(t *testing.T) {
	got, err := ParseCallback(EncodeCallback(ActionStep, StepDownload))
	require.NoError(t, err)
	assert.Equal(t, ActionStep, got.Action)
	assert.Equal(t, StepDownload, got.Value)
}

func TestBuilder_FileListKeyboard(t *testing.T) {
	b := NewBuilder()

	assert.Nil(t, b.FileListKeyboard(nil))

	kb := b.FileListKeyboard([]workflow.FileListItem{
		{Index: 0, Name: "a.pdf"},
		{Index: 1, Name: "b.png"},
	})
	require.NotNil(t, kb)
	require.Len(t, kb.InlineKeyboard, 2)

	first := kb.InlineKeyboard[0][0]
	assert.Equal(t, "🗑 1. a.pdf", first.Text)
	require.NotNil(t, first.CallbackData)
	assert.Equal(t, "rm:1", *first.CallbackData)
}

func TestBuilder_FileListKeyboardCapsButtons(t *testing.T) {
	items := make([]workflow.FileListItem, 15)
	for i := range items {
		items[i] = workflow.FileListItem{Index: i, Name: "f.pdf"}
	}

	kb := NewBuilder().FileListKeyboard(items)
	require.NotNil(t, kb)
	assert.Len(t, kb.InlineKeyboard, maxRemoveButtons)
}

func TestBuilder_HeaderKeyboard(t *testing.T) {
	b := NewBuilder()

	loggedIn := b.HeaderKeyboard(preferences.BuildHeader(&entity.UserSession{Name: "Ada"}, entity.ThemeLight))
	require.Len(t, loggedIn.InlineKeyboard, 1)
	row := loggedIn.InlineKeyboard[0]
	require.Len(t, row, 2)
	assert.Equal(t, "header:logout", *row[0].CallbackData)
	assert.Equal(t, "step:files", *row[1].CallbackData)

	loggedOut := b.HeaderKeyboard(preferences.BuildHeader(nil, entity.ThemeDark))
	row = loggedOut.InlineKeyboard[0]
	require.Len(t, row, 2)
	assert.Equal(t, "☀️", row[0].Text)
	assert.Equal(t, "theme:toggle", *row[0].CallbackData)
}
