package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"audiyo/internal/audio"
)

var pickerDevices = []audio.Device{
	{ID: 2, Name: "Built-in Speakers", Output: true},
	{ID: 3, Name: "USB Headset", Input: true, Output: true},
	{ID: 5, Name: "HDMI", Output: true},
}

func press(t *testing.T, m PickerModel, msgs ...tea.KeyMsg) (PickerModel, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(PickerModel)
	}
	return m, cmd
}

var (
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyQ     = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}
)

func TestPickerStartsOnCurrentDevice(t *testing.T) {
	m := NewPickerModel(audio.RoleOutput, pickerDevices, pickerDevices[1], true)
	assert.Equal(t, 1, m.cursor)

	m = NewPickerModel(audio.RoleOutput, pickerDevices, audio.Device{ID: 99}, true)
	assert.Equal(t, 0, m.cursor)

	m = NewPickerModel(audio.RoleOutput, pickerDevices, audio.Device{}, false)
	assert.Equal(t, 0, m.cursor)
}

func TestPickerSelect(t *testing.T) {
	m := NewPickerModel(audio.RoleOutput, pickerDevices, pickerDevices[0], true)

	m, cmd := press(t, m, keyDown, keyDown, keyDown, keyUp, keyEnter)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	d, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, pickerDevices[1], d)
}

func TestPickerCancel(t *testing.T) {
	for _, msg := range []tea.KeyMsg{keyEsc, keyQ} {
		m := NewPickerModel(audio.RoleInput, pickerDevices, audio.Device{}, false)

		m, cmd := press(t, m, keyDown, msg)
		require.NotNil(t, cmd)

		_, ok := m.Selected()
		assert.False(t, ok)
	}
}

func TestPickerEmpty(t *testing.T) {
	m := NewPickerModel(audio.RoleSystemOutput, nil, audio.Device{}, false)

	m, _ = press(t, m, keyDown, keyEnter)
	_, ok := m.Selected()
	assert.False(t, ok)
	assert.Contains(t, m.View(), "No audio devices found.")
}

func TestPickerView(t *testing.T) {
	m := NewPickerModel(audio.RoleOutput, pickerDevices, pickerDevices[0], true)
	view := m.View()

	assert.Contains(t, view, "Default output device")
	assert.Contains(t, view, "[2] Built-in Speakers")
	assert.Contains(t, view, "(current)")
	assert.Contains(t, view, "[3] USB Headset")
}
