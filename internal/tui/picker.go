package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"audiyo/internal/audio"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#25A065")).
			Padding(0, 1).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5"))

	highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#25A065")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#767676"))
)

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k")),
	Down:   key.NewBinding(key.WithKeys("down", "j")),
	Select: key.NewBinding(key.WithKeys("enter")),
	Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c")),
}

// PickerModel is the Bubble Tea model for choosing the device of one role.
type PickerModel struct {
	role    audio.Role
	devices []audio.Device

	current    audio.DeviceID
	hasCurrent bool

	cursor    int
	selected  bool
	cancelled bool
}

// NewPickerModel lists devices for role with the cursor on the device
// currently bound to it, if it is among them.
func NewPickerModel(role audio.Role, devices []audio.Device, current audio.Device, hasCurrent bool) PickerModel {
	m := PickerModel{
		role:       role,
		devices:    devices,
		current:    current.ID,
		hasCurrent: hasCurrent,
	}

	if hasCurrent {
		for i, d := range devices {
			if d.ID == current.ID {
				m.cursor = i
				break
			}
		}
	}

	return m
}

func (m PickerModel) Init() tea.Cmd {
	return nil
}

func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.Quit):
		m.cancelled = true
		return m, tea.Quit

	case key.Matches(keyMsg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(keyMsg, keys.Down):
		if m.cursor < len(m.devices)-1 {
			m.cursor++
		}

	case key.Matches(keyMsg, keys.Select):
		if len(m.devices) == 0 {
			m.cancelled = true
		} else {
			m.selected = true
		}
		return m, tea.Quit
	}

	return m, nil
}

func (m PickerModel) View() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(fmt.Sprintf("Default %s device", m.role)))
	sb.WriteString("\n\n")

	if len(m.devices) == 0 {
		sb.WriteString("No audio devices found.\n")
	}

	for i, d := range m.devices {
		cursor := " "
		if i == m.cursor {
			cursor = "▶"
		}
		marker := ""
		if m.hasCurrent && d.ID == m.current {
			marker = " (current)"
		}

		line := fmt.Sprintf("%s [%d] %s", cursor, d.ID, d.Name)
		if i == m.cursor {
			line = highlightStyle.Render(line)
		}
		sb.WriteString(line)
		sb.WriteString(dimStyle.Render(fmt.Sprintf(" %s%s", d.Kind(), marker)))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(infoStyle.Render("↑/↓: Navigate • Enter: Select • q: Quit"))
	sb.WriteString("\n")

	return sb.String()
}

// Selected returns the chosen device once the user confirmed a choice.
func (m PickerModel) Selected() (audio.Device, bool) {
	if !m.selected || m.cancelled {
		return audio.Device{}, false
	}
	return m.devices[m.cursor], true
}

// RunPicker shows the picker until the user chooses or quits.
func RunPicker(m PickerModel, opts ...tea.ProgramOption) (audio.Device, bool, error) {
	final, err := tea.NewProgram(m, opts...).Run()
	if err != nil {
		return audio.Device{}, false, fmt.Errorf("run device picker: %w", err)
	}

	device, ok := final.(PickerModel).Selected()
	return device, ok, nil
}
