package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// nameEditorModel edits a tile's display name. An empty name restores the
// name reported by Home Assistant.
type nameEditorModel struct {
	entityID string
	input    textinput.Model
	done     bool
	canceled bool
}

func newNameEditorModel(entityID, current string) nameEditorModel {
	input := newInput("Enter display name...", 64, 40)
	input.SetValue(current)
	input.Focus()

	return nameEditorModel{entityID: entityID, input: input}
}

// Update handles messages for the name editor
func (n nameEditorModel) Update(msg tea.Msg) (nameEditorModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter":
			n.done = true
			return n, nil
		case "esc":
			n.done = true
			n.canceled = true
			return n, nil
		}
	}

	var cmd tea.Cmd
	n.input, cmd = n.input.Update(msg)
	return n, cmd
}

// Value returns the trimmed name.
func (n nameEditorModel) Value() string {
	return strings.TrimSpace(n.input.Value())
}

// View renders the name editor modal
func (n nameEditorModel) View(width int) string {
	var s strings.Builder
	s.WriteString(TitleStyle.Render("Edit display name for: " + n.entityID))
	s.WriteString("\n")
	s.WriteString(HelpStyle.Render("(Leave empty to use Home Assistant name)"))
	s.WriteString("\n\n")
	s.WriteString(n.input.View())
	s.WriteString("\n\n")
	s.WriteString(HelpStyle.Render("enter: save • esc: cancel"))
	return ModalStyle.Width(SafeModalWidth(60, width)).Render(s.String())
}
