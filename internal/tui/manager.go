package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/hatui/internal/config"
)

type managerMode int

const (
	managerList managerMode = iota
	managerCreating
	managerRenaming
)

// managerModel lists dashboards and edits them in place. Every change goes
// straight to the store; the dashboard reloads the grid on close if the
// current dashboard is no longer the one it opened with.
type managerModel struct {
	store   *config.Store
	opened  *config.Dashboard
	index   int
	mode    managerMode
	input   textinput.Model
	message string
	closed  bool
}

func newManagerModel(store *config.Store) managerModel {
	return managerModel{
		store:  store,
		opened: store.Current(),
		index:  store.CurrentIndex(),
		input:  newInput("", 48, 36),
	}
}

// Update handles messages for the dashboard manager
func (d managerModel) Update(msg tea.Msg) (managerModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if d.mode != managerList {
		if ok {
			switch keyMsg.String() {
			case "esc":
				d.mode = managerList
				d.input.Blur()
				d.message = ""
				return d, nil
			case "enter":
				d.submit()
				return d, nil
			}
		}
		var cmd tea.Cmd
		d.input, cmd = d.input.Update(msg)
		return d, cmd
	}

	if !ok {
		return d, nil
	}

	d.message = ""
	switch keyMsg.String() {
	case "up":
		if d.index > 0 {
			d.index--
		}
	case "down":
		if d.index < d.store.Len()-1 {
			d.index++
		}
	case "enter":
		if err := d.store.SelectDashboard(d.index); err != nil {
			d.message = "Error: " + err.Error()
			return d, nil
		}
		d.closed = true
	case "esc":
		d.closed = true
	case "ctrl+n":
		d.mode = managerCreating
		d.input.Placeholder = "New dashboard name"
		d.input.SetValue("")
		return d, d.input.Focus()
	case "f2":
		d.mode = managerRenaming
		d.input.Placeholder = "Dashboard name"
		d.input.SetValue(d.store.Document().Dashboards[d.index].Name)
		return d, d.input.Focus()
	case "delete":
		d.delete()
	case "ctrl+up":
		d.move(-1)
	case "ctrl+down":
		d.move(1)
	}
	return d, nil
}

// submit finishes a create or rename.
func (d *managerModel) submit() {
	name := strings.TrimSpace(d.input.Value())
	if name == "" {
		d.message = "Dashboard name cannot be empty"
		return
	}

	switch d.mode {
	case managerCreating:
		index, err := d.store.AddDashboard(name, config.DefaultRows, config.DefaultCols, config.DefaultRefreshInterval)
		if err != nil {
			d.message = "Error creating dashboard: " + err.Error()
			return
		}
		d.index = index
		if err := d.store.SelectDashboard(index); err != nil {
			d.message = "Error: " + err.Error()
			return
		}
		d.message = "Created " + name
	case managerRenaming:
		if err := d.store.RenameDashboard(d.index, name); err != nil {
			d.message = "Error renaming dashboard: " + err.Error()
			return
		}
		d.message = "Renamed to " + name
	}

	d.mode = managerList
	d.input.Blur()
}

func (d *managerModel) delete() {
	name := d.store.Document().Dashboards[d.index].Name
	if _, err := d.store.DeleteDashboard(d.index); err != nil {
		if errors.Is(err, config.ErrLastDashboard) {
			d.message = "Cannot delete the last dashboard"
			return
		}
		d.message = "Error deleting dashboard: " + err.Error()
		return
	}
	d.index = min(d.index, d.store.Len()-1)
	d.message = "Deleted " + name
}

func (d *managerModel) move(dir int) {
	index, err := d.store.MoveDashboard(d.index, dir)
	if err != nil {
		d.message = "Error moving dashboard: " + err.Error()
		return
	}
	d.index = index
}

// View renders the dashboard manager modal
func (d managerModel) View(width int) string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("Dashboards"))
	s.WriteString("\n\n")

	current := d.store.CurrentIndex()
	for i, db := range d.store.Document().Dashboards {
		line := fmt.Sprintf("%d. %s (%dx%d, %ds)", i+1, db.Name, db.Rows, db.Cols, db.RefreshInterval)
		if i == current {
			line += " [CURRENT]"
		}
		if i == d.index {
			s.WriteString(SelectedListItemStyle.Render("→ " + line))
		} else {
			s.WriteString(ListItemStyle.Render(line))
		}
		s.WriteString("\n")
	}

	switch d.mode {
	case managerCreating:
		s.WriteString("\nNew dashboard:\n")
		s.WriteString(d.input.View())
	case managerRenaming:
		s.WriteString("\nRename dashboard:\n")
		s.WriteString(d.input.View())
	}

	if d.message != "" {
		s.WriteString("\n\n")
		s.WriteString(HelpStyle.Render(d.message))
	}

	s.WriteString("\n\n")
	if d.mode == managerList {
		s.WriteString(HelpStyle.Render("enter: open • ctrl+n: new • f2: rename • del: delete • ctrl+↑↓: reorder • esc: close"))
	} else {
		s.WriteString(HelpStyle.Render("enter: save • esc: cancel"))
	}

	return ModalStyle.Width(SafeModalWidth(72, width)).Render(s.String())
}
