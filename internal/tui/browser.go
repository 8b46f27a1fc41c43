package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/hatui/internal/config"
	"github.com/muurk/hatui/internal/entity"
	"github.com/muurk/hatui/internal/homeassistant"
)

// browserVisibleRows is how many matches the entity list shows at once
const browserVisibleRows = 10

const (
	focusSearch = iota
	focusRow
	focusCol
	focusCount
)

// placement is the browser's result: an entity and where to put it
type placement struct {
	state    homeassistant.State
	row, col int
}

// browserModel is the "add entity" modal. It loads every state once, lets the
// user filter and pick one, and asks for a cell. It never touches the store
// or the grid; the dashboard applies the result.
type browserModel struct {
	occupied   map[config.Position]bool
	rows, cols int

	loading bool
	err     error
	entries []homeassistant.State
	matches []homeassistant.State
	index   int

	search textinput.Model
	rowIn  textinput.Model
	colIn  textinput.Model
	focus  int

	spinner spinner.Model
	message string

	done   bool
	result *placement
}

func newBrowserModel(occupied map[config.Position]bool, rows, cols int, at config.Position) browserModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	search := newInput("Search by name or entity id", 64, 40)
	search.Focus()

	rowIn := newInput("", 3, 4)
	rowIn.SetValue(strconv.Itoa(at.Row))

	colIn := newInput("", 3, 4)
	colIn.SetValue(strconv.Itoa(at.Col))

	return browserModel{
		occupied: occupied,
		rows:     rows,
		cols:     cols,
		loading:  true,
		search:   search,
		rowIn:    rowIn,
		colIn:    colIn,
		spinner:  s,
	}
}

// newInput creates a text input with a steady cursor.
func newInput(placeholder string, limit, width int) textinput.Model {
	input := textinput.New()
	input.Placeholder = placeholder
	input.CharLimit = limit
	input.Width = width
	input.Cursor.SetMode(cursor.CursorStatic)
	return input
}

// loadStates fetches every entity for the browser.
func (m Model) loadStates() tea.Cmd {
	return m.sched.Go(func(ctx context.Context) tea.Msg {
		states, err := m.backend.GetAllStates(ctx)
		return statesLoadedMsg{states: states, err: err}
	})
}

// Init starts the spinner and the load command
func (b browserModel) Init(load tea.Cmd) tea.Cmd {
	return tea.Batch(b.spinner.Tick, load)
}

// Update handles messages for the browser
func (b browserModel) Update(msg tea.Msg) (browserModel, tea.Cmd) {
	switch msg := msg.(type) {
	case statesLoadedMsg:
		b.loading = false
		if msg.err != nil {
			b.err = msg.err
			return b, nil
		}
		b.entries = entity.Catalog(msg.states)
		b.filter()
		return b, nil

	case spinner.TickMsg:
		if !b.loading {
			return b, nil
		}
		var cmd tea.Cmd
		b.spinner, cmd = b.spinner.Update(msg)
		return b, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			b.done = true
			return b, nil
		case "enter":
			b.confirm()
			return b, nil
		case "tab":
			return b, b.setFocus((b.focus + 1) % focusCount)
		case "shift+tab":
			return b, b.setFocus((b.focus + focusCount - 1) % focusCount)
		case "up":
			if b.index > 0 {
				b.index--
			}
			return b, nil
		case "down":
			if b.index < len(b.matches)-1 {
				b.index++
			}
			return b, nil
		}
	}

	var cmd tea.Cmd
	switch b.focus {
	case focusSearch:
		before := b.search.Value()
		b.search, cmd = b.search.Update(msg)
		if b.search.Value() != before {
			b.filter()
		}
	case focusRow:
		b.rowIn, cmd = b.rowIn.Update(msg)
	case focusCol:
		b.colIn, cmd = b.colIn.Update(msg)
	}
	return b, cmd
}

func (b *browserModel) setFocus(focus int) tea.Cmd {
	b.focus = focus
	b.search.Blur()
	b.rowIn.Blur()
	b.colIn.Blur()
	switch focus {
	case focusRow:
		return b.rowIn.Focus()
	case focusCol:
		return b.colIn.Focus()
	}
	return b.search.Focus()
}

// filter applies the search text and resets the selection.
func (b *browserModel) filter() {
	b.matches = b.matches[:0]
	for _, s := range b.entries {
		if entity.Matches(s, b.search.Value()) {
			b.matches = append(b.matches, s)
		}
	}
	b.index = 0
}

// selected returns the highlighted entity.
func (b browserModel) selected() (homeassistant.State, bool) {
	if b.index < 0 || b.index >= len(b.matches) {
		return homeassistant.State{}, false
	}
	return b.matches[b.index], true
}

// confirm validates the choice and closes the modal on success. Problems are
// shown inside the modal.
func (b *browserModel) confirm() {
	if b.loading {
		b.message = "Still loading entities..."
		return
	}
	state, ok := b.selected()
	if !ok {
		b.message = "No entity selected"
		return
	}

	row, rowErr := strconv.Atoi(strings.TrimSpace(b.rowIn.Value()))
	col, colErr := strconv.Atoi(strings.TrimSpace(b.colIn.Value()))
	if rowErr != nil || colErr != nil {
		b.message = "Invalid row/col values"
		return
	}

	pos := config.Position{Row: row, Col: col}
	if row < 0 || row >= b.rows || col < 0 || col >= b.cols {
		b.message = fmt.Sprintf("Position %s is outside the grid", pos)
		return
	}
	if b.occupied[pos] {
		b.message = fmt.Sprintf("Position %s is already occupied", pos)
		return
	}

	b.done = true
	b.result = &placement{state: state, row: row, col: col}
}

// View renders the browser modal
func (b browserModel) View(width int) string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("Add New Entity"))
	s.WriteString("\n\n")
	s.WriteString(b.search.View())
	s.WriteString("\n\n")

	switch {
	case b.loading:
		s.WriteString(b.spinner.View() + " Loading entities...")
	case b.err != nil:
		s.WriteString(ErrorTextStyle.Render("Error loading entities: " + homeassistant.ShortMessage(b.err)))
	case len(b.matches) == 0:
		s.WriteString(HelpStyle.Render("No entities found"))
	default:
		start := max(0, b.index-browserVisibleRows+1)
		end := min(len(b.matches), start+browserVisibleRows)
		for i := start; i < end; i++ {
			st := b.matches[i]
			name := st.FriendlyName()
			if name == "" {
				name = entity.DefaultName(st.EntityID)
			}
			line := fmt.Sprintf("%s %s (%s)", entity.DefaultIcon(st.EntityID), name, st.EntityID)
			if i == b.index {
				s.WriteString(SelectedListItemStyle.Render("→ " + line))
			} else {
				s.WriteString(ListItemStyle.Render(line))
			}
			s.WriteString("\n")
		}
		s.WriteString(HelpStyle.Render(fmt.Sprintf("%d of %d", b.index+1, len(b.matches))))
	}

	s.WriteString("\n\n")
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Center,
		"Row: ", b.rowIn.View(), "   Col: ", b.colIn.View(),
	))

	if b.message != "" {
		s.WriteString("\n\n")
		s.WriteString(ErrorTextStyle.Render(b.message))
	}

	s.WriteString("\n\n")
	s.WriteString(HelpStyle.Render("↑↓: select • tab: next field • enter: add • esc: cancel"))

	return ModalStyle.Width(SafeModalWidth(72, width)).Render(s.String())
}
