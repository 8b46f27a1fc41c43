package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/hatui/internal/entity"
)

// View renders the dashboard, or the open modal over it
func (m Model) View() string {
	switch m.mode {
	case ModeEditAdding:
		return RenderModal(m.browser.View(m.Width), m.Width, m.Height)
	case ModeEditNaming:
		return RenderModal(m.names.View(m.Width), m.Width, m.Height)
	case ModeEditDashboards:
		return RenderModal(m.manager.View(m.Width), m.Width, m.Height)
	}

	content := m.buildDashboardContent()

	var helpText string
	if m.mode.Editing() {
		helpText = m.Help.View(m.EditKeys)
	} else {
		helpText = m.Help.View(m.ViewKeys)
	}

	return RenderApplicationContainer(content, helpText, m.Width, m.Height)
}

// buildDashboardContent builds the title, grid, notice and status line
func (m Model) buildDashboardContent() string {
	var b strings.Builder

	title := m.Title()
	if m.mode.Editing() {
		title += "  [EDIT]"
	}
	b.WriteString(TitleStyle.Render(title))
	b.WriteString("\n\n")
	b.WriteString(m.renderGrid())
	b.WriteString("\n")

	if m.notice.text != "" {
		b.WriteString(noticeStyle(m.notice.level).Render(m.notice.text))
	}
	b.WriteString("\n")
	b.WriteString(StatusBarStyle.Render(m.Status()))

	return b.String()
}

// tileSize splits the available area between the grid cells. Sizes are the
// inner size; borders add two in each direction.
func (m Model) tileSize() (width, height int) {
	rows, cols := m.grid.Rows(), m.grid.Cols()
	width = (m.Width-4)/cols - 2
	height = (m.Height-chromeHeight)/rows - 2
	return max(width, MinTileWidth), max(height, MinTileHeight)
}

func (m Model) renderGrid() string {
	width, height := m.tileSize()
	selected, hasSelected := m.grid.Selected()

	rows := make([]string, 0, m.grid.Rows())
	for r := 0; r < m.grid.Rows(); r++ {
		cells := make([]string, 0, m.grid.Cols())
		for c := 0; c < m.grid.Cols(); c++ {
			isSelected := hasSelected && selected.Row == r && selected.Col == c
			cells = append(cells, m.renderCell(r, c, isSelected, width, height))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderCell(row, col int, selected bool, width, height int) string {
	if t := m.grid.GetAt(row, col); t != nil {
		return renderTile(t, selected, width, height)
	}
	if g := m.grid.GhostAt(row, col); g != nil {
		return renderTile(g, false, width, height)
	}

	border := entity.BorderDefault
	if selected {
		border = entity.BorderSelected
	}
	return tileStyle(border, width, height).
		Inherit(EmptyCellStyle).
		Render(m.grid.EmptyCellText(row, col))
}

// renderTile draws a tile: glyph and name, state, and the key hint when
// the tile is under the cursor.
func renderTile(t *entity.Tile, selected bool, width, height int) string {
	name := lipgloss.NewStyle().Bold(true).Render(t.Glyph() + " " + t.FriendlyName)

	lines := []string{name, "", t.StateText()}
	if selected {
		lines = append(lines, "", HelpStyle.Render(t.Hint()))
	}

	body := lipgloss.NewStyle().MaxWidth(width).Render(strings.Join(lines, "\n"))
	return tileStyle(t.Border(), width, height).Render(body)
}
