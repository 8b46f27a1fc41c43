package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/hatui/internal/config"
	"github.com/muurk/hatui/internal/entity"
)

func (m Model) enterEdit() (tea.Model, tea.Cmd) {
	m.mode = ModeEditIdle
	m.grid.SetEditMode(true)
	m.grid.SetSelected(m.cursor.Row, m.cursor.Col)
	return m, m.notify(noticeInfo, "Edit mode: ON")
}

func (m Model) exitEdit() (tea.Model, tea.Cmd) {
	m.mode = ModeView
	m.grid.SetEditMode(false)
	m.grid.ClearSelected()
	return m, m.notify(noticeInfo, "Edit mode: OFF")
}

// updateEditIdle handles keys in edit mode when nothing is held
func (m Model) updateEditIdle(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if dRow, dCol, ok := arrowDelta(msg); ok {
		if m.moveCursor(dRow, dCol) {
			m.grid.SetSelected(m.cursor.Row, m.cursor.Col)
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.EditKeys.Edit), key.Matches(msg, m.EditKeys.Cancel):
		return m.exitEdit()

	case key.Matches(msg, m.EditKeys.PickDrop):
		return m.pickUp()

	case key.Matches(msg, m.EditKeys.Add):
		m.mode = ModeEditAdding
		m.browser = newBrowserModel(m.grid.Occupied(), m.grid.Rows(), m.grid.Cols(), m.cursor)
		return m, m.browser.Init(m.loadStates())

	case key.Matches(msg, m.EditKeys.Remove):
		return m.removeTile()

	case key.Matches(msg, m.EditKeys.Rename):
		tile := m.cursorTile()
		if tile == nil {
			return m, nil
		}
		m.mode = ModeEditNaming
		m.names = newNameEditorModel(tile.EntityID, tile.DisplayName)
		return m, nil

	case key.Matches(msg, m.EditKeys.Dashboards):
		m.mode = ModeEditDashboards
		m.manager = newManagerModel(m.store)
		return m, nil
	}
	return m, nil
}

// pickUp starts moving the tile under the cursor. The original cell shows the
// tile dashed and a ghost follows the cursor.
func (m Model) pickUp() (tea.Model, tea.Cmd) {
	tile := m.cursorTile()
	if tile == nil {
		return m, nil
	}
	m.mode = ModeEditHolding
	m.held = tile
	m.heldFrom = m.cursor
	tile.BeingMoved = true
	m.grid.SetGhost(tile, m.cursor.Row, m.cursor.Col)
	m.grid.ClearSelected()
	return m, m.notify(noticeInfo, "Picked up "+tile.FriendlyName)
}

// updateHolding handles keys while a tile is held
func (m Model) updateHolding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if dRow, dCol, ok := arrowDelta(msg); ok {
		if m.moveCursor(dRow, dCol) {
			m.grid.SetGhost(m.held, m.cursor.Row, m.cursor.Col)
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.EditKeys.Cancel):
		m.release()
		return m, nil

	case key.Matches(msg, m.EditKeys.PickDrop):
		return m.drop()
	}
	return m, nil
}

// release ends a hold without moving anything.
func (m *Model) release() {
	m.grid.ClearGhost()
	if m.held != nil {
		m.held.BeingMoved = false
	}
	m.held = nil
	m.mode = ModeEditIdle
	m.grid.SetSelected(m.cursor.Row, m.cursor.Col)
}

// drop places the held tile at the cursor. The store is updated first; the
// grid only changes if the store accepted the move.
func (m Model) drop() (tea.Model, tea.Cmd) {
	row, col := m.cursor.Row, m.cursor.Col

	if m.cursor == m.heldFrom {
		m.release()
		return m, m.notify(noticeInfo, "Entity dropped at original position")
	}

	if other := m.grid.GetAt(row, col); other != nil && other != m.held {
		return m, m.notify(noticeWarning, fmt.Sprintf("Position (%d, %d) is occupied", row, col))
	}

	tile := m.held
	moved, err := m.store.MoveEntity(tile.EntityID, row, col)
	if err != nil || !moved {
		m.release()
		if err == nil {
			err = fmt.Errorf("position %s was rejected", config.Position{Row: row, Col: col})
		}
		return m, m.notify(noticeError, "Failed to update config: "+err.Error())
	}

	m.grid.ClearGhost()
	m.grid.Remove(m.heldFrom.Row, m.heldFrom.Col)
	tile.BeingMoved = false
	if err := m.grid.Add(tile, row, col); err != nil {
		m.release()
		return m, m.notify(noticeError, "Failed to place tile: "+err.Error())
	}
	m.held = nil
	m.mode = ModeEditIdle
	m.grid.SetSelected(row, col)
	return m, m.notify(noticeInfo, fmt.Sprintf("Moved %s to (%d, %d)", tile.EntityID, row, col))
}

func (m Model) removeTile() (tea.Model, tea.Cmd) {
	tile := m.cursorTile()
	if tile == nil {
		return m, m.notify(noticeWarning, "No entity at current position to remove")
	}

	if _, err := m.store.RemoveEntity(tile.EntityID); err != nil {
		return m, m.notify(noticeError, "Error removing entity: "+err.Error())
	}
	m.grid.Remove(m.cursor.Row, m.cursor.Col)
	m.coal.Forget(tile.EntityID)
	m.grid.SetSelected(m.cursor.Row, m.cursor.Col)
	return m, m.notify(noticeInfo, "Removed "+tile.EntityID)
}

// finishAdding applies the entity browser's result.
func (m Model) finishAdding(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	m.mode = ModeEditIdle
	result := m.browser.result
	if result == nil {
		return m, cmd
	}

	binding := config.EntityBinding{
		Entity:   result.state.EntityID,
		Position: config.Position{Row: result.row, Col: result.col},
		Type:     config.TypeAuto,
	}
	if err := m.store.AddEntity(binding.Entity, result.row, result.col, binding.Type); err != nil {
		return m, tea.Batch(cmd, m.notify(noticeError, "Error adding entity: "+err.Error()))
	}

	tile := entity.NewTile(binding)
	tile.ApplyState(&result.state)
	if err := m.grid.Add(tile, result.row, result.col); err != nil {
		return m, tea.Batch(cmd, m.notify(noticeError, "Error adding entity: "+err.Error()))
	}
	m.grid.SetSelected(m.cursor.Row, m.cursor.Col)

	return m, tea.Batch(cmd, m.notify(noticeInfo, fmt.Sprintf("Added %s at (%d, %d)", binding.Entity, result.row, result.col)))
}

// finishNaming applies the name editor's result.
func (m Model) finishNaming(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	m.mode = ModeEditIdle
	if m.names.canceled {
		return m, cmd
	}

	id, name := m.names.entityID, m.names.Value()
	if err := m.store.UpdateDisplayName(id, name); err != nil {
		return m, tea.Batch(cmd, m.notify(noticeError, "Error renaming entity: "+err.Error()))
	}
	if tile, _, ok := m.grid.Find(id); ok {
		tile.SetDisplayName(name)
	}
	return m, tea.Batch(cmd, m.notify(noticeInfo, "Renamed "+id))
}

// finishDashboards closes the dashboard manager and reloads the grid if the
// active dashboard changed while it was open.
func (m Model) finishDashboards(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	m.mode = ModeEditIdle
	if m.store.Current() == m.manager.opened {
		return m, cmd
	}
	return m, tea.Batch(cmd, m.loadDashboard())
}
