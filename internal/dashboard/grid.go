package dashboard

import (
	"fmt"

	"github.com/muurk/hatui/internal/config"
	"github.com/muurk/hatui/internal/entity"
)

// Grid is the spatial layout of the active dashboard. A cell holds at most one
// tile; cells without a tile are empty and render a hint instead.
type Grid struct {
	rows, cols int
	tiles      map[config.Position]*entity.Tile

	selected    config.Position
	hasSelected bool

	ghost    *entity.Tile
	ghostPos config.Position

	editMode bool
}

// NewGrid creates an empty rows x cols grid.
func NewGrid(rows, cols int) *Grid {
	return &Grid{
		rows:  rows,
		cols:  cols,
		tiles: make(map[config.Position]*entity.Tile),
	}
}

// FromDashboard builds tiles for every binding that fits. Bindings outside the
// grid or on an already used cell are skipped and returned.
func FromDashboard(d *config.Dashboard) (*Grid, []config.EntityBinding) {
	g := NewGrid(d.Rows, d.Cols)
	var skipped []config.EntityBinding
	for _, b := range d.Entities {
		if err := g.Add(entity.NewTile(b), b.Position.Row, b.Position.Col); err != nil {
			skipped = append(skipped, b)
		}
	}
	return g, skipped
}

func (g *Grid) Rows() int { return g.rows }
func (g *Grid) Cols() int { return g.cols }

// InBounds reports whether (row, col) is a cell of the grid.
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}

// GetAt returns the tile at (row, col), or nil for an empty cell.
func (g *Grid) GetAt(row, col int) *entity.Tile {
	return g.tiles[config.Position{Row: row, Col: col}]
}

// Add places t at (row, col). The cell must be empty and inside the grid.
func (g *Grid) Add(t *entity.Tile, row, col int) error {
	pos := config.Position{Row: row, Col: col}
	if !g.InBounds(row, col) {
		return fmt.Errorf("%s at %s: %w", t.EntityID, pos, config.ErrOutOfBounds)
	}
	if other, ok := g.tiles[pos]; ok {
		return fmt.Errorf("%s at %s holds %s: %w", t.EntityID, pos, other.EntityID, config.ErrPositionOccupied)
	}
	g.tiles[pos] = t
	t.Selected = g.hasSelected && g.selected == pos
	return nil
}

// Remove empties (row, col) and returns the tile that was there.
func (g *Grid) Remove(row, col int) *entity.Tile {
	pos := config.Position{Row: row, Col: col}
	t, ok := g.tiles[pos]
	if !ok {
		return nil
	}
	delete(g.tiles, pos)
	t.Selected = false
	return t
}

// Find returns the tile for entityID and its cell.
func (g *Grid) Find(entityID string) (*entity.Tile, config.Position, bool) {
	for pos, t := range g.tiles {
		if t.EntityID == entityID {
			return t, pos, true
		}
	}
	return nil, config.Position{}, false
}

// SetSelected moves the selection highlight to (row, col).
func (g *Grid) SetSelected(row, col int) {
	g.ClearSelected()
	g.selected = config.Position{Row: row, Col: col}
	g.hasSelected = true
	if t := g.tiles[g.selected]; t != nil {
		t.Selected = true
	}
}

// ClearSelected removes the selection highlight.
func (g *Grid) ClearSelected() {
	if t := g.tiles[g.selected]; g.hasSelected && t != nil {
		t.Selected = false
	}
	g.hasSelected = false
}

// Selected returns the highlighted cell.
func (g *Grid) Selected() (config.Position, bool) {
	return g.selected, g.hasSelected
}

// SetGhost shows a preview of a held tile at (row, col). Passing nil clears it.
func (g *Grid) SetGhost(t *entity.Tile, row, col int) {
	if t == nil {
		g.ClearGhost()
		return
	}
	g.ghost = t.Ghost()
	g.ghostPos = config.Position{Row: row, Col: col}
}

// ClearGhost removes the preview.
func (g *Grid) ClearGhost() {
	g.ghost = nil
}

// GhostAt returns the preview to draw at (row, col). It is only shown over
// empty cells.
func (g *Grid) GhostAt(row, col int) *entity.Tile {
	pos := config.Position{Row: row, Col: col}
	if g.ghost == nil || g.ghostPos != pos {
		return nil
	}
	if _, occupied := g.tiles[pos]; occupied {
		return nil
	}
	return g.ghost
}

// SetEditMode switches the empty-cell hint.
func (g *Grid) SetEditMode(on bool) {
	g.editMode = on
}

// EditMode reports whether the grid is in edit mode.
func (g *Grid) EditMode() bool {
	return g.editMode
}

// EmptyCellText is the body of an empty cell.
func (g *Grid) EmptyCellText(row, col int) string {
	if g.editMode {
		return fmt.Sprintf("[%d,%d]\n\nEmpty\nPress A to add", row, col)
	}
	return "Press E to edit"
}

// Tiles returns a row-major snapshot of the tiles.
func (g *Grid) Tiles() []*entity.Tile {
	out := make([]*entity.Tile, 0, len(g.tiles))
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			if t := g.tiles[config.Position{Row: r, Col: c}]; t != nil {
				out = append(out, t)
			}
		}
	}
	return out
}

// EntityIDs returns a row-major snapshot of the bound entity ids.
func (g *Grid) EntityIDs() []string {
	tiles := g.Tiles()
	ids := make([]string, len(tiles))
	for i, t := range tiles {
		ids[i] = t.EntityID
	}
	return ids
}

// Occupied returns the set of cells that hold a tile.
func (g *Grid) Occupied() map[config.Position]bool {
	out := make(map[config.Position]bool, len(g.tiles))
	for pos := range g.tiles {
		out[pos] = true
	}
	return out
}

// Len returns the number of tiles.
func (g *Grid) Len() int {
	return len(g.tiles)
}
