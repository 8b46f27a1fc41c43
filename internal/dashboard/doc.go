// Package dashboard holds the in-memory grid for the active dashboard.
//
// The grid maps cells to tiles and tracks the selection highlight and the
// ghost preview used while a tile is being moved. It has no persistence of its
// own; the config store is the source of truth and the grid is rebuilt from it
// whenever the active dashboard changes.
package dashboard
