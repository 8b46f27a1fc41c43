package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/muurk/hatui/internal/logging"
)

// Store owns the dashboard document and its file. Every successful mutation is
// saved before it returns.
type Store struct {
	path     string
	doc      *Document
	warnings []string
	seeded   bool

	mu sync.Mutex
}

// Open loads path, writing the seed document first if the file does not exist.
func Open(path string) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		s.doc = NewDocument()
		s.seeded = true
		if err := s.Save(); err != nil {
			return nil, err
		}
		logging.Info("Wrote seed dashboard document", zap.String("path", path))
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	doc, warnings, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	s.doc = doc
	s.warnings = warnings
	for _, w := range warnings {
		logging.Warn("Dashboard document", zap.String("warning", w))
	}
	return s, nil
}

// Create writes the seed document to path, replacing any existing file.
func Create(path string) (*Store, error) {
	s := &Store{path: path, doc: NewDocument(), seeded: true}
	if err := s.Save(); err != nil {
		return nil, err
	}
	logging.Info("Wrote seed dashboard document", zap.String("path", path))
	return s, nil
}

// Load reads and parses a document without opening a Store.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	doc, _, err := Parse(data)
	return doc, err
}

// Path returns the backing file.
func (s *Store) Path() string { return s.path }

// Seeded reports whether Open created the file.
func (s *Store) Seeded() bool { return s.seeded }

// Warnings returns problems found while loading.
func (s *Store) Warnings() []string { return s.warnings }

// Document returns the live document. Callers must not mutate it directly.
func (s *Store) Document() *Document { return s.doc }

// Current returns the active dashboard.
func (s *Store) Current() *Dashboard { return s.doc.Current() }

// CurrentIndex returns the active dashboard index.
func (s *Store) CurrentIndex() int { return s.doc.CurrentDashboard }

// Len returns the number of dashboards.
func (s *Store) Len() int { return len(s.doc.Dashboards) }

// Save writes the document atomically: a temporary file is written next to
// the target and renamed over it.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(s.doc)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# hatui dashboards
# Edited by hatui; changes made while it is running will be overwritten.
# HA_URL and HA_TOKEN are read from the environment and never stored here.

`)
	data = append(header, data...)

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary config file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to save config file: %w", err)
	}
	return nil
}

// snapshot records the document so a mutation can be undone. The dashboard
// pointers are kept, so callers holding Current() see the restored values.
type snapshot struct {
	current    int
	dashboards []*Dashboard
	values     []Dashboard
}

func (s *Store) snapshot() snapshot {
	snap := snapshot{
		current:    s.doc.CurrentDashboard,
		dashboards: slices.Clone(s.doc.Dashboards),
		values:     make([]Dashboard, len(s.doc.Dashboards)),
	}
	for i, d := range s.doc.Dashboards {
		snap.values[i] = *d
		snap.values[i].Entities = slices.Clone(d.Entities)
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.doc.CurrentDashboard = snap.current
	s.doc.Dashboards = snap.dashboards
	for i, d := range snap.dashboards {
		*d = snap.values[i]
	}
}

// commit saves the mutated document. When the save fails the document is put
// back to snap, so memory never holds a change the file does not.
func (s *Store) commit(snap snapshot) error {
	if err := s.Save(); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// AddEntity binds entityID at (row, col) of the current dashboard.
func (s *Store) AddEntity(entityID string, row, col int, typ EntityType) error {
	d := s.Current()
	pos := Position{Row: row, Col: col}

	if !d.InBounds(pos) {
		return &PositionError{Position: pos, Reason: ErrOutOfBounds}
	}
	if d.IndexAt(pos) >= 0 {
		return &PositionError{Position: pos, Reason: ErrPositionOccupied}
	}
	if d.IndexOf(entityID) >= 0 {
		return fmt.Errorf("%s: %w", entityID, ErrDuplicateEntity)
	}
	if typ == "" {
		typ = TypeAuto
	}

	snap := s.snapshot()
	d.Entities = append(d.Entities, EntityBinding{Entity: entityID, Position: pos, Type: typ})
	if err := s.commit(snap); err != nil {
		return err
	}
	logging.LogLayoutChange("add", d.Name, zap.String("entity_id", entityID), zap.Stringer("position", pos))
	return nil
}

// RemoveEntity unbinds entityID from the current dashboard. It reports whether
// anything was removed; nothing is saved when it was not.
func (s *Store) RemoveEntity(entityID string) (bool, error) {
	d := s.Current()
	snap := s.snapshot()

	kept := d.Entities[:0]
	for _, b := range d.Entities {
		if b.Entity != entityID {
			kept = append(kept, b)
		}
	}
	if len(kept) == len(d.Entities) {
		return false, nil
	}
	d.Entities = kept

	if err := s.commit(snap); err != nil {
		return false, err
	}
	logging.LogLayoutChange("remove", d.Name, zap.String("entity_id", entityID))
	return true, nil
}

// MoveEntity rebinds entityID to (row, col). It returns false without saving when
// the entity is unknown, the target is outside the grid, or another binding
// holds the target. Moving onto its own cell succeeds and saves.
func (s *Store) MoveEntity(entityID string, row, col int) (bool, error) {
	d := s.Current()
	pos := Position{Row: row, Col: col}

	i := d.IndexOf(entityID)
	if i < 0 || !d.InBounds(pos) {
		return false, nil
	}
	if j := d.IndexAt(pos); j >= 0 && j != i {
		return false, nil
	}

	snap := s.snapshot()
	from := d.Entities[i].Position
	d.Entities[i].Position = pos
	if err := s.commit(snap); err != nil {
		return false, err
	}
	logging.LogLayoutChange("move", d.Name,
		zap.String("entity_id", entityID),
		zap.Stringer("from", from),
		zap.Stringer("to", pos),
	)
	return true, nil
}

// UpdateDisplayName sets the label override for entityID. An empty or blank name
// clears it.
func (s *Store) UpdateDisplayName(entityID, name string) error {
	d := s.Current()
	i := d.IndexOf(entityID)
	if i < 0 {
		return fmt.Errorf("%s is not on dashboard %q", entityID, d.Name)
	}

	snap := s.snapshot()
	d.Entities[i].DisplayName = strings.TrimSpace(name)
	if err := s.commit(snap); err != nil {
		return err
	}
	logging.LogLayoutChange("rename_entity", d.Name, zap.String("entity_id", entityID))
	return nil
}

// AddDashboard appends an empty dashboard and returns its index. The current
// dashboard does not change.
func (s *Store) AddDashboard(name string, rows, cols, refresh int) (int, error) {
	name = strings.TrimSpace(name)
	if name == "" || rows < 1 || cols < 1 || refresh < 1 {
		return -1, fmt.Errorf("%w: name %q, size %dx%d, refresh %d", ErrInvalidDashboard, name, rows, cols, refresh)
	}

	snap := s.snapshot()
	s.doc.Dashboards = append(s.doc.Dashboards, NewDashboard(name, rows, cols, refresh))
	if err := s.commit(snap); err != nil {
		return -1, err
	}
	logging.LogLayoutChange("add_dashboard", name)
	return len(s.doc.Dashboards) - 1, nil
}

// DeleteDashboard removes the dashboard at index. It refuses, without touching
// the file, when only one dashboard remains.
func (s *Store) DeleteDashboard(index int) (bool, error) {
	n := len(s.doc.Dashboards)
	if n <= 1 {
		return false, ErrLastDashboard
	}
	if index < 0 || index >= n {
		return false, ErrIndexOutOfRange
	}

	snap := s.snapshot()
	name := s.doc.Dashboards[index].Name
	s.doc.Dashboards = append(s.doc.Dashboards[:index], s.doc.Dashboards[index+1:]...)

	current := s.doc.CurrentDashboard
	switch {
	case index == current:
		current = max(0, current-1)
	case index < current:
		current--
	}
	s.doc.CurrentDashboard = current

	if err := s.commit(snap); err != nil {
		return false, err
	}
	logging.LogLayoutChange("delete_dashboard", name)
	return true, nil
}

// SwitchDashboard moves the current index by dir, wrapping at both ends, and
// returns the new current dashboard.
func (s *Store) SwitchDashboard(dir int) (*Dashboard, error) {
	n := len(s.doc.Dashboards)
	snap := s.snapshot()
	s.doc.CurrentDashboard = ((s.doc.CurrentDashboard+dir)%n + n) % n
	if err := s.commit(snap); err != nil {
		return s.Current(), err
	}
	return s.Current(), nil
}

// SelectDashboard makes index the current dashboard.
func (s *Store) SelectDashboard(index int) error {
	if index < 0 || index >= len(s.doc.Dashboards) {
		return ErrIndexOutOfRange
	}
	snap := s.snapshot()
	s.doc.CurrentDashboard = index
	return s.commit(snap)
}

// RenameDashboard changes the name of the dashboard at index.
func (s *Store) RenameDashboard(index int, name string) error {
	if index < 0 || index >= len(s.doc.Dashboards) {
		return ErrIndexOutOfRange
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidDashboard)
	}

	snap := s.snapshot()
	old := s.doc.Dashboards[index].Name
	s.doc.Dashboards[index].Name = name
	if err := s.commit(snap); err != nil {
		return err
	}
	logging.LogLayoutChange("rename_dashboard", name, zap.String("old_name", old))
	return nil
}

// MoveDashboard swaps the dashboard at index with its neighbour in direction dir
// and returns its new index. The current dashboard stays selected. At either
// end of the list nothing changes.
func (s *Store) MoveDashboard(index, dir int) (int, error) {
	n := len(s.doc.Dashboards)
	if index < 0 || index >= n {
		return index, ErrIndexOutOfRange
	}
	target := index + dir
	if target < 0 || target >= n || target == index {
		return index, nil
	}

	snap := s.snapshot()
	ds := s.doc.Dashboards
	ds[index], ds[target] = ds[target], ds[index]

	switch s.doc.CurrentDashboard {
	case index:
		s.doc.CurrentDashboard = target
	case target:
		s.doc.CurrentDashboard = index
	}

	if err := s.commit(snap); err != nil {
		return index, err
	}
	logging.LogLayoutChange("reorder_dashboard", ds[target].Name, zap.Int("index", target))
	return target, nil
}
