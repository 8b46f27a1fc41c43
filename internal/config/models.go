package config

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// EntityType selects how a tile behaves. It is persisted as the binding's "type".
type EntityType string

const (
	TypeAuto    EntityType = "auto"
	TypeToggle  EntityType = "toggle"
	TypeSensor  EntityType = "sensor"
	TypeClimate EntityType = "climate"
	TypeAction  EntityType = "action"
	TypeLight   EntityType = "light"
)

// Valid reports whether t is one of the known entity types.
func (t EntityType) Valid() bool {
	switch t {
	case TypeAuto, TypeToggle, TypeSensor, TypeClimate, TypeAction, TypeLight:
		return true
	}
	return false
}

const (
	// DefaultDashboardName is used for the seed document
	DefaultDashboardName = "Default Dashboard"

	// DefaultRows and DefaultCols size new dashboards
	DefaultRows = 3
	DefaultCols = 3

	// DefaultRefreshInterval is the polling period in seconds
	DefaultRefreshInterval = 5

	// SeedEntity is placed at [0, 0] on first run; every Home Assistant install has it.
	SeedEntity = "sun.sun"
)

// Position is a grid cell. It is persisted as a flow sequence: [row, col].
type Position struct {
	Row int
	Col int
}

func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.Row, p.Col)
}

// MarshalYAML writes the position as [row, col].
func (p Position) MarshalYAML() (interface{}, error) {
	return &yaml.Node{
		Kind:  yaml.SequenceNode,
		Style: yaml.FlowStyle,
		Content: []*yaml.Node{
			{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(p.Row)},
			{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(p.Col)},
		},
	}, nil
}

// UnmarshalYAML reads a two-element sequence.
func (p *Position) UnmarshalYAML(value *yaml.Node) error {
	var pair []int
	if err := value.Decode(&pair); err != nil {
		return fmt.Errorf("position must be [row, col]: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("position must have exactly 2 elements, got %d", len(pair))
	}
	p.Row, p.Col = pair[0], pair[1]
	return nil
}

// EntityBinding places one Home Assistant entity on a dashboard.
type EntityBinding struct {
	Entity      string     `yaml:"entity"`
	Position    Position   `yaml:"position"`
	Type        EntityType `yaml:"type"`
	Icon        string     `yaml:"icon,omitempty"`
	DisplayName string     `yaml:"display_name,omitempty"` // overrides the server's friendly_name
}

// Dashboard is one named grid.
type Dashboard struct {
	Name            string          `yaml:"name"`
	RefreshInterval int             `yaml:"refresh_interval"` // seconds
	Rows            int             `yaml:"rows"`
	Cols            int             `yaml:"cols"`
	Entities        []EntityBinding `yaml:"entities"`
}

// InBounds reports whether p lies inside the grid.
func (d *Dashboard) InBounds(p Position) bool {
	return p.Row >= 0 && p.Row < d.Rows && p.Col >= 0 && p.Col < d.Cols
}

// IndexOf returns the binding index for entityID, or -1.
func (d *Dashboard) IndexOf(entityID string) int {
	for i := range d.Entities {
		if d.Entities[i].Entity == entityID {
			return i
		}
	}
	return -1
}

// IndexAt returns the binding index at p, or -1.
func (d *Dashboard) IndexAt(p Position) int {
	for i := range d.Entities {
		if d.Entities[i].Position == p {
			return i
		}
	}
	return -1
}

// Binding returns a copy of the binding for entityID.
func (d *Dashboard) Binding(entityID string) (EntityBinding, bool) {
	i := d.IndexOf(entityID)
	if i < 0 {
		return EntityBinding{}, false
	}
	return d.Entities[i], true
}

// Document is the whole persisted file.
type Document struct {
	CurrentDashboard int          `yaml:"current_dashboard"`
	Dashboards       []*Dashboard `yaml:"dashboards"`
}

// rawDocument accepts both the list form and the legacy single "dashboard" key.
type rawDocument struct {
	CurrentDashboard int          `yaml:"current_dashboard"`
	Dashboards       []*Dashboard `yaml:"dashboards"`
	Dashboard        *Dashboard   `yaml:"dashboard"`
}

// NewDashboard creates an empty dashboard.
func NewDashboard(name string, rows, cols, refresh int) *Dashboard {
	return &Dashboard{
		Name:            name,
		RefreshInterval: refresh,
		Rows:            rows,
		Cols:            cols,
		Entities:        []EntityBinding{},
	}
}

// NewDocument returns the first-run document.
func NewDocument() *Document {
	d := NewDashboard(DefaultDashboardName, DefaultRows, DefaultCols, DefaultRefreshInterval)
	d.Entities = append(d.Entities, EntityBinding{
		Entity:   SeedEntity,
		Position: Position{Row: 0, Col: 0},
		Type:     TypeAuto,
	})
	return &Document{
		CurrentDashboard: 0,
		Dashboards:       []*Dashboard{d},
	}
}

// Current returns the active dashboard.
func (doc *Document) Current() *Dashboard {
	return doc.Dashboards[doc.CurrentDashboard]
}

// Parse decodes a document, migrating the legacy form, and normalizes it.
// Warnings describe bindings that were kept in the file but cannot be placed.
func Parse(data []byte) (*Document, []string, error) {
	var raw rawDocument
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	doc := &Document{
		CurrentDashboard: raw.CurrentDashboard,
		Dashboards:       raw.Dashboards,
	}
	if len(doc.Dashboards) == 0 && raw.Dashboard != nil {
		doc.Dashboards = []*Dashboard{raw.Dashboard}
		doc.CurrentDashboard = 0
	}

	warnings, err := doc.normalize()
	if err != nil {
		return nil, nil, err
	}
	return doc, warnings, nil
}

func (doc *Document) normalize() ([]string, error) {
	if len(doc.Dashboards) == 0 {
		return nil, fmt.Errorf("%w: no dashboards defined", ErrInvalidDocument)
	}

	var warnings []string
	for i, d := range doc.Dashboards {
		if d == nil {
			return nil, fmt.Errorf("%w: dashboard %d is empty", ErrInvalidDocument, i)
		}
		if d.Rows < 1 || d.Cols < 1 {
			return nil, fmt.Errorf("%w: dashboard %q has invalid size %dx%d", ErrInvalidDocument, d.Name, d.Rows, d.Cols)
		}
		if d.RefreshInterval < 1 {
			d.RefreshInterval = DefaultRefreshInterval
		}
		if d.Entities == nil {
			d.Entities = []EntityBinding{}
		}

		seen := make(map[Position]string)
		for j := range d.Entities {
			b := &d.Entities[j]
			if b.Type == "" || !b.Type.Valid() {
				if b.Type != "" {
					warnings = append(warnings, fmt.Sprintf("%s: unknown type %q, using auto", b.Entity, b.Type))
				}
				b.Type = TypeAuto
			}
			if !d.InBounds(b.Position) {
				warnings = append(warnings, fmt.Sprintf("%s at %s is outside the %dx%d grid of %q", b.Entity, b.Position, d.Rows, d.Cols, d.Name))
				continue
			}
			if other, dup := seen[b.Position]; dup {
				warnings = append(warnings, fmt.Sprintf("%s at %s overlaps %s on %q", b.Entity, b.Position, other, d.Name))
				continue
			}
			seen[b.Position] = b.Entity
		}
	}

	if doc.CurrentDashboard < 0 || doc.CurrentDashboard >= len(doc.Dashboards) {
		doc.CurrentDashboard = 0
	}
	return warnings, nil
}
