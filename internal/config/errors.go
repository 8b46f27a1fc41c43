package config

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDocument is returned when the file cannot be parsed or breaks a structural rule
	ErrInvalidDocument = errors.New("invalid dashboard document")

	// ErrPositionOccupied is returned when a cell already holds a binding
	ErrPositionOccupied = errors.New("position occupied")

	// ErrOutOfBounds is returned for a cell outside the dashboard grid
	ErrOutOfBounds = errors.New("position out of bounds")

	// ErrDuplicateEntity is returned when an entity is already on the dashboard
	ErrDuplicateEntity = errors.New("entity already on dashboard")

	// ErrLastDashboard is returned when deleting the only dashboard
	ErrLastDashboard = errors.New("cannot delete the last dashboard")

	// ErrIndexOutOfRange is returned for a dashboard index that does not exist
	ErrIndexOutOfRange = errors.New("dashboard index out of range")

	// ErrInvalidDashboard is returned for an empty name or non-positive size
	ErrInvalidDashboard = errors.New("invalid dashboard")

	// ErrMissingToken is returned when HA_TOKEN is not set
	ErrMissingToken = errors.New("HA_TOKEN is not set")
)

// PositionError reports a rejected cell. It matches ErrPositionOccupied or
// ErrOutOfBounds with errors.Is.
type PositionError struct {
	Position Position
	Reason   error
}

func (e *PositionError) Error() string {
	if errors.Is(e.Reason, ErrPositionOccupied) {
		return fmt.Sprintf("Position %s is already occupied", e.Position)
	}
	return fmt.Sprintf("Position %s is outside the grid", e.Position)
}

func (e *PositionError) Unwrap() error {
	return e.Reason
}
