package homeassistant

import (
	"strings"
	"time"
)

// State is one entity as returned by GET /api/states
type State struct {
	EntityID    string         `json:"entity_id"`
	State       string         `json:"state"`
	Attributes  map[string]any `json:"attributes"`
	LastChanged time.Time      `json:"last_changed"`
	LastUpdated time.Time      `json:"last_updated"`
}

// Domain returns the part of the entity id before the first dot.
func (s State) Domain() string {
	return Domain(s.EntityID)
}

// FriendlyName returns the friendly_name attribute, or "" if absent.
func (s State) FriendlyName() string {
	name, _ := s.Attributes["friendly_name"].(string)
	return name
}

// Domain returns the domain prefix of an entity id ("light" for "light.kitchen").
func Domain(entityID string) string {
	domain, _, found := strings.Cut(entityID, ".")
	if !found {
		return ""
	}
	return domain
}

// APIStatus is the body of GET /api/
type APIStatus struct {
	Message string `json:"message"`
}

// serviceRequest is the JSON body for POST /api/services/{domain}/{service}
type serviceRequest map[string]any
