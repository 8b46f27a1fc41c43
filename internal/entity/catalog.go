package entity

import (
	"slices"
	"sort"
	"strings"

	"github.com/muurk/hatui/internal/homeassistant"
)

// UsefulDomains are the domains offered when adding a tile.
var UsefulDomains = []string{
	"light", "switch", "sensor", "binary_sensor", "climate", "script",
	"automation", "input_boolean", "cover", "fan", "media_player",
}

// Catalog filters states to domains (UsefulDomains when empty) and sorts them
// by domain, then friendly name or id.
func Catalog(states []homeassistant.State, domains ...string) []homeassistant.State {
	if len(domains) == 0 {
		domains = UsefulDomains
	}

	out := make([]homeassistant.State, 0, len(states))
	for _, s := range states {
		if slices.Contains(domains, s.Domain()) {
			out = append(out, s)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		di, dj := out[i].Domain(), out[j].Domain()
		if di != dj {
			return di < dj
		}
		return sortName(out[i]) < sortName(out[j])
	})
	return out
}

func sortName(s homeassistant.State) string {
	if name := s.FriendlyName(); name != "" {
		return name
	}
	return s.EntityID
}

// Matches reports whether query is a case-insensitive substring of the
// entity id or friendly name. An empty query matches everything.
func Matches(s homeassistant.State, query string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s.EntityID), query) ||
		strings.Contains(strings.ToLower(s.FriendlyName()), query)
}
