package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/muurk/hatui/internal/homeassistant"
)

func named(id, name string) homeassistant.State {
	attrs := map[string]any{}
	if name != "" {
		attrs["friendly_name"] = name
	}
	return homeassistant.State{EntityID: id, State: "on", Attributes: attrs}
}

func ids(states []homeassistant.State) []string {
	out := make([]string, len(states))
	for i, s := range states {
		out[i] = s.EntityID
	}
	return out
}

func TestCatalogFiltersAndSorts(t *testing.T) {
	states := []homeassistant.State{
		named("switch.pump", "Pump"),
		named("sun.sun", "Sun"),
		named("light.porch", "Porch"),
		named("light.attic", ""),
		named("weather.home", "Home"),
		named("light.kitchen", "Kitchen"),
		named("media_player.tv", "TV"),
	}

	got := Catalog(states)
	assert.Equal(t, []string{
		"light.attic",
		"light.kitchen",
		"light.porch",
		"media_player.tv",
		"switch.pump",
	}, ids(got))
}

func TestCatalogDomains(t *testing.T) {
	states := []homeassistant.State{
		named("switch.pump", "Pump"),
		named("light.porch", "Porch"),
		named("sun.sun", "Sun"),
	}
	assert.Equal(t, []string{"sun.sun", "switch.pump"}, ids(Catalog(states, "switch", "sun")))
}

func TestMatches(t *testing.T) {
	kitchen := named("light.kitchen_main", "Kitchen Ceiling")

	tests := map[string]bool{
		"":          true,
		"kitchen":   true,
		"KITCHEN":   true,
		"ceiling":   true,
		"light.kit": true,
		" main ":    true,
		"porch":     false,
	}
	for query, want := range tests {
		assert.Equal(t, want, Matches(kitchen, query), "query %q", query)
	}
}
