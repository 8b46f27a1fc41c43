package entity

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/muurk/hatui/internal/config"
	"github.com/muurk/hatui/internal/homeassistant"
)

// Classify derives a tile type from the entity's domain.
func Classify(entityID string) config.EntityType {
	switch homeassistant.Domain(entityID) {
	case "light":
		return config.TypeLight
	case "switch", "input_boolean", "fan", "cover", "media_player":
		return config.TypeToggle
	case "sensor", "binary_sensor":
		return config.TypeSensor
	case "climate":
		return config.TypeClimate
	case "script", "automation", "scene", "button":
		return config.TypeAction
	default:
		return config.TypeToggle
	}
}

// Resolve returns the configured type, classifying when it is auto.
func Resolve(configured config.EntityType, entityID string) config.EntityType {
	if configured == "" || configured == config.TypeAuto {
		return Classify(entityID)
	}
	return configured
}

var domainIcons = map[string]string{
	"light":         "💡",
	"switch":        "🔌",
	"sensor":        "📊",
	"binary_sensor": "🔍",
	"climate":       "🌡",
	"script":        "📜",
	"automation":    "🤖",
	"input_boolean": "✅",
	"fan":           "🌀",
	"cover":         "🪟",
	"media_player":  "🎵",
	"scene":         "🎬",
	"button":        "🔘",
	"sun":           "🌞",
}

// DefaultIcon returns the glyph for an entity's domain.
func DefaultIcon(entityID string) string {
	if icon, ok := domainIcons[homeassistant.Domain(entityID)]; ok {
		return icon
	}
	return "❓"
}

// DefaultName turns "light.living_room" into "Living Room".
func DefaultName(entityID string) string {
	object := entityID
	if i := strings.LastIndex(entityID, "."); i >= 0 {
		object = entityID[i+1:]
	}
	words := strings.Fields(strings.ReplaceAll(object, "_", " "))
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
	}
	return strings.Join(words, " ")
}

// PercentToBrightness converts 0..100 to the server's 0..255 scale.
// Halves round to even, so 70% is 178.
func PercentToBrightness(pct int) int {
	return int(math.RoundToEven(float64(pct) * 255 / 100))
}

// BrightnessToPercent converts 0..255 to 0..100.
func BrightnessToPercent(brightness float64) int {
	return int(math.RoundToEven(brightness * 100 / 255))
}
