package splitter

import (
	"strings"

	"github.com/spidy-senpai/splitter/internal/stems"
	"github.com/spidy-senpai/splitter/internal/types"
)

// StemDefinition binds a stem name to its source component, its frequency
// mask, and its display metadata.
type StemDefinition struct {
	Name        string
	Source      types.SourceComponent
	Mask        stems.Mask
	Emoji       string
	DisplayName string
}

// stemDefinitions is the single source of truth for what gets extracted.
// Each mask is either zero-based (out-of-band bins are silenced) or
// unity-based (out-of-band bins are only attenuated); nested bands
// multiply the gain their primary band already set.
//
//nolint:gochecknoglobals // static separation table, effectively const
var stemDefinitions = []StemDefinition{
	{
		Name:   "vocals",
		Source: types.ComponentHarmonic,
		Mask: stems.Mask{Bands: []stems.Band{
			{LowHz: 80, HighHz: 4000, Gain: 1.2},
			{LowHz: 150, HighHz: 3000, Gain: 1.3, Multiply: true},
		}},
		Emoji:       "🎤",
		DisplayName: "Vocals",
	},
	{
		Name:   "drums",
		Source: types.ComponentPercussive,
		Mask: stems.Mask{Base: 1, Bands: []stems.Band{
			stems.Below(50, 0.3, false),
			stems.Above(5000, 0.3, false),
		}},
		Emoji:       "🥁",
		DisplayName: "Drums",
	},
	{
		Name:   "bass",
		Source: types.ComponentHarmonic,
		Mask: stems.Mask{Bands: []stems.Band{
			{LowHz: 20, HighHz: 250, Gain: 1.8},
			{LowHz: 20, HighHz: 100, Gain: 1.2, Multiply: true},
		}},
		Emoji:       "🔊",
		DisplayName: "Bass",
	},
	{
		Name:   "guitar",
		Source: types.ComponentHarmonic,
		Mask: stems.Mask{Bands: []stems.Band{
			{LowHz: 80, HighHz: 2000, Gain: 1.4},
			{LowHz: 200, HighHz: 1000, Gain: 1.2, Multiply: true},
		}},
		Emoji:       "🎸",
		DisplayName: "Guitar",
	},
	{
		Name:   "piano",
		Source: types.ComponentHarmonic,
		Mask: stems.Mask{Bands: []stems.Band{
			{LowHz: 27, HighHz: 4200, Gain: 0.8},
			{LowHz: 200, HighHz: 2000, Gain: 1.3, Multiply: true},
		}},
		Emoji:       "🎹",
		DisplayName: "Piano",
	},
	{
		Name:   "flute",
		Source: types.ComponentHarmonic,
		Mask: stems.Mask{Bands: []stems.Band{
			{LowHz: 250, HighHz: 4200, Gain: 0.9},
			{LowHz: 1000, HighHz: 3500, Gain: 1.4, Multiply: true},
		}},
		Emoji:       "🪶",
		DisplayName: "Flute",
	},
	{
		Name:   "strings",
		Source: types.ComponentHarmonic,
		Mask: stems.Mask{Bands: []stems.Band{
			{LowHz: 40, HighHz: 3500, Gain: 0.9},
			{LowHz: 150, HighHz: 1500, Gain: 1.3, Multiply: true},
		}},
		Emoji:       "🎻",
		DisplayName: "Strings",
	},
	{
		Name:   "background",
		Source: types.ComponentHarmonic,
		Mask: stems.Mask{Bands: []stems.Band{
			stems.Above(3000, 1.2, false),
			stems.Above(5000, 1.1, true),
		}},
		Emoji:       "✨",
		DisplayName: "Background",
	},
	{
		Name:   "instrumental",
		Source: types.ComponentPercussive,
		Mask: stems.Mask{Base: 1, Bands: []stems.Band{
			stems.Below(100, 0.5, true),
		}},
		Emoji:       "🎺",
		DisplayName: "Instrumental",
	},
}

// StemDefinitions returns the static separation table. Callers get a copy
// of the slice header; definitions themselves are immutable by convention.
func StemDefinitions() []StemDefinition {
	return stemDefinitions
}

// StemNames returns the stem names in definition order.
func StemNames() []string {
	names := make([]string, len(stemDefinitions))
	for i, def := range stemDefinitions {
		names[i] = def.Name
	}

	return names
}

// StemEmoji returns the display emoji for a stem name, falling back to a
// generic note for unknown names.
func StemEmoji(name string) string {
	lower := strings.ToLower(name)
	for _, def := range stemDefinitions {
		if strings.Contains(lower, def.Name) {
			return def.Emoji
		}
	}

	return "🎵"
}

// FormatStemName turns a stem identifier into a display name
// ("lead_vocals" -> "Lead Vocals").
func FormatStemName(name string) string {
	words := strings.Split(name, "_")
	for i, word := range words {
		if word == "" {
			continue
		}

		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}

	return strings.Join(words, " ")
}
