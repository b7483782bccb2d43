package setup

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Preset is a named range offered on the setup screen.
type Preset struct {
	Label string `yaml:"label" json:"label"`
	Range Range  `yaml:"range" json:"range"`
}

type presetFile struct {
	Ranges []Preset `yaml:"ranges"`
}

// ParsePresets decodes the YAML preset list. Range values use the "min-max" form.
func ParsePresets(raw []byte) ([]Preset, error) {
	var f presetFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse presets: %w", err)
	}
	if len(f.Ranges) == 0 {
		return nil, fmt.Errorf("parse presets: no ranges")
	}
	return f.Ranges, nil
}

// FindPreset returns the preset whose label or range string equals key.
func FindPreset(presets []Preset, key string) (Preset, bool) {
	for _, p := range presets {
		if p.Label == key || p.Range.String() == key {
			return p, true
		}
	}
	return Preset{}, false
}
