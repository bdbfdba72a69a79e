package render

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Preset controls the look of the rendered scene. Loaded from a TOML file
// and merged over defaults; every field is optional.
type Preset struct {
	MarkerSize  float64 `toml:"marker_size" json:"markerSize"`
	ColorScale  string  `toml:"color_scale" json:"colorScale"`
	Background  string  `toml:"background" json:"background"`
	SpinRate    float64 `toml:"spin_rate" json:"spinRate"`
	BridgeColor string  `toml:"bridge_color" json:"bridgeColor"`
	ShowBridges *bool   `toml:"show_bridges" json:"showBridges"`
}

// DefaultPreset returns the built-in scene preset.
func DefaultPreset() Preset {
	show := true
	return Preset{
		MarkerSize:  3.0,
		ColorScale:  "viridis",
		Background:  "#0b0e1a",
		SpinRate:    0.25,
		BridgeColor: "#ffd700",
		ShowBridges: &show,
	}
}

// LoadPreset reads a preset file and merges it over the defaults.
// A missing file is not an error; the defaults apply.
func LoadPreset(path string) (Preset, error) {
	preset := DefaultPreset()
	if path == "" {
		return preset, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return preset, nil
		}
		return preset, fmt.Errorf("read preset file: %w", err)
	}

	var file Preset
	if err := toml.Unmarshal(data, &file); err != nil {
		return preset, fmt.Errorf("parse preset file: %w", err)
	}

	if file.MarkerSize > 0 {
		preset.MarkerSize = file.MarkerSize
	}
	if file.ColorScale != "" {
		preset.ColorScale = file.ColorScale
	}
	if file.Background != "" {
		preset.Background = file.Background
	}
	if file.SpinRate > 0 {
		preset.SpinRate = file.SpinRate
	}
	if file.BridgeColor != "" {
		preset.BridgeColor = file.BridgeColor
	}
	if file.ShowBridges != nil {
		preset.ShowBridges = file.ShowBridges
	}

	return preset, nil
}
