package config

import "github.com/Sorano7/cise-sente-tool/internal/domain/vessel"

// SessionConfig holds the starting state of a navigation session
type SessionConfig struct {
	// Vessel used until a preset is applied or the vessel is edited
	Vessel vessel.Config `mapstructure:"vessel"`

	// Policy weights; an all-zero policy is replaced by the default
	Policy vessel.Policy `mapstructure:"policy"`

	// Preset applied after presets are loaded, if non-empty
	Preset string `mapstructure:"preset"`

	// LoadPresets fetches vessel presets when a session starts
	LoadPresets bool `mapstructure:"load_presets"`
}
