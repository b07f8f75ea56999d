package vessel

import "context"

// PresetSource lists the vessel presets offered by the vessels service
type PresetSource interface {
	GetVesselPresets(ctx context.Context) (Presets, error)
}
