package vessel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sorano7/cise-sente-tool/internal/domain/vessel"
)

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, vessel.DefaultConfig().Validate())

	err := vessel.Config{DeltaV: 1, MassT: 0, ThrustN: -5}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vessel.MassT")
	assert.Contains(t, err.Error(), "vessel.ThrustN")
	assert.NotContains(t, err.Error(), "vessel.DeltaV")
}

func TestPolicy_Validate(t *testing.T) {
	require.NoError(t, vessel.DefaultPolicy().Validate())
	require.NoError(t, vessel.Policy{}.Validate())

	err := vessel.Policy{TimeWeight: -1}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "policy.TimeWeight")
}

func TestConfig_MaxAcceleration(t *testing.T) {
	cfg := vessel.Config{DeltaV: 1000, MassT: 100, ThrustN: 981000}

	assert.InDelta(t, 9.81, cfg.MaxAcceleration(), 1e-9)
	assert.InDelta(t, 1.0, cfg.MaxAccelerationG(), 1e-9)
	assert.Zero(t, vessel.Config{ThrustN: 10}.MaxAcceleration())
}

func TestPresets_Apply(t *testing.T) {
	presets := vessel.Presets{
		"H-B Fusion":     {DeltaV: 300000, MassT: 750, ThrustN: 255000},
		"Solid-Core NTR": {DeltaV: 7847, MassT: 100, ThrustN: 1780000},
	}
	cfg := vessel.DefaultConfig()

	assert.False(t, presets.Apply("", &cfg))
	assert.False(t, presets.Apply("Warp Drive", &cfg))
	assert.Equal(t, vessel.DefaultConfig(), cfg)

	assert.True(t, presets.Apply("H-B Fusion", &cfg))
	assert.Equal(t, vessel.Config{DeltaV: 300000, MassT: 750, ThrustN: 255000}, cfg)

	assert.Equal(t, []string{"H-B Fusion", "Solid-Core NTR"}, presets.Names())
}
