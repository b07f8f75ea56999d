package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sorano7/cise-sente-tool/internal/domain/pathfinding"
	"github.com/Sorano7/cise-sente-tool/internal/domain/shared"
)

func twoLegResult() *pathfinding.Result {
	return &pathfinding.Result{
		Origin:     "Earth",
		LaunchTime: 0,
		Legs: []pathfinding.Leg{
			{"leg_number": 1.0, "destination": "Ceres", "distance_au": 1.7, "total_time": 86400.0},
			{"destination": "Mars", "distance_au": 1.2, "total_time": 3600.0},
		},
	}
}

func TestPathFormatter_FormatPath(t *testing.T) {
	f := NewPathFormatter(false)

	out := f.FormatPath(twoLegResult(), map[int]shared.Position{1: {X: 1, Y: -1}})

	assert.Contains(t, out, "Earth  launch 1970-01-01 00:00 UTC\n")
	assert.Contains(t, out, "├── 1. Ceres  1.700 AU, 24h0m0s\n")
	assert.Contains(t, out, "│   arrive 1970-01-02 00:00 UTC\n")
	assert.Contains(t, out, "└── 2. Mars  1.200 AU, 1h0m0s\n", "missing leg_number falls back to position")
	assert.Contains(t, out, "    arrive 1970-01-02 01:00 UTC at (1.000, -1.000)\n")
}

func TestPathFormatter_NoPath(t *testing.T) {
	f := NewPathFormatter(true)

	assert.Equal(t, "(no path)", f.FormatPath(nil, nil))
	assert.Equal(t, "(no path)", f.FormatPath(&pathfinding.Result{Error: "No path found"}, nil))
	assert.Equal(t, "No path", f.FormatSummary(nil))
}

func TestPathFormatter_SummaryCountsLegsWhenMissing(t *testing.T) {
	f := NewPathFormatter(false)

	assert.Contains(t, f.FormatSummary(twoLegResult()), "Path: 2 legs")
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "0s"},
		{90, "2m0s"},
		{36000, "10h0m0s"},
		{47 * 3600, "47h0m0s"},
		{48 * 3600, "2.00d"},
		{3 * 86400, "3.00d"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatDuration(tt.seconds))
	}
}
