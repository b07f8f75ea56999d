package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/muesli/termenv"

	"github.com/Sorano7/cise-sente-tool/internal/domain/pathfinding"
	"github.com/Sorano7/cise-sente-tool/internal/domain/shared"
)

// PathFormatter renders solved routes as a leg tree
type PathFormatter struct {
	useColors bool
}

// NewPathFormatter creates a new path formatter
func NewPathFormatter(useColors bool) *PathFormatter {
	return &PathFormatter{useColors: useColors}
}

// FormatPath renders the origin, one branch per leg and, when known, the
// destination's position on arrival.
func (f *PathFormatter) FormatPath(res *pathfinding.Result, arrivals map[int]shared.Position) string {
	if !pathfinding.HasValidResult(res) {
		return "(no path)"
	}

	var builder strings.Builder
	fmt.Fprintf(&builder, "%s  launch %s\n", f.bold(res.Origin), formatTimestamp(res.LaunchTime))

	times := res.ArrivalTimes()
	for i, leg := range res.Legs {
		branch, detail := "├── ", "│   "
		if i == len(res.Legs)-1 {
			branch, detail = "└── ", "    "
		}

		number := leg.Number()
		if number == 0 {
			number = i + 1
		}

		fmt.Fprintf(&builder, "%s%d. %s  %.3f AU, %s\n",
			branch, number, f.bold(leg.Destination()),
			leg.Float("distance_au"), formatDuration(leg.Float("total_time")))
		fmt.Fprintf(&builder, "%sburn %s, coast %s, Δv %.1f km/s, %.2f g\n",
			detail,
			formatDuration(leg.Float("burn_time")),
			formatDuration(leg.Float("coast_time")),
			leg.Float("dv_cost")/1000,
			leg.Float("accel_g"))

		arrival := fmt.Sprintf("%sarrive %s", detail, formatTimestamp(times[i]))
		if pos, ok := arrivals[i]; ok {
			arrival += fmt.Sprintf(" at (%.3f, %.3f)", pos.X, pos.Y)
		}
		builder.WriteString(arrival + "\n")
	}

	return builder.String()
}

// FormatSummary creates a compact summary of the route
func (f *PathFormatter) FormatSummary(res *pathfinding.Result) string {
	if !pathfinding.HasValidResult(res) {
		return "No path"
	}

	s := res.Summary
	legs := int(s.Float("total_legs"))
	if legs == 0 {
		legs = len(res.Legs)
	}

	return fmt.Sprintf(
		"Path: %d legs, %.2f days, %.3f AU, Δv %.1f km/s, avg %.2f g",
		legs,
		s.Float("total_time_days"),
		s.Float("total_distance_au"),
		s.Float("total_delta_v_km_s"),
		s.Float("average_acceleration_g"),
	)
}

func (f *PathFormatter) bold(s string) string {
	if !f.useColors {
		return s
	}
	return termenv.String(s).Bold().String()
}

// formatDuration renders solver seconds, switching to days past 48h
func formatDuration(seconds float64) string {
	if seconds >= 48*3600 {
		return fmt.Sprintf("%.2fd", seconds/86400)
	}
	return (time.Duration(seconds) * time.Second).Round(time.Minute).String()
}

func formatTimestamp(ts float64) string {
	return time.Unix(int64(ts), 0).UTC().Format("2006-01-02 15:04 UTC")
}
