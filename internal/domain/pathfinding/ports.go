package pathfinding

import (
	"context"
	"fmt"

	"github.com/Sorano7/cise-sente-tool/internal/domain/vessel"
)

// Client submits route problems to the remote trajectory solver
type Client interface {
	FindPath(ctx context.Context, request *Request) (*Result, error)
}

// Request is the body of a pathfinding call
type Request struct {
	Vessel         vessel.Config `json:"vessel"`
	Policy         vessel.Policy `json:"policy"`
	Origin         string        `json:"origin"`
	Destination    string        `json:"destination"`
	MandatoryStops []string      `json:"mandatory_stops"`
	LaunchTime     float64       `json:"launch_time"`
}

// Leg is one solved segment. Its fields belong to the solver.
type Leg map[string]any

// Summary aggregates the solved route. Its fields belong to the solver.
type Summary map[string]any

// Result is the solver's answer. Error is set instead of Legs when the solver
// ran but found no feasible route.
type Result struct {
	Origin     string  `json:"origin"`
	LaunchTime float64 `json:"launch_time"`
	Legs       []Leg   `json:"legs"`
	Summary    Summary `json:"summary"`
	Error      string  `json:"error,omitempty"`
}

// HasValidResult reports whether r carries at least one leg to display
func HasValidResult(r *Result) bool {
	return r != nil && len(r.Legs) > 0
}

// Destination returns the leg's target body, when the solver reports it
func (l Leg) Destination() string {
	s, _ := l["destination"].(string)
	return s
}

// Number returns the leg's ordinal, when the solver reports it
func (l Leg) Number() int {
	return int(l.float("leg_number"))
}

// Float reads a numeric leg field, zero when missing
func (l Leg) Float(key string) float64 {
	return l.float(key)
}

func (l Leg) float(key string) float64 {
	switch v := l[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

// Float reads a numeric summary field, zero when missing
func (s Summary) Float(key string) float64 {
	return Leg(s).float(key)
}

// ArrivalTimes returns when each leg reaches its destination, counting the
// solver's per-leg total_time (seconds) from the launch time.
func (r *Result) ArrivalTimes() []float64 {
	if r == nil {
		return nil
	}
	times := make([]float64, len(r.Legs))
	t := r.LaunchTime
	for i, leg := range r.Legs {
		t += leg.Float("total_time")
		times[i] = t
	}
	return times
}

func (r *Result) String() string {
	if r == nil {
		return "<no path>"
	}
	return fmt.Sprintf("%s @ %.0f: %d legs", r.Origin, r.LaunchTime, len(r.Legs))
}
