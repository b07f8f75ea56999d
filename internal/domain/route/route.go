package route

import (
	"fmt"
	"slices"
	"strings"
)

// Role is the part an object plays in a route
type Role string

const (
	RoleOrigin      Role = "origin"
	RoleDestination Role = "destination"
	RoleWaypoint    Role = "waypoint"
)

// ParseRole converts a user-supplied role name into a Role
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleOrigin:
		return RoleOrigin, nil
	case RoleDestination:
		return RoleDestination, nil
	case RoleWaypoint:
		return RoleWaypoint, nil
	}
	return "", fmt.Errorf("unknown route role %q", s)
}

// Definition is the user-edited route: origin, ordered mandatory stops,
// destination and the launch time the solver should assume.
//
// A non-empty object id occupies at most one role, and Waypoints holds no
// duplicates. Every mutating method keeps that invariant; calls that would
// break it are absorbed as no-ops.
type Definition struct {
	Origin      string
	Destination string
	Waypoints   []string
	LaunchTime  float64
}

// NewDefinition returns an empty route launching at launchTime
func NewDefinition(launchTime float64) *Definition {
	return &Definition{Waypoints: []string{}, LaunchTime: launchTime}
}

// AssignRole moves id into role, first removing it from whatever role it
// currently holds.
func (d *Definition) AssignRole(id string, role Role) {
	if id == "" {
		return
	}

	switch role {
	case RoleOrigin:
		if d.Destination == id {
			d.Destination = ""
		}
		d.removeWaypoint(id)
		d.Origin = id

	case RoleDestination:
		if d.Origin == id {
			d.Origin = ""
		}
		d.removeWaypoint(id)
		d.Destination = id

	case RoleWaypoint:
		if d.Origin == id {
			d.Origin = ""
		}
		if d.Destination == id {
			d.Destination = ""
		}
		if !slices.Contains(d.Waypoints, id) {
			d.Waypoints = append(slices.Clone(d.Waypoints), id)
		}
	}
}

// AddWaypoint appends id as a stop unless it already takes part in the route.
// Unlike AssignRole it never displaces an origin or destination.
func (d *Definition) AddWaypoint(id string) {
	if id == "" || d.Has(id) {
		return
	}
	d.Waypoints = append(slices.Clone(d.Waypoints), id)
}

// RemoveFromRoute clears id from the single role it holds
func (d *Definition) RemoveFromRoute(id string) {
	if id == "" {
		return
	}

	switch {
	case d.Origin == id:
		d.Origin = ""
	case d.Destination == id:
		d.Destination = ""
	default:
		if i := slices.Index(d.Waypoints, id); i >= 0 {
			d.RemoveWaypointAt(i)
		}
	}
}

// RemoveWaypointAt drops the stop at index. Out-of-range indexes are ignored.
func (d *Definition) RemoveWaypointAt(index int) {
	if index < 0 || index >= len(d.Waypoints) {
		return
	}
	d.Waypoints = slices.Delete(slices.Clone(d.Waypoints), index, index+1)
}

func (d *Definition) removeWaypoint(id string) {
	d.Waypoints = slices.DeleteFunc(slices.Clone(d.Waypoints), func(w string) bool { return w == id })
}

// Reset empties every role and sets a fresh launch time
func (d *Definition) Reset(launchTime float64) {
	d.Origin = ""
	d.Destination = ""
	d.Waypoints = []string{}
	d.LaunchTime = launchTime
}

// SetLaunchTime updates the assumed departure timestamp
func (d *Definition) SetLaunchTime(t float64) {
	d.LaunchTime = t
}

// Has reports whether id holds any role in the route
func (d *Definition) Has(id string) bool {
	_, ok := d.RoleOf(id)
	return ok
}

// RoleOf returns the role id currently holds
func (d *Definition) RoleOf(id string) (Role, bool) {
	switch {
	case id == "":
		return "", false
	case d.Origin == id:
		return RoleOrigin, true
	case d.Destination == id:
		return RoleDestination, true
	case slices.Contains(d.Waypoints, id):
		return RoleWaypoint, true
	}
	return "", false
}

// Ready reports whether the route has both endpoints and can be solved
func (d *Definition) Ready() bool {
	return d.Origin != "" && d.Destination != ""
}

// Stops returns origin, waypoints and destination in travel order, skipping
// unset endpoints.
func (d *Definition) Stops() []string {
	stops := make([]string, 0, len(d.Waypoints)+2)
	if d.Origin != "" {
		stops = append(stops, d.Origin)
	}
	stops = append(stops, d.Waypoints...)
	if d.Destination != "" {
		stops = append(stops, d.Destination)
	}
	return stops
}

// Snapshot returns a deep copy that shares no backing array with d
func (d *Definition) Snapshot() Definition {
	cp := *d
	cp.Waypoints = slices.Clone(d.Waypoints)
	if cp.Waypoints == nil {
		cp.Waypoints = []string{}
	}
	return cp
}

// Equal compares two definitions field by field
func (d Definition) Equal(other Definition) bool {
	return d.Origin == other.Origin &&
		d.Destination == other.Destination &&
		d.LaunchTime == other.LaunchTime &&
		slices.Equal(d.Waypoints, other.Waypoints)
}

func (d *Definition) String() string {
	stops := d.Stops()
	if len(stops) == 0 {
		return "<empty route>"
	}
	return strings.Join(stops, " → ")
}
