package shared

import (
	"fmt"
	"math"
)

// Position is a point on the ecliptic plane, in AU.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DistanceTo returns the euclidean distance to other
func (p Position) DistanceTo(other Position) float64 {
	return math.Hypot(other.X-p.X, other.Y-p.Y)
}

func (p Position) String() string {
	return fmt.Sprintf("(%.4f, %.4f)", p.X, p.Y)
}
