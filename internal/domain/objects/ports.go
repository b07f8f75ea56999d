package objects

import (
	"context"
	"sort"

	"github.com/Sorano7/cise-sente-tool/internal/domain/shared"
)

// PositionClient reads body positions from the object service
type PositionClient interface {
	// GetPosition returns a single body's position at timestamp
	GetPosition(ctx context.Context, name string, timestamp float64) (shared.Position, error)
	// ListPositions returns every known body at timestamp
	ListPositions(ctx context.Context, timestamp float64) (Catalog, error)
}

// ObjectData is one body as reported by the object service
type ObjectData struct {
	X    float64  `json:"x"`
	Y    float64  `json:"y"`
	Z    *float64 `json:"z,omitempty"`
	Type string   `json:"type"`
	A    *float64 `json:"a,omitempty"`
}

// Position projects the body onto the ecliptic plane
func (o ObjectData) Position() shared.Position {
	return shared.Position{X: o.X, Y: o.Y}
}

// Catalog is the set of known bodies keyed by name. A name is a valid
// route member only if it is present here.
type Catalog map[string]ObjectData

// Has reports whether name is a known body
func (c Catalog) Has(name string) bool {
	_, ok := c[name]
	return ok
}

// Get returns the named body
func (c Catalog) Get(name string) (ObjectData, bool) {
	o, ok := c[name]
	return o, ok
}

// Names returns all body names in lexical order
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a shallow copy safe to hand to readers
func (c Catalog) Clone() Catalog {
	if c == nil {
		return nil
	}
	out := make(Catalog, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}
