package vessel

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// StandardGravity in m/s², used to express acceleration in g
const StandardGravity = 9.81

var validate = validator.New()

// Config holds the propulsion capabilities sent verbatim to the solver
type Config struct {
	DeltaV  float64 `json:"delta_v" mapstructure:"delta_v" validate:"gt=0"`
	MassT   float64 `json:"mass_t" mapstructure:"mass_t" validate:"gt=0"`
	ThrustN float64 `json:"thrust_n" mapstructure:"thrust_n" validate:"gt=0"`
}

// DefaultConfig is the optimised plasma-jet MIF vessel
func DefaultConfig() Config {
	return Config{DeltaV: 3300000, MassT: 250, ThrustN: 1780000}
}

// Validate checks every parameter is strictly positive
func (c Config) Validate() error {
	return formatErrors("vessel", validate.Struct(c))
}

// MaxAcceleration returns the sustained acceleration in m/s²
func (c Config) MaxAcceleration() float64 {
	if c.MassT <= 0 {
		return 0
	}
	return c.ThrustN / (c.MassT * 1000)
}

// MaxAccelerationG returns MaxAcceleration in multiples of standard gravity
func (c Config) MaxAccelerationG() float64 {
	return c.MaxAcceleration() / StandardGravity
}

func (c Config) String() string {
	return fmt.Sprintf("Δv=%.0f m/s, mass=%.0f t, thrust=%.0f N (%.2f g)",
		c.DeltaV, c.MassT, c.ThrustN, c.MaxAccelerationG())
}

// Policy weights the solver's trade-off between travel time, Δv cost and
// passenger comfort.
type Policy struct {
	TimeWeight    float64 `json:"time_weight" mapstructure:"time_weight" validate:"gte=0"`
	CostWeight    float64 `json:"cost_weight" mapstructure:"cost_weight" validate:"gte=0"`
	ComfortWeight float64 `json:"comfort_weight" mapstructure:"comfort_weight" validate:"gte=0"`
	DisableCoast  bool    `json:"disable_coast" mapstructure:"disable_coast"`
}

// DefaultPolicy weights all criteria equally and allows coasting
func DefaultPolicy() Policy {
	return Policy{TimeWeight: 1, CostWeight: 1, ComfortWeight: 1}
}

// Validate checks every weight is non-negative
func (p Policy) Validate() error {
	return formatErrors("policy", validate.Struct(p))
}

// Preset is a named vessel as served by the vessels service
type Preset = Config

// Presets maps preset names to vessel parameters
type Presets map[string]Preset

// Apply copies the named preset into cfg. Unknown or empty names leave cfg
// untouched and return false.
func (p Presets) Apply(name string, cfg *Config) bool {
	if name == "" || cfg == nil {
		return false
	}
	preset, ok := p[name]
	if !ok {
		return false
	}
	*cfg = preset
	return true
}

// Names returns preset names in lexical order
func (p Presets) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func formatErrors(scope string, err error) error {
	if err == nil {
		return nil
	}
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	messages := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		messages = append(messages, fmt.Sprintf("%s.%s must satisfy %s=%s (got %v)",
			scope, e.Field(), e.Tag(), e.Param(), e.Value()))
	}
	return fmt.Errorf("invalid %s: %s", scope, strings.Join(messages, "; "))
}
