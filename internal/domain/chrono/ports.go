package chrono

import "context"

// ParseResult is the clock service's reading of a free-form time expression.
// UnixTimestamp is nil when the service could not interpret the input.
type ParseResult struct {
	UnixTimestamp *float64 `json:"unix_timestamp"`
}

// Parser converts free-form time expressions into unix timestamps
type Parser interface {
	Parse(ctx context.Context, input string) (*ParseResult, error)
}

// Conversion renders one timestamp in each of the setting's calendars
type Conversion struct {
	Meaji     string `json:"meaji"`
	Imor      string `json:"imor"`
	Junesgi   string `json:"junesgi"`
	Timestamp string `json:"timestamp"`
}

// Converter formats timestamps as calendar dates
type Converter interface {
	Convert(ctx context.Context, timestamp float64) (*Conversion, error)
}
