package navigation_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sorano7/cise-sente-tool/internal/application/navigation"
	"github.com/Sorano7/cise-sente-tool/internal/domain/chrono"
	"github.com/Sorano7/cise-sente-tool/internal/domain/shared"
)

type fakeLaunchTarget struct {
	launch     float64
	epoch      uint64
	refreshes  []float64
	refreshErr error
}

func (f *fakeLaunchTarget) LaunchTime() float64 { return f.launch }
func (f *fakeLaunchTarget) ResetEpoch() uint64 { return f.epoch }

func (f *fakeLaunchTarget) AdoptLaunchTime(epoch uint64, ts float64) bool {
	if epoch != f.epoch {
		return false
	}
	f.launch = ts
	return true
}

func (f *fakeLaunchTarget) RefreshObjectPositions(ctx context.Context, epoch uint64, ts float64) error {
	if epoch != f.epoch {
		return navigation.ErrStaleResult
	}
	f.refreshes = append(f.refreshes, ts)
	return f.refreshErr
}

func (f *fakeLaunchTarget) reset(launch float64) {
	f.epoch++
	f.launch = launch
}

// hookedParser runs onParse before answering, standing in for a reset that
// lands while the clock service is still working.
type hookedParser struct {
	*MockTimeParser
	onParse func()
}

func (p *hookedParser) Parse(ctx context.Context, input string) (*chrono.ParseResult, error) {
	if p.onParse != nil {
		p.onParse()
	}
	return p.MockTimeParser.Parse(ctx, input)
}

func TestTimeResolver_EmptyInputMeansNow(t *testing.T) {
	clock := shared.NewMockClock(time.Unix(1700000000, 0))
	parser := NewMockTimeParser()
	parser.Answer("1700000000", 1700000000)
	target := &fakeLaunchTarget{launch: 5}
	resolver := navigation.NewTimeResolver(parser, clock, nil)

	ts, ok := resolver.ResolveTime(context.Background(), "", target)

	require.True(t, ok)
	assert.Equal(t, 1700000000.0, ts)
	assert.Equal(t, []string{"1700000000"}, parser.Inputs())
	assert.Equal(t, 1700000000.0, target.launch)
	assert.Equal(t, []float64{1700000000}, target.refreshes)
}

func TestTimeResolver_AdoptsParsedTimestamp(t *testing.T) {
	parser := NewMockTimeParser()
	parser.Answer("2401.3.14", 1800000000.5)
	target := &fakeLaunchTarget{launch: 5}
	resolver := navigation.NewTimeResolver(parser, nil, nil)

	ts, ok := resolver.ResolveTime(context.Background(), "  2401.3.14 ", target)

	require.True(t, ok)
	assert.Equal(t, 1800000000.5, ts)
	assert.Equal(t, []string{"2401.3.14"}, parser.Inputs())
	assert.Equal(t, []float64{1800000000.5}, target.refreshes)
}

func TestTimeResolver_UnparsedInputKeepsLaunchTime(t *testing.T) {
	parser := NewMockTimeParser()
	target := &fakeLaunchTarget{launch: 5}
	resolver := navigation.NewTimeResolver(parser, nil, nil)

	ts, ok := resolver.ResolveTime(context.Background(), "next tuesday-ish", target)

	assert.False(t, ok)
	assert.Equal(t, 5.0, ts)
	assert.Equal(t, 5.0, target.launch)
	assert.Empty(t, target.refreshes)
}

func TestTimeResolver_ServiceFailureKeepsLaunchTime(t *testing.T) {
	parser := NewMockTimeParser()
	parser.SetError(errors.New("connection refused"))
	target := &fakeLaunchTarget{launch: 5}
	resolver := navigation.NewTimeResolver(parser, nil, nil)

	_, ok := resolver.ResolveTime(context.Background(), "2401.3.14", target)

	assert.False(t, ok)
	assert.Equal(t, 5.0, target.launch)
	assert.Empty(t, target.refreshes)
}

func TestTimeResolver_RejectsNonFiniteTimestamp(t *testing.T) {
	parser := NewMockTimeParser()
	parser.Answer("forever", math.Inf(1))
	target := &fakeLaunchTarget{launch: 5}
	resolver := navigation.NewTimeResolver(parser, nil, nil)

	_, ok := resolver.ResolveTime(context.Background(), "forever", target)

	assert.False(t, ok)
	assert.Equal(t, 5.0, target.launch)
}

func TestTimeResolver_RefreshFailureStillAdopts(t *testing.T) {
	parser := NewMockTimeParser()
	parser.Answer("now", 1234)
	target := &fakeLaunchTarget{launch: 5, refreshErr: errors.New("objects down")}
	resolver := navigation.NewTimeResolver(parser, nil, nil)

	ts, ok := resolver.ResolveTime(context.Background(), "now", target)

	assert.True(t, ok)
	assert.Equal(t, 1234.0, ts)
	assert.Equal(t, 1234.0, target.launch)
}

func TestTimeResolver_ResetDuringParseKeepsResetLaunchTime(t *testing.T) {
	parser := &hookedParser{MockTimeParser: NewMockTimeParser()}
	parser.Answer("2401.3.14", 1800000000)
	target := &fakeLaunchTarget{launch: 5}
	parser.onParse = func() { target.reset(42) }
	resolver := navigation.NewTimeResolver(parser, nil, nil)

	ts, ok := resolver.ResolveTime(context.Background(), "2401.3.14", target)

	assert.False(t, ok)
	assert.Equal(t, 42.0, ts)
	assert.Equal(t, 42.0, target.launch)
	assert.Empty(t, target.refreshes)
}
