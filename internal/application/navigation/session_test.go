package navigation_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sorano7/cise-sente-tool/internal/application/navigation"
	"github.com/Sorano7/cise-sente-tool/internal/domain/objects"
	"github.com/Sorano7/cise-sente-tool/internal/domain/route"
	"github.com/Sorano7/cise-sente-tool/internal/domain/shared"
	"github.com/Sorano7/cise-sente-tool/internal/domain/vessel"
)

type sessionFixture struct {
	session    *navigation.Session
	pathfinder *MockPathfinder
	positions  *MockPositionClient
	parser     *MockTimeParser
	presets    *MockPresetSource
	notifier   *RecordingNotifier
	clock      *shared.MockClock
}

func newSessionFixture(t *testing.T, opts ...navigation.Option) *sessionFixture {
	t.Helper()
	f := &sessionFixture{
		pathfinder: NewMockPathfinder(),
		positions:  NewMockPositionClient(),
		parser:     NewMockTimeParser(),
		presets: &MockPresetSource{Presets: vessel.Presets{
			"H-B Fusion": {DeltaV: 300000, MassT: 750, ThrustN: 255000},
		}},
		notifier: &RecordingNotifier{},
		clock:    shared.NewMockClock(time.Unix(1700000000, 0)),
	}
	opts = append([]navigation.Option{
		navigation.WithNotifier(f.notifier),
		navigation.WithClock(f.clock),
	}, opts...)

	s, err := navigation.NewSession(navigation.Dependencies{
		Pathfinder: f.pathfinder,
		Positions:  f.positions,
		TimeParser: f.parser,
		Presets:    f.presets,
	}, opts...)
	require.NoError(t, err)
	f.session = s
	return f
}

func TestNewSession_RequiresCollaborators(t *testing.T) {
	_, err := navigation.NewSession(navigation.Dependencies{Pathfinder: NewMockPathfinder()})

	var precondition *shared.PreconditionError
	require.ErrorAs(t, err, &precondition)
	assert.Equal(t, []string{"positions", "time parser", "presets"}, precondition.Missing)
}

func TestNewSession_RejectsInvalidVessel(t *testing.T) {
	_, err := navigation.NewSession(navigation.Dependencies{
		Pathfinder: NewMockPathfinder(),
		Positions:  NewMockPositionClient(),
		TimeParser: NewMockTimeParser(),
		Presets:    &MockPresetSource{},
	}, navigation.WithVessel(vessel.Config{DeltaV: 1, MassT: 0, ThrustN: 1}))

	assert.Error(t, err)
}

func TestSession_StartsEmptyAtCurrentTime(t *testing.T) {
	f := newSessionFixture(t)

	def := f.session.Route()
	assert.Equal(t, "", def.Origin)
	assert.Equal(t, "", def.Destination)
	assert.Equal(t, []string{}, def.Waypoints)
	assert.Equal(t, 1700000000.0, def.LaunchTime)
	assert.Equal(t, vessel.DefaultConfig(), f.session.Vessel())
	assert.Equal(t, vessel.DefaultPolicy(), f.session.Policy())
	assert.NotEmpty(t, f.session.ID())
}

func TestSession_CalculateWithoutEndpointsSendsNothing(t *testing.T) {
	f := newSessionFixture(t)
	f.session.AssignRole("Earth", route.RoleOrigin)

	res, err := f.session.Calculate(context.Background())

	assert.NoError(t, err)
	assert.Nil(t, res)
	assert.Equal(t, 0, f.pathfinder.Calls())
}

func TestSession_CalculateServerErrorKeepsState(t *testing.T) {
	f := newSessionFixture(t)
	f.session.AssignRole("Earth", route.RoleOrigin)
	f.session.AssignRole("Mars", route.RoleDestination)
	f.session.AssignRole("Ceres", route.RoleWaypoint)
	previous := twoLegResult("Earth")
	f.pathfinder.Respond(previous)
	_, err := f.session.Calculate(context.Background())
	require.NoError(t, err)
	before := f.session.Route()

	f.pathfinder.Fail(errServer)
	_, err = f.session.Calculate(context.Background())

	assert.Error(t, err)
	assert.Same(t, previous, f.session.Result())
	assert.Equal(t, 1, f.notifier.Count())
	assert.Equal(t, before, f.session.Route())
}

func TestSession_ResetClearsDerivedState(t *testing.T) {
	f := newSessionFixture(t)
	f.positions.SetPosition("Mars", shared.Position{X: 1, Y: 1})
	f.session.AssignRole("Earth", route.RoleOrigin)
	f.session.AssignRole("Mars", route.RoleDestination)
	f.session.AssignRole("Ceres", route.RoleWaypoint)
	f.pathfinder.Respond(twoLegResult("Earth"))
	_, err := f.session.Calculate(context.Background())
	require.NoError(t, err)
	_, ok := f.session.GetArrivalPosition(context.Background(), "Mars", 10)
	require.True(t, ok)
	require.True(t, f.session.HasValidResult())

	f.clock.Advance(time.Hour)
	f.session.Reset()

	def := f.session.Route()
	assert.Equal(t, "", def.Origin)
	assert.Equal(t, "", def.Destination)
	assert.Equal(t, []string{}, def.Waypoints)
	assert.Equal(t, 1700003600.0, def.LaunchTime)
	assert.Nil(t, f.session.Result())
	assert.False(t, f.session.HasValidResult())
	assert.Empty(t, f.session.ArrivalPositions())
}

func TestSession_ResetDiscardsPendingCalculation(t *testing.T) {
	f := newSessionFixture(t)
	f.session.AssignRole("Earth", route.RoleOrigin)
	f.session.AssignRole("Mars", route.RoleDestination)
	gate := make(chan struct{})
	f.pathfinder.RespondAfter(gate, twoLegResult("Earth"))

	done := make(chan error)
	go func() {
		_, err := f.session.Calculate(context.Background())
		done <- err
	}()
	f.pathfinder.WaitStarted(1)

	f.session.Reset()
	close(gate)

	assert.ErrorIs(t, <-done, navigation.ErrStaleResult)
	assert.Nil(t, f.session.Result())
}

func TestSession_ResolveEmptyTimeRefreshesPositions(t *testing.T) {
	f := newSessionFixture(t)
	f.parser.Answer("1700000000", 1700000123)
	f.positions.SetCatalog(objects.Catalog{"Earth": {X: 1, Y: 0, Type: "planet"}})

	ts, ok := f.session.ResolveTime(context.Background(), "")

	require.True(t, ok)
	assert.Equal(t, 1700000123.0, ts)
	assert.Equal(t, 1700000123.0, f.session.LaunchTime())
	assert.Equal(t, []float64{1700000123}, f.positions.ListCalls())
	assert.True(t, f.session.IsValidObject("Earth"))
}

func TestSession_ResolveBadTimeKeepsLaunchTime(t *testing.T) {
	f := newSessionFixture(t)

	_, ok := f.session.ResolveTime(context.Background(), "gibberish")

	assert.False(t, ok)
	assert.Equal(t, 1700000000.0, f.session.LaunchTime())
	assert.Empty(t, f.positions.ListCalls())
}

func TestSession_UpdateObjectPositionsFailureKeepsCatalog(t *testing.T) {
	f := newSessionFixture(t)
	f.positions.SetCatalog(objects.Catalog{"Earth": {X: 1}, "Mars": {X: 1.5}})
	require.NoError(t, f.session.UpdateObjectPositions(context.Background(), 1))

	f.positions.SetListError(errors.New("timeout"))
	err := f.session.UpdateObjectPositions(context.Background(), 2)

	assert.Error(t, err)
	assert.Equal(t, []string{"Earth", "Mars"}, f.session.Objects().Names())
	obj, ok := f.session.Object("Mars")
	require.True(t, ok)
	assert.Equal(t, 1.5, obj.X)
}

func TestSession_IgnoresUnknownObjectsOnceCatalogLoaded(t *testing.T) {
	f := newSessionFixture(t)
	f.positions.SetCatalog(objects.Catalog{"Earth": {}, "Mars": {}})
	require.NoError(t, f.session.UpdateObjectPositions(context.Background(), 1))

	f.session.AssignRole("Vulcan", route.RoleOrigin)
	f.session.AddWaypoint("Vulcan")
	f.session.AssignRole("Earth", route.RoleOrigin)

	def := f.session.Route()
	assert.Equal(t, "Earth", def.Origin)
	assert.Empty(t, def.Waypoints)
}

func TestSession_RouteEditing(t *testing.T) {
	f := newSessionFixture(t)

	f.session.AssignRole("Earth", route.RoleOrigin)
	f.session.AssignRole("Earth", route.RoleDestination)
	assert.Equal(t, "", f.session.Route().Origin)
	assert.Equal(t, "Earth", f.session.Route().Destination)

	f.session.AddWaypoint("Mars")
	f.session.AddWaypoint("Ceres")
	f.session.RemoveWaypointAt(0)
	f.session.RemoveWaypointAt(5)
	assert.Equal(t, []string{"Ceres"}, f.session.Route().Waypoints)

	f.session.RemoveFromRoute("Earth")
	assert.Equal(t, "", f.session.Route().Destination)
}

func TestSession_VesselPresets(t *testing.T) {
	f := newSessionFixture(t)

	assert.False(t, f.session.ApplyVesselPreset("H-B Fusion"), "presets not loaded yet")
	require.NoError(t, f.session.UpdateVesselPresets(context.Background()))

	assert.True(t, f.session.ApplyVesselPreset("H-B Fusion"))
	assert.Equal(t, vessel.Config{DeltaV: 300000, MassT: 750, ThrustN: 255000}, f.session.Vessel())
	assert.False(t, f.session.ApplyVesselPreset("Warp"))
	assert.Contains(t, f.session.Presets(), "H-B Fusion")

	f.presets.Err = errors.New("down")
	assert.Error(t, f.session.UpdateVesselPresets(context.Background()))
	assert.Contains(t, f.session.Presets(), "H-B Fusion")
}

func TestSession_SetVesselAndPolicyValidate(t *testing.T) {
	f := newSessionFixture(t)

	assert.Error(t, f.session.SetVessel(vessel.Config{DeltaV: -1, MassT: 1, ThrustN: 1}))
	assert.Equal(t, vessel.DefaultConfig(), f.session.Vessel())

	require.NoError(t, f.session.SetPolicy(vessel.Policy{TimeWeight: 2, DisableCoast: true}))
	assert.Equal(t, vessel.Policy{TimeWeight: 2, DisableCoast: true}, f.session.Policy())
	assert.Error(t, f.session.SetPolicy(vessel.Policy{CostWeight: -2}))
}

func TestSession_NotifiesOnlyOnChange(t *testing.T) {
	f := newSessionFixture(t)
	var mu sync.Mutex
	var events []navigation.Event
	unsubscribe := f.session.Subscribe(func(e navigation.Event) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, e)
	})

	f.session.AssignRole("Earth", route.RoleOrigin)
	f.session.AssignRole("Earth", route.RoleOrigin)
	f.session.RemoveWaypointAt(3)
	f.session.Select("Earth")

	mu.Lock()
	require.Len(t, events, 2)
	assert.Equal(t, []navigation.Change{navigation.ChangeRoute}, events[0].Changes)
	assert.Equal(t, "Earth", events[0].View.Route.Origin)
	assert.True(t, events[1].Has(navigation.ChangeSelection))
	mu.Unlock()

	unsubscribe()
	unsubscribe()
	f.session.ClearSelection()

	mu.Lock()
	assert.Len(t, events, 2)
	mu.Unlock()
}

func TestSession_CalculateEmitsResultAndRedraw(t *testing.T) {
	f := newSessionFixture(t)
	f.session.AssignRole("Earth", route.RoleOrigin)
	f.session.AssignRole("Mars", route.RoleDestination)
	f.pathfinder.Respond(twoLegResult("Earth"))

	var got []navigation.Event
	f.session.Subscribe(func(e navigation.Event) { got = append(got, e) })

	_, err := f.session.Calculate(context.Background())
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.True(t, got[0].Has(navigation.ChangeResult))
	assert.True(t, got[0].Has(navigation.ChangeRedraw))
	assert.True(t, got[0].View.HasValidResult())
}

func TestSession_ListenerMayMutateSession(t *testing.T) {
	f := newSessionFixture(t)
	var got []navigation.Event
	f.session.Subscribe(func(e navigation.Event) {
		got = append(got, e)
		if e.View.Route.Origin == "Earth" && e.View.Selected == "" {
			f.session.Select("Earth")
		}
	})

	f.session.AssignRole("Earth", route.RoleOrigin)

	require.Len(t, got, 2)
	assert.Equal(t, "Earth", got[1].View.Selected)
	assert.Equal(t, []navigation.Change{navigation.ChangeSelection}, got[1].Changes)
}

func TestSession_ArrivalLookupEmitsOnNewEntry(t *testing.T) {
	f := newSessionFixture(t)
	f.positions.SetPosition("Mars", shared.Position{X: 1.5, Y: 0})
	var got []navigation.Event
	f.session.Subscribe(func(e navigation.Event) { got = append(got, e) })

	f.session.GetArrivalPosition(context.Background(), "Mars", 99)
	f.session.GetArrivalPosition(context.Background(), "Mars", 99)

	require.Len(t, got, 1)
	assert.Equal(t, []navigation.Change{navigation.ChangeArrivals}, got[0].Changes)
	assert.Equal(t, 1, got[0].View.ArrivalCount)
	assert.Equal(t, 1, f.positions.Lookups())
}
