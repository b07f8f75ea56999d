package navigation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/Sorano7/cise-sente-tool/internal/domain/chrono"
	"github.com/Sorano7/cise-sente-tool/internal/domain/objects"
	"github.com/Sorano7/cise-sente-tool/internal/domain/pathfinding"
	"github.com/Sorano7/cise-sente-tool/internal/domain/route"
	"github.com/Sorano7/cise-sente-tool/internal/domain/shared"
	"github.com/Sorano7/cise-sente-tool/internal/domain/vessel"
)

// Dependencies are the remote collaborators a Session talks to
type Dependencies struct {
	Pathfinder pathfinding.Client
	Positions  objects.PositionClient
	TimeParser chrono.Parser
	Presets    vessel.PresetSource
}

func (d Dependencies) validate() error {
	var missing []string
	if d.Pathfinder == nil {
		missing = append(missing, "pathfinder")
	}
	if d.Positions == nil {
		missing = append(missing, "positions")
	}
	if d.TimeParser == nil {
		missing = append(missing, "time parser")
	}
	if d.Presets == nil {
		missing = append(missing, "presets")
	}
	if len(missing) > 0 {
		return shared.NewPreconditionError(missing...)
	}
	return nil
}

// Option customises a Session
type Option func(*Session)

// WithLogger sets the base logger. The session id is added to every record.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock replaces the wall clock
func WithClock(clock shared.Clock) Option {
	return func(s *Session) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithNotifier sets where pathfinding failure notices go
func WithNotifier(n Notifier) Option {
	return func(s *Session) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithMetrics sets the metrics recorder
func WithMetrics(m MetricsRecorder) Option {
	return func(s *Session) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithVessel sets the initial vessel configuration
func WithVessel(cfg vessel.Config) Option {
	return func(s *Session) {
		s.vessel = cfg
	}
}

// WithPolicy sets the initial routing policy
func WithPolicy(p vessel.Policy) Option {
	return func(s *Session) {
		s.policy = p
	}
}

// Session is one user's navigation workspace: the route being edited, the
// vessel and policy it will be solved with, the latest solution and the
// cached arrival positions used to draw it.
//
// A Session is safe for concurrent use. Network calls are made without
// holding the session lock.
type Session struct {
	id       string
	logger   *slog.Logger
	clock    shared.Clock
	notifier Notifier
	metrics  MetricsRecorder

	positions objects.PositionClient
	presetSrc vessel.PresetSource

	cache       *PositionCache
	coordinator *PathfindingCoordinator
	resolver    *TimeResolver
	hub         *hub

	mu             sync.RWMutex
	route          *route.Definition
	vessel         vessel.Config
	policy         vessel.Policy
	objects        objects.Catalog
	objectsVersion uint64
	presets        vessel.Presets
	selected       string
	redraw         uint64
	resetEpoch     uint64

	testHookBeforeDispatch func()
}

// NewSession creates a session with an empty route launching now
func NewSession(deps Dependencies, opts ...Option) (*Session, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}

	s := &Session{
		id:        uuid.NewString(),
		logger:    newNopLogger(),
		clock:     shared.NewRealClock(),
		notifier:  nopNotifier{},
		metrics:   nopMetrics{},
		positions: deps.Positions,
		presetSrc: deps.Presets,
		vessel:    vessel.DefaultConfig(),
		policy:    vessel.DefaultPolicy(),
		objects:   objects.Catalog{},
		presets:   vessel.Presets{},
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.vessel.Validate(); err != nil {
		return nil, err
	}
	if err := s.policy.Validate(); err != nil {
		return nil, err
	}

	s.logger = s.logger.With("session_id", s.id)
	s.route = route.NewDefinition(shared.ResolvedTimestamp(s.clock))
	s.cache = NewPositionCache(deps.Positions, s.logger, s.metrics)
	s.coordinator = NewPathfindingCoordinator(deps.Pathfinder, s.notifier, s.logger, s.metrics, s.clock)
	s.resolver = NewTimeResolver(deps.TimeParser, s.clock, s.logger)
	s.hub = newHub(s.View())

	return s, nil
}

// ID returns the session identifier used in logs
func (s *Session) ID() string {
	return s.id
}

// Subscribe registers l for change notifications and returns a function
// that removes it.
func (s *Session) Subscribe(l Listener) (unsubscribe func()) {
	return s.hub.subscribe(l)
}

// View returns a consistent snapshot of everything a renderer reads
func (s *Session) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewLocked()
}

func (s *Session) viewLocked() View {
	return View{
		Route:          s.route.Snapshot(),
		Result:         s.coordinator.Result(),
		Vessel:         s.vessel,
		Policy:         s.policy,
		Selected:       s.selected,
		ObjectsVersion: s.objectsVersion,
		ArrivalCount:   s.cache.Len(),
		Redraw:         s.redraw,
	}
}

func (s *Session) publish() {
	s.hub.publish(s.View)
}

func (s *Session) mutate(fn func()) {
	s.mu.Lock()
	fn()
	s.mu.Unlock()
	s.publish()
}

// Route editing

// AssignRole moves id into role. Once the object catalog is loaded, ids
// missing from it are ignored.
func (s *Session) AssignRole(id string, role route.Role) {
	if !s.acceptable(id) {
		return
	}
	s.mutate(func() { s.route.AssignRole(id, role) })
}

// AddWaypoint appends id as a stop unless it already takes part in the route
func (s *Session) AddWaypoint(id string) {
	if !s.acceptable(id) {
		return
	}
	s.mutate(func() { s.route.AddWaypoint(id) })
}

// RemoveFromRoute clears id from whichever role it holds
func (s *Session) RemoveFromRoute(id string) {
	s.mutate(func() { s.route.RemoveFromRoute(id) })
}

// RemoveWaypointAt drops the stop at index; out-of-range is ignored
func (s *Session) RemoveWaypointAt(index int) {
	s.mutate(func() { s.route.RemoveWaypointAt(index) })
}

// Reset clears the route, launches it now, and drops the solved path and
// every cached arrival position. Pathfinding responses still in flight are
// discarded when they arrive.
func (s *Session) Reset() {
	s.mu.Lock()
	s.route.Reset(shared.ResolvedTimestamp(s.clock))
	s.coordinator.Invalidate()
	s.cache.Clear()
	s.redraw++
	s.resetEpoch++
	s.mu.Unlock()

	s.logger.Info("route reset")
	s.publish()
}

// Route returns a copy of the current route definition
func (s *Session) Route() route.Definition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.route.Snapshot()
}

// LaunchTime returns the route's launch timestamp
func (s *Session) LaunchTime() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.route.LaunchTime
}

// SetLaunchTime sets the route's launch timestamp
func (s *Session) SetLaunchTime(ts float64) {
	s.mutate(func() {
		s.route.SetLaunchTime(ts)
		s.redraw++
	})
}

// ResetEpoch counts resets. Work started under one epoch is discarded by
// AdoptLaunchTime and RefreshObjectPositions once a reset has moved it on.
func (s *Session) ResetEpoch() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resetEpoch
}

// AdoptLaunchTime sets the launch time unless a reset happened since epoch
func (s *Session) AdoptLaunchTime(epoch uint64, ts float64) bool {
	s.mu.Lock()
	if epoch != s.resetEpoch {
		s.mu.Unlock()
		return false
	}
	s.route.SetLaunchTime(ts)
	s.redraw++
	s.mu.Unlock()

	s.publish()
	return true
}

func (s *Session) acceptable(id string) bool {
	if id == "" {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.objects) > 0 && !s.objects.Has(id) {
		s.logger.Debug("ignoring unknown object", "object", id)
		return false
	}
	return true
}

// Vessel and policy

// Vessel returns the vessel configuration used for the next calculation
func (s *Session) Vessel() vessel.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vessel
}

// SetVessel replaces the vessel configuration after validating it
func (s *Session) SetVessel(cfg vessel.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.mutate(func() { s.vessel = cfg })
	return nil
}

// Policy returns the routing policy used for the next calculation
func (s *Session) Policy() vessel.Policy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.policy
}

// SetPolicy replaces the routing policy after validating it
func (s *Session) SetPolicy(p vessel.Policy) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.mutate(func() { s.policy = p })
	return nil
}

// Presets returns the vessel presets fetched so far
func (s *Session) Presets() vessel.Presets {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(vessel.Presets, len(s.presets))
	for k, v := range s.presets {
		out[k] = v
	}
	return out
}

// UpdateVesselPresets refreshes the preset list. Failures keep the old list.
func (s *Session) UpdateVesselPresets(ctx context.Context) error {
	presets, err := s.presetSrc.GetVesselPresets(ctx)
	if err != nil {
		s.logger.Warn("vessel presets unavailable", "error", err)
		return fmt.Errorf("update vessel presets: %w", err)
	}

	s.mu.Lock()
	s.presets = presets
	s.mu.Unlock()
	return nil
}

// ApplyVesselPreset copies the named preset into the vessel configuration.
// It returns false for unknown names.
func (s *Session) ApplyVesselPreset(name string) bool {
	s.mu.Lock()
	cfg := s.vessel
	ok := s.presets.Apply(name, &cfg)
	if ok {
		s.vessel = cfg
	}
	s.mu.Unlock()

	if ok {
		s.publish()
	}
	return ok
}

// Pathfinding

// Calculate solves the current route with the current vessel and policy.
// It is a no-op returning (nil, nil) unless origin and destination are set.
func (s *Session) Calculate(ctx context.Context) (*pathfinding.Result, error) {
	s.mu.RLock()
	def := s.route.Snapshot()
	v, p := s.vessel, s.policy
	var gen uint64
	if def.Ready() {
		gen = s.coordinator.Begin()
	}
	s.mu.RUnlock()

	if s.testHookBeforeDispatch != nil {
		s.testHookBeforeDispatch()
	}
	res, err := s.coordinator.Dispatch(ctx, gen, def, v, p)
	if res != nil {
		s.mu.Lock()
		s.redraw++
		s.mu.Unlock()
	}
	s.publish()
	return res, err
}

// Result returns the latest installed path, or nil
func (s *Session) Result() *pathfinding.Result {
	return s.coordinator.Result()
}

// HasValidResult reports whether a displayable path is installed
func (s *Session) HasValidResult() bool {
	return pathfinding.HasValidResult(s.coordinator.Result())
}

// Time

// ResolveTime interprets text through the clock service and adopts the
// result as the launch time. Empty text means now. Unparseable input leaves
// the launch time untouched.
func (s *Session) ResolveTime(ctx context.Context, text string) (float64, bool) {
	return s.resolver.ResolveTime(ctx, text, s)
}

// Objects and positions

// UpdateObjectPositions reloads the object catalog at timestamp. A failed
// load keeps the previous catalog.
func (s *Session) UpdateObjectPositions(ctx context.Context, timestamp float64) error {
	return s.loadObjects(ctx, timestamp, func() bool { return true })
}

// RefreshObjectPositions is UpdateObjectPositions for work started under
// epoch. If a reset happened while the catalog was loading, the load is
// dropped and ErrStaleResult returned.
func (s *Session) RefreshObjectPositions(ctx context.Context, epoch uint64, timestamp float64) error {
	return s.loadObjects(ctx, timestamp, func() bool { return epoch == s.resetEpoch })
}

// loadObjects fetches the catalog and installs it if current, which is
// evaluated under the session lock.
func (s *Session) loadObjects(ctx context.Context, timestamp float64, current func() bool) error {
	catalog, err := s.positions.ListPositions(ctx, timestamp)
	if err != nil {
		s.logger.Warn("object positions unavailable", "timestamp", timestamp, "error", err)
		return fmt.Errorf("update object positions: %w", err)
	}
	if catalog == nil {
		return errors.New("update object positions: empty response")
	}

	s.mu.Lock()
	if !current() {
		s.mu.Unlock()
		s.logger.Info("discarding object positions loaded across a reset", "timestamp", timestamp)
		return ErrStaleResult
	}
	s.objects = catalog
	s.objectsVersion++
	s.redraw++
	s.mu.Unlock()

	s.publish()
	return nil
}

// Objects returns a copy of the object catalog
func (s *Session) Objects() objects.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.objects.Clone()
}

// Object returns the named body from the catalog
func (s *Session) Object(name string) (objects.ObjectData, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.objects.Get(name)
}

// IsValidObject reports whether name is in the catalog
func (s *Session) IsValidObject(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.objects.Has(name)
}

// GetArrivalPosition returns where name is at timestamp, using the cache
func (s *Session) GetArrivalPosition(ctx context.Context, name string, timestamp float64) (shared.Position, bool) {
	before := s.cache.Len()
	pos, ok := s.cache.GetArrivalPosition(ctx, name, timestamp)
	if ok && s.cache.Len() != before {
		s.publish()
	}
	return pos, ok
}

// ArrivalPositions returns every cached arrival position
func (s *Session) ArrivalPositions() map[ArrivalKey]shared.Position {
	return s.cache.Snapshot()
}

// Selection

// Select marks name as the object the user is inspecting
func (s *Session) Select(name string) {
	s.mutate(func() { s.selected = name })
}

// ClearSelection deselects any object
func (s *Session) ClearSelection() {
	s.mutate(func() { s.selected = "" })
}

// Selected returns the selected object name, or ""
func (s *Session) Selected() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// RequestRedraw asks renderers to redraw without any state change
func (s *Session) RequestRedraw() {
	s.mutate(func() { s.redraw++ })
}
