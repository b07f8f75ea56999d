package navigation_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Sorano7/cise-sente-tool/internal/application/navigation"
	"github.com/Sorano7/cise-sente-tool/internal/domain/chrono"
	"github.com/Sorano7/cise-sente-tool/internal/domain/objects"
	"github.com/Sorano7/cise-sente-tool/internal/domain/pathfinding"
	"github.com/Sorano7/cise-sente-tool/internal/domain/shared"
	"github.com/Sorano7/cise-sente-tool/internal/domain/vessel"
)

var errServer = errors.New("pathfinding request failed: Code 500: internal error")

// MockPathfinder answers FindPath from a queue of responses. A response with
// a non-nil gate blocks until the gate is closed.
type MockPathfinder struct {
	mu        sync.Mutex
	responses []mockPathResponse
	requests  []pathfinding.Request
	started   chan struct{}
}

type mockPathResponse struct {
	result *pathfinding.Result
	err    error
	gate   chan struct{}
}

func NewMockPathfinder() *MockPathfinder {
	return &MockPathfinder{started: make(chan struct{}, 16)}
}

// Respond queues a result for the next call
func (m *MockPathfinder) Respond(result *pathfinding.Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, mockPathResponse{result: result})
}

// Fail queues an error for the next call
func (m *MockPathfinder) Fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, mockPathResponse{err: err})
}

// RespondAfter queues a result that is returned once gate is closed
func (m *MockPathfinder) RespondAfter(gate chan struct{}, result *pathfinding.Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, mockPathResponse{result: result, gate: gate})
}

func (m *MockPathfinder) FindPath(ctx context.Context, request *pathfinding.Request) (*pathfinding.Result, error) {
	m.mu.Lock()
	m.requests = append(m.requests, *request)
	if len(m.responses) == 0 {
		m.mu.Unlock()
		return nil, errors.New("mock pathfinder: no response queued")
	}
	resp := m.responses[0]
	m.responses = m.responses[1:]
	m.mu.Unlock()

	select {
	case m.started <- struct{}{}:
	default:
	}
	if resp.gate != nil {
		select {
		case <-resp.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return resp.result, resp.err
}

// Calls returns the number of FindPath invocations
func (m *MockPathfinder) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// LastRequest returns the most recent request
func (m *MockPathfinder) LastRequest() pathfinding.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requests[len(m.requests)-1]
}

// WaitStarted blocks until n calls have begun
func (m *MockPathfinder) WaitStarted(n int) {
	for i := 0; i < n; i++ {
		<-m.started
	}
}

// MockPositionClient serves positions from a table and counts lookups
type MockPositionClient struct {
	mu        sync.Mutex
	positions map[string]shared.Position
	catalog   objects.Catalog
	failNext  int
	gate      chan struct{}
	started   chan struct{}
	lookups   int
	listCalls []float64
	listErr   error
}

func NewMockPositionClient() *MockPositionClient {
	return &MockPositionClient{
		positions: make(map[string]shared.Position),
		catalog:   objects.Catalog{},
		started:   make(chan struct{}, 64),
	}
}

func (m *MockPositionClient) SetPosition(name string, pos shared.Position) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.positions[name] = pos
}

func (m *MockPositionClient) SetCatalog(c objects.Catalog) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.catalog = c
}

// FailNext makes the next n GetPosition calls fail
func (m *MockPositionClient) FailNext(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = n
}

// Block holds every GetPosition call until the returned channel is closed
func (m *MockPositionClient) Block() chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gate = make(chan struct{})
	return m.gate
}

func (m *MockPositionClient) SetListError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listErr = err
}

func (m *MockPositionClient) GetPosition(ctx context.Context, name string, timestamp float64) (shared.Position, error) {
	m.mu.Lock()
	m.lookups++
	gate := m.gate
	fail := m.failNext > 0
	if fail {
		m.failNext--
	}
	pos, known := m.positions[name]
	m.mu.Unlock()

	select {
	case m.started <- struct{}{}:
	default:
	}
	if gate != nil {
		<-gate
	}
	if fail {
		return shared.Position{}, errors.New("position service unavailable")
	}
	if !known {
		return shared.Position{}, errors.New("object not found")
	}
	return pos, nil
}

func (m *MockPositionClient) ListPositions(ctx context.Context, timestamp float64) (objects.Catalog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls = append(m.listCalls, timestamp)
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.catalog.Clone(), nil
}

// Lookups returns the number of GetPosition calls
func (m *MockPositionClient) Lookups() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lookups
}

// ListCalls returns the timestamps passed to ListPositions
func (m *MockPositionClient) ListCalls() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.listCalls...)
}

// MockTimeParser maps inputs to timestamps; unmapped inputs get an empty result
type MockTimeParser struct {
	mu      sync.Mutex
	answers map[string]float64
	err     error
	inputs  []string
}

func NewMockTimeParser() *MockTimeParser {
	return &MockTimeParser{answers: make(map[string]float64)}
}

func (m *MockTimeParser) Answer(input string, ts float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.answers[input] = ts
}

func (m *MockTimeParser) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MockTimeParser) Parse(ctx context.Context, input string) (*chrono.ParseResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inputs = append(m.inputs, input)
	if m.err != nil {
		return nil, m.err
	}
	ts, ok := m.answers[input]
	if !ok {
		return &chrono.ParseResult{}, nil
	}
	return &chrono.ParseResult{UnixTimestamp: &ts}, nil
}

func (m *MockTimeParser) Inputs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.inputs...)
}

// MockPresetSource returns a fixed preset table
type MockPresetSource struct {
	Presets vessel.Presets
	Err     error
}

func (m *MockPresetSource) GetVesselPresets(ctx context.Context) (vessel.Presets, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Presets, nil
}

// RecordingNotifier keeps every failure notice
type RecordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *RecordingNotifier) NotifyFailure(message string, err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
}

func (n *RecordingNotifier) Count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.messages)
}

// RecordingMetrics counts recorder calls by kind
type RecordingMetrics struct {
	mu       sync.Mutex
	hits     int
	misses   int
	outcomes map[navigation.PathOutcome]int
}

func NewRecordingMetrics() *RecordingMetrics {
	return &RecordingMetrics{outcomes: make(map[navigation.PathOutcome]int)}
}

func (r *RecordingMetrics) RecordPositionLookup(hit bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if hit {
		r.hits++
	} else {
		r.misses++
	}
}

func (r *RecordingMetrics) RecordPathfinding(outcome navigation.PathOutcome, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes[outcome]++
}

func (r *RecordingMetrics) Outcome(o navigation.PathOutcome) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.outcomes[o]
}

func (r *RecordingMetrics) Lookups() (hits, misses int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hits, r.misses
}

func twoLegResult(origin string) *pathfinding.Result {
	return &pathfinding.Result{
		Origin:     origin,
		LaunchTime: 1700000000,
		Legs: []pathfinding.Leg{
			{"leg_number": 1.0, "destination": "Ceres"},
			{"leg_number": 2.0, "destination": "Mars"},
		},
		Summary: pathfinding.Summary{"total_legs": 2.0},
	}
}
