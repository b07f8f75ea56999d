package navigation

import (
	"maps"
	"slices"
	"sync"

	"github.com/Sorano7/cise-sente-tool/internal/domain/pathfinding"
	"github.com/Sorano7/cise-sente-tool/internal/domain/route"
	"github.com/Sorano7/cise-sente-tool/internal/domain/vessel"
)

// Change names a part of the session view that differs from the previous
// notification.
type Change string

const (
	ChangeRoute     Change = "route"
	ChangeResult    Change = "result"
	ChangeObjects   Change = "objects"
	ChangeArrivals  Change = "arrivals"
	ChangeVessel    Change = "vessel"
	ChangeSelection Change = "selection"
	ChangeRedraw    Change = "redraw"
)

// View is the read model handed to renderers
type View struct {
	Route          route.Definition
	Result         *pathfinding.Result
	Vessel         vessel.Config
	Policy         vessel.Policy
	Selected       string
	ObjectsVersion uint64
	ArrivalCount   int
	Redraw         uint64
}

// HasValidResult reports whether the view carries a displayable path
func (v View) HasValidResult() bool {
	return pathfinding.HasValidResult(v.Result)
}

// Diff lists what changed between prev and v
func (v View) Diff(prev View) []Change {
	var changes []Change
	if !v.Route.Equal(prev.Route) {
		changes = append(changes, ChangeRoute)
	}
	if v.Result != prev.Result {
		changes = append(changes, ChangeResult)
	}
	if v.ObjectsVersion != prev.ObjectsVersion {
		changes = append(changes, ChangeObjects)
	}
	if v.ArrivalCount != prev.ArrivalCount {
		changes = append(changes, ChangeArrivals)
	}
	if v.Vessel != prev.Vessel || v.Policy != prev.Policy {
		changes = append(changes, ChangeVessel)
	}
	if v.Selected != prev.Selected {
		changes = append(changes, ChangeSelection)
	}
	if v.Redraw != prev.Redraw {
		changes = append(changes, ChangeRedraw)
	}
	return changes
}

// Event is delivered to subscribers after the session view changed
type Event struct {
	Changes []Change
	View    View
}

// Has reports whether the event includes change c
func (e Event) Has(c Change) bool {
	for _, got := range e.Changes {
		if got == c {
			return true
		}
	}
	return false
}

// Listener is called with each change notification
type Listener func(Event)

// hub delivers view changes to listeners in subscription order.
//
// One goroutine delivers at a time. Publishes arriving during a delivery
// (including from inside a listener) are coalesced and picked up by the
// delivering goroutine, which always takes a fresh snapshot, so the last
// event a listener sees reflects the latest state.
type hub struct {
	mu         sync.Mutex
	nextID     int
	listeners  map[int]Listener
	last       View
	dirty      bool
	delivering bool
}

func newHub(initial View) *hub {
	return &hub{listeners: make(map[int]Listener), last: initial}
}

func (h *hub) subscribe(l Listener) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	h.listeners[id] = l

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.listeners, id)
		})
	}
}

func (h *hub) publish(snapshot func() View) {
	h.mu.Lock()
	h.dirty = true
	if h.delivering {
		h.mu.Unlock()
		return
	}
	h.delivering = true
	// snapshot and listeners run unlocked; a panic in either must not leave
	// the hub stuck in delivering.
	defer func() {
		if r := recover(); r != nil {
			h.mu.Lock()
			h.delivering = false
			h.dirty = false
			h.mu.Unlock()
			panic(r)
		}
	}()

	for h.dirty {
		h.dirty = false
		h.mu.Unlock()

		view := snapshot()

		h.mu.Lock()
		changes := view.Diff(h.last)
		if len(changes) == 0 {
			continue
		}
		h.last = view
		listeners := make([]Listener, 0, len(h.listeners))
		for _, id := range slices.Sorted(maps.Keys(h.listeners)) {
			listeners = append(listeners, h.listeners[id])
		}
		h.mu.Unlock()

		event := Event{Changes: changes, View: view}
		for _, l := range listeners {
			l(event)
		}

		h.mu.Lock()
	}

	h.delivering = false
	h.mu.Unlock()
}
