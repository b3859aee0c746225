package filter

import (
	"context"
	"sync"
	"time"

	"vibes/internal/query"
)

// Outcome tells a search caller what became of its keystroke.
type Outcome int

const (
	// Promoted means the value became effective and the list should be rendered.
	Promoted Outcome = iota
	// Superseded means a later keystroke (or Close) replaced this one.
	Superseded
)

func (o Outcome) String() string {
	if o == Promoted {
		return "promoted"
	}
	return "superseded"
}

// Manager owns the filter state of one session.
//
// Category, period and page changes take effect immediately. Search input is
// held as a pending value until the debounce window elapses.
type Manager struct {
	mu        sync.Mutex
	state     State
	pending   string
	waiter    chan Outcome
	debounce  *Debouncer
	listeners []func(State)

	fetchGen    uint64
	fetchCancel context.CancelFunc
	closed      bool
}

// NewManager returns a manager in the default state. A zero window uses DefaultDebounce.
func NewManager(clock Clock, window time.Duration) *Manager {
	if window <= 0 {
		window = DefaultDebounce
	}
	return &Manager{
		state:    DefaultState(),
		debounce: NewDebouncer(clock, window),
	}
}

// State returns a snapshot of the effective state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Pending returns the search text typed but not yet effective.
func (m *Manager) Pending() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending
}

// OnChange registers fn to run after every effective state change.
func (m *Manager) OnChange(fn func(State)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// SetSearch records a keystroke. The returned channel receives exactly one
// Outcome: Promoted once the window elapses with q as the last value, or
// Superseded if another keystroke arrives first.
func (m *Manager) SetSearch(q string) <-chan Outcome {
	ch := make(chan Outcome, 1)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		ch <- Superseded
		return ch
	}
	if m.waiter != nil {
		m.waiter <- Superseded
	}
	m.pending = q
	m.waiter = ch
	m.debounce.Trigger(m.promote)
	return ch
}

func (m *Manager) promote() {
	m.mu.Lock()
	waiter := m.waiter
	m.waiter = nil
	changed := m.pending != m.state.Search
	if changed {
		m.state.Search = m.pending
		m.state.Page = 1
	}
	snapshot, listeners := m.state, m.listeners
	m.mu.Unlock()

	if changed {
		notify(listeners, snapshot)
	}
	if waiter != nil {
		waiter <- Promoted
	}
}

// SetCategory applies a category filter; "" or "all" clears it.
// It reports whether the state changed.
func (m *Manager) SetCategory(id string) bool {
	id = normalizeCategory(id)
	return m.update(func(s *State) bool {
		if s.CategoryID == id {
			return false
		}
		s.CategoryID = id
		s.Page = 1
		return true
	})
}

// SetPeriod applies a period filter. It reports whether the state changed.
func (m *Manager) SetPeriod(p query.Period) bool {
	return m.update(func(s *State) bool {
		if s.Period == p {
			return false
		}
		s.Period = p
		s.Page = 1
		return true
	})
}

// SetPage moves to page n, leaving the filters untouched.
func (m *Manager) SetPage(n int) bool {
	n = normalizePage(n)
	return m.update(func(s *State) bool {
		if s.Page == n {
			return false
		}
		s.Page = n
		return true
	})
}

func (m *Manager) update(apply func(*State) bool) bool {
	m.mu.Lock()
	if !apply(&m.state) {
		m.mu.Unlock()
		return false
	}
	snapshot, listeners := m.state, m.listeners
	m.mu.Unlock()
	notify(listeners, snapshot)
	return true
}

// Begin starts a new fetch generation and cancels the previous one.
// The returned context is done when a newer Begin happens, on Close, or when
// done is called.
func (m *Manager) Begin(ctx context.Context) (context.Context, func()) {
	fetchCtx, cancel := context.WithCancel(ctx)

	m.mu.Lock()
	if m.fetchCancel != nil {
		m.fetchCancel()
	}
	if m.closed {
		cancel()
	}
	m.fetchGen++
	gen := m.fetchGen
	m.fetchCancel = cancel
	m.mu.Unlock()

	done := func() {
		m.mu.Lock()
		if m.fetchGen == gen {
			m.fetchCancel = nil
		}
		m.mu.Unlock()
		cancel()
	}
	return fetchCtx, done
}

// Close stops the debounce timer, supersedes any waiter and cancels the
// in-flight fetch.
func (m *Manager) Close() {
	m.debounce.Stop()

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true
	if m.waiter != nil {
		m.waiter <- Superseded
		m.waiter = nil
	}
	if m.fetchCancel != nil {
		m.fetchCancel()
		m.fetchCancel = nil
	}
}

func notify(listeners []func(State), s State) {
	for _, fn := range listeners {
		fn(s)
	}
}
