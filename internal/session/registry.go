package session

import (
	"context"
	"errors"
	"sync"

	"github.com/MalithGihan/pfdgen-service/internal/metrics"
)

var ErrNotFound = errors.New("session: not found")

type entry struct {
	mu    sync.Mutex
	state State
}

// Registry keeps sessions in memory. Updates to one session are serialized;
// different sessions proceed independently.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	metrics  *metrics.Registry
}

func NewRegistry(m *metrics.Registry) *Registry {
	return &Registry{sessions: map[string]*entry{}, metrics: m}
}

func (r *Registry) Create() State {
	st := New()
	r.mu.Lock()
	r.sessions[st.ID] = &entry{state: st}
	n := len(r.sessions)
	r.mu.Unlock()
	r.metrics.SetSessions(n)
	return st.Clone()
}

func (r *Registry) lookup(id string) (*entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return e, nil
}

func (r *Registry) Get(id string) (State, error) {
	e, err := r.lookup(id)
	if err != nil {
		return State{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone(), nil
}

// Update runs fn on a copy of the session and stores its result unless fn
// fails. fn may block (model calls); other sessions are not held up.
func (r *Registry) Update(ctx context.Context, id string, fn func(context.Context, State) (State, error)) (State, error) {
	e, err := r.lookup(id)
	if err != nil {
		return State{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	next, err := fn(ctx, e.state.Clone())
	if err != nil {
		return State{}, err
	}
	next.ID = e.state.ID
	e.state = next
	return next.Clone(), nil
}

func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	_, ok := r.sessions[id]
	delete(r.sessions, id)
	n := len(r.sessions)
	r.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	r.metrics.SetSessions(n)
	return nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
