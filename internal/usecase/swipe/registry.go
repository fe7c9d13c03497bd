package usecase_swipe

import (
	"sync"

	"github.com/humanbelnik/kinoswap/matchclient/internal/model"
)

type Factory func(sessionID model.ID) *Coordinator

// Registry keeps at most one live coordinator per session, so a session is
// never listened to twice.
type Registry struct {
	factory   Factory
	onRelease func(model.ID)

	mu    sync.Mutex
	items map[model.ID]*Coordinator
}

func NewRegistry(factory Factory) *Registry {
	return &Registry{
		factory: factory,
		items:   make(map[model.ID]*Coordinator),
	}
}

// OnRelease registers fn to run after a coordinator has been closed by
// Release or CloseAll.
func (r *Registry) OnRelease(fn func(sessionID model.ID)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onRelease = fn
}

// Acquire returns the coordinator of sessionID, creating it if needed.
// created is false when an existing one was returned.
func (r *Registry) Acquire(sessionID model.ID) (c *Coordinator, created bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.items[sessionID]; ok {
		return c, false
	}
	c = r.factory(sessionID)
	r.items[sessionID] = c
	return c, true
}

func (r *Registry) Get(sessionID model.ID) (*Coordinator, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[sessionID]
	return c, ok
}

// Release closes and forgets the coordinator of sessionID.
func (r *Registry) Release(sessionID model.ID) {
	r.mu.Lock()
	c, ok := r.items[sessionID]
	delete(r.items, sessionID)
	onRelease := r.onRelease
	r.mu.Unlock()

	if ok {
		_ = c.Close()
		if onRelease != nil {
			onRelease(sessionID)
		}
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

func (r *Registry) CloseAll() {
	r.mu.Lock()
	items := r.items
	r.items = make(map[model.ID]*Coordinator)
	onRelease := r.onRelease
	r.mu.Unlock()

	for id, c := range items {
		_ = c.Close()
		if onRelease != nil {
			onRelease(id)
		}
	}
}
