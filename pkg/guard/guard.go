// Package guard provides the per-owner mutual exclusion latch for mutating
// availability operations. One operation token may be outstanding per owner;
// a second trigger while the token is held is dropped, not queued, which is
// what keeps a double-clicked save button from running two regeneration
// cycles against the store at once.
package guard

import "sync"

// Kind names the mutating operation holding an owner's token. It is carried
// for logging only; any kind excludes every other kind.
type Kind string

const (
	KindSaveSettings Kind = "save_settings"
	KindAddSlot      Kind = "add_slot"
	KindEditSlot     Kind = "edit_slot"
	KindDeleteSlot   Kind = "delete_slot"
)

type Guard struct {
	mu   sync.Mutex
	held map[string]Kind
}

func New() *Guard {
	return &Guard{held: make(map[string]Kind)}
}

// TryAcquire takes the owner's operation token. It returns a release func and
// true on success, or nil and false when another operation already holds the
// token. Callers must defer the release so a failing operation never leaves
// the owner locked.
func (g *Guard) TryAcquire(ownerID string, kind Kind) (func(), bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.held[ownerID]; busy {
		return nil, false
	}
	g.held[ownerID] = kind

	var once sync.Once
	release := func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.held, ownerID)
			g.mu.Unlock()
		})
	}
	return release, true
}

// Holding reports the operation currently holding the owner's token, if any.
func (g *Guard) Holding(ownerID string) (Kind, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	kind, ok := g.held[ownerID]
	return kind, ok
}
