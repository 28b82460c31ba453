package session

import (
	"sync"

	"github.com/mcoot/chessgame-go/internal/model"
)

// Registry indexes live connections by credential and by game, and records
// which games are finished. Its own lock only guards the maps; callers
// serialize per-game work with gamelock.
type Registry struct {
	mu           sync.RWMutex
	byCredential map[string]*Connection
	byGame       map[model.GameID]map[*Connection]struct{}
	finished     map[model.GameID]struct{}
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{
		byCredential: make(map[string]*Connection),
		byGame:       make(map[model.GameID]map[*Connection]struct{}),
		finished:     make(map[model.GameID]struct{}),
	}
}

// Register stores c under its credential and game. An existing connection for
// the same credential is replaced and dropped from its game.
func (r *Registry) Register(c *Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.byCredential[c.Credential]; ok && old != c {
		r.removeLocked(old)
	}

	r.byCredential[c.Credential] = c
	bucket, ok := r.byGame[c.GameID]
	if !ok {
		bucket = make(map[*Connection]struct{})
		r.byGame[c.GameID] = bucket
	}
	bucket[c] = struct{}{}
}

// Unregister removes c from both indexes. It is a no-op if c was already replaced.
func (r *Registry) Unregister(c *Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeLocked(c)
}

// Lookup returns the connection registered for credential
func (r *Registry) Lookup(credential string) (*Connection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byCredential[credential]
	return c, ok
}

// Snapshot copies the connections of a game for iteration outside the lock
func (r *Registry) Snapshot(id model.GameID) []*Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bucket := r.byGame[id]
	conns := make([]*Connection, 0, len(bucket))
	for c := range bucket {
		conns = append(conns, c)
	}
	return conns
}

// ByTransport returns every registration that uses conn
func (r *Registry) ByTransport(conn Conn) []*Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var conns []*Connection
	for _, c := range r.byCredential {
		if c.Conn.ID() == conn.ID() {
			conns = append(conns, c)
		}
	}
	return conns
}

// MarkFinished records that id accepts no more moves or resignations
func (r *Registry) MarkFinished(id model.GameID) {
	r.mu.Lock()
	r.finished[id] = struct{}{}
	r.mu.Unlock()
}

// IsFinished reports whether id was marked finished
func (r *Registry) IsFinished(id model.GameID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.finished[id]
	return ok
}

// Count returns the number of live registrations
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byCredential)
}

// Clear forgets every connection and finished game
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byCredential = make(map[string]*Connection)
	r.byGame = make(map[model.GameID]map[*Connection]struct{})
	r.finished = make(map[model.GameID]struct{})
}

func (r *Registry) removeLocked(c *Connection) {
	if cur, ok := r.byCredential[c.Credential]; ok && cur == c {
		delete(r.byCredential, c.Credential)
	}
	if bucket, ok := r.byGame[c.GameID]; ok {
		delete(bucket, c)
		if len(bucket) == 0 {
			delete(r.byGame, c.GameID)
		}
	}
}
