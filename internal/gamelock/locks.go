// Package gamelock serializes read-modify-write work on a single game
// while leaving different games independent.
package gamelock

import (
	"sync"

	"github.com/mcoot/chessgame-go/internal/model"
)

type entry struct {
	mu   sync.Mutex
	refs int
}

// Locks is a keyed mutex. Entries are created on demand and dropped once no
// goroutine holds or waits on them.
type Locks struct {
	mu      sync.Mutex
	entries map[model.GameID]*entry
}

// New creates an empty lock table
func New() *Locks {
	return &Locks{entries: make(map[model.GameID]*entry)}
}

// Lock blocks until the caller holds id's lock and returns the release func
func (l *Locks) Lock(id model.GameID) (unlock func()) {
	l.mu.Lock()
	e, ok := l.entries[id]
	if !ok {
		e = &entry{}
		l.entries[id] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Unlock()

			l.mu.Lock()
			e.refs--
			if e.refs == 0 {
				delete(l.entries, id)
			}
			l.mu.Unlock()
		})
	}
}

// Len reports how many games currently have a holder or waiter
func (l *Locks) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
