package mocks

import (
	"fmt"
	"sync"

	"github.com/mcoot/chessgame-go/internal/dependencies/random"
)

// MockRandom is a mock implementation of Random for testing.
// Queued values are returned first; after that it counts up ("id-1", "token-1", ...).
type MockRandom struct {
	mu sync.Mutex

	ids    []string
	tokens []string

	idCount    int
	tokenCount int
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// ID returns the next queued ID, or a sequential one
func (r *MockRandom) ID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.ids) > 0 {
		id := r.ids[0]
		r.ids = r.ids[1:]
		return id
	}
	r.idCount++
	return fmt.Sprintf("id-%d", r.idCount)
}

// Token returns the next queued token, or a sequential one
func (r *MockRandom) Token() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.tokens) > 0 {
		token := r.tokens[0]
		r.tokens = r.tokens[1:]
		return token
	}
	r.tokenCount++
	return fmt.Sprintf("token-%d", r.tokenCount)
}

// QueueID adds values to the ID result queue
func (r *MockRandom) QueueID(values ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, values...)
}

// QueueToken adds values to the Token result queue
func (r *MockRandom) QueueToken(values ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens = append(r.tokens, values...)
}

// Reset clears all queued results and counters
func (r *MockRandom) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = nil
	r.tokens = nil
	r.idCount = 0
	r.tokenCount = 0
}
