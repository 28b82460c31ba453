package session

import (
	"context"
	"errors"
	"sync"

	"github.com/mcoot/chessgame-go/internal/chess"
	"github.com/mcoot/chessgame-go/internal/model"
	"github.com/mcoot/chessgame-go/internal/protocol"
	"github.com/mcoot/chessgame-go/internal/storage/memory"
)

var errClosed = errors.New("connection closed")

// fakeConn records everything sent to it
type fakeConn struct {
	id string

	mu     sync.Mutex
	msgs   []protocol.Message
	closed bool
}

func newFakeConn(id string) *fakeConn {
	return &fakeConn{id: id}
}

func (f *fakeConn) ID() string { return f.id }

func (f *fakeConn) Send(msg protocol.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return errClosed
	}
	f.msgs = append(f.msgs, msg)
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConn) IsOpen() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.closed
}

func (f *fakeConn) messages() []protocol.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]protocol.Message(nil), f.msgs...)
}

func (f *fakeConn) reset() {
	f.mu.Lock()
	f.msgs = nil
	f.mu.Unlock()
}

// texts returns the text of every message of type t, in order
func (f *fakeConn) texts(t protocol.MessageType) []string {
	var out []string
	for _, m := range f.messages() {
		if m.ServerMessageType == t {
			out = append(out, m.Text())
		}
	}
	return out
}

func (f *fakeConn) count(t protocol.MessageType) int {
	n := 0
	for _, m := range f.messages() {
		if m.ServerMessageType == t {
			n++
		}
	}
	return n
}

func (f *fakeConn) last() protocol.Message {
	msgs := f.messages()
	if len(msgs) == 0 {
		return protocol.Message{}
	}
	return msgs[len(msgs)-1]
}

// staticAuth maps credentials to usernames
type staticAuth map[string]string

func (a staticAuth) Authenticate(_ context.Context, credential string) (string, error) {
	username, ok := a[credential]
	if !ok {
		return "", model.ErrUnauthorized
	}
	return username, nil
}

// flakyStore can be told to fail state updates
type flakyStore struct {
	*memory.Storage

	mu          sync.Mutex
	failUpdates bool
	updates     int
}

func (f *flakyStore) UpdateGameState(ctx context.Context, id model.GameID, state *chess.Game) error {
	f.mu.Lock()
	if f.failUpdates {
		f.mu.Unlock()
		return errors.New("disk full")
	}
	f.updates++
	f.mu.Unlock()
	return f.Storage.UpdateGameState(ctx, id, state)
}

func (f *flakyStore) setFail(fail bool) {
	f.mu.Lock()
	f.failUpdates = fail
	f.mu.Unlock()
}

func (f *flakyStore) updateCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.updates
}

func mv(from, to string) chess.Move {
	return chess.NewMove(chess.MustParsePosition(from), chess.MustParsePosition(to))
}
