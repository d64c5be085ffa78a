package session

import (
	"log"
	"sync"
	"time"

	"github.com/fourline/relay/game/engine"
	"github.com/fourline/relay/game/protocol"
)

// Conn is the server-side handle for one live client connection. Session
// only needs the send side; reading stays with the connection's own
// goroutine in the broker.
type Conn interface {
	// ID identifies the connection in logs.
	ID() string

	// Send enqueues one event for delivery without blocking on the peer.
	// An error means the connection can no longer accept events, typically
	// because the peer is too slow or gone.
	Send(ev protocol.Event) error

	// Close tears down the underlying connection, unblocking any pending
	// read on it.
	Close() error
}

// Session couples one game with the set of connections receiving its
// broadcasts. A single lock serializes move application, broadcasting, and
// connection set changes, which gives every subscriber the session's moves
// exactly once and in acceptance order: a connection is either subscribed
// before a move is applied (and receives its broadcast) or subscribes after
// (and receives it via replay).
type Session struct {
	mu        sync.Mutex
	game      *engine.Game
	conns     map[Conn]bool
	createdAt time.Time
}

// New creates a session around a fresh game with no subscribers.
func New(game *engine.Game) *Session {
	return &Session{
		game:      game,
		conns:     make(map[Conn]bool),
		createdAt: time.Now(),
	}
}

// Subscribe adds conn to the session and replays the move history played so
// far, in order. Replay happens under the session lock, so no concurrently
// accepted move can be missed or delivered twice.
func (s *Session) Subscribe(conn Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conns[conn] = true
	for _, move := range s.game.Moves() {
		if err := conn.Send(protocol.NewPlay(move)); err != nil {
			s.dropLocked(conn, err)
			return
		}
	}
}

// Unsubscribe removes conn from the session. It is a no-op for connections
// that were already dropped.
func (s *Session) Unsubscribe(conn Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, conn)
}

// Apply plays one move for player and, if accepted, broadcasts the play
// event (and a win event when the move wins) to every subscriber. Rejected
// moves change nothing and broadcast nothing; the error text is meant for
// the submitting player only.
func (s *Session) Apply(player engine.Player, column int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, err := s.game.Play(player, column)
	if err != nil {
		return 0, err
	}

	s.broadcastLocked(protocol.NewPlay(engine.Move{Player: player, Column: column, Row: row}))

	if winner, ok := s.game.Winner(); ok {
		s.broadcastLocked(protocol.NewWin(winner))
	}
	return row, nil
}

// Snapshot returns a copy of the move history and the winner, if any.
func (s *Session) Snapshot() ([]engine.Move, engine.Player, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	winner, ok := s.game.Winner()
	return s.game.Moves(), winner, ok
}

// ConnCount returns the number of live subscribers.
func (s *Session) ConnCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

// CreatedAt returns the session's creation time.
func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// broadcastLocked fans one event out to every subscriber. A connection that
// cannot accept the event is dropped rather than stalling the session.
func (s *Session) broadcastLocked(ev protocol.Event) {
	for conn := range s.conns {
		if err := conn.Send(ev); err != nil {
			s.dropLocked(conn, err)
		}
	}
}

// dropLocked removes a failed connection and closes it so its read loop
// unblocks and runs its own cleanup.
func (s *Session) dropLocked(conn Conn, err error) {
	delete(s.conns, conn)
	conn.Close()
	log.Printf("Dropped connection %s from session: %v", conn.ID(), err)
}
