package broker

import (
	"log"

	"github.com/fourline/relay/game/engine"
	"github.com/fourline/relay/game/protocol"
	"github.com/fourline/relay/game/session"
	"github.com/fourline/relay/notify"
)

// Messages sent to clients for failures outside the game rules.
const (
	msgGameNotFound   = "Game not found."
	msgInvalidMessage = "Invalid message."
	msgExpectedInit   = "First message must be an init event."
	msgExpectedPlay   = "Only play events are accepted on this connection."
)

// Conn is a full client connection as the broker sees it: the send side
// shared with session plus a blocking read side owned by the connection's
// goroutine.
type Conn interface {
	session.Conn

	// Next blocks until the next inbound message arrives and returns its
	// raw payload. It returns an error once the connection is closed.
	Next() ([]byte, error)
}

// Broker routes each new connection into one of three roles: host (starts
// a session), joiner (second player via join token), or watcher (spectator
// via watch token). It owns the two token registries and ties every
// session's lifetime to its hosting connection.
type Broker struct {
	join     *session.Registry
	watch    *session.Registry
	notifier notify.Notifier
}

// New creates a broker around the given registries. notifier may be nil to
// disable the notification side channel.
func New(join, watch *session.Registry, notifier notify.Notifier) *Broker {
	return &Broker{
		join:     join,
		watch:    watch,
		notifier: notifier,
	}
}

// Handle runs one connection from its first message to its close. It is
// meant to be called on the connection's own goroutine and returns when
// the connection's role has fully played out; the caller closes the
// transport afterwards.
func (b *Broker) Handle(conn Conn) {
	data, err := conn.Next()
	if err != nil {
		return
	}

	ev, err := protocol.Decode(data)
	if err != nil || ev.Type != protocol.EventInit {
		log.Printf("Connection %s: protocol error on first message: %v", conn.ID(), err)
		conn.Send(protocol.NewError(msgExpectedInit))
		return
	}

	switch {
	case ev.Join != "":
		b.joinGame(conn, ev.Join)
	case ev.Watch != "":
		b.watchGame(conn, ev.Watch)
	default:
		b.host(conn)
	}
}

// host starts a new session for the first player. The session is
// discoverable through its tokens the moment they are issued, so joins may
// race the host's own move loop; subscribing the host first guarantees it
// receives every broadcast regardless. When the host's handling ends, for
// any reason, both tokens are revoked and the session is gone.
func (b *Broker) host(conn Conn) {
	sess := session.New(engine.NewGame())
	sess.Subscribe(conn)
	defer sess.Unsubscribe(conn)

	joinToken, err := b.join.Issue(sess)
	if err != nil {
		log.Printf("Connection %s: issuing join token: %v", conn.ID(), err)
		conn.Send(protocol.NewError("Could not create the game."))
		return
	}
	defer b.join.Revoke(joinToken)

	watchToken, err := b.watch.Issue(sess)
	if err != nil {
		log.Printf("Connection %s: issuing watch token: %v", conn.ID(), err)
		conn.Send(protocol.NewError("Could not create the game."))
		return
	}
	defer b.watch.Revoke(watchToken)

	if err := conn.Send(protocol.NewInit(joinToken, watchToken)); err != nil {
		return
	}

	log.Printf("Connection %s: hosting new game", conn.ID())
	notify.Dispatch(b.notifier, "New game started", "A new game of Connect Four is waiting for an opponent.")

	b.play(conn, sess, engine.Player1)
}

// joinGame seats the second player at an existing session. Ending this
// connection removes only the player; the session survives until its host
// leaves.
func (b *Broker) joinGame(conn Conn, token string) {
	sess, ok := b.join.Resolve(token)
	if !ok {
		conn.Send(protocol.NewError(msgGameNotFound))
		return
	}

	sess.Subscribe(conn)
	defer sess.Unsubscribe(conn)

	log.Printf("Connection %s: joined game as player 2", conn.ID())
	notify.Dispatch(b.notifier, "Opponent joined", "A second player joined your game of Connect Four.")

	b.play(conn, sess, engine.Player2)
}

// watchGame subscribes a read-only spectator. Spectators never submit
// moves; anything they send is read and discarded so the transport's
// control traffic keeps flowing until the connection closes.
func (b *Broker) watchGame(conn Conn, token string) {
	sess, ok := b.watch.Resolve(token)
	if !ok {
		conn.Send(protocol.NewError(msgGameNotFound))
		return
	}

	sess.Subscribe(conn)
	defer sess.Unsubscribe(conn)

	log.Printf("Connection %s: watching game", conn.ID())
	notify.Dispatch(b.notifier, "Spectator joined", "Someone is watching a game of Connect Four.")

	for {
		if _, err := conn.Next(); err != nil {
			return
		}
	}
}

// play is the dispatch loop for an active player. Each inbound message must
// be a play event; an illegal move earns the submitter a private error and
// the loop continues, while an accepted move is broadcast by the session.
// The loop ends when the read side closes or the peer breaks protocol.
func (b *Broker) play(conn Conn, sess *session.Session, player engine.Player) {
	for {
		data, err := conn.Next()
		if err != nil {
			return
		}

		ev, err := protocol.Decode(data)
		if err != nil {
			conn.Send(protocol.NewError(msgInvalidMessage))
			return
		}
		if ev.Type != protocol.EventPlay {
			conn.Send(protocol.NewError(msgExpectedPlay))
			return
		}

		if _, err := sess.Apply(player, *ev.Column); err != nil {
			if sendErr := conn.Send(protocol.NewError(err.Error())); sendErr != nil {
				return
			}
		}
	}
}

// ResolveJoin resolves a join token to its session, for transports that
// act on a session outside a long-lived connection.
func (b *Broker) ResolveJoin(token string) (*session.Session, bool) {
	return b.join.Resolve(token)
}

// ResolveWatch resolves a watch token to its session.
func (b *Broker) ResolveWatch(token string) (*session.Session, bool) {
	return b.watch.Resolve(token)
}

// Sessions returns the currently live sessions.
func (b *Broker) Sessions() []*session.Session {
	return b.watch.Sessions()
}
