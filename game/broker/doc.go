// Package broker implements the session broker at the heart of the relay.
//
// The broker package implements:
//   - Routing a new connection into the host, joiner, or watcher role from
//     its first init message
//   - Session creation with join and watch token issuance
//   - The per-player dispatch loop turning inbound play events into moves
//     and broadcasts
//   - Session teardown tied to the hosting connection's lifetime
//
// Roles:
//
// A connection whose init event carries no token becomes the host: the
// broker creates a fresh session, issues one join token and one watch
// token, sends both back in an init event, and runs the host as player 1.
// An init with a join token seats player 2; an init with a watch token
// subscribes a read-only spectator. Unknown or revoked tokens earn an
// error event and nothing else.
//
// Lifecycle:
//
// The session lives exactly as long as its hosting connection's handling.
// When Handle returns for the host, both tokens are revoked and the game
// is discarded; joiners and watchers merely leave the connection set when
// they disconnect.
//
// Error Handling:
//
// Malformed messages and out-of-sequence events are protocol errors: the
// connection gets one error event and its handling ends. Illegal moves are
// reported privately to the submitter and the session continues untouched.
// Notification side-channel failures never reach the session; dispatch is
// asynchronous and best-effort.
//
// Usage:
//
//	b := broker.New(session.NewRegistry(), session.NewRegistry(), notifier)
//
//	// one goroutine per accepted connection
//	go func() {
//		defer conn.Close()
//		b.Handle(conn)
//	}()
package broker
