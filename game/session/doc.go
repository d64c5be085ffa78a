// Package session provides session and token management for the relay.
//
// The session package implements:
//   - Session: one game plus the live set of connections receiving its
//     broadcasts
//   - Registry: a thread-safe mapping from secret access tokens to sessions
//   - History replay for late joiners
//   - Best-effort per-connection fan-out that never stalls the game
//
// Tokens:
//
// Access tokens are URL-safe strings with 128 bits of cryptographic
// randomness. The broker runs two independent registries: join tokens grant
// the second-player seat, watch tokens grant read-only spectating. Tokens
// have no expiry; they live until the hosting connection ends, at which
// point the broker revokes them. A revoked token resolves to nothing, never
// to a stale session.
//
// Concurrency:
//
// Each Session serializes move application, broadcasting, and connection
// set changes under one lock. Subscribe replays history under that same
// lock, so a late joiner receives every accepted move exactly once and in
// acceptance order, with no window where a concurrent move could be missed
// or duplicated. Broadcast delivery per connection is a non-blocking
// enqueue; a subscriber that cannot keep up is dropped and closed instead
// of blocking the session.
//
// Usage:
//
//	joinRegistry := session.NewRegistry()
//
//	sess := session.New(engine.NewGame())
//	token, err := joinRegistry.Issue(sess)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if sess, ok := joinRegistry.Resolve(token); ok {
//		sess.Subscribe(conn)
//	}
//
//	joinRegistry.Revoke(token)
package session
