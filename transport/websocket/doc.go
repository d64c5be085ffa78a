// Package websocket provides the relay's websocket transport.
//
// The websocket package implements:
//   - HTTP upgrade handling for the /ws endpoint
//   - A Client adapter that turns one gorilla/websocket connection into
//     the broker's Conn interface
//   - Per-connection write pumping with ping/pong keepalive
//   - Non-blocking outbound delivery with a bounded send buffer
//
// Connection Lifecycle:
//
// 1. Client connects to /ws and is upgraded
// 2. A writePump goroutine starts draining the send buffer
// 3. The broker runs the connection on a second goroutine, reading the
//    init event and then the role's message stream
// 4. Disconnection, a protocol error, or a full send buffer ends the
//    connection; both goroutines exit and the broker's cleanup runs
//
// Backpressure:
//
// Send enqueues into a bounded buffer and never waits for the peer. When
// the buffer is full the client is considered too slow; Send reports an
// error and the session drops and closes the client rather than letting
// one stalled reader hold up a game.
//
// Usage:
//
//	handler := websocket.NewHandler(b)
//	router.Handle("/ws", handler)
package websocket
