// Package protocol defines the JSON wire events exchanged with clients.
//
// Every message on a connection is a single flat JSON object discriminated
// by its "type" field. Clients send "init" exactly once as their first
// message, then "play" any number of times (players only). The server sends
// "init" (tokens, host only), "play" (accepted moves and replayed history),
// "win", and "error".
//
// Column and Row are pointers so that column 0 and row 0 survive the
// omitempty round trip: they are omitted when absent, not when zero.
//
// Decode validates inbound messages: only init and play are accepted, and
// play must carry a column. Outbound-only types arriving from a client are
// rejected as unknown.
package protocol
