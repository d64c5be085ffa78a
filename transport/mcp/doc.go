// Package mcp provides a Model Context Protocol server for the relay.
//
// The mcp package implements:
//   - MCP tool definitions for AI agent integration
//   - Token-gated access matching the websocket transport's rules
//   - Stdio and HTTP transport modes
//
// MCP Tools:
//
// The package exposes the following tools for AI agents:
//   - list_games: Anonymized summaries of live games
//   - watch_game: Board and move history for a watch token
//   - play_move: Drop a disc as player 2 using a join token
//
// Access Model:
//
// MCP clients cannot host games; sessions exist only while their hosting
// websocket connection is alive. Agents participate the same way any other
// invitee does: the host hands them a join token to play the second seat
// or a watch token to observe. Moves played over MCP are applied through
// the same session as websocket moves and broadcast to every connected
// client.
//
// Transport Modes:
//
// The server runs over stdio for local MCP clients (relay mcp) or mounted
// behind the HTTP /mcp endpoint of the main server.
package mcp
