// Package api provides the HTTP surface of the relay.
//
// The api package implements:
//   - GET /api/health - liveness and uptime
//   - GET /api/stats - live session and connection counts
//   - GET /api/games - anonymized summaries of live sessions
//   - /ws - websocket endpoint (mounted, handled by transport/websocket)
//   - / - static files for the browser client
//
// The REST surface is observational only. All gameplay flows through the
// websocket endpoint, and session access tokens never appear in any REST
// response: a session is only reachable by parties its host invited.
//
// Usage:
//
//	server := api.NewServer(b, websocket.NewHandler(b), "static")
//	http.ListenAndServe(addr, server)
package api
