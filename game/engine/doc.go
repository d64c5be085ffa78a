// Package engine implements the Connect Four state machine.
//
// The engine package provides:
//   - A 7x6 board with gravity (discs stack from row 0 upward)
//   - Strict turn alternation starting with player 1
//   - Win detection for runs of four in any direction
//   - An append-only move history suitable for replaying to late joiners
//
// Core Types:
//
// Game holds one match: the board, the move log, and the winner once a
// winning move has been played. Move records a single accepted move as
// (player, column, row).
//
// Rules:
//
// Players alternate dropping discs into one of seven columns. A disc lands
// on the lowest empty row of its column. The first player to align four
// discs horizontally, vertically, or diagonally wins; every subsequent move
// is rejected with ErrGameOver. Illegal moves (wrong turn, unknown column,
// full column) are rejected without changing state, and the rejection
// errors carry player-facing text.
//
// Concurrency:
//
// Game performs no locking of its own. The session package serializes all
// access to a shared Game under a per-session lock, which also keeps move
// application atomic with respect to history snapshots taken for replay.
//
// Usage:
//
//	game := engine.NewGame()
//
//	row, err := game.Play(engine.Player1, 3)
//	if err != nil {
//		// move rejected; err.Error() is safe to show the player
//	}
//
//	if winner, ok := game.Winner(); ok {
//		// the match is over
//	}
package engine
