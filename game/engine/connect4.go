package engine

import "errors"

// Move rejection errors. Their text is sent verbatim to the submitting
// player, so they are phrased as user-facing messages.
var (
	ErrWrongTurn  = errors.New("It isn't your turn.")
	ErrColumnFull = errors.New("This slot is full.")
	ErrBadColumn  = errors.New("This column does not exist.")
	ErrGameOver   = errors.New("The game is already over.")
)

// Game is a Connect Four state machine: an append-only move log, the board
// it implies, and the winner once one exists.
//
// Game is not safe for concurrent use. Callers that share a Game across
// goroutines must serialize access; the session package does this with a
// per-session lock.
type Game struct {
	board  [Columns][Rows]Player
	height [Columns]int
	moves  []Move
	winner Player
}

// NewGame returns an empty board with player 1 to move.
func NewGame() *Game {
	return &Game{}
}

// next returns the player whose turn it is. Player 1 always opens.
func (g *Game) next() Player {
	if len(g.moves)%2 == 0 {
		return Player1
	}
	return Player2
}

// Play applies one move for player in the given column and returns the row
// the disc landed on.
//
// The move is rejected without any state change when the game already has a
// winner, when it is not player's turn, when the column does not exist, or
// when the column is full.
func (g *Game) Play(player Player, column int) (int, error) {
	if g.winner != 0 {
		return 0, ErrGameOver
	}
	if !player.Valid() || player != g.next() {
		return 0, ErrWrongTurn
	}
	if column < 0 || column >= Columns {
		return 0, ErrBadColumn
	}
	row := g.height[column]
	if row >= Rows {
		return 0, ErrColumnFull
	}

	g.board[column][row] = player
	g.height[column]++
	g.moves = append(g.moves, Move{Player: player, Column: column, Row: row})

	if g.connects(player, column, row) {
		g.winner = player
	}
	return row, nil
}

// Winner returns the winning player and true once a move has won the game,
// and (0, false) before then. Once set, the winner never changes.
func (g *Game) Winner() (Player, bool) {
	return g.winner, g.winner != 0
}

// Moves returns a copy of the move history in play order. The copy is safe
// to iterate while the caller's lock is released.
func (g *Game) Moves() []Move {
	moves := make([]Move, len(g.moves))
	copy(moves, g.moves)
	return moves
}

// MoveCount returns the number of accepted moves.
func (g *Game) MoveCount() int {
	return len(g.moves)
}

// Cell returns the player occupying (column, row), or 0 if the slot is
// empty or out of range.
func (g *Game) Cell(column, row int) Player {
	if column < 0 || column >= Columns || row < 0 || row >= Rows {
		return 0
	}
	return g.board[column][row]
}

// connects reports whether the disc just placed at (column, row) completes
// a run of WinLength for player in any direction.
func (g *Game) connects(player Player, column, row int) bool {
	dirs := [][2]int{
		{1, 0},  // horizontal
		{0, 1},  // vertical
		{1, 1},  // diagonal /
		{1, -1}, // diagonal \
	}
	for _, d := range dirs {
		run := 1
		for _, sign := range []int{1, -1} {
			for i := 1; i < WinLength; i++ {
				c := column + sign*i*d[0]
				r := row + sign*i*d[1]
				if g.Cell(c, r) != player {
					break
				}
				run++
			}
		}
		if run >= WinLength {
			return true
		}
	}
	return false
}
