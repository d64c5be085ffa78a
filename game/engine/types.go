package engine

// Player identifies one of the two seats in a game.
type Player int

const (
	Player1 Player = 1
	Player2 Player = 2
)

const (
	// Board dimensions
	Columns = 7
	Rows    = 6

	// Number of aligned discs required to win
	WinLength = 4
)

// Move records one accepted move: who played, which column they chose,
// and the row the disc landed on.
type Move struct {
	Player Player `json:"player"`
	Column int    `json:"column"`
	Row    int    `json:"row"`
}

// Other returns the opposing player.
func (p Player) Other() Player {
	if p == Player1 {
		return Player2
	}
	return Player1
}

// Valid reports whether p is one of the two playable seats.
func (p Player) Valid() bool {
	return p == Player1 || p == Player2
}
