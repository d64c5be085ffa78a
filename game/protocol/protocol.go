package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fourline/relay/game/engine"
)

// EventType discriminates wire events.
type EventType string

const (
	EventInit  EventType = "init"
	EventPlay  EventType = "play"
	EventWin   EventType = "win"
	EventError EventType = "error"
)

var (
	ErrEmptyMessage = errors.New("empty message")
	ErrUnknownType  = errors.New("unknown event type")
)

// Event is one wire message, inbound or outbound. All events share a flat
// JSON shape discriminated by Type; unused fields are omitted.
//
// Inbound:
//
//	{"type":"init"}                  first player starts a new game
//	{"type":"init","join":"..."}     second player joins an existing game
//	{"type":"init","watch":"..."}    spectator watches an existing game
//	{"type":"play","column":3}       a player drops a disc
//
// Outbound:
//
//	{"type":"init","join":"...","watch":"..."}          tokens for the host
//	{"type":"play","player":1,"column":3,"row":0}       an accepted move
//	{"type":"win","player":1}                           the winning move
//	{"type":"error","message":"..."}                    a private error
type Event struct {
	Type    EventType     `json:"type"`
	Join    string        `json:"join,omitempty"`
	Watch   string        `json:"watch,omitempty"`
	Player  engine.Player `json:"player,omitempty"`
	Column  *int          `json:"column,omitempty"`
	Row     *int          `json:"row,omitempty"`
	Message string        `json:"message,omitempty"`
}

// NewInit builds the outbound init event carrying the host's access tokens.
func NewInit(joinToken, watchToken string) Event {
	return Event{Type: EventInit, Join: joinToken, Watch: watchToken}
}

// NewPlay builds the broadcast event for one accepted move. It is also the
// event shape replayed to late joiners.
func NewPlay(move engine.Move) Event {
	column, row := move.Column, move.Row
	return Event{Type: EventPlay, Player: move.Player, Column: &column, Row: &row}
}

// NewWin builds the broadcast event announcing the winning player.
func NewWin(player engine.Player) Event {
	return Event{Type: EventWin, Player: player}
}

// NewError builds a private error event. The message is shown to the user.
func NewError(message string) Event {
	return Event{Type: EventError, Message: message}
}

// Decode parses one inbound wire message. It accepts only the event types a
// client may send (init and play) and requires play events to carry a
// column.
func Decode(data []byte) (Event, error) {
	if len(data) == 0 {
		return Event{}, ErrEmptyMessage
	}

	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return Event{}, fmt.Errorf("malformed event: %w", err)
	}

	switch ev.Type {
	case EventInit:
		return ev, nil
	case EventPlay:
		if ev.Column == nil {
			return Event{}, errors.New("play event missing column")
		}
		return ev, nil
	default:
		return Event{}, fmt.Errorf("%w: %q", ErrUnknownType, ev.Type)
	}
}

// Encode marshals an outbound event.
func Encode(ev Event) ([]byte, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("encode %s event: %w", ev.Type, err)
	}
	return data, nil
}
