package protocol

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/fourline/relay/game/engine"
)

func TestDecodeInitVariants(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		join  string
		watch string
	}{
		{"host", `{"type":"init"}`, "", ""},
		{"joiner", `{"type":"init","join":"abc"}`, "abc", ""},
		{"watcher", `{"type":"init","watch":"xyz"}`, "", "xyz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := Decode([]byte(tt.raw))
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if ev.Type != EventInit {
				t.Errorf("Expected init type, got %q", ev.Type)
			}
			if ev.Join != tt.join || ev.Watch != tt.watch {
				t.Errorf("Expected join=%q watch=%q, got join=%q watch=%q",
					tt.join, tt.watch, ev.Join, ev.Watch)
			}
		})
	}
}

func TestDecodePlay(t *testing.T) {
	ev, err := Decode([]byte(`{"type":"play","column":0}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if ev.Type != EventPlay {
		t.Errorf("Expected play type, got %q", ev.Type)
	}
	if ev.Column == nil || *ev.Column != 0 {
		t.Error("Column 0 should decode as present")
	}
}

func TestDecodeRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"not json", "{nope"},
		{"missing type", `{"column":3}`},
		{"unknown type", `{"type":"dance"}`},
		{"server-only type", `{"type":"win","player":1}`},
		{"play without column", `{"type":"play"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode([]byte(tt.raw)); err == nil {
				t.Errorf("Expected error decoding %q", tt.raw)
			}
		})
	}
}

func TestDecodeUnknownTypeSentinel(t *testing.T) {
	_, err := Decode([]byte(`{"type":"snapshot"}`))
	if !errors.Is(err, ErrUnknownType) {
		t.Errorf("Expected ErrUnknownType, got %v", err)
	}
}

func TestEncodePlayKeepsZeroValues(t *testing.T) {
	data, err := Encode(NewPlay(engine.Move{Player: engine.Player1, Column: 0, Row: 0}))
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	raw := string(data)
	if !strings.Contains(raw, `"column":0`) {
		t.Errorf("Encoded play event lost column 0: %s", raw)
	}
	if !strings.Contains(raw, `"row":0`) {
		t.Errorf("Encoded play event lost row 0: %s", raw)
	}
}

func TestEncodeInitOmitsPlayFields(t *testing.T) {
	data, err := Encode(NewInit("J", "W"))
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("Round trip failed: %v", err)
	}

	for _, unexpected := range []string{"player", "column", "row", "message"} {
		if _, ok := fields[unexpected]; ok {
			t.Errorf("Init event should omit %q: %s", unexpected, data)
		}
	}
	if string(fields["join"]) != `"J"` || string(fields["watch"]) != `"W"` {
		t.Errorf("Init event lost tokens: %s", data)
	}
}

func TestNewErrorShape(t *testing.T) {
	data, err := Encode(NewError("Game not found."))
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	want := `{"type":"error","message":"Game not found."}`
	if string(data) != want {
		t.Errorf("Expected %s, got %s", want, data)
	}
}
