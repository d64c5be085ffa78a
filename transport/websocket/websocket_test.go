package websocket

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/fourline/relay/game/broker"
	"github.com/fourline/relay/game/engine"
	"github.com/fourline/relay/game/protocol"
	"github.com/fourline/relay/game/session"
)

func newTestServer(t *testing.T) (*httptest.Server, *broker.Broker) {
	t.Helper()
	b := broker.New(session.NewRegistry(), session.NewRegistry(), nil)
	server := httptest.NewServer(NewHandler(b))
	t.Cleanup(server.Close)
	return server, b
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func sendRaw(t *testing.T, conn *websocket.Conn, raw string) {
	t.Helper()
	if err := conn.WriteMessage(websocket.TextMessage, []byte(raw)); err != nil {
		t.Fatalf("Failed to write message: %v", err)
	}
}

func readEvent(t *testing.T, conn *websocket.Conn) protocol.Event {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read WebSocket message: %v", err)
	}

	var ev protocol.Event
	if err := json.Unmarshal(data, &ev); err != nil {
		t.Fatalf("Failed to unmarshal event %q: %v", data, err)
	}
	return ev
}

func TestHostReceivesInitOverWebSocket(t *testing.T) {
	server, b := newTestServer(t)

	host := dial(t, server)
	sendRaw(t, host, `{"type":"init"}`)

	init := readEvent(t, host)
	if init.Type != protocol.EventInit {
		t.Fatalf("Expected init event, got %q", init.Type)
	}
	if init.Join == "" || init.Watch == "" {
		t.Fatalf("Init event missing tokens: %+v", init)
	}

	if _, ok := b.ResolveJoin(init.Join); !ok {
		t.Error("Join token should resolve while the host is connected")
	}
}

func TestFullMatchOverWebSocket(t *testing.T) {
	server, _ := newTestServer(t)

	host := dial(t, server)
	sendRaw(t, host, `{"type":"init"}`)
	init := readEvent(t, host)

	sendRaw(t, host, `{"type":"play","column":3}`)
	play := readEvent(t, host)
	if play.Type != protocol.EventPlay || play.Player != engine.Player1 ||
		*play.Column != 3 || *play.Row != 0 {
		t.Fatalf("Expected play{1,3,0}, got %+v", play)
	}

	// Second player joins, gets the move replayed, then answers.
	joiner := dial(t, server)
	sendRaw(t, joiner, fmt.Sprintf(`{"type":"init","join":%q}`, init.Join))
	replayed := readEvent(t, joiner)
	if replayed.Player != engine.Player1 || *replayed.Row != 0 {
		t.Fatalf("Replay to joiner wrong: %+v", replayed)
	}

	sendRaw(t, joiner, `{"type":"play","column":3}`)
	answer := readEvent(t, joiner)
	if answer.Player != engine.Player2 || *answer.Row != 1 {
		t.Fatalf("Expected play{2,3,1}, got %+v", answer)
	}
	hostSees := readEvent(t, host)
	if hostSees.Player != engine.Player2 || *hostSees.Row != 1 {
		t.Fatalf("Host missed the joiner's move: %+v", hostSees)
	}

	// A spectator gets the full history replayed, then live moves.
	watcher := dial(t, server)
	sendRaw(t, watcher, fmt.Sprintf(`{"type":"init","watch":%q}`, init.Watch))
	first := readEvent(t, watcher)
	second := readEvent(t, watcher)
	if *first.Row != 0 || *second.Row != 1 {
		t.Fatalf("Replay to watcher wrong: %+v %+v", first, second)
	}

	sendRaw(t, host, `{"type":"play","column":0}`)
	live := readEvent(t, watcher)
	if live.Player != engine.Player1 || *live.Column != 0 {
		t.Fatalf("Watcher missed the live move: %+v", live)
	}
}

func TestUnknownTokenOverWebSocket(t *testing.T) {
	server, _ := newTestServer(t)

	conn := dial(t, server)
	sendRaw(t, conn, `{"type":"init","join":"bogus"}`)

	ev := readEvent(t, conn)
	if ev.Type != protocol.EventError || ev.Message != "Game not found." {
		t.Fatalf("Expected Game not found error, got %+v", ev)
	}
}

// The token-miss error is enqueued immediately before the connection is
// torn down, so its delivery depends on the write pump draining the send
// buffer during shutdown. Repeat the scenario to leave the races no room.
func TestErrorDeliveredOnEveryBogusTokenConnection(t *testing.T) {
	server, _ := newTestServer(t)

	for i := 0; i < 25; i++ {
		conn := dial(t, server)
		sendRaw(t, conn, `{"type":"init","join":"bogus"}`)

		ev := readEvent(t, conn)
		if ev.Type != protocol.EventError || ev.Message != "Game not found." {
			t.Fatalf("Connection %d: expected Game not found error, got %+v", i, ev)
		}
		conn.Close()
	}
}

func TestBadFirstMessageDeliversError(t *testing.T) {
	server, _ := newTestServer(t)

	conn := dial(t, server)
	sendRaw(t, conn, `{"type":"play","column":0}`)

	ev := readEvent(t, conn)
	if ev.Type != protocol.EventError {
		t.Fatalf("Expected an error event for a non-init first message, got %+v", ev)
	}
	if ev.Message != "First message must be an init event." {
		t.Errorf("Unexpected error message: %q", ev.Message)
	}

	// The connection ends after the error.
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("Expected the connection to close after the protocol error")
	}
}

func TestMalformedPlayDeliversError(t *testing.T) {
	server, _ := newTestServer(t)

	host := dial(t, server)
	sendRaw(t, host, `{"type":"init"}`)
	readEvent(t, host) // init

	sendRaw(t, host, `not json`)
	ev := readEvent(t, host)
	if ev.Type != protocol.EventError || ev.Message != "Invalid message." {
		t.Fatalf("Expected Invalid message error, got %+v", ev)
	}
}

func TestNonPlayEventDeliversError(t *testing.T) {
	server, _ := newTestServer(t)

	host := dial(t, server)
	sendRaw(t, host, `{"type":"init"}`)
	readEvent(t, host) // init

	sendRaw(t, host, `{"type":"init"}`)
	ev := readEvent(t, host)
	if ev.Type != protocol.EventError {
		t.Fatalf("Expected an error event for a second init, got %+v", ev)
	}
	if ev.Message != "Only play events are accepted on this connection." {
		t.Errorf("Unexpected error message: %q", ev.Message)
	}
}

func TestIllegalMoveOverWebSocket(t *testing.T) {
	server, _ := newTestServer(t)

	host := dial(t, server)
	sendRaw(t, host, `{"type":"init"}`)
	readEvent(t, host) // init

	// Column 9 does not exist.
	sendRaw(t, host, `{"type":"play","column":9}`)
	ev := readEvent(t, host)
	if ev.Type != protocol.EventError {
		t.Fatalf("Expected a private error event, got %+v", ev)
	}

	// The session keeps working afterwards.
	sendRaw(t, host, `{"type":"play","column":0}`)
	ev = readEvent(t, host)
	if ev.Type != protocol.EventPlay {
		t.Fatalf("Expected play event after rejection, got %+v", ev)
	}
}

func TestHostDisconnectTearsDownSession(t *testing.T) {
	server, b := newTestServer(t)

	host := dial(t, server)
	sendRaw(t, host, `{"type":"init"}`)
	init := readEvent(t, host)

	host.Close()

	// Teardown is asynchronous; poll until the tokens disappear.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		_, joinOK := b.ResolveJoin(init.Join)
		_, watchOK := b.ResolveWatch(init.Watch)
		if !joinOK && !watchOK {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("Tokens still resolve after the host connection closed")
}

func TestJoinerDisconnectKeepsSession(t *testing.T) {
	server, b := newTestServer(t)

	host := dial(t, server)
	sendRaw(t, host, `{"type":"init"}`)
	init := readEvent(t, host)

	joiner := dial(t, server)
	sendRaw(t, joiner, fmt.Sprintf(`{"type":"init","join":%q}`, init.Join))
	joiner.Close()

	time.Sleep(50 * time.Millisecond)
	if _, ok := b.ResolveJoin(init.Join); !ok {
		t.Error("Session should survive a joiner disconnect")
	}

	// And the host can still play.
	sendRaw(t, host, `{"type":"play","column":0}`)
	ev := readEvent(t, host)
	if ev.Type != protocol.EventPlay {
		t.Errorf("Expected play event, got %+v", ev)
	}
}
