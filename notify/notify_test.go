package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"testing"
	"time"
)

type recordingNotifier struct {
	called chan string
	err    error
	panics bool
}

func (n *recordingNotifier) Notify(_ context.Context, subject, _ string) error {
	if n.panics {
		panic("notifier exploded")
	}
	n.called <- subject
	return n.err
}

func TestDispatchDeliversAsynchronously(t *testing.T) {
	n := &recordingNotifier{called: make(chan string, 1)}

	Dispatch(n, "subject", "body")

	select {
	case subject := <-n.called:
		if subject != "subject" {
			t.Errorf("Expected subject %q, got %q", "subject", subject)
		}
	case <-time.After(time.Second):
		t.Fatal("Notification was never delivered")
	}
}

func TestDispatchNilNotifierIsNoop(t *testing.T) {
	// Must not panic.
	Dispatch(nil, "subject", "body")
}

func TestDispatchSwallowsErrors(t *testing.T) {
	n := &recordingNotifier{
		called: make(chan string, 1),
		err:    errors.New("mail server down"),
	}

	Dispatch(n, "subject", "body")

	select {
	case <-n.called:
	case <-time.After(time.Second):
		t.Fatal("Notification was never attempted")
	}
	// Nothing to assert beyond the process not crashing: the error is
	// logged and discarded.
}

func TestDispatchRecoversPanics(t *testing.T) {
	n := &recordingNotifier{panics: true}

	Dispatch(n, "subject", "body")

	// Give the goroutine time to panic and recover.
	time.Sleep(50 * time.Millisecond)
}

func TestDispatchDoesNotBlockCaller(t *testing.T) {
	// An unbuffered channel with no reader simulates a notifier that hangs.
	n := &recordingNotifier{called: make(chan string)}

	done := make(chan struct{})
	go func() {
		Dispatch(n, "subject", "body")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Dispatch blocked on a slow notifier")
	}
}

func TestNewSMTPWithoutCredentials(t *testing.T) {
	n := NewSMTP("localhost", 2525, "", "", "relay@example.com", "ops@example.com")

	if n.auth != nil {
		t.Error("Auth should be disabled when no username is configured")
	}
	if n.addr != "localhost:2525" {
		t.Errorf("Unexpected address: %s", n.addr)
	}
}

// A server that greets and then goes silent must not hold Notify past its
// context: cancellation closes the connection and fails the exchange.
func TestSMTPNotifyCancelledMidExchange(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen failed: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		fmt.Fprint(conn, "220 test ready\r\n")
		// Never answer anything else; the client must bail out on its own.
		io.Copy(io.Discard, conn)
	}()

	host, portStr, err := net.SplitHostPort(ln.Addr().String())
	if err != nil {
		t.Fatalf("SplitHostPort failed: %v", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatalf("Atoi failed: %v", err)
	}

	n := NewSMTP(host, port, "", "", "relay@example.com", "ops@example.com")

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	errc := make(chan error, 1)
	go func() { errc <- n.Notify(ctx, "subject", "body") }()

	select {
	case err := <-errc:
		if err == nil {
			t.Error("Expected an error from a cancelled exchange")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Notify did not return after its context expired")
	}
}

func TestSMTPNotifyHonorsCancelledContext(t *testing.T) {
	n := NewSMTP("localhost", 2525, "", "", "relay@example.com", "ops@example.com")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := n.Notify(ctx, "subject", "body"); err == nil {
		t.Error("Expected an error for a cancelled context")
	}
}
