package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
)

// SMTPNotifier sends plain-text email through a single SMTP endpoint.
type SMTPNotifier struct {
	addr string
	host string
	auth smtp.Auth
	from string
	to   string
}

// NewSMTP configures an email notifier. Authentication is skipped when
// username is empty, which suits local relays.
func NewSMTP(host string, port int, username, password, from, to string) *SMTPNotifier {
	n := &SMTPNotifier{
		addr: fmt.Sprintf("%s:%d", host, port),
		host: host,
		from: from,
		to:   to,
	}
	if username != "" {
		n.auth = smtp.PlainAuth("", username, password, host)
	}
	return n
}

// Notify sends one message. ctx bounds the whole exchange: the dial
// respects it directly, and cancellation closes the connection, failing
// whatever SMTP command is in flight.
func (n *SMTPNotifier) Notify(ctx context.Context, subject, body string) error {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", n.addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", n.addr, err)
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	client, err := smtp.NewClient(conn, n.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake with %s: %w", n.addr, err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: n.host}); err != nil {
			return fmt.Errorf("starttls with %s: %w", n.addr, err)
		}
	}
	if n.auth != nil {
		if err := client.Auth(n.auth); err != nil {
			return fmt.Errorf("smtp auth with %s: %w", n.addr, err)
		}
	}

	if err := client.Mail(n.from); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := client.Rcpt(n.to); err != nil {
		return fmt.Errorf("smtp rcpt to: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}

	msg := strings.Join([]string{
		"From: " + n.from,
		"To: " + n.to,
		"Subject: " + subject,
		"",
		body,
		"",
	}, "\r\n")
	if _, err := w.Write([]byte(msg)); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close: %w", err)
	}

	return client.Quit()
}
