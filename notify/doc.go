// Package notify implements the relay's best-effort notification side
// channel.
//
// Notifications are strictly fire-and-forget: Dispatch runs delivery on
// its own goroutine, logs failures, recovers panics, and returns to the
// caller immediately. A slow or broken mail server can therefore never
// delay a move broadcast or tear down a session.
//
// Two implementations ship with the relay: SMTPNotifier delivers
// plain-text email through a configured SMTP endpoint, and LogNotifier
// writes to the process log when no endpoint is configured.
package notify
