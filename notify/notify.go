package notify

import (
	"context"
	"log"
	"time"
)

// dispatchTimeout bounds how long an asynchronous notification may take
// before it is abandoned.
const dispatchTimeout = 10 * time.Second

// Notifier delivers a notification to a party outside the relay, such as
// an email recipient. Implementations may block and may fail; callers that
// must not do either go through Dispatch.
type Notifier interface {
	Notify(ctx context.Context, subject, body string) error
}

// Dispatch delivers a notification asynchronously, fire-and-forget. It
// never blocks the caller and swallows every failure: errors are logged,
// panics are recovered. A nil notifier disables the side channel entirely.
func Dispatch(n Notifier, subject, body string) {
	if n == nil {
		return
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("notify: panic delivering %q: %v", subject, r)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()

		if err := n.Notify(ctx, subject, body); err != nil {
			log.Printf("notify: %q: %v", subject, err)
		}
	}()
}

// LogNotifier writes notifications to the process log. It stands in for a
// real side channel when no SMTP settings are configured.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, subject, body string) error {
	log.Printf("notification: %s: %s", subject, body)
	return nil
}
