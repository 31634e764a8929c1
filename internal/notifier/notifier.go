package notifier

import (
	"context"
	"log"
)

// Notifier delivers a text message to an external channel.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// LogNotifier writes messages to the log. Used when Telegram is not configured.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier { return &LogNotifier{} }

func (n *LogNotifier) Notify(_ context.Context, message string) error {
	log.Printf("[INFO] notify: %s", message)
	return nil
}
