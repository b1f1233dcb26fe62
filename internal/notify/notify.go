// Package notify delivers outbound messages to the originating chat.
package notify

import "context"

// Notifier is the delivery boundary. Delivery failures are logged by callers
// and never fail a job; the queue accepts at-least-once semantics toward the
// chat.
type Notifier interface {
	SendText(ctx context.Context, chatID int64, text string) error
	SendFile(ctx context.Context, chatID int64, path, caption string) error
}
