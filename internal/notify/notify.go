package notify

import "context"

// Notifier delivers a finished idea pack summary. title may be empty; body
// is preformatted for the channel.
type Notifier interface {
	Send(ctx context.Context, title, body string) error
}
