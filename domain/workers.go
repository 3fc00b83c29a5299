package domain

import "context"

// NotificationWorker buffers notifications and writes them in batches.
type NotificationWorker interface {
	NotificationSink

	// Start runs the flush loop until ctx is done, then flushes what is left.
	Start(ctx context.Context)
}
