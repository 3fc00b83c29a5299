package workers

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/social-blog/domain"
)

const (
	defaultNotifyBuffer = 1024
	notifyBatchSize     = 100
	notifyFlushInterval = time.Second
	notifyFlushTimeout  = 5 * time.Second
)

type notifyWorker struct {
	repo     domain.NotificationRepository
	ch       chan domain.Notification
	interval time.Duration
	done     chan struct{}
}

var _ domain.NotificationWorker = (*notifyWorker)(nil)

// NewNotifyWorker buffers up to buffer notifications before Notify starts dropping.
func NewNotifyWorker(repo domain.NotificationRepository, buffer int) *notifyWorker {
	if buffer <= 0 {
		buffer = defaultNotifyBuffer
	}
	return &notifyWorker{
		repo:     repo,
		ch:       make(chan domain.Notification, buffer),
		interval: notifyFlushInterval,
		done:     make(chan struct{}),
	}
}

// Notify enqueues n without blocking. Self notifications are dropped.
func (w *notifyWorker) Notify(n domain.Notification) {
	if n.ReceiverID == 0 || n.ReceiverID == n.ActorID {
		return
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	select {
	case w.ch <- n:
	default:
		logrus.Warnf("notify worker's channel is full, %s notification for user %d dropped", n.Verb, n.ReceiverID)
	}
}

// Start runs until ctx is done, then drains the channel and flushes what is left.
func (w *notifyWorker) Start(ctx context.Context) {
	defer close(w.done)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	batch := make([]domain.Notification, 0, notifyBatchSize)
	for {
		select {
		case n := <-w.ch:
			batch = append(batch, n)
			if len(batch) == notifyBatchSize {
				w.flush(batch)
				batch = make([]domain.Notification, 0, notifyBatchSize)
			}
		case <-ticker.C:
			if len(batch) > 0 {
				w.flush(batch)
				batch = make([]domain.Notification, 0, notifyBatchSize)
			}
		case <-ctx.Done():
			logrus.Info("shutting down notify worker, flushing remaining notifications...")
			for {
				select {
				case n := <-w.ch:
					batch = append(batch, n)
				default:
					w.flush(batch)
					return
				}
			}
		}
	}
}

// Done is closed once Start has returned.
func (w *notifyWorker) Done() <-chan struct{} {
	return w.done
}

func (w *notifyWorker) flush(batch []domain.Notification) {
	if len(batch) == 0 {
		return
	}
	// The request that produced the events is long gone; use a fresh deadline.
	ctx, cancel := context.WithTimeout(context.Background(), notifyFlushTimeout)
	defer cancel()
	if err := w.repo.StoreBatch(ctx, batch); err != nil {
		logrus.Errorf("failed to store %d notifications: %v", len(batch), err)
	}
}
