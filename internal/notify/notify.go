package notify

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/anandk/placement/pkg/models"
	"github.com/anandk/placement/pkg/repository"
)

// Message is one queued notification delivery.
type Message struct {
	UserID    int64
	Title     string
	Body      string
	Type      string
	RelatedID int64
	// Tag keys replacement on the delivery channel: repeated events about the
	// same record carry the same tag.
	Tag      int64
	Priority string
}

// Dispatcher persists notifications through a worker pool so workflow steps
// never wait on the store. Push is fire-and-forget; when the queue is full
// the message is dropped and logged rather than blocking the caller.
type Dispatcher struct {
	repo        repository.NotificationRepo
	logger      *slog.Logger
	workerCount int
	queue       chan Message
	stop        chan struct{}
	stopped     atomic.Bool
	wg          sync.WaitGroup
}

func NewDispatcher(repo repository.NotificationRepo, logger *slog.Logger, workerCount, queueSize int) *Dispatcher {
	if workerCount <= 0 {
		workerCount = 4
	}
	if queueSize <= 0 {
		queueSize = 256
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		repo:        repo,
		logger:      logger,
		workerCount: workerCount,
		queue:       make(chan Message, queueSize),
		stop:        make(chan struct{}),
	}
}

// Start launches the worker goroutines.
func (d *Dispatcher) Start(ctx context.Context) {
	for i := 0; i < d.workerCount; i++ {
		d.wg.Add(1)
		go d.worker(ctx, i)
	}
}

// Stop rejects further pushes, drains what is already queued, and waits for
// the workers.
func (d *Dispatcher) Stop() {
	if d.stopped.Swap(true) {
		return
	}
	close(d.stop)
	d.wg.Wait()
}

// Push implements the notifier contract used by the workflow engine.
func (d *Dispatcher) Push(userID int64, title, message, notificationType string, relatedID, tag int64) {
	d.Enqueue(Message{
		UserID:    userID,
		Title:     title,
		Body:      message,
		Type:      notificationType,
		RelatedID: relatedID,
		Tag:       tag,
	})
}

// Enqueue queues a message for delivery without blocking.
func (d *Dispatcher) Enqueue(m Message) {
	if d.stopped.Load() {
		return
	}
	select {
	case d.queue <- m:
	default:
		d.logger.Warn("notification queue full, dropping", "user_id", m.UserID, "type", m.Type)
	}
}

func (d *Dispatcher) worker(ctx context.Context, id int) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			d.logger.Info("context canceled, notify worker exiting", "id", id)
			return
		case <-d.stop:
			d.drain(ctx)
			return
		case m := <-d.queue:
			d.deliver(ctx, m)
		}
	}
}

// drain empties what is left in the queue at shutdown.
func (d *Dispatcher) drain(ctx context.Context) {
	for {
		select {
		case m := <-d.queue:
			d.deliver(ctx, m)
		default:
			return
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, m Message) {
	related := m.RelatedID
	n := &models.Notification{
		UserID:    m.UserID,
		Title:     m.Title,
		Message:   m.Body,
		Type:      m.Type,
		RelatedID: &related,
		Tag:       m.Tag,
		Priority:  m.Priority,
	}
	if n.Priority == "" {
		n.Priority = "normal"
	}
	if _, err := d.repo.CreateNotification(ctx, n); err != nil {
		d.logger.Error("persist notification", "user_id", m.UserID, "type", m.Type, "err", err)
	}
}
