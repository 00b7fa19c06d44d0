package notify_test

import (
	"context"
	"testing"
	"time"

	"github.com/anandk/placement/internal/notify"
	"github.com/anandk/placement/pkg/repository/mock"
)

func TestDispatcherDelivers(t *testing.T) {
	ctx := context.Background()
	m := mock.NewMocks()

	d := notify.NewDispatcher(m.Notifications, nil, 2, 16)
	d.Start(ctx)
	defer d.Stop()

	d.Push(7, "Application Submitted", "done", "application_status", 42, 42)

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		rows, err := m.Notifications.ListNotificationsByUser(ctx, 7)
		if err != nil {
			t.Fatalf("list notifications: %v", err)
		}
		if len(rows) == 1 {
			n := rows[0]
			if n.Title != "Application Submitted" || n.Type != "application_status" {
				t.Fatalf("unexpected notification: %#v", n)
			}
			if n.RelatedID == nil || *n.RelatedID != 42 || n.Tag != 42 {
				t.Fatalf("related/tag not carried: %#v", n)
			}
			if n.Priority != "normal" {
				t.Fatalf("expected default priority, got %q", n.Priority)
			}
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("notification was not persisted in time")
}

func TestDispatcherDrainsOnStop(t *testing.T) {
	ctx := context.Background()
	m := mock.NewMocks()

	d := notify.NewDispatcher(m.Notifications, nil, 1, 64)
	d.Start(ctx)

	for i := 0; i < 20; i++ {
		d.Push(1, "t", "m", "deadline", int64(i), int64(i)+20000)
	}
	d.Stop()

	rows, err := m.Notifications.ListNotificationsByUser(ctx, 1)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	if len(rows) != 20 {
		t.Fatalf("expected all queued messages delivered before Stop returned, got %d", len(rows))
	}

	// pushes after Stop are ignored, not a panic
	d.Push(1, "late", "m", "deadline", 99, 99)
	rows, _ = m.Notifications.ListNotificationsByUser(ctx, 1)
	if len(rows) != 20 {
		t.Fatalf("expected post-stop push to be dropped")
	}
}

func TestDispatcherStopTwice(t *testing.T) {
	d := notify.NewDispatcher(mock.NewMocks().Notifications, nil, 1, 1)
	d.Start(context.Background())
	d.Stop()
	d.Stop()
}
