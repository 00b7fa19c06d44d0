package sqlite

import (
	"context"
	"sync"

	"github.com/anandk/placement/pkg/models"
)

// Change topics published by mutating repo methods.
type topic int

const (
	topicCompanies topic = iota
	topicApplications
)

// hub fans mutation signals out to live-query subscribers. Signals carry no
// payload; each subscriber re-queries for a fresh snapshot. Sends are
// non-blocking: a subscriber that has not drained its pending signal simply
// coalesces the next one.
type hub struct {
	mu   sync.Mutex
	subs map[topic]map[chan struct{}]struct{}
}

func newHub() *hub {
	return &hub{subs: make(map[topic]map[chan struct{}]struct{})}
}

func (h *hub) subscribe(t topic) chan struct{} {
	h.mu.Lock()
	defer h.mu.Unlock()
	ch := make(chan struct{}, 1)
	if h.subs[t] == nil {
		h.subs[t] = make(map[chan struct{}]struct{})
	}
	h.subs[t][ch] = struct{}{}
	return ch
}

func (h *hub) unsubscribe(t topic, ch chan struct{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs[t], ch)
}

func (h *hub) publish(t topic) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[t] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// WatchActiveCompanies pushes the active-company list on subscription and
// after every company mutation, until ctx is done.
func (r *Repo) WatchActiveCompanies(ctx context.Context) (<-chan []models.Company, error) {
	initial, err := r.ListActiveCompanies(ctx)
	if err != nil {
		return nil, err
	}
	out := make(chan []models.Company, 1)
	out <- initial

	signal := r.hub.subscribe(topicCompanies)
	go func() {
		defer close(out)
		defer r.hub.unsubscribe(topicCompanies, signal)
		for {
			select {
			case <-ctx.Done():
				return
			case <-signal:
				snap, err := r.ListActiveCompanies(ctx)
				if err != nil {
					r.logger.Error("watch companies requery", "err", err)
					continue
				}
				select {
				case out <- snap:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// WatchApplicationsByStudent pushes the student's applications (joined with
// company rows) on subscription and after every application mutation.
func (r *Repo) WatchApplicationsByStudent(ctx context.Context, studentID int64) (<-chan []models.ApplicationWithCompany, error) {
	initial, err := r.ListWithCompanyByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	out := make(chan []models.ApplicationWithCompany, 1)
	out <- initial

	signal := r.hub.subscribe(topicApplications)
	go func() {
		defer close(out)
		defer r.hub.unsubscribe(topicApplications, signal)
		for {
			select {
			case <-ctx.Done():
				return
			case <-signal:
				snap, err := r.ListWithCompanyByStudent(ctx, studentID)
				if err != nil {
					r.logger.Error("watch applications requery", "err", err)
					continue
				}
				select {
				case out <- snap:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
