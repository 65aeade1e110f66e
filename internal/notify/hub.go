package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/leettrack/leettrack/pkg/logger"
	"github.com/leettrack/leettrack/pkg/metrics"
)

type EventType string

const (
	EventProblemAdded    EventType = "problem_added"
	EventProgressUpdate  EventType = "progress_update"
	EventProgressCleared EventType = "progress_cleared"
)

// Event is one progress notification pushed to the owning user's
// subscribers. Events never cross user boundaries.
type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	UserID    string                 `json:"user_id"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

// Subscriber receives events for a single user. Reads happen on C; a
// subscriber that falls behind has events dropped rather than blocking
// publishers.
type Subscriber struct {
	UserID string
	C      chan Event
}

// Hub fans progress events out to per-user subscribers. Everything is
// in-process; there is no cross-instance delivery.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[*Subscriber]struct{}
	log  *logger.Logger
}

func NewHub() *Hub {
	return &Hub{
		subs: make(map[string]map[*Subscriber]struct{}),
		log:  logger.GetLogger().WithContext("component", "notify_hub"),
	}
}

func (h *Hub) Subscribe(userID string) *Subscriber {
	sub := &Subscriber{
		UserID: userID,
		C:      make(chan Event, 16),
	}

	h.mu.Lock()
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[*Subscriber]struct{})
	}
	h.subs[userID][sub] = struct{}{}
	total := h.count()
	h.mu.Unlock()

	metrics.SetActiveSubscribers(int64(total))
	return sub
}

func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	if set, ok := h.subs[sub.UserID]; ok {
		if _, ok := set[sub]; ok {
			delete(set, sub)
			close(sub.C)
		}
		if len(set) == 0 {
			delete(h.subs, sub.UserID)
		}
	}
	total := h.count()
	h.mu.Unlock()

	metrics.SetActiveSubscribers(int64(total))
}

// Publish delivers the event to every subscriber of its user. Delivery is
// best-effort: a full subscriber buffer drops the event.
func (h *Hub) Publish(evt Event) {
	if evt.ID == "" {
		evt.ID = uuid.NewString()
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subs[evt.UserID] {
		select {
		case sub.C <- evt:
			metrics.IncrementEventsBroadcast()
		default:
			h.log.Warn("subscriber_buffer_full", "user_id", evt.UserID, "event_type", string(evt.Type))
		}
	}
}

// count assumes h.mu is held.
func (h *Hub) count() int {
	total := 0
	for _, set := range h.subs {
		total += len(set)
	}
	return total
}
