// Package sse implements a per-topic publish/subscribe hub used to push
// generation progress to the browser over Server-Sent Events.
package sse

import (
	"sync"

	"go.uber.org/zap"
)

// Event is one message delivered to subscribers of a topic.
type Event struct {
	Name string `json:"event"`
	Data any    `json:"data"`
}

// Hub fans events out to subscribers keyed by topic (a run ID). Slow
// subscribers are dropped rather than allowed to block the publisher.
type Hub struct {
	mu     sync.RWMutex
	topics map[string]map[chan Event]struct{}
	logger *zap.Logger
}

// NewHub creates an empty Hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		topics: make(map[string]map[chan Event]struct{}),
		logger: logger.Named("SSEHub"),
	}
}

// Subscribe registers a new listener on topic. The returned cancel
// function must be called when the client disconnects.
func (h *Hub) Subscribe(topic string) (<-chan Event, func()) {
	ch := make(chan Event, 32)

	h.mu.Lock()
	subs, ok := h.topics[topic]
	if !ok {
		subs = make(map[chan Event]struct{})
		h.topics[topic] = subs
	}
	subs[ch] = struct{}{}
	h.mu.Unlock()

	h.logger.Debug("Subscriber added", zap.String("topic", topic))

	cancel := func() {
		h.mu.Lock()
		if subs, ok := h.topics[topic]; ok {
			if _, present := subs[ch]; present {
				delete(subs, ch)
				close(ch)
			}
			if len(subs) == 0 {
				delete(h.topics, topic)
			}
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers an event to every subscriber of topic. Delivery is
// best-effort: подписчик с переполненным буфером пропускает событие.
func (h *Hub) Publish(topic string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.topics[topic] {
		select {
		case ch <- event:
		default:
			h.logger.Warn("Dropping event for slow subscriber",
				zap.String("topic", topic), zap.String("event", event.Name))
		}
	}
}

// CloseTopic disconnects every subscriber of topic. Used when a run
// reaches a terminal state.
func (h *Hub) CloseTopic(topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.topics[topic]
	if !ok {
		return
	}
	for ch := range subs {
		close(ch)
	}
	delete(h.topics, topic)
	h.logger.Debug("Topic closed", zap.String("topic", topic))
}
