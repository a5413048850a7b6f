// Package live is the in-memory fan-out of freshly collected samples to
// every connection currently subscribed to a metric's channel. Missed
// events are never redelivered; clients catch up through the history API.
package live

import (
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
)

const DefaultSubscriberBuffer = 16

// Event is one published sample.
type Event struct {
	MetricID snowflake.ID `json:"metric_id"`
	Value    float64      `json:"value"`
	Date     time.Time    `json:"date"`
}

// Hub fans events out to subscribers. Publish is safe to call from
// concurrent per-metric workers; per metric, each subscriber sees events
// in publish order.
type Hub struct {
	mu      sync.RWMutex
	streams map[snowflake.ID]map[*Subscriber]struct{}

	subscriberBuffer int
}

// Subscriber is one live connection's view of the hub. It may join any
// number of metric channels; Close drops all of them.
type Subscriber struct {
	hub  *Hub
	ch   chan Event
	once sync.Once

	mu      sync.Mutex
	metrics map[snowflake.ID]struct{}
}

func NewHub() *Hub {
	return &Hub{
		streams:          make(map[snowflake.ID]map[*Subscriber]struct{}),
		subscriberBuffer: DefaultSubscriberBuffer,
	}
}

// NewSubscriber registers a connection with the hub. The caller owns the
// returned subscriber and must Close it on disconnect.
func (h *Hub) NewSubscriber() *Subscriber {
	return &Subscriber{
		hub:     h,
		ch:      make(chan Event, h.subscriberBuffer),
		metrics: make(map[snowflake.ID]struct{}),
	}
}

// Publish delivers the event to every subscriber of its metric channel.
// Delivery is best-effort: a subscriber whose buffer is full misses the
// event rather than stalling the publisher.
func (h *Hub) Publish(event Event) {
	h.mu.RLock()
	stream := h.streams[event.MetricID]
	subs := make([]*Subscriber, 0, len(stream))
	for sub := range stream {
		subs = append(subs, sub)
	}
	h.mu.RUnlock()

	for _, sub := range subs {
		select {
		case sub.ch <- event:
		default:
		}
	}
}

// SubscriberCount reports how many connections are currently joined to
// the metric's channel.
func (h *Hub) SubscriberCount(metricID snowflake.ID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.streams[metricID])
}

func (h *Hub) join(metricID snowflake.ID, sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	stream := h.streams[metricID]
	if stream == nil {
		stream = make(map[*Subscriber]struct{})
		h.streams[metricID] = stream
	}
	stream[sub] = struct{}{}
}

func (h *Hub) leave(metricID snowflake.ID, sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	stream := h.streams[metricID]
	if stream == nil {
		return
	}
	delete(stream, sub)
	if len(stream) == 0 {
		delete(h.streams, metricID)
	}
}

// Events is the subscriber's delivery channel.
func (s *Subscriber) Events() <-chan Event {
	return s.ch
}

// Subscribe joins the metric's channel; joining twice is a no-op.
func (s *Subscriber) Subscribe(metricID snowflake.ID) {
	s.mu.Lock()
	if _, ok := s.metrics[metricID]; ok {
		s.mu.Unlock()
		return
	}
	s.metrics[metricID] = struct{}{}
	s.mu.Unlock()

	s.hub.join(metricID, s)
}

// Unsubscribe leaves the metric's channel.
func (s *Subscriber) Unsubscribe(metricID snowflake.ID) {
	s.mu.Lock()
	if _, ok := s.metrics[metricID]; !ok {
		s.mu.Unlock()
		return
	}
	delete(s.metrics, metricID)
	s.mu.Unlock()

	s.hub.leave(metricID, s)
}

// Close leaves every joined channel. No memberships survive a disconnect.
func (s *Subscriber) Close() {
	s.once.Do(func() {
		s.mu.Lock()
		joined := make([]snowflake.ID, 0, len(s.metrics))
		for id := range s.metrics {
			joined = append(joined, id)
		}
		s.metrics = make(map[snowflake.ID]struct{})
		s.mu.Unlock()

		for _, id := range joined {
			s.hub.leave(id, s)
		}
	})
}

var Module = fx.Module("live.hub",
	fx.Provide(NewHub),
)
