package ws

import (
	"log/slog"
	"sync"
)

// Topics published by the services.
const (
	TopicProducts      = "products"
	TopicStock         = "stock"
	TopicCashMovements = "cash_movements"
)

// Message is one published snapshot.
type Message struct {
	Topic string `json:"topic"`
	Data  any    `json:"data"`
}

// Hub is an in-process publish/subscribe bus. Subscribers are called synchronously, in no
// particular order, on the publishing goroutine.
type Hub struct {
	mutex  sync.RWMutex
	nextID uint64
	topics map[string]map[uint64]func(Message)
	log    *slog.Logger
}

// Subscription is the handle returned by Subscribe.
type Subscription struct {
	hub   *Hub
	topic string
	id    uint64
	once  sync.Once
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		topics: make(map[string]map[uint64]func(Message)),
		log:    logger,
	}
}

func (h *Hub) Subscribe(topic string, fn func(Message)) *Subscription {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.nextID++
	subs, ok := h.topics[topic]
	if !ok {
		subs = make(map[uint64]func(Message))
		h.topics[topic] = subs
	}
	subs[h.nextID] = fn
	return &Subscription{hub: h, topic: topic, id: h.nextID}
}

// Cancel stops delivery. Calling it more than once is a no-op.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.hub.mutex.Lock()
		defer s.hub.mutex.Unlock()
		if subs, ok := s.hub.topics[s.topic]; ok {
			delete(subs, s.id)
			if len(subs) == 0 {
				delete(s.hub.topics, s.topic)
			}
		}
	})
}

// Publish delivers data to every current subscriber of topic. A panicking subscriber is
// logged and does not stop delivery to the others.
func (h *Hub) Publish(topic string, data any) {
	h.mutex.RLock()
	fns := make([]func(Message), 0, len(h.topics[topic]))
	for _, fn := range h.topics[topic] {
		fns = append(fns, fn)
	}
	h.mutex.RUnlock()

	msg := Message{Topic: topic, Data: data}
	for _, fn := range fns {
		h.deliver(fn, msg)
	}
}

func (h *Hub) deliver(fn func(Message), msg Message) {
	defer func() {
		if r := recover(); r != nil {
			h.log.Error("subscriber panicked", "topic", msg.Topic, "panic", r)
		}
	}()
	fn(msg)
}

// Subscribers returns how many subscribers topic has.
func (h *Hub) Subscribers(topic string) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.topics[topic])
}
