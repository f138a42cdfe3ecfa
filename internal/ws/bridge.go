package ws

import (
	"context"
	"encoding/json"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

const clientBuffer = 16

// Feed subscribes fn to a topic and delivers the topic's current state before returning.
type Feed func(ctx context.Context, fn func(Message)) (*Subscription, error)

// UpgradeRequired rejects plain HTTP requests on the websocket route.
func UpgradeRequired(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return c.SendStatus(fiber.StatusUpgradeRequired)
}

// Handler bridges a websocket client to one hub topic (?topic=stock). Topics with a feed start
// with the current snapshot; others only see later publishes. Snapshots are written as JSON
// text frames and a client that falls behind misses intermediate snapshots.
func Handler(h *Hub, feeds map[string]Feed) fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		topic := c.Query("topic", TopicStock)
		out := make(chan []byte, clientBuffer)

		deliver := func(msg Message) {
			payload, err := json.Marshal(msg)
			if err != nil {
				h.log.Error("failed to encode snapshot", "topic", msg.Topic, "error", err)
				return
			}
			select {
			case out <- payload:
			default:
			}
		}

		sub, err := subscribe(h, feeds[topic], topic, deliver)
		if err != nil {
			h.log.Error("ws subscribe failed", "topic", topic, "error", err)
			return
		}
		defer sub.Cancel()

		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				// Keep alive loop
				if _, _, err := c.ReadMessage(); err != nil {
					return
				}
			}
		}()

		h.log.Info("ws client connected", "topic", topic)
		for {
			select {
			case payload := <-out:
				if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
					return
				}
			case <-done:
				h.log.Info("ws client disconnected", "topic", topic)
				return
			}
		}
	})
}

func subscribe(h *Hub, feed Feed, topic string, fn func(Message)) (*Subscription, error) {
	if feed == nil {
		return h.Subscribe(topic, fn), nil
	}
	return feed(context.Background(), fn)
}
