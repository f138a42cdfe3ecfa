package ws

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHub_PublishReachesOnlyTopicSubscribers(t *testing.T) {
	h := NewHub(nil)

	var stock, products []Message
	h.Subscribe(TopicStock, func(m Message) { stock = append(stock, m) })
	h.Subscribe(TopicProducts, func(m Message) { products = append(products, m) })

	h.Publish(TopicStock, []string{"Pão"})

	if assert.Len(t, stock, 1) {
		assert.Equal(t, TopicStock, stock[0].Topic)
		assert.Equal(t, []string{"Pão"}, stock[0].Data)
	}
	assert.Empty(t, products)
}

func TestHub_CancelStopsDelivery(t *testing.T) {
	h := NewHub(nil)

	calls := 0
	sub := h.Subscribe(TopicStock, func(Message) { calls++ })
	h.Publish(TopicStock, nil)

	sub.Cancel()
	sub.Cancel()
	h.Publish(TopicStock, nil)

	assert.Equal(t, 1, calls)
	assert.Zero(t, h.Subscribers(TopicStock))
}

func TestHub_PanickingSubscriberDoesNotBlockOthers(t *testing.T) {
	h := NewHub(nil)

	delivered := false
	h.Subscribe(TopicStock, func(Message) { panic("boom") })
	h.Subscribe(TopicStock, func(Message) { delivered = true })

	assert.NotPanics(t, func() { h.Publish(TopicStock, nil) })
	assert.True(t, delivered)
}

func TestHub_ConcurrentSubscribeAndPublish(t *testing.T) {
	h := NewHub(nil)

	var mu sync.Mutex
	count := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			sub := h.Subscribe(TopicCashMovements, func(Message) {
				mu.Lock()
				count++
				mu.Unlock()
			})
			sub.Cancel()
		}()
		go func() {
			defer wg.Done()
			h.Publish(TopicCashMovements, nil)
		}()
	}
	wg.Wait()

	assert.Zero(t, h.Subscribers(TopicCashMovements))
}
