package sse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestHub_PublishReachesSubscribers(t *testing.T) {
	hub := NewHub(zap.NewNop())

	ch1, cancel1 := hub.Subscribe("run-1")
	ch2, cancel2 := hub.Subscribe("run-1")
	defer cancel1()
	defer cancel2()

	other, cancelOther := hub.Subscribe("run-2")
	defer cancelOther()

	hub.Publish("run-1", Event{Name: "progress", Data: "Designing the cover..."})

	for _, ch := range []<-chan Event{ch1, ch2} {
		select {
		case ev := <-ch:
			assert.Equal(t, "progress", ev.Name)
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive the event")
		}
	}

	select {
	case <-other:
		t.Fatal("event leaked across topics")
	default:
	}
}

func TestHub_CancelStopsDelivery(t *testing.T) {
	hub := NewHub(zap.NewNop())

	ch, cancel := hub.Subscribe("run-1")
	cancel()

	// Канал закрыт, публикация после отписки не паникует.
	hub.Publish("run-1", Event{Name: "progress"})

	_, open := <-ch
	assert.False(t, open)

	// Double cancel is safe.
	cancel()
}

func TestHub_CloseTopic(t *testing.T) {
	hub := NewHub(zap.NewNop())

	ch, cancel := hub.Subscribe("run-1")
	hub.CloseTopic("run-1")

	_, open := <-ch
	assert.False(t, open)

	// Cancel after CloseTopic must not panic on the closed channel.
	cancel()
}

func TestHub_SlowSubscriberDoesNotBlock(t *testing.T) {
	hub := NewHub(zap.NewNop())

	_, cancel := hub.Subscribe("run-1")
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			hub.Publish("run-1", Event{Name: "progress", Data: i})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publisher blocked on a slow subscriber")
	}
}
