package notify

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestHub_BroadcastsToSubscribers(t *testing.T) {
	hub := NewHub(zerolog.Nop())

	ch1, cancel1 := hub.Subscribe()
	defer cancel1()
	ch2, cancel2 := hub.Subscribe()
	defer cancel2()

	hub.Notify("Bought 2 BTC for $134,857.00")

	for _, ch := range []<-chan Notification{ch1, ch2} {
		select {
		case n := <-ch:
			assert.Equal(t, "Bought 2 BTC for $134,857.00", n.Message)
			assert.False(t, n.Time.IsZero())
		case <-time.After(time.Second):
			t.Fatal("expected notification")
		}
	}
}

func TestHub_CancelStopsDelivery(t *testing.T) {
	hub := NewHub(zerolog.Nop())

	ch, cancel := hub.Subscribe()
	cancel()

	hub.Notify("after cancel")

	select {
	case n, ok := <-ch:
		if ok {
			t.Fatalf("unexpected notification: %v", n)
		}
	default:
	}
}

func TestHub_SlowSubscriberDoesNotBlock(t *testing.T) {
	hub := NewHub(zerolog.Nop())

	_, cancel := hub.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		// Overflow the subscriber buffer; Notify must never block.
		for i := 0; i < subscriberBuffer*2; i++ {
			hub.Notify("spam")
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Notify blocked on a slow subscriber")
	}
}
