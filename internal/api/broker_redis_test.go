package api

import (
	"os"
	"testing"
	"time"
)

// Requires a live Redis; set REDIS_URL (e.g. redis://localhost:6379/0).
func TestRedisBrokerUnsubscribe(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}
	b, err := NewRedisBroker(url)
	if err != nil {
		t.Fatalf("NewRedisBroker: %v", err)
	}
	topic := runTopic("t_demo", "r_redis")
	ch := b.Subscribe(topic)

	b.Publish(topic, SSEEvent{Type: "run.pass", Data: map[string]any{"pass": float64(1)}})
	select {
	case evt := <-ch:
		if evt.Type != "run.pass" {
			t.Fatalf("event type: %s", evt.Type)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("event never delivered")
	}

	b.Unsubscribe(topic, ch)
	// publishing after unsubscribe must not panic
	b.Publish(topic, SSEEvent{Type: "run.pass", Data: map[string]any{"pass": float64(2)}})

	// the forwarding goroutine closes the channel once the pubsub shuts down
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("channel never closed after unsubscribe")
		}
	}
}
