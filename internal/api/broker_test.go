package api

import (
	"testing"
	"time"
)

func TestBrokerPublishSubscribe(t *testing.T) {
	b := NewBroker()
	rid := "r1"
	ch := b.Subscribe(rid)
	defer func() { recover() }() // ignore close panic if already closed

	evt := SSEEvent{Type: "run.pass", Data: map[string]any{"pass": 1}}
	b.Publish(rid, evt)

	select {
	case got := <-ch:
		if got.Type != evt.Type {
			t.Fatalf("got type %s, want %s", got.Type, evt.Type)
		}
		if got.Data["pass"].(int) != 1 {
			t.Fatalf("bad payload: %+v", got.Data)
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatal("timeout waiting for event")
	}

	b.Unsubscribe(rid, ch)
	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("channel should be closed after unsubscribe")
		}
	case <-time.After(50 * time.Millisecond):
		// acceptable if already drained and closed
	}
}

func TestBrokerIsolatesRuns(t *testing.T) {
	b := NewBroker()
	ch1 := b.Subscribe("r1")
	ch2 := b.Subscribe("r2")
	defer b.Unsubscribe("r1", ch1)
	defer b.Unsubscribe("r2", ch2)

	b.Publish("r1", SSEEvent{Type: "run.pass"})
	select {
	case <-ch2:
		t.Fatal("event leaked to another run's subscribers")
	case <-time.After(50 * time.Millisecond):
	}
	select {
	case <-ch1:
	case <-time.After(200 * time.Millisecond):
		t.Fatal("subscriber for the published run got nothing")
	}
}
