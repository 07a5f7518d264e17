package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestPublishQueuesReloadEvent(t *testing.T) {
	h := NewHub(zap.NewNop())
	h.Publish(Event{Resource: "products", Action: "created", ID: "42"})

	select {
	case msg := <-h.broadcast:
		var e Event
		if err := json.Unmarshal(msg, &e); err != nil {
			t.Fatal(err)
		}
		if e.Type != EventReload || e.Resource != "products" || e.ID != "42" {
			t.Errorf("unexpected event: %+v", e)
		}
	default:
		t.Fatal("event was not queued")
	}
}

func TestPublishNeverBlocks(t *testing.T) {
	h := NewHub(zap.NewNop())
	for i := 0; i < cap(h.broadcast)+10; i++ {
		h.Publish(Event{Resource: "outputs"})
	}
	if len(h.broadcast) != cap(h.broadcast) {
		t.Errorf("queue length = %d, want %d", len(h.broadcast), cap(h.broadcast))
	}
}

func TestJoinAndLeaveReturnAfterRunStops(t *testing.T) {
	h := NewHub(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(stopped)
	}()

	h.Leave(nil)
	cancel()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}

	returned := make(chan bool, 1)
	go func() {
		h.Leave(nil)
		returned <- h.Join(nil)
	}()
	select {
	case joined := <-returned:
		if joined {
			t.Error("Join registered a client on a stopped hub")
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("Join or Leave blocked after Run returned")
	}
	if h.Clients() != 0 {
		t.Errorf("clients = %d, want 0", h.Clients())
	}
}
