package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/shikhonhub/shikhon-backend/internal/data/binding"
	"github.com/shikhonhub/shikhon-backend/internal/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

func waitEvent(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for event")
		return Event{}
	}
}

func TestHubFansOutBusEvents(t *testing.T) {
	bus := binding.NewLocalBus()
	hub := NewHub(testLogger(t))
	defer hub.Close()

	if err := hub.Attach(bus, "topics", "posts"); err != nil {
		t.Fatalf("attach: %v", err)
	}

	a := hub.Register(uuid.New())
	b := hub.Register(uuid.New())

	if err := bus.Publish(context.Background(), "topics"); err != nil {
		t.Fatalf("publish: %v", err)
	}

	for _, client := range []*Client{a, b} {
		ev := waitEvent(t, client.Outbound)
		if ev.Table != "topics" {
			t.Fatalf("unexpected table: got=%q want=%q", ev.Table, "topics")
		}
	}
}

func TestHubIgnoresUnwatchedTables(t *testing.T) {
	bus := binding.NewLocalBus()
	hub := NewHub(testLogger(t))
	defer hub.Close()

	if err := hub.Attach(bus, "topics"); err != nil {
		t.Fatalf("attach: %v", err)
	}
	client := hub.Register(uuid.New())

	if err := bus.Publish(context.Background(), "videos"); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case ev := <-client.Outbound:
		t.Fatalf("unexpected event for table %q", ev.Table)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestHubUnregisterClosesOutbound(t *testing.T) {
	hub := NewHub(testLogger(t))
	defer hub.Close()

	client := hub.Register(uuid.New())
	hub.Unregister(client)

	if _, ok := <-client.Outbound; ok {
		t.Fatalf("expected outbound channel to be closed")
	}

	// Broadcast after unregister must not panic.
	hub.Broadcast(Event{Table: "topics", At: time.Now().UTC()})
}
