package binding

import (
	"context"
	"testing"
	"time"

	"github.com/shikhonhub/shikhon-backend/internal/data/testutil"
	"github.com/shikhonhub/shikhon-backend/internal/domain"
)

func TestLocalBusDeliversAndUnsubscribes(t *testing.T) {
	bus := NewLocalBus()

	got := 0
	unsub, err := bus.Subscribe("topics", func() { got++ })
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	if err := bus.Publish(context.Background(), "topics"); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := bus.Publish(context.Background(), "videos"); err != nil {
		t.Fatalf("publish other table: %v", err)
	}
	if got != 1 {
		t.Fatalf("want 1 delivery, got %d", got)
	}

	unsub()
	if err := bus.Publish(context.Background(), "topics"); err != nil {
		t.Fatalf("publish after unsubscribe: %v", err)
	}
	if got != 1 {
		t.Fatalf("delivered after unsubscribe: got %d", got)
	}
}

func nextState[T any](t *testing.T, ch <-chan State[T]) State[T] {
	t.Helper()
	select {
	case s, ok := <-ch:
		if !ok {
			t.Fatalf("watch channel closed early")
		}
		return s
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for snapshot")
		return State[T]{}
	}
}

func TestCollectionWatchSeesMutations(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	bus := NewLocalBus()
	ctx := context.Background()

	topics := Bind[domain.Topic](tx, bus, testutil.Logger(t), "topics", WithOrder("sort_order", true))

	ch, stop := topics.Watch(ctx)
	defer stop()

	first := nextState(t, ch)
	if !first.Loading {
		t.Fatalf("first snapshot should be loading")
	}
	loaded := nextState(t, ch)
	if loaded.Loading || loaded.Err != nil {
		t.Fatalf("unexpected initial resolve state: %+v", loaded)
	}
	before := len(loaded.Records)

	if _, err := topics.Add(ctx, nil, &domain.Topic{Name: "Bangla Basics", Order: 1}); err != nil {
		t.Fatalf("add topic: %v", err)
	}

	after := nextState(t, ch)
	if len(after.Records) != before+1 {
		t.Fatalf("want %d records after add, got %d", before+1, len(after.Records))
	}
}

func TestCollectionAddRoundTripsUTCDates(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	events := Bind[domain.Event](tx, NewLocalBus(), testutil.Logger(t), "events")

	loc := time.FixedZone("BDT", 6*60*60)
	local := time.Date(2025, 8, 10, 20, 0, 0, 0, loc)
	id, err := events.Add(ctx, nil, &domain.Event{
		Title: "Live class",
		Date:  local,
		Type:  domain.EventTypeLive,
	})
	if err != nil {
		t.Fatalf("add event: %v", err)
	}

	got, err := events.Get(ctx, id)
	if err != nil {
		t.Fatalf("get event: %v", err)
	}
	if !got.Date.Equal(local) {
		t.Fatalf("date instant changed: want %v, got %v", local, got.Date)
	}
}

func TestCollectionRemoveIsIdempotent(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	topics := Bind[domain.Topic](tx, NewLocalBus(), testutil.Logger(t), "topics")

	id, err := topics.Add(ctx, nil, &domain.Topic{Name: "To delete"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := topics.Remove(ctx, nil, id); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := topics.Remove(ctx, nil, id); err != nil {
		t.Fatalf("second remove should be a no-op: %v", err)
	}
}
