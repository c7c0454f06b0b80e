package binding

import (
	"context"
)

// State is one snapshot of a watched collection. The first snapshot has
// Loading=true and no records so consumers can distinguish "still loading"
// from "empty". After a failed re-resolution the previous records are kept
// and Err is set (stale-but-available beats a blank screen).
type State[T any] struct {
	Records []T
	Loading bool
	Err     error
}

// Watch establishes the live feed: an initial loading snapshot, then a full
// re-resolution on every change event for the table. The returned stop func
// tears the subscription down; it must be called to avoid leaked callbacks.
func (c *Collection[T]) Watch(ctx context.Context) (<-chan State[T], func()) {
	out := make(chan State[T], 1)
	wctx, cancel := context.WithCancel(ctx)
	kick := make(chan struct{}, 1)

	unsub, err := c.bus.Subscribe(c.table, func() {
		select {
		case kick <- struct{}{}:
		default:
		}
	})
	if err != nil {
		c.log.Warn("watch subscribe failed, feed will not refresh", "error", err)
		unsub = func() {}
	}

	stop := func() {
		cancel()
		unsub()
	}

	go func() {
		defer close(out)

		emit := func(s State[T]) {
			select {
			case out <- s:
			case <-wctx.Done():
			}
		}

		emit(State[T]{Loading: true})

		var last []T
		resolve := func() {
			records, err := c.List(wctx)
			if err != nil {
				if wctx.Err() != nil {
					return
				}
				c.log.Warn("watch re-resolution failed, keeping stale records", "error", err)
				emit(State[T]{Records: last, Err: err})
				return
			}
			last = records
			emit(State[T]{Records: records})
		}

		resolve()
		for {
			select {
			case <-wctx.Done():
				return
			case <-kick:
				resolve()
			}
		}
	}()

	return out, stop
}
