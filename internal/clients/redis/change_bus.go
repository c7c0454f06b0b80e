package redis

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/shikhonhub/shikhon-backend/internal/data/binding"
	"github.com/shikhonhub/shikhon-backend/internal/pkg/logger"
)

// ChangeBus is the redis-backed binding.ChangeBus. Table-change events fan
// out over a single pub/sub channel so every instance re-resolves its watched
// collections, whichever instance performed the write.
type ChangeBus struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
	local   *binding.LocalBus
}

var _ binding.ChangeBus = (*ChangeBus)(nil)

func NewChangeBus(log *logger.Logger) (*ChangeBus, error) {
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	ch := strings.TrimSpace(os.Getenv("REDIS_CHANNEL"))
	if ch == "" {
		ch = "collection-changes"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &ChangeBus{
		log:     log.With("service", "RedisChangeBus"),
		rdb:     rdb,
		channel: ch,
		local:   binding.NewLocalBus(),
	}, nil
}

// Start begins forwarding remote events to local subscribers. It must be
// called once before any watcher is useful.
func (b *ChangeBus) Start(ctx context.Context) error {
	sub := b.rdb.Subscribe(ctx, b.channel)

	// ensures the subscription actually started
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close()
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					_ = sub.Close()
					return
				}
				if err := b.local.Publish(ctx, m.Payload); err != nil {
					b.log.Warn("local dispatch failed", "table", m.Payload, "error", err)
				}
			}
		}
	}()

	return nil
}

func (b *ChangeBus) Publish(ctx context.Context, table string) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis change bus not initialized")
	}
	return b.rdb.Publish(ctx, b.channel, table).Err()
}

func (b *ChangeBus) Subscribe(table string, fn func()) (func(), error) {
	return b.local.Subscribe(table, fn)
}

func (b *ChangeBus) Close() error {
	if b == nil || b.rdb == nil {
		return nil
	}
	return b.rdb.Close()
}
