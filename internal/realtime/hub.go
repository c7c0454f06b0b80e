package realtime

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shikhonhub/shikhon-backend/internal/data/binding"
	"github.com/shikhonhub/shikhon-backend/internal/pkg/logger"
)

// Event is one collection-change notification pushed to connected clients.
type Event struct {
	Table string    `json:"table"`
	At    time.Time `json:"at"`
}

type Client struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	Outbound chan Event
}

// Hub fans collection-change events out to every connected SSE client. A
// slow client drops events rather than blocking the rest.
type Hub struct {
	mu      sync.RWMutex
	log     *logger.Logger
	clients map[*Client]bool
	unsubs  []func()
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		log:     log.With("component", "RealtimeHub"),
		clients: make(map[*Client]bool),
	}
}

// Attach subscribes the hub to change events for the given tables.
func (h *Hub) Attach(bus binding.ChangeBus, tables ...string) error {
	for _, table := range tables {
		t := table
		unsub, err := bus.Subscribe(t, func() {
			h.Broadcast(Event{Table: t, At: time.Now().UTC()})
		})
		if err != nil {
			return err
		}
		h.mu.Lock()
		h.unsubs = append(h.unsubs, unsub)
		h.mu.Unlock()
	}
	return nil
}

func (h *Hub) Register(userID uuid.UUID) *Client {
	client := &Client{
		ID:       uuid.New(),
		UserID:   userID,
		Outbound: make(chan Event, 16),
	}
	h.mu.Lock()
	h.clients[client] = true
	h.mu.Unlock()
	h.log.Debug("sse client connected", "client_id", client.ID, "user_id", userID)
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	if h.clients[client] {
		delete(h.clients, client)
		close(client.Outbound)
	}
	h.mu.Unlock()
	h.log.Debug("sse client disconnected", "client_id", client.ID)
}

func (h *Hub) Broadcast(ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		select {
		case client.Outbound <- ev:
		default:
			h.log.Debug("dropping event for slow sse client", "client_id", client.ID, "table", ev.Table)
		}
	}
}

func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, unsub := range h.unsubs {
		unsub()
	}
	h.unsubs = nil
	for client := range h.clients {
		delete(h.clients, client)
		close(client.Outbound)
	}
}
