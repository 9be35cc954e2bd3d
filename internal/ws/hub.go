package ws

import (
	"context"
	"encoding/json"
	"sync"

	"printshop-orders/internal/service"
	"printshop-orders/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Subscription registers a connection. A Nil BranchID receives every event,
// otherwise only events of that branch.
type Subscription struct {
	Conn     Conn
	BranchID uuid.UUID
}

type message struct {
	branchID uuid.UUID
	payload  []byte
}

// broadcastBuffer bounds how many events may wait for Run before Notify
// starts dropping them.
const broadcastBuffer = 256

type Hub struct {
	Clients    map[Conn]uuid.UUID
	Register   chan Subscription
	Unregister chan Conn
	Broadcast  chan message
	done       chan struct{}
	mutex      sync.Mutex
	logger     *logger.Logger
}

var _ service.Notifier = (*Hub)(nil)

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		Clients:    make(map[Conn]uuid.UUID),
		Register:   make(chan Subscription),
		Unregister: make(chan Conn),
		Broadcast:  make(chan message, broadcastBuffer),
		done:       make(chan struct{}),
		logger:     log.WithComponent("ws_hub"),
	}
}

// Notify queues a committed event for every interested client. Events keep
// the order of the Notify calls. It never blocks the caller: once the queue
// is full or the hub has stopped, the event is dropped.
func (h *Hub) Notify(event service.Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("Failed to encode event", "type", event.Type, "order_id", event.OrderID, "error", err)
		return
	}
	select {
	case <-h.done:
		return
	default:
	}
	select {
	case h.Broadcast <- message{branchID: event.BranchID, payload: payload}:
	case <-h.done:
	default:
		h.logger.Warn("WS queue full, dropping event", "type", event.Type, "order_id", event.OrderID)
	}
}

// Subscribe hands conn to Run. It returns false when the hub has stopped,
// in which case the caller still owns conn.
func (h *Hub) Subscribe(sub Subscription) bool {
	select {
	case h.Register <- sub:
		return true
	case <-h.done:
		return false
	}
}

// Leave detaches conn. After the hub has stopped it returns at once.
func (h *Hub) Leave(conn Conn) {
	select {
	case h.Unregister <- conn:
	case <-h.done:
	}
}

// Done is closed once Run has returned.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// Run serves the hub until ctx is done, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for conn := range h.Clients {
				conn.Close()
				delete(h.Clients, conn)
			}
			h.mutex.Unlock()
			return

		case sub := <-h.Register:
			h.mutex.Lock()
			h.Clients[sub.Conn] = sub.BranchID
			h.mutex.Unlock()
			h.logger.Debug("WS client connected", "branch_id", sub.BranchID)

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.Clients[conn]; ok {
				delete(h.Clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case msg := <-h.Broadcast:
			h.mutex.Lock()
			for conn, branch := range h.Clients {
				if branch != uuid.Nil && branch != msg.branchID {
					continue
				}
				if err := conn.WriteMessage(websocket.TextMessage, msg.payload); err != nil {
					conn.Close()
					delete(h.Clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.Clients)
}
