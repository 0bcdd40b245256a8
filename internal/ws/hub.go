package ws

import (
	"encoding/json"
	"sync"

	"go-diamond-ledger/pkg/logger"

	"github.com/gofiber/contrib/websocket"
)

// Event is the message pushed to every connected client after a write.
type Event struct {
	Type   string `json:"type"`
	Action string `json:"action"`
	Data   any    `json:"data,omitempty"`
}

type Hub struct {
	Clients    map[*websocket.Conn]bool
	Register   chan *websocket.Conn
	Unregister chan *websocket.Conn
	Broadcast  chan []byte
	mutex      sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*websocket.Conn]bool),
		Register:   make(chan *websocket.Conn),
		Unregister: make(chan *websocket.Conn),
		Broadcast:  make(chan []byte, 64),
	}
}

func (h *Hub) Run() {
	log := logger.Get()
	for {
		select {
		case conn := <-h.Register:
			h.mutex.Lock()
			h.Clients[conn] = true
			h.mutex.Unlock()
			log.Debug("ws client connected")

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.Clients[conn]; ok {
				delete(h.Clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.Broadcast:
			h.mutex.Lock()
			for conn := range h.Clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					delete(h.Clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// Publish queues ev for broadcast. It never blocks: when the queue is full the
// event is dropped. Safe to call on a nil Hub.
func (h *Hub) Publish(ev Event) {
	if h == nil {
		return
	}
	msg, err := json.Marshal(ev)
	if err != nil {
		logger.LogError(logger.Get(), "ws", "Publish", "marshal event", ev.Type, err)
		return
	}
	select {
	case h.Broadcast <- msg:
	default:
		logger.Get().WithField("type", ev.Type).Warn("ws broadcast queue full, event dropped")
	}
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.Clients)
}
