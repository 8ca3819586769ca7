package broadcaster

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"pitwall/log"
)

const writeWait = 10 * time.Second

// Message is the envelope of every update pushed to clients.
type Message struct {
	Type string `json:"type"` // e.g. "season", "session"
	Data any    `json:"data"`
}

// Manages connected browser WebSocket clients and broadcasts messages.
type Broadcaster struct {
	clients map[*websocket.Conn]bool
	sync.Mutex
	upgrader websocket.Upgrader
	logger   *log.Logger
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// atm allow from all origins
				return true
			},
		},
		logger: log.Default().Named("broadcaster"),
	}
}

// HandleConnections upgrades the request and keeps the client registered
// until it disconnects. initial, if set, is sent before any broadcast.
func (b *Broadcaster) HandleConnections(w http.ResponseWriter, r *http.Request, initial *Message) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.logger.Warn("failed to upgrade HTTP to WebSocket", log.ErrorField(err))
		return
	}
	defer conn.Close()

	b.Lock()
	if initial != nil {
		if err := b.write(conn, initial); err != nil {
			b.logger.Warn("error sending initial state",
				log.String("remote", conn.RemoteAddr().String()),
				log.ErrorField(err))
		}
	}
	b.clients[conn] = true
	total := len(b.clients)
	b.Unlock()

	b.logger.Info("client connected",
		log.String("remote", conn.RemoteAddr().String()),
		log.Int("clients", total))

	// Clients don't send anything, ReadMessage returns once they disconnect.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	b.Lock()
	delete(b.clients, conn)
	total = len(b.clients)
	b.Unlock()
	b.logger.Info("client removed",
		log.String("remote", conn.RemoteAddr().String()),
		log.Int("clients", total))
}

// Broadcast sends msg to all connected clients. Clients failing the write
// are dropped.
func (b *Broadcaster) Broadcast(msg Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		b.logger.Error("could not encode message", log.String("type", msg.Type), log.ErrorField(err))
		return
	}

	b.Lock()
	defer b.Unlock()
	for client := range b.clients {
		_ = client.SetWriteDeadline(time.Now().Add(writeWait))
		if err := client.WriteMessage(websocket.TextMessage, payload); err != nil {
			b.logger.Warn("error sending message, dropping client",
				log.String("remote", client.RemoteAddr().String()),
				log.ErrorField(err))
			delete(b.clients, client)
			_ = client.Close()
		}
	}
}

// Clients returns the number of connected clients.
func (b *Broadcaster) Clients() int {
	b.Lock()
	defer b.Unlock()
	return len(b.clients)
}

func (b *Broadcaster) write(conn *websocket.Conn, msg *Message) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(msg)
}
