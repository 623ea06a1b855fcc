package handlers

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/lexypaul13/DegenTrader-sub000/internal/models"
	"github.com/lexypaul13/DegenTrader-sub000/pkg/logger"
)

// PortfolioBroadcaster pushes portfolio updates to connected websocket
// clients. It is the sink for the wallet service's change notifications.
type PortfolioBroadcaster struct {
	clients  map[*websocket.Conn]struct{}
	mu       sync.Mutex
	upgrader websocket.Upgrader
}

// NewPortfolioBroadcaster creates an empty broadcaster.
func NewPortfolioBroadcaster() *PortfolioBroadcaster {
	return &PortfolioBroadcaster{
		clients:  make(map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
	}
}

// Broadcast sends the update to every connected client. Clients that fail a
// write are dropped.
func (b *PortfolioBroadcaster) Broadcast(update models.PortfolioUpdate) {
	log := logger.GetLogger()

	msg, err := json.Marshal(update)
	if err != nil {
		log.Error("Failed to encode portfolio update", zap.Error(err))
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for conn := range b.clients {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			log.Warn("Dropping websocket client after write failure", zap.Error(err))
			conn.Close()
			delete(b.clients, conn)
		}
	}
}

// ClientCount returns the number of connected clients.
func (b *PortfolioBroadcaster) ClientCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.clients)
}

// Handle upgrades GET /ws/portfolio requests and registers the client.
func (b *PortfolioBroadcaster) Handle(c *gin.Context) {
	log := logger.GetLogger().WithContext(c.Request.Context())

	conn, err := b.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn("Websocket upgrade failed", zap.Error(err))
		return
	}

	b.mu.Lock()
	b.clients[conn] = struct{}{}
	count := len(b.clients)
	b.mu.Unlock()
	log.Info("Websocket client connected", zap.Int("client_count", count))

	// Drain the read side until the client disconnects.
	go func() {
		defer func() {
			b.mu.Lock()
			delete(b.clients, conn)
			b.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Close disconnects every client.
func (b *PortfolioBroadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for conn := range b.clients {
		conn.Close()
		delete(b.clients, conn)
	}
}
