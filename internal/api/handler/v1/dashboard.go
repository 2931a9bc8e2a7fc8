package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Toms422/trial-master-pro/internal/domain"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Adjust this for production!
	},
}

type feedClient struct {
	conn *websocket.Conn
	send chan []byte
}

type ActivityFeedService interface {
	NewerThan(ctx context.Context, lastID uint, limit int) ([]domain.AuditEntry, error)
}

// DashboardHandler pushes new audit entries to connected dashboards over
// WebSocket. It polls the audit log and broadcasts whatever appeared since
// the last poll; clients only listen.
type DashboardHandler struct {
	svc          ActivityFeedService
	pollInterval time.Duration

	clients      map[*feedClient]struct{}
	clientsMutex sync.RWMutex
	register     chan *feedClient
	unregister   chan *feedClient
	broadcast    chan []byte
}

func NewDashboardHandler(svc ActivityFeedService) *DashboardHandler {
	return &DashboardHandler{
		svc:          svc,
		pollInterval: 2 * time.Second,
		clients:      make(map[*feedClient]struct{}),
		register:     make(chan *feedClient),
		unregister:   make(chan *feedClient),
		broadcast:    make(chan []byte),
	}
}

// Run owns the client set and the audit poller. Call it once, in its own
// goroutine, before mounting the routes.
func (h *DashboardHandler) Run(ctx context.Context) {
	go h.pollAuditLog(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			h.clientsMutex.Lock()
			h.clients[client] = struct{}{}
			h.clientsMutex.Unlock()
		case client := <-h.unregister:
			h.clientsMutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.clientsMutex.Unlock()
		case message := <-h.broadcast:
			h.clientsMutex.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.clientsMutex.Unlock()
		}
	}
}

func (h *DashboardHandler) pollAuditLog(ctx context.Context) {
	ticker := time.NewTicker(h.pollInterval)
	defer ticker.Stop()

	var lastID uint
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		h.clientsMutex.RLock()
		idle := len(h.clients) == 0
		h.clientsMutex.RUnlock()
		if idle {
			continue
		}

		entries, err := h.svc.NewerThan(ctx, lastID, 100)
		if err != nil {
			zap.L().Warn("activity feed poll failed", zap.Error(err))
			continue
		}

		for _, entry := range entries {
			if entry.ID > lastID {
				lastID = entry.ID
			}

			message, err := json.Marshal(map[string]any{
				"type":  "audit_entry",
				"entry": entry,
			})
			if err != nil {
				continue
			}
			h.broadcast <- message
		}
	}
}

// HandleActivityFeed godoc
// @Summary      Subscribe to the live activity feed
// @Description  Upgrades to WebSocket and streams audit entries as they are written.
// @Tags         dashboard
// @Produce      json
// @Success      101 {string}  string "Switching Protocols to WebSocket"
// @Failure      401 {object}  response.Err
// @Failure      500 {object}  response.Err
// @Router       /dashboard/feed [get]
// @Security BearerAuth
func (h *DashboardHandler) HandleActivityFeed(ctx *gin.Context) {
	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		zap.L().Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &feedClient{
		conn: conn,
		send: make(chan []byte, 256),
	}
	h.register <- client

	go client.writePump()
	go client.readPump(h)
}

func (c *feedClient) writePump() {
	defer func() {
		c.conn.Close()
	}()
	for message := range c.send {
		w, err := c.conn.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}
		w.Write(message)
		if err := w.Close(); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// readPump drains the connection so pings and close frames are processed;
// the feed is one-way and inbound payloads are discarded.
func (c *feedClient) readPump(h *DashboardHandler) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				zap.L().Debug("activity feed client closed", zap.Error(err))
			}
			break
		}
	}
}
