package live

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"
)

type Handler struct {
	hub            *Hub
	items          Items
	originPatterns []string
}

// NewHandler serves live editor sessions. originPatterns are host patterns
// accepted for cross-origin upgrades.
func NewHandler(hub *Hub, items Items, originPatterns []string) *Handler {
	return &Handler{hub: hub, items: items, originPatterns: originPatterns}
}

// ServeHTTP upgrades the request and runs a session until the connection
// closes. An itemId query parameter opens that saved item.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.originPatterns,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	session := NewSession(h.hub, conn, h.items, uuid.New().String())
	if err := h.hub.Register(session); err != nil {
		conn.Close(websocket.StatusGoingAway, "server shutting down")
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	go session.WritePump(ctx)
	session.Start(ctx, r.URL.Query().Get("itemId"))
	session.ReadPump(ctx)
}
