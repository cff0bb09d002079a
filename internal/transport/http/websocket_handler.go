package http

import (
	"log/slog"
	"net/http"

	gws "github.com/gorilla/websocket"

	ws "growthpulse/internal/websocket"
)

// WebSocketHandler upgrades HTTP connections and hands them to the hub
type WebSocketHandler struct {
	hub      *ws.Hub
	upgrader gws.Upgrader
	logger   *slog.Logger
}

// NewWebSocketHandler creates a new websocket handler. Only the configured
// origins may open a connection.
func NewWebSocketHandler(hub *ws.Hub, allowedOrigins []string, logger *slog.Logger) *WebSocketHandler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}

	return &WebSocketHandler{
		hub: hub,
		upgrader: gws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				// Same-origin requests omit the header.
				return origin == "" || allowed[origin] || allowed["*"]
			},
		},
		logger: logger.With(slog.String("component", "websocket_handler")),
	}
}

// ServeHTTP handles GET /ws
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote an error response.
		h.logger.WarnContext(r.Context(), "websocket upgrade failed",
			slog.String("remote_addr", r.RemoteAddr),
			slog.String("error", err.Error()))
		return
	}

	h.logger.DebugContext(r.Context(), "websocket client connected",
		slog.String("remote_addr", r.RemoteAddr))

	ws.ServeWS(h.hub, conn, h.logger)
}
