package handlers

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/Dosada05/hackathon-portal/live"
	"github.com/Dosada05/hackathon-portal/services"
	"github.com/gorilla/websocket"
)

type WebSocketHandler struct {
	hub              *live.Hub
	hackathonService services.HackathonService
	upgrader         websocket.Upgrader
	logger           *slog.Logger
}

// NewWebSocketHandler принимает список разрешённых Origin; "*" или пустой список разрешают всех.
func NewWebSocketHandler(hub *live.Hub, hs services.HackathonService, allowedOrigins []string, logger *slog.Logger) *WebSocketHandler {
	h := &WebSocketHandler{
		hub:              hub,
		hackathonService: hs,
		logger:           logger,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || len(allowedOrigins) == 0 || slices.Contains(allowedOrigins, "*") {
				return true
			}
			return slices.Contains(allowedOrigins, origin)
		},
	}
	return h
}

// ServeWs подписывает клиента на события хакатона.
// Клиент подключается к /ws/hackathons/{hackathonID}
//
// @Summary Live-события хакатона (WebSocket)
// @Tags live
// @Param hackathonID path string true "Hackathon ID"
// @Success 101 {string} string "Switching Protocols"
// @Failure 404 {object} map[string]string
// @Router /ws/hackathons/{hackathonID} [get]
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	hackathonID, err := getIDFromURL(r, "hackathonID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if _, err := h.hackathonService.GetByID(r.Context(), hackathonID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade сам отвечает клиенту ошибкой.
		h.logger.Warn("websocket upgrade failed", slog.String("hackathon_id", hackathonID), slog.Any("error", err))
		return
	}

	room := live.RoomForHackathon(hackathonID)
	client := live.NewClient(h.hub, conn, room)
	if !h.hub.Join(client) {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()

	h.logger.Debug("live client joined", slog.String("room", room))
}
