package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/petanque-manager/brackets"
	"github.com/Dosada05/petanque-manager/services"
	"github.com/gorilla/websocket"
)

type WebSocketHandler struct {
	hub               *brackets.Hub
	tournamentService services.TournamentService
	upgrader          websocket.Upgrader
	logger            *slog.Logger
}

// NewWebSocketHandler accepts connections from allowedOrigins; "*" allows any.
func NewWebSocketHandler(hub *brackets.Hub, ts services.TournamentService, allowedOrigins []string, logger *slog.Logger) *WebSocketHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebSocketHandler{
		hub:               hub,
		tournamentService: ts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		logger: logger,
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || o == origin {
				return true
			}
		}
		return false
	}
}

// ServeWs подписывает клиента на события турнира.
// Клиент подключается к /ws/tournaments/{tournamentID}
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	// Комнату создаём только для существующего турнира.
	if _, err := h.tournamentService.GetTournament(r.Context(), tournamentID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade сам отправляет HTTP ошибку клиенту.
		h.logger.Warn("websocket upgrade failed", slog.Int("tournament_id", tournamentID), slog.Any("error", err))
		return
	}

	client := &brackets.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
		Room: brackets.RoomForTournament(tournamentID),
	}
	if !h.hub.Join(client) {
		h.logger.Debug("hub stopped, dropping websocket client", slog.String("room", client.Room))
		_ = conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()

	h.logger.Debug("websocket client connected", slog.String("room", client.Room))
}
