package http

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/quangngonz/mini-cs50x-answer-api/internal/app"
	"github.com/quangngonz/mini-cs50x-answer-api/internal/domain"
)

// WSHandler streams live leaderboard updates to scoreboard displays.
type WSHandler struct {
	service  *app.ScoreboardService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.ScoreboardService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type outboundMessage struct {
	Type    string                `json:"type"`
	Payload []domain.RankingEntry `json:"payload"`
}

// ServeWS upgrades the request and pushes the current board immediately,
// then a fresh board after every state-changing operation.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	updates, cancel, err := h.service.SubscribeRankings(r.Context())
	if err != nil {
		_ = conn.WriteJSON(map[string]string{"type": "error", "message": err.Error()})
		return
	}
	defer cancel()

	// The reader only exists to notice the peer going away.
	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case entries, ok := <-updates:
			if !ok {
				return
			}
			if err := conn.WriteJSON(outboundMessage{Type: "ranking", Payload: entries}); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		case <-readerDone:
			return
		}
	}
}
