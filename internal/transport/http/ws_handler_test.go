package http

import (
	"context"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/quangngonz/mini-cs50x-answer-api/internal/domain"
)

func TestWebSocketRankingFeed(t *testing.T) {
	server, service := newTestServer(t)
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "/ws/ranking"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Initial board arrives before any writes.
	msg := readRanking(t, conn)
	if len(msg.Payload) != 2 {
		t.Fatalf("expected initial board with 2 teams, got %d", len(msg.Payload))
	}

	if _, err := service.SubmitAnswer(context.Background(), "Team 2", 2, "Paris"); err != nil {
		t.Fatalf("submit: %v", err)
	}

	msg = readRanking(t, conn)
	if msg.Payload[0].TeamID != "Team 2" || msg.Payload[0].Score != 2 {
		t.Fatalf("expected Team 2 leading with 2 points, got %+v", msg.Payload[0])
	}
}

type rankingMessage struct {
	Type    string                `json:"type"`
	Payload []domain.RankingEntry `json:"payload"`
}

func readRanking(t *testing.T, conn *websocket.Conn) rankingMessage {
	t.Helper()
	var msg rankingMessage
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if msg.Type != "ranking" {
		t.Fatalf("expected ranking message, got %s", msg.Type)
	}
	return msg
}
