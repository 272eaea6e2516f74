package service

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/tieubaoca/docqa-be/types"
)

const (
	TypeWebsocketQuestion = "question"
	TypeWebsocketAnswer   = "answer"
	TypeWebsocketError    = "error"
)

type websocketMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type websocketReply struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
	Message string      `json:"message,omitempty"`
}

// WebSocketService runs a question/answer loop over one connection.
type WebSocketService struct {
	rag      *RAGService
	upgrader websocket.Upgrader
}

func NewWebSocketService(rag *RAGService) *WebSocketService {
	return &WebSocketService{
		rag: rag,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins (adjust for production)
			},
		},
	}
}

func (s *WebSocketService) HandleChat(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("Upgrade error:", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(512 * 1024) // 512KB max message size
	conn.SetReadDeadline(time.Now().Add(5 * time.Minute))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(5 * time.Minute))
		return nil
	})

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	for {
		var msg websocketMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			return
		}
		if msg.Type != TypeWebsocketQuestion {
			continue
		}

		var req types.AskRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			conn.WriteJSON(websocketReply{Type: TypeWebsocketError, Message: "invalid question payload"})
			continue
		}

		answer, err := s.rag.Answer(ctx, req.Question)
		if err != nil {
			conn.WriteJSON(websocketReply{Type: TypeWebsocketError, Message: err.Error()})
			continue
		}
		if err := conn.WriteJSON(websocketReply{Type: TypeWebsocketAnswer, Payload: answer}); err != nil {
			log.Printf("WebSocket write error: %v", err)
			return
		}
	}
}
