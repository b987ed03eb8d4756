package webui

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/yuin/goldmark"

	"github.com/minpaixinyu/minpai/internal/chat"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// chatRequest is the incoming WebSocket message format.
type chatRequest struct {
	Type    string `json:"type"` // "message" or "export"
	Content string `json:"content"`
}

// chatResponse is the outgoing WebSocket message format. HTML carries the
// markdown-rendered answer for direct insertion into the page.
type chatResponse struct {
	Type    string `json:"type"` // "response", "export" or "error"
	Content string `json:"content"`
	HTML    string `json:"html,omitempty"`
}

// handleChatWS relays browser chat over one WebSocket connection. Each
// connection gets its own conversation, greeting included, mirroring a
// fresh chat widget.
func (s *Server) handleChatWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("webui: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	ctrl := chat.New(s.client)

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("webui: websocket read: %v", err)
			}
			return
		}

		var req chatRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			sendWSError(conn, "invalid message format")
			continue
		}

		switch req.Type {
		case "message":
			if req.Content == "" {
				sendWSError(conn, "content is required")
				continue
			}
			s.handleChatMessage(conn, r, ctrl, req)
		case "export":
			s.handleChatExport(conn, ctrl)
		default:
			sendWSError(conn, "unknown message type: "+req.Type)
		}
	}
}

func (s *Server) handleChatMessage(conn *websocket.Conn, r *http.Request, ctrl *chat.Controller, req chatRequest) {
	turn, err := ctrl.Send(r.Context(), req.Content)
	if err != nil {
		sendWSError(conn, err.Error())
		return
	}
	ctrl.MarkRevealed(turn.ID)

	var rendered bytes.Buffer
	if err := goldmark.Convert([]byte(turn.Text), &rendered); err != nil {
		log.Printf("webui: rendering answer: %v", err)
	}

	sendWSResponse(conn, chatResponse{
		Type:    "response",
		Content: turn.Text,
		HTML:    rendered.String(),
	})
}

func (s *Server) handleChatExport(conn *websocket.Conn, ctrl *chat.Controller) {
	var buf bytes.Buffer
	if err := ctrl.Export(&buf); err != nil {
		sendWSError(conn, "export failed: "+err.Error())
		return
	}
	sendWSResponse(conn, chatResponse{
		Type:    "export",
		Content: buf.String(),
	})
}

func sendWSResponse(conn *websocket.Conn, resp chatResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		log.Printf("webui: websocket write: %v", err)
	}
}

func sendWSError(conn *websocket.Conn, message string) {
	resp := chatResponse{
		Type:    "error",
		Content: message,
	}
	if err := conn.WriteJSON(resp); err != nil {
		log.Printf("webui: websocket write error: %v", err)
	}
}
