package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"carsearch/internal/model"
	"carsearch/internal/service"
)

// Client is one live WebSocket connection with its conversation session and
// bounded search history.
type Client struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
	room    string
	user    string
	session *service.Session
	history service.SearchHistory
}

// Send writes a JSON frame to the peer. Safe for concurrent use.
func (c *Client) Send(frame any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(frame)
}

// WebSocketHandler upgrades HTTP requests and runs the protocol loop.
type WebSocketHandler struct {
	hub        *Hub
	dispatcher *MCPDispatcher
	extractor  *service.Extractor
	searcher   service.CarSearcher
	logger     *zap.Logger
	upgrader   websocket.Upgrader
}

// NewWebSocketHandler creates the gateway handler.
func NewWebSocketHandler(hub *Hub, dispatcher *MCPDispatcher, extractor *service.Extractor, searcher service.CarSearcher, logger *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:        hub,
		dispatcher: dispatcher,
		extractor:  extractor,
		searcher:   searcher,
		logger:     logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Origin policy is enforced by the CORS layer in front.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// assignRoom resolves the room for a connection: authenticated users get a
// private room, anonymous peers fall back through their identifiers, and
// everyone else shares the general room.
func assignRoom(userID, anonID, sessionKey string) (room, user string) {
	switch {
	case userID != "":
		return "user_" + userID, "user_" + userID
	case anonID != "":
		return "anonymous_" + anonID, "anonymous"
	case sessionKey != "":
		return "anonymous_" + sessionKey, "anonymous"
	default:
		return "general", "anonymous"
	}
}

// Handle upgrades the request and serves frames until the peer disconnects.
func (h *WebSocketHandler) Handle(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	userID := c.GetHeader("X-User-ID")
	if userID == "" {
		userID = c.Query("user_id")
	}
	anonID, _ := c.Cookie("anon_id")
	if anonID == "" {
		anonID = c.Query("anon_id")
	}
	sessionKey, _ := c.Cookie("sessionid")
	if sessionKey == "" {
		sessionKey = c.Query("session_key")
	}
	room, user := assignRoom(userID, anonID, sessionKey)

	client := &Client{
		conn:    conn,
		room:    room,
		user:    user,
		session: service.NewSession(h.extractor, h.searcher, h.logger),
	}

	h.hub.Register(client)
	defer func() {
		h.hub.Unregister(client)
		conn.Close()
	}()

	welcome := model.Welcome{
		Type:             model.FrameWelcome,
		Message:          "Connected to the car search service",
		Protocol:         model.ProtocolVersion,
		AvailableActions: model.AvailableActions,
		User:             user,
		Room:             room,
		Timestamp:        model.Now(),
	}
	if err := client.Send(welcome); err != nil {
		h.logger.Warn("welcome send failed", zap.Error(err))
		return
	}

	ctx := c.Request.Context()
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket read failed", zap.Error(err))
			}
			return
		}
		h.processFrame(ctx, client, raw)
	}
}

// processFrame handles one inbound frame. Every failure mode answers with an
// error envelope and keeps the connection open.
func (h *WebSocketHandler) processFrame(ctx context.Context, client *Client, raw []byte) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("panic while processing frame", zap.Any("panic", r))
			h.send(client, model.NewError("",
				fmt.Sprintf("internal server error: %v", r),
				model.CodeInternalError))
		}
	}()

	var frame map[string]any
	if err := json.Unmarshal(raw, &frame); err != nil {
		h.send(client, model.NewError("", "invalid JSON payload", model.CodeInvalidJSON))
		return
	}

	frameType, _ := frame["type"].(string)
	switch frameType {
	case model.FrameRequest:
		var req model.Request
		if err := json.Unmarshal(raw, &req); err != nil {
			h.send(client, model.NewError("", "invalid request frame", model.CodeInvalidJSON))
			return
		}
		resp := h.dispatcher.Handle(ctx, &req)
		if req.Action() == model.ActionSearchCars {
			recordSearch(client, &req, resp)
		}
		h.send(client, resp)

	case model.FrameChat:
		message, _ := frame["message"].(string)
		reply := client.session.Process(ctx, message)
		h.send(client, map[string]any{
			"type":      model.FrameChatReply,
			"message":   reply,
			"timestamp": model.Now(),
		})

	case model.FrameBroadcast:
		message, _ := frame["message"].(string)
		h.hub.Broadcast(client.room, map[string]any{
			"type":      model.FrameBroadcast,
			"message":   message,
			"from":      client.user,
			"timestamp": model.Now(),
		})

	default:
		h.send(client, map[string]any{
			"type":      model.FrameEcho,
			"payload":   frame,
			"timestamp": model.Now(),
		})
	}
}

// recordSearch appends a search to the connection's bounded history. Only
// search_cars requests are recorded.
func recordSearch(client *Client, req *model.Request, resp *model.Response) {
	record := service.SearchRecord{
		Filters: req.Data,
		Success: resp.Success,
	}
	if page, ok := resp.Data.(*model.SearchPage); ok && page != nil {
		record.Page = page.Page
		record.PageSize = page.PageSize
		record.ResultCount = len(page.Results)
	}
	client.history.Add(record)
}

func (h *WebSocketHandler) send(client *Client, frame any) {
	if err := client.Send(frame); err != nil {
		h.logger.Warn("send failed", zap.String("room", client.room), zap.Error(err))
	}
}
