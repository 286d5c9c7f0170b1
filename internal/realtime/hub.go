package realtime

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"campfire/internal/model"
	"campfire/internal/pkg"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// MessageStore 私信落库
type MessageStore interface {
	Create(ctx context.Context, msg *model.Message) error
}

// TicketConsumer 一次性凭证消费
type TicketConsumer interface {
	Consume(ctx context.Context, jti string) error
}

// Frame 实时通道的统一帧格式
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type messagePayload struct {
	ReceiverID uint64 `json:"receiverId"`
	Message    string `json:"message"`
}

// conn 封装一条 websocket 连接；gorilla 要求单写者，写操作都拿锁
type conn struct {
	id string
	ws *websocket.Conn
	mu sync.Mutex
}

func (c *conn) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteJSON(v)
}

// Hub 实时通道：凭证鉴权、在线映射、私信转发、通知推送
type Hub struct {
	registry Registry
	messages MessageStore
	tickets  TicketConsumer
	origin   string

	mu    sync.RWMutex
	conns map[string]*conn
}

func NewHub(registry Registry, messages MessageStore, tickets TicketConsumer, origin string) *Hub {
	return &Hub{
		registry: registry,
		messages: messages,
		tickets:  tickets,
		origin:   origin,
		conns:    make(map[string]*conn),
	}
}

func (h *Hub) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || origin == h.origin
		},
	}
}

// ServeWS 连接入口：校验并消费一次性凭证，连接建立即登记在线状态，
// 后续的 join 帧只是幂等重登记
func (h *Hub) ServeWS(c *gin.Context) {
	ticket := c.Query("ticket")
	userID, jti, err := pkg.ParseSocketTicket(ticket)
	if err != nil {
		pkg.Respond(c, http.StatusUnauthorized, "invalid socket ticket", nil)
		return
	}
	if err := h.tickets.Consume(c.Request.Context(), jti); err != nil {
		pkg.Respond(c, http.StatusUnauthorized, "socket ticket already used", nil)
		return
	}

	up := h.upgrader()
	ws, err := up.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	cn := &conn{id: uuid.NewString(), ws: ws}
	h.mu.Lock()
	h.conns[cn.id] = cn
	h.mu.Unlock()
	h.registry.Put(userID, cn.id)

	go h.readLoop(userID, cn)
}

func (h *Hub) readLoop(userID uint64, cn *conn) {
	defer func() {
		h.registry.Remove(cn.id)
		h.mu.Lock()
		delete(h.conns, cn.id)
		h.mu.Unlock()
		_ = cn.ws.Close()
	}()

	for {
		var frame Frame
		if err := cn.ws.ReadJSON(&frame); err != nil {
			return
		}
		switch frame.Event {
		case "join":
			h.registry.Put(userID, cn.id)
		case "message":
			h.handleMessage(userID, frame.Data)
		}
	}
}

// handleMessage 先落库，接收方在线才投递
func (h *Hub) handleMessage(senderID uint64, data json.RawMessage) {
	var payload messagePayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.ReceiverID == 0 || payload.Message == "" {
		return
	}

	msg := &model.Message{
		SenderID:   senderID,
		ReceiverID: payload.ReceiverID,
		Body:       payload.Message,
	}
	if err := h.messages.Create(context.Background(), msg); err != nil {
		log.Printf("message create failed: %v", err)
		return
	}

	h.emit(payload.ReceiverID, "message", msg)
}

// PushNotification 尽力而为的通知推送，不在线就算了
func (h *Hub) PushNotification(userID uint64, n *model.Notification) {
	h.emit(userID, "notification", n)
}

func (h *Hub) emit(userID uint64, event string, v any) {
	connID, ok := h.registry.Get(userID)
	if !ok {
		return
	}
	h.mu.RLock()
	cn, ok := h.conns[connID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := cn.writeJSON(Frame{Event: event, Data: data}); err != nil {
		log.Printf("ws emit failed: %v", err)
	}
}
