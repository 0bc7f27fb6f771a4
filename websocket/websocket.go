package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"bate-papo/backend/models"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// 將訊息寫入到遠端對等點的最長時間
	writeWait = 10 * time.Second

	// 允許從遠端對等點讀取下一個 pong 訊息的最長時間。
	pongWait = 60 * time.Second

	// 發送 ping 訊息給遠端對等點的週期。
	pingPeriod = (pongWait * 9) / 10

	// 允許從遠端對等點讀取的最大訊息大小
	maxMessageSize = 512

	sendBuffer      = 256
	broadcastBuffer = 256
)

// upgrader 用於將 HTTP 連線升級為 WebSocket 連線
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS 由外層的 rs/cors 處理
		return true
	},
}

// Client 代表一個 WebSocket 客戶端
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan models.Message
	ID   string
	User string // 用來判斷私訊是否可見
}

// 只讀取以偵測斷線，客戶端傳來的內容一律丟棄
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				zap.S().Warnw("websocket read error", "client", c.ID, "error", err)
			}
			return
		}
	}
}

// 接收 Hub 廣播來的訊息，丟給前端
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// 如果這個 channel 被關閉了（ok == false），就送出 CloseMessage
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			payload, err := json.Marshal(message)
			if err != nil {
				zap.S().Errorw("error marshalling message", "error", err)
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				zap.S().Debugw("error writing message", "client", c.ID, "error", err)
				return
			}

		// 定時 ping 以偵測客戶端是否仍在線
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Hub 維護所有活躍的 WebSocket 客戶端，並把新儲存的訊息推送給可以看到它的客戶端
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan models.Message
	register   chan *Client
	unregister chan *Client
	done       chan struct{} // Run 結束後關閉
}

// NewHub 創建並返回一個新的 Hub 實例
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan models.Message, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		done:       make(chan struct{}),
	}
}

// Publish 將訊息交給 Hub 廣播，Hub 忙碌時直接丟棄，不阻塞 HTTP 請求
func (h *Hub) Publish(m models.Message) {
	select {
	case h.broadcast <- m:
	default:
		zap.S().Warnw("live feed saturated, dropping message", "id", m.ID.Hex())
	}
}

// Run 啟動 Hub 的運行迴圈，ctx 結束時關閉所有客戶端
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			return
		case client := <-h.register:
			h.clients[client] = true
			zap.S().Debugw("client registered", "client", client.ID, "user", client.User, "total", len(h.clients))
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				zap.S().Debugw("client unregistered", "client", client.ID, "total", len(h.clients))
			}
		case message := <-h.broadcast:
			for client := range h.clients {
				if !message.VisibleTo(client.User) {
					continue
				}
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
					zap.S().Warnw("client channel is full, unregistered", "client", client.ID)
				}
			}
		}
	}
}

// HandleConnections 處理 GET /ws?user=<name> 的 WebSocket 連線請求
func (h *Hub) HandleConnections(w http.ResponseWriter, r *http.Request) {
	user := r.URL.Query().Get("user")
	if user == "" {
		http.Error(w, "user is required for WebSocket connection", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.S().Warnw("failed to upgrade to websocket", "error", err)
		return
	}

	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan models.Message, sendBuffer),
		ID:   uuid.NewString(),
		User: user,
	}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	client.readPump() // readPump 會在連線關閉時自動取消註冊
}
