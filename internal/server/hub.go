package server

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/thraizz/realms-server-go/internal/game"
	"github.com/thraizz/realms-server-go/internal/game/rules"
)

// Websocket message types.
const (
	MsgSubscribe    = "subscribe"
	MsgAction       = "action"
	MsgPass         = "pass"
	MsgSnapshot     = "snapshot"
	MsgActionResult = "action_result"
	MsgNotification = "notification"
	MsgError        = "error"
)

const (
	sendBuffer      = 256
	broadcastBuffer = 256
	writeWait       = 10 * time.Second
)

// Message is the websocket envelope in both directions.
type Message struct {
	Type     string      `json:"type"`
	MatchID  string      `json:"match_id,omitempty"`
	PlayerID string      `json:"player_id,omitempty"`
	Action   string      `json:"action,omitempty"`
	Params   game.Params `json:"params,omitempty"`
	Data     any         `json:"data,omitempty"`
}

// Client is one websocket connection. It follows at most one match.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	mu       sync.Mutex
	matchID  string
	playerID string
}

func (c *Client) subscribe(matchID, playerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.matchID = matchID
	c.playerID = playerID
}

func (c *Client) follows(matchID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.matchID != "" && c.matchID == matchID
}

func (c *Client) subscription() (string, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.matchID, c.playerID
}

// Hub fans match notifications out to subscribed websocket clients and
// routes their actions to the registry.
type Hub struct {
	registry *Registry
	upgrader websocket.Upgrader
	logger   *zap.Logger

	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan game.Notification
	done       chan struct{}
}

// NewHub creates a hub. An empty allowedOrigins accepts every origin.
func NewHub(registry *Registry, allowedOrigins []string, logger *zap.Logger) *Hub {
	h := &Hub{
		registry:   registry,
		logger:     logger,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan game.Notification, broadcastBuffer),
		done:       make(chan struct{}),
	}
	h.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			return slices.Contains(allowedOrigins, r.Header.Get("Origin"))
		},
	}
	return h
}

// Run serves registrations and broadcasts until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				client.conn.Close()
				delete(h.clients, client)
			}
			return

		case client := <-h.register:
			h.clients[client] = true

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}

		case n := <-h.broadcast:
			payload, err := json.Marshal(Message{Type: MsgNotification, MatchID: n.MatchID, PlayerID: n.PlayerID, Data: n})
			if err != nil {
				h.logWarn("encode notification", err)
				continue
			}
			for client := range h.clients {
				if !client.follows(n.MatchID) {
					continue
				}
				select {
				case client.send <- payload:
				default:
					if h.logger != nil {
						h.logger.Warn("dropping notification for slow client", zap.String("match_id", n.MatchID))
					}
				}
			}
		}
	}
}

// Publish queues a notification for subscribers. It is the registry's
// notifier and returns immediately once the hub has stopped.
func (h *Hub) Publish(n game.Notification) {
	select {
	case h.broadcast <- n:
	case <-h.done:
	}
}

// ServeWS upgrades the request and starts the client pumps.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logWarn("websocket upgrade", err)
		return
	}
	client := &Client{hub: h, conn: conn, send: make(chan []byte, sendBuffer)}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}
	go client.writePump()
	go client.readPump()
}

func (h *Hub) handle(c *Client, msg Message) {
	switch msg.Type {
	case MsgSubscribe:
		m, err := h.registry.Get(msg.MatchID)
		if err != nil {
			c.reply(Message{Type: MsgError, MatchID: msg.MatchID, Data: err.Error()})
			return
		}
		c.subscribe(m.ID(), msg.PlayerID)
		c.reply(Message{Type: MsgSnapshot, MatchID: m.ID(), PlayerID: msg.PlayerID, Data: m.Snapshot()})

	case MsgSnapshot:
		matchID, playerID := c.subscription()
		m, err := h.registry.Get(matchID)
		if err != nil {
			c.reply(Message{Type: MsgError, Data: err.Error()})
			return
		}
		c.reply(Message{Type: MsgSnapshot, MatchID: matchID, PlayerID: playerID, Data: m.Snapshot()})

	case MsgAction, MsgPass:
		matchID, playerID := c.subscription()
		m, err := h.registry.Get(matchID)
		if err != nil {
			c.reply(Message{Type: MsgError, Data: err.Error()})
			return
		}
		action := rules.ActionPass
		if msg.Type == MsgAction {
			if action, err = rules.ParseActionType(msg.Action); err != nil {
				c.reply(Message{Type: MsgError, MatchID: matchID, Data: err.Error()})
				return
			}
		}
		result := m.ExecuteAction(playerID, action, msg.Params)
		c.reply(Message{Type: MsgActionResult, MatchID: matchID, PlayerID: playerID, Data: result})

	default:
		c.reply(Message{Type: MsgError, Data: "unknown message type " + msg.Type})
	}
}

func (c *Client) reply(msg Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		c.hub.logWarn("encode reply", err)
		return
	}
	select {
	case c.send <- payload:
	default:
		c.hub.logWarn("dropping reply for slow client", nil)
	}
}

func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.reply(Message{Type: MsgError, Data: "invalid json: " + err.Error()})
			continue
		}
		c.hub.handle(c, msg)
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-c.hub.done:
			return
		}
	}
}

func (h *Hub) logWarn(msg string, err error) {
	if h.logger == nil {
		return
	}
	if err != nil {
		h.logger.Warn(msg, zap.Error(err))
		return
	}
	h.logger.Warn(msg)
}
