// Package realtime はWebSocketでプレゼンス・チャット・通知を中継する。
// 接続は user_<id> と game_<id> の2種類のグループに所属し、
// Redisが使える場合はPub/Sub経由で全インスタンスに配信する。
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// 受信イベント
const (
	EventJoinGame    = "join_game"
	EventLeaveGame   = "leave_game"
	EventGameAction  = "game_action"
	EventSendMessage = "send_message"
	EventTypingStart = "typing_start"
	EventTypingStop  = "typing_stop"
)

// 送信イベント
const (
	EventPlayerJoined       = "player_joined"
	EventPlayerLeft         = "player_left"
	EventGameJoined         = "game_joined"
	EventGameUpdate         = "game_update"
	EventNewMessage         = "new_message"
	EventMessageSent        = "message_sent"
	EventUserTyping         = "user_typing"
	EventUserStoppedTyping  = "user_stopped_typing"
	EventGameStarted        = "game_started"
	EventPlayerJoinedGame   = "player_joined_game"
	EventPlayerReadyChanged = "player_ready_status_changed"
	EventNotification       = "notification"
)

// Frame is the wire format in both directions.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

func encodeFrame(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", event, err)
	}
	return json.Marshal(Frame{Event: event, Data: raw})
}

func userRoom(userID uint) string { return fmt.Sprintf("user_%d", userID) }
func gameRoom(gameID uint) string { return fmt.Sprintf("game_%d", gameID) }

// ISO-8601 (ミリ秒, UTC)
func timestamp() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

type Hub struct {
	mu      sync.RWMutex
	groups  map[string]map[*Client]struct{}
	clients map[*Client]struct{}

	logger     *zap.Logger
	rdb        *redis.Client
	instanceID string

	// Pub/Subの購読が確立している間だけRedis経由で配信する
	relaying atomic.Bool
}

// NewHub creates a hub. rdb may be nil, in which case delivery stays local.
func NewHub(rdb *redis.Client, logger *zap.Logger) *Hub {
	return &Hub{
		groups:     make(map[string]map[*Client]struct{}),
		clients:    make(map[*Client]struct{}),
		logger:     logger,
		rdb:        rdb,
		instanceID: uuid.NewString(),
	}
}

// Run relays Redis messages until ctx is cancelled, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	if h.rdb != nil {
		go h.subscribe(ctx)
	}
	<-ctx.Done()
	h.Close()
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.addLocked(userRoom(c.UserID), c)
	h.mu.Unlock()
	h.logger.Info("WebSocket client connected",
		zap.String("clientID", c.ID),
		zap.Uint("userID", c.UserID),
		zap.String("username", c.Username),
	)
}

func (h *Hub) addLocked(room string, c *Client) {
	group := h.groups[room]
	if group == nil {
		group = make(map[*Client]struct{})
		h.groups[room] = group
	}
	group[c] = struct{}{}
}

func (h *Hub) removeLocked(room string, c *Client) {
	group := h.groups[room]
	if group == nil {
		return
	}
	delete(group, c)
	if len(group) == 0 {
		delete(h.groups, room)
	}
}

func (h *Hub) joinGame(c *Client, gameID uint) {
	h.mu.Lock()
	h.addLocked(gameRoom(gameID), c)
	h.mu.Unlock()
	c.addGame(gameID)
	h.addPresence(gameID, c.UserID)
}

// leaveGame はグループから外れたら true を返す
func (h *Hub) leaveGame(c *Client, gameID uint) bool {
	if !c.removeGame(gameID) {
		return false
	}
	h.mu.Lock()
	h.removeLocked(gameRoom(gameID), c)
	stillOnline := h.userInRoomLocked(gameRoom(gameID), c.UserID)
	h.mu.Unlock()
	if !stillOnline {
		h.removePresence(gameID, c.UserID)
	}
	return true
}

func (h *Hub) userInRoomLocked(room string, userID uint) bool {
	for other := range h.groups[room] {
		if other.UserID == userID {
			return true
		}
	}
	return false
}

// unregister removes the client from every group and tells each game it was in.
func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	h.removeLocked(userRoom(c.UserID), c)
	h.mu.Unlock()

	for _, gameID := range c.gameIDs() {
		if h.leaveGame(c, gameID) {
			h.emit(gameRoom(gameID), EventPlayerLeft, map[string]any{
				"userId":    c.UserID,
				"username":  c.Username,
				"timestamp": timestamp(),
			}, c.ID)
		}
	}
	c.close()
	h.logger.Info("WebSocket client disconnected", zap.String("clientID", c.ID), zap.Uint("userID", c.UserID))
}

// deliverLocal はこのインスタンスに接続しているグループのメンバーにだけ送る
func (h *Hub) deliverLocal(room string, frame []byte, exceptID string) {
	h.mu.RLock()
	targets := make([]*Client, 0, len(h.groups[room]))
	for c := range h.groups[room] {
		if c.ID != exceptID {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if !c.enqueue(frame) {
			h.logger.Warn("Send buffer full, dropping client", zap.String("clientID", c.ID), zap.Uint("userID", c.UserID))
			go h.unregister(c)
		}
	}
}

// emit sends an event to a room, skipping the connection exceptID.
func (h *Hub) emit(room, event string, data any, exceptID string) {
	frame, err := encodeFrame(event, data)
	if err != nil {
		h.logger.Error("Failed to encode realtime event", zap.String("event", event), zap.Error(err))
		return
	}
	if h.relaying.Load() {
		err := h.publish(relayMessage{Origin: h.instanceID, Room: room, Frame: frame, ExceptID: exceptID})
		if err == nil {
			return
		}
		h.logger.Warn("Redis publish failed, delivering locally", zap.String("room", room), zap.Error(err))
	}
	h.deliverLocal(room, frame, exceptID)
}

func (h *Hub) sendTo(c *Client, event string, data any) {
	frame, err := encodeFrame(event, data)
	if err != nil {
		h.logger.Error("Failed to encode realtime event", zap.String("event", event), zap.Error(err))
		return
	}
	if !c.enqueue(frame) {
		go h.unregister(c)
	}
}

// OnlineUserIDs はゲームに接続中のユーザーID（昇順）
func (h *Hub) OnlineUserIDs(gameID uint) []uint {
	if ids, ok := h.presenceMembers(gameID); ok {
		return ids
	}
	h.mu.RLock()
	seen := make(map[uint]struct{})
	for c := range h.groups[gameRoom(gameID)] {
		seen[c.UserID] = struct{}{}
	}
	h.mu.RUnlock()

	ids := make([]uint, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	for _, c := range clients {
		h.unregister(c)
	}
}
