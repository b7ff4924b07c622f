package realtime

import (
	"encoding/json"
	"strconv"

	"go.uber.org/zap"
)

type gameActionPayload struct {
	GameID  json.RawMessage `json:"gameId"`
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload"`
}

type directMessagePayload struct {
	GameID   json.RawMessage `json:"gameId"`
	ToUserID json.RawMessage `json:"toUserId"`
	Message  string          `json:"message"`
	Subject  *string         `json:"subject"`
}

type typingPayload struct {
	GameID   json.RawMessage `json:"gameId"`
	ToUserID json.RawMessage `json:"toUserId"`
}

// parseID accepts 12, "12" and {"gameId": 12}.
func parseID(raw json.RawMessage) (uint, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var n uint64
	if err := json.Unmarshal(raw, &n); err == nil {
		return uint(n), n > 0
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		n, err := strconv.ParseUint(s, 10, 64)
		return uint(n), err == nil && n > 0
	}
	var ref struct {
		GameID json.RawMessage `json:"gameId"`
	}
	if err := json.Unmarshal(raw, &ref); err == nil && len(ref.GameID) > 0 && ref.GameID[0] != '{' {
		return parseID(ref.GameID)
	}
	return 0, false
}

// handleMessage は受信したイベントを種類ごとに振り分ける。不正なフレームはログに残して捨てる
func (h *Hub) handleMessage(c *Client, message []byte) {
	var frame Frame
	if err := json.Unmarshal(message, &frame); err != nil || frame.Event == "" {
		h.logger.Warn("Error decoding message", zap.String("clientID", c.ID), zap.Error(err))
		return
	}

	switch frame.Event {
	case EventJoinGame:
		h.handleJoinGame(c, frame.Data)
	case EventLeaveGame:
		h.handleLeaveGame(c, frame.Data)
	case EventGameAction:
		h.handleGameAction(c, frame.Data)
	case EventSendMessage:
		h.handleSendMessage(c, frame.Data)
	case EventTypingStart:
		h.handleTyping(c, frame.Data, EventUserTyping)
	case EventTypingStop:
		h.handleTyping(c, frame.Data, EventUserStoppedTyping)
	default:
		h.logger.Debug("Unknown realtime event", zap.String("event", frame.Event), zap.Uint("userID", c.UserID))
	}
}

func (h *Hub) dropped(c *Client, event string, data json.RawMessage) {
	h.logger.Warn("Malformed realtime payload",
		zap.String("event", event),
		zap.Uint("userID", c.UserID),
		zap.ByteString("data", data),
	)
}

func (h *Hub) handleJoinGame(c *Client, data json.RawMessage) {
	gameID, ok := parseID(data)
	if !ok {
		h.dropped(c, EventJoinGame, data)
		return
	}
	h.joinGame(c, gameID)
	h.logger.Info("Client joined game", zap.Uint("userID", c.UserID), zap.Uint("gameID", gameID))

	h.emit(gameRoom(gameID), EventPlayerJoined, map[string]any{
		"userId":    c.UserID,
		"username":  c.Username,
		"timestamp": timestamp(),
	}, c.ID)
	h.sendTo(c, EventGameJoined, map[string]any{
		"gameId":        gameID,
		"message":       "Successfully joined game " + strconv.FormatUint(uint64(gameID), 10),
		"timestamp":     timestamp(),
		"onlineUserIds": h.OnlineUserIDs(gameID),
	})
}

func (h *Hub) handleLeaveGame(c *Client, data json.RawMessage) {
	gameID, ok := parseID(data)
	if !ok {
		h.dropped(c, EventLeaveGame, data)
		return
	}
	if !h.leaveGame(c, gameID) {
		return
	}
	h.logger.Info("Client left game", zap.Uint("userID", c.UserID), zap.Uint("gameID", gameID))
	h.emit(gameRoom(gameID), EventPlayerLeft, map[string]any{
		"userId":    c.UserID,
		"username":  c.Username,
		"timestamp": timestamp(),
	}, c.ID)
}

// game_action のペイロードは検証せずに送信者を含むグループ全体へ転送する
func (h *Hub) handleGameAction(c *Client, data json.RawMessage) {
	var in gameActionPayload
	if err := json.Unmarshal(data, &in); err != nil {
		h.dropped(c, EventGameAction, data)
		return
	}
	gameID, ok := parseID(in.GameID)
	if !ok {
		h.dropped(c, EventGameAction, data)
		return
	}
	payload := in.Payload
	if len(payload) == 0 {
		payload = json.RawMessage("null")
	}
	h.emit(gameRoom(gameID), EventGameUpdate, map[string]any{
		"userId":    c.UserID,
		"username":  c.Username,
		"action":    in.Action,
		"payload":   payload,
		"timestamp": timestamp(),
	}, "")
}

func (h *Hub) handleSendMessage(c *Client, data json.RawMessage) {
	var in directMessagePayload
	if err := json.Unmarshal(data, &in); err != nil {
		h.dropped(c, EventSendMessage, data)
		return
	}
	toUserID, ok := parseID(in.ToUserID)
	if !ok {
		h.dropped(c, EventSendMessage, data)
		return
	}
	gameID, _ := parseID(in.GameID)
	now := timestamp()

	h.emit(userRoom(toUserID), EventNewMessage, map[string]any{
		"fromUserId":   c.UserID,
		"fromUsername": c.Username,
		"gameId":       gameID,
		"subject":      in.Subject,
		"message":      in.Message,
		"timestamp":    now,
	}, "")
	h.sendTo(c, EventMessageSent, map[string]any{
		"toUserId":  toUserID,
		"subject":   in.Subject,
		"message":   in.Message,
		"timestamp": now,
	})
}

// 宛先があればそのユーザーへ、無ければ送信者以外のゲーム参加者へ送る
func (h *Hub) handleTyping(c *Client, data json.RawMessage, event string) {
	var in typingPayload
	if err := json.Unmarshal(data, &in); err != nil {
		h.dropped(c, event, data)
		return
	}
	gameID, hasGame := parseID(in.GameID)
	out := map[string]any{
		"fromUserId":   c.UserID,
		"fromUsername": c.Username,
		"gameId":       gameID,
	}
	if toUserID, ok := parseID(in.ToUserID); ok {
		h.emit(userRoom(toUserID), event, out, "")
		return
	}
	if !hasGame {
		h.dropped(c, event, data)
		return
	}
	h.emit(gameRoom(gameID), event, out, c.ID)
}
