package realtime

// サーバー側から送るイベントのヘルパー

// SendNotificationToUser emits a `notification` to every connection of the user.
func (h *Hub) SendNotificationToUser(userID uint, data map[string]any) {
	h.emit(userRoom(userID), EventNotification, withTimestamp(data), "")
}

// BroadcastToGame emits event to the game group with a timestamp added to data.
func (h *Hub) BroadcastToGame(gameID uint, event string, data map[string]any) {
	h.emit(gameRoom(gameID), event, withTimestamp(data), "")
}

// EmitToGame は payload をそのまま送る（game_started など）
func (h *Hub) EmitToGame(gameID uint, event string, payload any) {
	h.emit(gameRoom(gameID), event, payload, "")
}

func withTimestamp(data map[string]any) map[string]any {
	out := make(map[string]any, len(data)+1)
	for k, v := range data {
		out[k] = v
	}
	out["timestamp"] = timestamp()
	return out
}
