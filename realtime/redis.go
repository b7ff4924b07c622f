package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"
)

const (
	relayChannel      = "worldstage:realtime"
	presenceKeyPrefix = "worldstage:presence:game:"
	presenceTTL       = 24 * time.Hour
	redisTimeout      = 2 * time.Second
)

// relayMessage はインスタンス間で共有する配信単位。Frameはエンコード済み
type relayMessage struct {
	Origin   string          `json:"origin"`
	Room     string          `json:"room"`
	Frame    json.RawMessage `json:"frame"`
	ExceptID string          `json:"exceptId,omitempty"`
}

func presenceKey(gameID uint) string {
	return presenceKeyPrefix + strconv.FormatUint(uint64(gameID), 10)
}

func (h *Hub) publish(msg relayMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	return h.rdb.Publish(ctx, relayChannel, body).Err()
}

// subscribe は全インスタンスへの配信を受け取り、ローカルの接続へ届ける
func (h *Hub) subscribe(ctx context.Context) {
	sub := h.rdb.Subscribe(ctx, relayChannel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		h.logger.Warn("Redis subscribe failed, realtime delivery stays local", zap.Error(err))
		return
	}
	h.relaying.Store(true)
	defer h.relaying.Store(false)
	h.logger.Info("Realtime relay subscribed", zap.String("channel", relayChannel), zap.String("instanceID", h.instanceID))

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-ch:
			if !ok {
				h.logger.Warn("Realtime relay channel closed")
				return
			}
			h.handleRelay(m.Payload)
		}
	}
}

func (h *Hub) handleRelay(payload string) {
	var msg relayMessage
	if err := json.Unmarshal([]byte(payload), &msg); err != nil || msg.Room == "" {
		h.logger.Warn("Error decoding relay message", zap.Error(err))
		return
	}
	h.deliverLocal(msg.Room, msg.Frame, msg.ExceptID)
}

func (h *Hub) addPresence(gameID, userID uint) {
	if h.rdb == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	key := presenceKey(gameID)
	pipe := h.rdb.TxPipeline()
	pipe.SAdd(ctx, key, userID)
	pipe.Expire(ctx, key, presenceTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		h.logger.Warn("Failed to record presence", zap.Uint("gameID", gameID), zap.Error(err))
	}
}

func (h *Hub) removePresence(gameID, userID uint) {
	if h.rdb == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	if err := h.rdb.SRem(ctx, presenceKey(gameID), userID).Err(); err != nil {
		h.logger.Warn("Failed to clear presence", zap.Uint("gameID", gameID), zap.Error(err))
	}
}

// presenceMembers returns false when Redis is unavailable so callers fall
// back to the local groups.
func (h *Hub) presenceMembers(gameID uint) ([]uint, bool) {
	if h.rdb == nil {
		return nil, false
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	members, err := h.rdb.SMembers(ctx, presenceKey(gameID)).Result()
	if err != nil {
		h.logger.Warn("Failed to read presence", zap.Uint("gameID", gameID), zap.Error(err))
		return nil, false
	}
	ids, err := parseUserIDs(members)
	if err != nil {
		h.logger.Warn("Invalid presence member", zap.Uint("gameID", gameID), zap.Error(err))
		return nil, false
	}
	return ids, true
}

func parseUserIDs(members []string) ([]uint, error) {
	ids := make([]uint, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseUint(m, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("presence member %q: %w", m, err)
		}
		ids = append(ids, uint(id))
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// CacheStatus はヘルスチェック用。Redisを使っていなければ "disabled"
func (h *Hub) CacheStatus(ctx context.Context) string {
	if h.rdb == nil {
		return "disabled"
	}
	if err := h.rdb.Ping(ctx).Err(); err != nil {
		return "unavailable"
	}
	return "connected"
}
