package realtime

import (
	"errors"
	"net/http"

	"worldstage/auth"
	"worldstage/middlewares"
	"worldstage/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// NewUpgrader は許可されたOriginだけを受け付ける。Originヘッダーの無いクライアントは許可
func NewUpgrader(allowedOrigins []string) websocket.Upgrader {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	allowAll := false
	for _, o := range allowedOrigins {
		if o == "*" {
			allowAll = true
		}
		allowed[o] = struct{}{}
	}
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || allowAll {
				return true
			}
			_, ok := allowed[origin]
			return ok
		},
	}
}

// HandleConnections authenticates the handshake and upgrades it. 認証に
// 失敗した接続はアップグレード前に401で拒否する
func HandleConnections(hub *Hub, issuer *auth.Issuer, upgrader websocket.Upgrader, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := middlewares.TokenFromRequest(c)
		if tokenString == "" {
			utils.SendError(c, http.StatusUnauthorized, "Authentication error: No token provided")
			return
		}
		claims, err := issuer.ParseToken(tokenString)
		if err != nil {
			if errors.Is(err, auth.ErrMissingSecret) {
				logger.Error("JWT_SECRETが設定されていません")
				utils.SendError(c, http.StatusInternalServerError, "Server configuration error")
				return
			}
			utils.SendError(c, http.StatusUnauthorized, "Authentication error: Invalid token")
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade がエラーレスポンスを書き込み済み
			logger.Warn("Error upgrading WebSocket", zap.Error(err))
			return
		}

		client := newClient(hub, conn, claims.ID, claims.Username)
		hub.register(client)

		go client.writePump()
		go client.readPump()
	}
}
