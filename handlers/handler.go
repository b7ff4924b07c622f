// Package handlers は /api 以下のHTTPハンドラー。業務ロジックは lobby / ledger に置き、
// ここでは入力の検証、レスポンスの組み立て、リアルタイム通知だけを行う。
package handlers

import (
	"context"
	"net/http"
	"strconv"

	"worldstage/auth"
	"worldstage/ledger"
	"worldstage/lobby"
	"worldstage/middlewares"
	"worldstage/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Realtime is the part of the websocket hub the handlers push events through.
type Realtime interface {
	BroadcastToGame(gameID uint, event string, data map[string]any)
	EmitToGame(gameID uint, event string, payload any)
	CacheStatus(ctx context.Context) string
}

type Deps struct {
	DB       *gorm.DB
	Lobby    *lobby.Service
	Ledger   *ledger.Service
	Issuer   *auth.Issuer
	Realtime Realtime
	Logger   *zap.Logger
	AppEnv   string
}

type Handler struct {
	db       *gorm.DB
	lobby    *lobby.Service
	ledger   *ledger.Service
	issuer   *auth.Issuer
	realtime Realtime
	logger   *zap.Logger
	appEnv   string
}

func New(d Deps) *Handler {
	return &Handler{
		db:       d.DB,
		lobby:    d.Lobby,
		ledger:   d.Ledger,
		issuer:   d.Issuer,
		realtime: d.Realtime,
		logger:   d.Logger,
		appEnv:   d.AppEnv,
	}
}

// パスパラメータのIDを取り出す。数値でなければ400を返して false
func pathID(c *gin.Context, name, label string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.SendError(c, http.StatusBadRequest, "Invalid "+label+" id")
		return 0, false
	}
	return uint(id), true
}

// authUser は AuthMiddleware の後ろでのみ呼ばれる
func authUser(c *gin.Context) (*auth.Claims, bool) {
	claims, ok := middlewares.GetAuthUser(c)
	if !ok {
		utils.SendError(c, http.StatusUnauthorized, "Access token required")
		return nil, false
	}
	return claims, true
}
