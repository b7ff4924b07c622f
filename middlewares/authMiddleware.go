package middlewares

import (
	"errors"
	"net/http"

	"worldstage/auth"
	"worldstage/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthUserKey はgin.Contextに保存する認証済みユーザー情報のキー
const AuthUserKey = "authUser"

// トークンを検証し、デコードしたユーザー情報をコンテキストにセットするミドルウェア
func AuthMiddleware(issuer *auth.Issuer, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := TokenFromRequest(c)
		if tokenString == "" {
			utils.SendError(c, http.StatusUnauthorized, "Access token required")
			return
		}

		claims, err := issuer.ParseToken(tokenString)
		if err != nil {
			if errors.Is(err, auth.ErrMissingSecret) {
				logger.Error("JWT_SECRETが設定されていません")
				utils.SendError(c, http.StatusInternalServerError, "Server configuration error")
				return
			}
			logger.Debug("認証失敗", zap.String("path", c.FullPath()), zap.Error(err))
			utils.SendError(c, http.StatusForbidden, "Invalid or expired token")
			return
		}

		c.Set(AuthUserKey, claims)
		c.Next()
	}
}

// GetAuthUser returns the identity attached by AuthMiddleware.
func GetAuthUser(c *gin.Context) (*auth.Claims, bool) {
	value, ok := c.Get(AuthUserKey)
	if !ok {
		return nil, false
	}
	claims, ok := value.(*auth.Claims)
	return claims, ok && claims != nil
}
