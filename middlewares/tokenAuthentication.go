package middlewares

import (
	"strings"

	"worldstage/auth"

	"github.com/gin-gonic/gin"
)

// リクエストからJWTトークンを取り出す。
// Authorizationヘッダーを優先し、無ければ ?token= を使う（WebSocketのハンドシェイク用）
func TokenFromRequest(c *gin.Context) string {
	if token := auth.BearerToken(c.GetHeader("Authorization")); token != "" {
		return token
	}
	return strings.TrimSpace(c.Query("token"))
}
