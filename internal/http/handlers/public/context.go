package public

import (
	"github.com/charmsmith/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	cartTokenHeader = "X-Cart-Token"
	cartTokenCookie = "cart_token"
	cartTokenMaxAge = 180 * 24 * 60 * 60
)

// respondError 前台统一错误响应
func respondError(c *gin.Context, code int, msg string, err error) {
	shared.RespondError(c, code, msg, err)
}

// cartToken 解析（必要时签发）购物车令牌。
// 令牌优先取请求头，其次取 Cookie；都没有时新发并通过两个通道回写。
func cartToken(c *gin.Context) string {
	token := c.GetHeader(cartTokenHeader)
	if token == "" {
		if cookie, err := c.Cookie(cartTokenCookie); err == nil {
			token = cookie
		}
	}
	if token == "" {
		token = uuid.NewString()
	}
	c.Header(cartTokenHeader, token)
	c.SetCookie(cartTokenCookie, token, cartTokenMaxAge, "/", "", false, true)
	return token
}
