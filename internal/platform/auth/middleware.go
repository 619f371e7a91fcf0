package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	CtxAccountIDKey = "account_id"
	CtxUsernameKey  = "username"
	CtxIsAdminKey   = "is_admin"
)

// RequireAuth: セッションCookieを検証して context に account_id / is_admin を詰める。
// 無い・無効・期限切れはすべて401（理由は返さない）。
func RequireAuth(mgr *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := mgr.FromRequest(c.Request)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Set(CtxAccountIDKey, sess.AccountID)
		c.Set(CtxUsernameKey, sess.Username)
		c.Set(CtxIsAdminKey, sess.IsAdmin)
		c.Next()
	}
}

// RequireAdmin: is_admin なセッションのみ許可。RequireAuth の後に積む。
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get(CtxIsAdminKey)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		isAdmin, ok := v.(bool)
		if !ok || !isAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// AccountID はハンドラからログイン中のアカウントIDを取るためのヘルパ。
func AccountID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(CtxAccountIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
