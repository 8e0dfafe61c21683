package middleware

import (
	"net/http"

	"github.com/ergolab/consulta/internal/common"
	"github.com/ergolab/consulta/internal/session"
	"github.com/gin-gonic/gin"
)

const (
	SessionCookieName = "consulta_session"

	AdminIDKey       = "admin_id"
	AdminUsernameKey = "admin_username"
	SessionIDKey     = "session_id"
)

// AdminRequired passes the request through only when the session cookie maps
// to a server-side session carrying an admin identifier.
func AdminRequired(sessions session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(SessionCookieName)
		if err != nil || cookie == "" {
			common.Fail(c, http.StatusUnauthorized, "Acesso negado")
			c.Abort()
			return
		}

		sess, err := sessions.Get(c.Request.Context(), cookie)
		if err != nil || sess.AdminID == 0 {
			common.Fail(c, http.StatusUnauthorized, "Acesso negado")
			c.Abort()
			return
		}

		c.Set(AdminIDKey, sess.AdminID)
		c.Set(AdminUsernameKey, sess.AdminUsername)
		c.Set(SessionIDKey, sess.ID)
		c.Next()
	}
}
