package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"portfolio-service/internal/core/domain"
)

const ctxAdminSession = "admin_session"

// SessionChecker validates a raw session cookie value.
type SessionChecker interface {
	CheckSession(token string) (domain.Session, error)
}

// RequireAdmin rejects requests without a valid admin session cookie with
// 401 and stores the session in the context otherwise.
func RequireAdmin(sessions SessionChecker, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(cookieName)

		session, err := sessions.CheckSession(token)
		if err != nil {
			log.WithError(err).WithFields(log.Fields{
				"path":      c.Request.URL.Path,
				"client_ip": c.ClientIP(),
			}).Warn("admin request rejected")

			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "unauthorized",
				"code":  "UNAUTHORIZED",
			})
			return
		}

		c.Set(ctxAdminSession, session)
		c.Next()
	}
}

// AdminSession returns the session stored by RequireAdmin.
func AdminSession(c *gin.Context) (domain.Session, bool) {
	v, ok := c.Get(ctxAdminSession)
	if !ok {
		return domain.Session{}, false
	}
	session, ok := v.(domain.Session)
	return session, ok
}
