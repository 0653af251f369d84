package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/feichai0017/ocr-review/internal/review"
	"github.com/feichai0017/ocr-review/internal/session"
	"github.com/feichai0017/ocr-review/pkg/logger"
)

const (
	SessionCookie = "ocr_review_session"
	panelKey      = "review.panel"
)

// Session binds the caller's review panel to the request, creating a session
// when the cookie is missing or stale.
func Session(m *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, _ := c.Cookie(SessionCookie)
		id, panel := m.Get(cookie)
		if id != cookie {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookie, id, 0, "/", "", false, true)
		}

		c.Set(panelKey, panel)
		c.Request = c.Request.WithContext(logger.WithSessionID(c.Request.Context(), id))
		c.Next()
	}
}

// Panel returns the panel bound by Session.
func Panel(c *gin.Context) *review.Panel {
	return c.MustGet(panelKey).(*review.Panel)
}
