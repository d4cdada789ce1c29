package helpers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// SessionCookieName is the cookie that carries the session token after verification.
const SessionCookieName = "token"

// Manager writes the session cookie. The cookie is HttpOnly, Secure and
// SameSite=None so that cross-site frontends can send it back.
type Manager struct {
	Domain string
}

func NewCookie(domain string) *Manager {
	return &Manager{Domain: domain}
}

func (m *Manager) SetSession(c *gin.Context, token string, exp time.Time) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(SessionCookieName, token, maxAgeFrom(exp), "/", m.Domain, true, true)
}

func (m *Manager) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(SessionCookieName, "", -1, "/", m.Domain, true, true)
}

func maxAgeFrom(exp time.Time) int {
	sec := int(time.Until(exp).Seconds())
	if sec < 0 {
		return 0
	}
	return sec
}
