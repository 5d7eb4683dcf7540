package session

import (
	"net/http"
	"strings"

	"github.com/edunext-academy/internal/config"

	"github.com/gin-gonic/gin"
)

const defaultCookieName = "ea_session"

// Store 会话令牌存储接口
// 外部认证回调写入令牌，访问守卫读取令牌。实现可替换（Cookie、Header 透传等）。
type Store interface {
	Save(c *gin.Context, token string)
	Read(c *gin.Context) (string, bool)
	Clear(c *gin.Context)
}

// CookieStore 基于 HTTP Cookie 的会话存储
type CookieStore struct {
	name   string
	maxAge int
	secure bool
}

// NewCookieStore 创建 Cookie 会话存储
func NewCookieStore(cfg config.AuthConfig) *CookieStore {
	name := strings.TrimSpace(cfg.SessionCookieName)
	if name == "" {
		name = defaultCookieName
	}
	maxAge := cfg.SessionMaxAgeSeconds
	if maxAge <= 0 {
		maxAge = 86400
	}
	return &CookieStore{
		name:   name,
		maxAge: maxAge,
		secure: cfg.SessionCookieSecure,
	}
}

// Save 写入会话令牌
func (s *CookieStore) Save(c *gin.Context, token string) {
	if c == nil || strings.TrimSpace(token) == "" {
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.name, token, s.maxAge, "/", "", s.secure, true)
}

// Read 读取会话令牌
func (s *CookieStore) Read(c *gin.Context) (string, bool) {
	if c == nil {
		return "", false
	}
	token, err := c.Cookie(s.name)
	if err != nil || strings.TrimSpace(token) == "" {
		return "", false
	}
	return token, true
}

// Clear 清除会话令牌
func (s *CookieStore) Clear(c *gin.Context) {
	if c == nil {
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.name, "", -1, "/", "", s.secure, true)
}
