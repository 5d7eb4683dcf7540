package public

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/edunext-academy/internal/authz"
	"github.com/edunext-academy/internal/constants"

	"github.com/gin-gonic/gin"
)

// AuthCallback 外部认证回调入口
// 仅做令牌落袋与跳转分发，不校验令牌本身；令牌有效性由首个受保护请求的访问守卫裁决。
func (h *Handler) AuthCallback(c *gin.Context) {
	loginPath := h.loginPath()

	if errParam := strings.TrimSpace(c.Query(constants.CallbackParamError)); errParam != "" {
		requestLog(c).Warnw("auth_callback_error", "error", errParam)
		h.Container.SessionStore.Clear(c)
		c.Redirect(http.StatusFound, loginPath+"?"+constants.CallbackParamError+"="+url.QueryEscape(errParam))
		return
	}

	token := strings.TrimSpace(c.Query(constants.CallbackParamToken))
	if token == "" {
		c.Redirect(http.StatusFound, loginPath)
		return
	}

	h.Container.SessionStore.Save(c, token)
	role := strings.ToLower(strings.TrimSpace(c.Query(constants.CallbackParamRole)))
	c.Redirect(http.StatusFound, h.homePathFor(role))
}

func (h *Handler) redirectPaths() authz.RedirectPaths {
	paths := authz.RedirectPaths{
		Login:       constants.RedirectLogin,
		AdminHome:   constants.RedirectAdminHome,
		StudentHome: constants.RedirectStudentHome,
	}
	if h == nil || h.Container == nil || h.Config == nil {
		return paths
	}
	if v := strings.TrimSpace(h.Config.Auth.LoginPath); v != "" {
		paths.Login = v
	}
	if v := strings.TrimSpace(h.Config.Auth.AdminHomePath); v != "" {
		paths.AdminHome = v
	}
	if v := strings.TrimSpace(h.Config.Auth.StudentHomePath); v != "" {
		paths.StudentHome = v
	}
	return paths
}

func (h *Handler) loginPath() string {
	return h.redirectPaths().Login
}

func (h *Handler) homePathFor(role string) string {
	return authz.HomePathForRole(role, h.redirectPaths())
}
