package public

import (
	"github.com/edunext-academy/internal/http/response"

	"github.com/gin-gonic/gin"
)

// StudentDashboard 学员端首页概览
func (h *Handler) StudentDashboard(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	user, err := h.UserAuthService.GetUserByID(uid)
	if err != nil || user == nil {
		respondError(c, response.CodeInternal, "fetch dashboard failed", err)
		return
	}

	certs, certTotal, err := h.CertificateService.ListByStudent(uid, 1, 5)
	if err != nil {
		respondError(c, response.CodeInternal, "fetch dashboard failed", err)
		return
	}

	response.Success(c, gin.H{
		"user":                userAuthView(user),
		"last_login_at":       user.LastLoginAt,
		"certificate_total":   certTotal,
		"recent_certificates": certs,
	})
}
