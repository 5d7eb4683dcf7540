package public

import (
	"errors"
	"strings"
	"time"

	"github.com/edunext-academy/internal/constants"
	"github.com/edunext-academy/internal/http/response"
	"github.com/edunext-academy/internal/models"
	"github.com/edunext-academy/internal/service"

	"github.com/gin-gonic/gin"
)

// UserRegisterRequest 注册请求
type UserRegisterRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email" binding:"required"`
	Password             string `json:"password" binding:"required"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// UserRegister 用户注册
// 注册成功后账号处于未验证状态，验证码已发往注册邮箱。
func (h *Handler) UserRegister(c *gin.Context) {
	var req UserRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	if req.PasswordConfirmation != "" && req.PasswordConfirmation != req.Password {
		respondError(c, response.CodeBadRequest, "passwords do not match", nil)
		return
	}

	user, err := h.UserAuthService.Register(req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrWeakPassword) {
			respondError(c, response.CodeBadRequest, err.Error(), nil)
			return
		}
		respondWithMappedError(c, err, registerErrorRules, response.CodeInternal, "register failed")
		return
	}

	response.Success(c, gin.H{
		"user": gin.H{
			"id":                user.ID,
			"name":              user.Name,
			"email":             user.Email,
			"email_verified_at": user.EmailVerifiedAt,
		},
		"verification_sent": true,
	})
}

// UserVerifyOTPRequest 邮箱验证码校验请求
type UserVerifyOTPRequest struct {
	Email string `json:"email" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

// UserVerifyOTP 校验邮箱验证码并激活账号
// 校验通过即视为首次登录，直接签发令牌。
func (h *Handler) UserVerifyOTP(c *gin.Context) {
	var req UserVerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	user, token, expiresAt, err := h.UserAuthService.VerifyEmail(req.Email, req.Code)
	if err != nil {
		respondWithMappedError(c, err, verifyCodeErrorRules, response.CodeInternal, "email verification failed")
		return
	}

	response.Success(c, gin.H{
		"user":       userAuthView(user),
		"token":      token,
		"expires_at": expiresAt.Format(time.RFC3339),
		"redirect":   h.homePathFor(user.Role),
	})
}

// UserResendOTPRequest 重发验证码请求
type UserResendOTPRequest struct {
	Email string `json:"email" binding:"required"`
}

// UserResendOTP 重新发送邮箱验证码
// 新验证码覆盖旧验证码，旧验证码随即失效。
func (h *Handler) UserResendOTP(c *gin.Context) {
	var req UserResendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	if err := h.UserAuthService.ResendVerifyCode(req.Email); err != nil {
		respondWithMappedError(c, err, verifyCodeErrorRules, response.CodeInternal, "send verification code failed")
		return
	}

	response.Success(c, gin.H{"sent": true})
}

// UserLoginRequest 登录请求
type UserLoginRequest struct {
	Email      string `json:"email" binding:"required"`
	Password   string `json:"password" binding:"required"`
	RememberMe bool   `json:"remember_me"`
}

// UserLogin 用户登录
// 仅已完成邮箱验证且状态正常的账号可登录。
func (h *Handler) UserLogin(c *gin.Context) {
	var req UserLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.recordUserLogin(c, req.Email, 0, constants.LoginLogStatusFailed, constants.LoginLogFailReasonBadRequest)
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	user, token, expiresAt, err := h.UserAuthService.LoginWithRememberMe(req.Email, req.Password, req.RememberMe)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEmail):
			h.recordUserLogin(c, req.Email, 0, constants.LoginLogStatusFailed, constants.LoginLogFailReasonInvalidEmail)
		case errors.Is(err, service.ErrInvalidCredentials):
			h.recordUserLogin(c, req.Email, 0, constants.LoginLogStatusFailed, constants.LoginLogFailReasonInvalidCredentials)
		case errors.Is(err, service.ErrEmailNotVerified):
			h.recordUserLogin(c, req.Email, 0, constants.LoginLogStatusFailed, constants.LoginLogFailReasonEmailNotVerified)
		case errors.Is(err, service.ErrUserSuspended):
			h.recordUserLogin(c, req.Email, 0, constants.LoginLogStatusFailed, constants.LoginLogFailReasonUserSuspended)
		default:
			h.recordUserLogin(c, req.Email, 0, constants.LoginLogStatusFailed, constants.LoginLogFailReasonInternalError)
		}
		respondWithMappedError(c, err, loginErrorRules, response.CodeInternal, "login failed")
		return
	}

	h.recordUserLogin(c, user.Email, user.ID, constants.LoginLogStatusSuccess, "")
	response.Success(c, gin.H{
		"user":       userAuthView(user),
		"token":      token,
		"expires_at": expiresAt.Format(time.RFC3339),
		"redirect":   h.homePathFor(user.Role),
	})
}

// GetCurrentUser 获取当前用户信息
func (h *Handler) GetCurrentUser(c *gin.Context) {
	id, ok := getUserID(c)
	if !ok {
		return
	}

	user, err := h.UserAuthService.GetUserByID(id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "user not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "fetch user failed", err)
		return
	}
	if user == nil {
		respondError(c, response.CodeNotFound, "user not found", nil)
		return
	}

	response.Success(c, gin.H{
		"id":                user.ID,
		"name":              user.Name,
		"email":             user.Email,
		"role":              user.Role,
		"status":            user.Status,
		"email_verified_at": user.EmailVerifiedAt,
		"last_login_at":     user.LastLoginAt,
		"created_at":        user.CreatedAt,
	})
}

// ChangeUserPasswordRequest 用户改密请求
type ChangeUserPasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// ChangeUserPassword 用户登录态修改密码
// 修改成功后历史令牌全部失效。
func (h *Handler) ChangeUserPassword(c *gin.Context) {
	id, ok := getUserID(c)
	if !ok {
		return
	}

	var req ChangeUserPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	if err := h.UserAuthService.ChangePassword(id, req.OldPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPassword):
			respondError(c, response.CodeBadRequest, "old password incorrect", nil)
		case errors.Is(err, service.ErrWeakPassword):
			respondError(c, response.CodeBadRequest, err.Error(), nil)
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "user not found", nil)
		default:
			respondError(c, response.CodeInternal, "change password failed", err)
		}
		return
	}

	response.Success(c, gin.H{"updated": true})
}

func userAuthView(user *models.User) gin.H {
	return gin.H{
		"id":                user.ID,
		"name":              user.Name,
		"email":             user.Email,
		"role":              user.Role,
		"email_verified_at": user.EmailVerifiedAt,
	}
}

func (h *Handler) recordUserLogin(c *gin.Context, email string, userID uint, status, failReason string) {
	if h == nil || h.UserLoginLogService == nil {
		return
	}
	requestID := ""
	if c != nil {
		if rid, ok := c.Get("request_id"); ok {
			if value, ok := rid.(string); ok {
				requestID = strings.TrimSpace(value)
			}
		}
	}
	_ = h.UserLoginLogService.Record(service.RecordUserLoginInput{
		UserID:      userID,
		Email:       email,
		Status:      status,
		FailReason:  failReason,
		ClientIP:    c.ClientIP(),
		UserAgent:   c.GetHeader("User-Agent"),
		LoginSource: constants.LoginLogSourceWeb,
		RequestID:   requestID,
	})
}
