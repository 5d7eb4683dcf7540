package service

import "errors"

// 认证相关错误
var (
	ErrInvalidEmail          = errors.New("invalid email")
	ErrEmailExists           = errors.New("email already registered")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrUserSuspended         = errors.New("user suspended")
	ErrEmailNotVerified      = errors.New("email not verified")
	ErrEmailAlreadyVerified  = errors.New("email already verified")
	ErrVerifyCodeInvalid     = errors.New("verify code invalid")
	ErrVerifyCodeExpired     = errors.New("verify code expired")
	ErrVerifyCodeTooFrequent = errors.New("verify code requested too frequently")
	ErrInvalidPassword       = errors.New("invalid password")
	ErrWeakPassword          = errors.New("password too weak")
	ErrNotFound              = errors.New("record not found")
)

// 邮件相关错误
var (
	ErrEmailServiceDisabled      = errors.New("email service disabled")
	ErrEmailServiceNotConfigured = errors.New("email service not configured")
	ErrEmailRecipientRejected    = errors.New("email recipient rejected")
)

// 证书相关错误
var (
	ErrCertificateStudentInvalid = errors.New("certificate student invalid")
	ErrCertificateInputInvalid   = errors.New("certificate input invalid")
)

// 用户管理相关错误
var (
	ErrUserStatusInvalid = errors.New("user status invalid")
)
