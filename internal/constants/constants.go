package constants

// 用户角色常量
const (
	UserRoleStudent = "student"
	UserRoleAdmin   = "admin"
)

// 用户状态常量
const (
	UserStatusActive    = "active"
	UserStatusSuspended = "suspended"
)

// 登录日志状态常量
const (
	LoginLogStatusSuccess = "success"
	LoginLogStatusFailed  = "failed"
)

// 登录日志失败原因常量
const (
	LoginLogFailReasonBadRequest         = "bad_request"
	LoginLogFailReasonInvalidEmail       = "invalid_email"
	LoginLogFailReasonInvalidCredentials = "invalid_credentials"
	LoginLogFailReasonEmailNotVerified   = "email_not_verified"
	LoginLogFailReasonUserSuspended      = "user_suspended"
	LoginLogFailReasonInternalError      = "internal_error"
)

// 登录日志来源常量
const (
	LoginLogSourceWeb      = "web"
	LoginLogSourceExternal = "external"
)

// 队列常量
const (
	QueueDefault              = "default"
	QueueCritical             = "critical"
	TaskVerifyCodeEmail       = "auth:verify_code_email"
	TaskCertificateIssueEmail = "certificate:issued_email"
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "ea"
)

// 角色跳转目标常量
const (
	RedirectAdminHome   = "/admin/dashboard"
	RedirectStudentHome = "/student/dashboard"
	RedirectLogin       = "/login"
)

// 外部认证回调参数常量
const (
	CallbackParamToken = "token"
	CallbackParamRole  = "role"
	CallbackParamError = "error"
)
