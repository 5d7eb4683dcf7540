package router

import (
	"fmt"
	"strings"

	"github.com/edunext-academy/internal/cache"
	"github.com/edunext-academy/internal/config"
	"github.com/edunext-academy/internal/constants"
	adminhandlers "github.com/edunext-academy/internal/http/handlers/admin"
	publichandlers "github.com/edunext-academy/internal/http/handlers/public"
	"github.com/edunext-academy/internal/logger"
	"github.com/edunext-academy/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = constants.RedisPrefixDefault
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		Message:       "too many login attempts",
	}
	resendRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:resend_otp", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		Message:       "too many verification code requests",
	}

	paths := RedirectPathsFromConfig(cfg.Auth)
	identity := IdentityMiddleware(cfg.JWT.SecretKey, c.UserRepo, c.SessionStore)

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// 外部认证回调（仅落袋令牌并按角色跳转，不做校验）
	r.GET("/auth/callback", publicHandler.AuthCallback)

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 用户认证接口
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", publicHandler.UserRegister)
			auth.POST("/verify-otp", publicHandler.UserVerifyOTP)
			auth.POST("/resend-otp", RateLimitMiddleware(redisClient, resendRule, KeyByIPAndJSONField("email")), publicHandler.UserResendOTP)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.UserLogin)
		}

		// 公开证书核验
		apiV1.GET("/certificates/verify/:code", publicHandler.VerifyCertificate)

		// 个人接口（需认证，任意角色）
		me := apiV1.Group("")
		me.Use(identity, GuardMiddleware("", c.AuthzService, paths))
		{
			me.GET("/me", publicHandler.GetCurrentUser)
			me.GET("/me/login-logs", publicHandler.GetMyLoginLogs)
			me.GET("/me/certificates", publicHandler.GetMyCertificates)
			me.PUT("/me/password", publicHandler.ChangeUserPassword)
		}

		// 学员端接口
		student := apiV1.Group("/student")
		student.Use(identity, GuardMiddleware(constants.UserRoleStudent, c.AuthzService, paths))
		{
			student.GET("/dashboard", publicHandler.StudentDashboard)
		}

		// 管理端接口
		admin := apiV1.Group("/admin")
		admin.Use(identity, GuardMiddleware(constants.UserRoleAdmin, c.AuthzService, paths))
		{
			admin.GET("/users", adminHandler.GetAdminUsers)
			admin.GET("/users/:id", adminHandler.GetAdminUser)
			admin.PUT("/users/batch-status", adminHandler.BatchUpdateUserStatus)
			admin.GET("/user-login-logs", adminHandler.GetUserLoginLogs)
			admin.POST("/certificates", adminHandler.IssueCertificate)
			admin.GET("/certificates", adminHandler.GetAdminCertificates)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
