package router

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/edunext-academy/internal/authz"
	"github.com/edunext-academy/internal/cache"
	"github.com/edunext-academy/internal/config"
	"github.com/edunext-academy/internal/constants"
	"github.com/edunext-academy/internal/http/response"
	"github.com/edunext-academy/internal/logger"
	"github.com/edunext-academy/internal/repository"
	"github.com/edunext-academy/internal/service"
	"github.com/edunext-academy/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDKey = "request_id"
const requestIDHeader = "X-Request-ID"

const identityResolvedKey = "identity_resolved"
const userIDKey = "user_id"
const userEmailKey = "user_email"
const userRoleKey = "user_role"

// CORSMiddleware 跨域中间件
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	allowedMethods := cfg.AllowedMethods
	if len(allowedMethods) == 0 {
		allowedMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	allowedHeaders := cfg.AllowedHeaders
	if len(allowedHeaders) == 0 {
		allowedHeaders = []string{
			"Content-Type",
			"Content-Length",
			"Accept-Encoding",
			"Authorization",
			"Cache-Control",
			"X-Requested-With",
			"X-CSRF-Token",
		}
	}
	methodsHeader := strings.Join(allowedMethods, ", ")
	headersHeader := strings.Join(allowedHeaders, ", ")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowedOrigin := resolveAllowedOrigin(origin, allowedOrigins, cfg.AllowCredentials)
		if allowedOrigin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			if allowedOrigin != "*" {
				c.Writer.Header().Add("Vary", "Origin")
			}
		}
		if cfg.AllowCredentials {
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", headersHeader)
		c.Writer.Header().Set("Access-Control-Allow-Methods", methodsHeader)
		if cfg.MaxAge > 0 {
			c.Writer.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func resolveAllowedOrigin(origin string, allowedOrigins []string, allowCredentials bool) string {
	if len(allowedOrigins) == 0 {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if allowed == "*" {
			if allowCredentials && origin != "" {
				return origin
			}
			return "*"
		}
	}
	if origin == "" {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if strings.EqualFold(allowed, origin) {
			return origin
		}
	}
	return ""
}

// RequestIDMiddleware 请求 ID 中间件
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Next()
	}
}

// LoggerMiddleware 结构化请求日志中间件
func LoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.L()
	}
	sugar := logger.Sugar()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log := sugar.With(
			"request_id", getRequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
		if len(c.Errors) > 0 {
			log.Errorw("request", "errors", c.Errors.String())
			return
		}
		log.Infow("request")
	}
}

func getRequestID(c *gin.Context) string {
	value, ok := c.Get(requestIDKey)
	if !ok {
		return ""
	}
	if requestID, ok := value.(string); ok {
		return requestID
	}
	return ""
}

// RedirectPathsFromConfig 根据配置解析访问守卫的跳转目标
func RedirectPathsFromConfig(cfg config.AuthConfig) authz.RedirectPaths {
	paths := authz.RedirectPaths{
		Login:       constants.RedirectLogin,
		AdminHome:   constants.RedirectAdminHome,
		StudentHome: constants.RedirectStudentHome,
	}
	if v := strings.TrimSpace(cfg.LoginPath); v != "" {
		paths.Login = v
	}
	if v := strings.TrimSpace(cfg.AdminHomePath); v != "" {
		paths.AdminHome = v
	}
	if v := strings.TrimSpace(cfg.StudentHomePath); v != "" {
		paths.StudentHome = v
	}
	return paths
}

// IdentityMiddleware 解析访问者身份
// 令牌优先取 Authorization 头，其次取会话 Cookie。解析失败不在此处拒绝，
// 仅标记解析完成；拒绝与跳转由访问守卫统一裁决。
func IdentityMiddleware(secretKey string, userRepo repository.UserRepository, sessions session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := resolveIdentity(c, secretKey, userRepo, sessions)
		if identity != nil {
			c.Set(userIDKey, identity.UserID)
			c.Set(userEmailKey, identity.Email)
			c.Set(userRoleKey, identity.Role)
		}
		c.Set(identityResolvedKey, true)
		c.Next()
	}
}

func resolveIdentity(c *gin.Context, secretKey string, userRepo repository.UserRepository, sessions session.Store) *authz.Identity {
	if secretKey == "" || userRepo == nil {
		return nil
	}

	tokenString := bearerToken(c)
	if tokenString == "" && sessions != nil {
		if fromCookie, ok := sessions.Read(c); ok {
			tokenString = fromCookie
		}
	}
	if tokenString == "" {
		return nil
	}

	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &service.UserJWTClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secretKey), nil
	})
	if err != nil || !token.Valid || claims.UserID == 0 {
		return nil
	}

	if cached, hit, cacheErr := cache.GetUserAuthState(c.Request.Context(), claims.UserID); cacheErr == nil && hit && cached != nil {
		if !isActiveUserStatus(cached.Status) {
			return nil
		}
		if claims.TokenVersion != cached.TokenVersion || !isIssuedAfterInvalidBeforeUnix(claims.IssuedAt, cached.TokenInvalidBefore) {
			return nil
		}
		return &authz.Identity{UserID: claims.UserID, Email: claims.Email, Role: cached.Role}
	}

	user, err := userRepo.GetByID(claims.UserID)
	if err != nil || user == nil {
		return nil
	}
	if !isActiveUserStatus(user.Status) {
		return nil
	}
	if claims.TokenVersion != user.TokenVersion || !isIssuedAfterInvalidBefore(claims.IssuedAt, user.TokenInvalidBefore) {
		return nil
	}
	_ = cache.SetUserAuthState(c.Request.Context(), cache.BuildUserAuthState(user))

	return &authz.Identity{UserID: user.ID, Email: user.Email, Role: user.Role}
}

func bearerToken(c *gin.Context) string {
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// GuardMiddleware 访问守卫中间件
// 在身份解析完成后裁决放行或拒绝；拒绝时浏览器请求收到 302，
// API 请求收到携带同一跳转目标的错误响应。受保护的处理器绝不在裁决前执行。
func GuardMiddleware(requiredRole string, authzService *authz.Service, paths authz.RedirectPaths) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, resolved := identityFromContext(c)

		decision := authz.Evaluate(identity, resolved, requiredRole)
		if decision == authz.DecisionPending {
			// 身份解析未完成视为部署错误，不放行任何请求
			logger.Errorw("guard_identity_unresolved", "path", c.Request.URL.Path)
			denyGuarded(c, authz.DecisionDeniedUnauthenticated, "", paths)
			return
		}
		if decision.Denied() {
			visitorRole := ""
			if identity != nil {
				visitorRole = identity.Role
			}
			denyGuarded(c, decision, visitorRole, paths)
			return
		}

		if authzService != nil {
			resource := c.FullPath()
			if strings.TrimSpace(resource) == "" {
				resource = c.Request.URL.Path
			}
			allowed, err := authzService.EnforceRole(identity.Role, resource, c.Request.Method)
			if err != nil {
				logger.Errorw("guard_enforce_failed",
					"user_id", identity.UserID,
					"role", identity.Role,
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
					"error", err,
				)
				denyGuarded(c, authz.DecisionDeniedWrongRole, identity.Role, paths)
				return
			}
			if !allowed {
				logger.Warnw("guard_permission_denied",
					"user_id", identity.UserID,
					"role", identity.Role,
					"method", c.Request.Method,
					"resource", authz.NormalizeObject(resource),
				)
				denyGuarded(c, authz.DecisionDeniedWrongRole, identity.Role, paths)
				return
			}
		}

		c.Next()
	}
}

func identityFromContext(c *gin.Context) (*authz.Identity, bool) {
	resolvedRaw, ok := c.Get(identityResolvedKey)
	if !ok {
		return nil, false
	}
	resolved, ok := resolvedRaw.(bool)
	if !ok || !resolved {
		return nil, false
	}

	idRaw, ok := c.Get(userIDKey)
	if !ok {
		return nil, true
	}
	userID, ok := idRaw.(uint)
	if !ok || userID == 0 {
		return nil, true
	}
	return &authz.Identity{
		UserID: userID,
		Email:  c.GetString(userEmailKey),
		Role:   c.GetString(userRoleKey),
	}, true
}

func denyGuarded(c *gin.Context, decision authz.Decision, visitorRole string, paths authz.RedirectPaths) {
	target := authz.RedirectTargetFor(decision, visitorRole, paths)
	if decision == authz.DecisionDeniedUnauthenticated && target != "" {
		// 登录后回跳原始地址
		target = target + "?next=" + url.QueryEscape(c.Request.URL.RequestURI())
	}

	if wantsHTML(c) && target != "" {
		c.Redirect(302, target)
		c.Abort()
		return
	}

	switch decision {
	case authz.DecisionDeniedWrongRole:
		response.ErrorWithData(c, response.CodeForbidden, "forbidden", gin.H{"redirect": target})
	default:
		response.ErrorWithData(c, response.CodeUnauthorized, "unauthorized", gin.H{"redirect": target})
	}
	c.Abort()
}

func wantsHTML(c *gin.Context) bool {
	accept := c.GetHeader("Accept")
	return strings.Contains(accept, "text/html")
}

func isIssuedAfterInvalidBefore(issuedAt *jwt.NumericDate, invalidBefore *time.Time) bool {
	if invalidBefore == nil {
		return true
	}
	if issuedAt == nil {
		return false
	}
	return issuedAt.Time.Unix() >= invalidBefore.Unix()
}

func isIssuedAfterInvalidBeforeUnix(issuedAt *jwt.NumericDate, invalidBeforeUnix int64) bool {
	if invalidBeforeUnix <= 0 {
		return true
	}
	if issuedAt == nil {
		return false
	}
	return issuedAt.Time.Unix() >= invalidBeforeUnix
}

func isActiveUserStatus(status string) bool {
	return strings.ToLower(strings.TrimSpace(status)) == constants.UserStatusActive
}
