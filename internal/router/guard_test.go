package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/edunext-academy/internal/authz"
	"github.com/edunext-academy/internal/config"
	"github.com/edunext-academy/internal/constants"
	"github.com/edunext-academy/internal/models"
	"github.com/edunext-academy/internal/repository"
	"github.com/edunext-academy/internal/service"
	"github.com/edunext-academy/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

const guardTestSecret = "guard-test-secret-key-0123456789abcdef"

type guardTestEnv struct {
	engine   *gin.Engine
	authSvc  *service.UserAuthService
	userRepo repository.UserRepository
	db       *gorm.DB
}

func setupGuardTest(t *testing.T) *guardTestEnv {
	t.Helper()

	gin.SetMode(gin.TestMode)
	dsn := fmt.Sprintf("file:guard_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	authzService, err := authz.NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	if err := authzService.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap roles failed: %v", err)
	}

	cfg := &config.Config{
		JWT: config.JWTConfig{SecretKey: guardTestSecret, ExpireHours: 24},
		Auth: config.AuthConfig{
			SessionCookieName: "ea_session",
			LoginPath:         "/login",
			AdminHomePath:     "/admin/dashboard",
			StudentHomePath:   "/student/dashboard",
		},
	}
	userRepo := repository.NewUserRepository(db)
	authSvc := service.NewUserAuthService(cfg, userRepo, nil, nil)
	sessions := session.NewCookieStore(cfg.Auth)
	paths := RedirectPathsFromConfig(cfg.Auth)

	engine := gin.New()
	apiV1 := engine.Group("/api/v1")
	apiV1.Use(IdentityMiddleware(cfg.JWT.SecretKey, userRepo, sessions))

	me := apiV1.Group("")
	me.Use(GuardMiddleware("", authzService, paths))
	me.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status_code": 0, "user_id": c.GetUint("user_id")})
	})

	student := apiV1.Group("/student")
	student.Use(GuardMiddleware(constants.UserRoleStudent, authzService, paths))
	student.GET("/dashboard", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status_code": 0})
	})

	admin := apiV1.Group("/admin")
	admin.Use(GuardMiddleware(constants.UserRoleAdmin, authzService, paths))
	admin.GET("/users", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status_code": 0})
	})

	return &guardTestEnv{engine: engine, authSvc: authSvc, userRepo: userRepo, db: db}
}

func (env *guardTestEnv) createUser(t *testing.T, email, role string) *models.User {
	t.Helper()

	now := time.Now()
	user := &models.User{
		Name:            "Guard User",
		Email:           email,
		PasswordHash:    "x",
		Role:            role,
		Status:          constants.UserStatusActive,
		EmailVerifiedAt: &now,
	}
	if err := env.db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func (env *guardTestEnv) tokenFor(t *testing.T, user *models.User) string {
	t.Helper()

	token, _, err := env.authSvc.GenerateUserJWT(user, 0)
	if err != nil {
		t.Fatalf("generate token failed: %v", err)
	}
	return token
}

type guardEnvelope struct {
	StatusCode int    `json:"status_code"`
	Msg        string `json:"msg"`
	Data       struct {
		Redirect string `json:"redirect"`
	} `json:"data"`
}

func (env *guardTestEnv) do(t *testing.T, path, token, accept string) (*httptest.ResponseRecorder, guardEnvelope) {
	t.Helper()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	env.engine.ServeHTTP(w, req)

	var envelope guardEnvelope
	if w.Code == http.StatusOK {
		if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("unmarshal response failed: %v (%s)", err, w.Body.String())
		}
	}
	return w, envelope
}

func TestGuardAnonymousAPIRequestDenied(t *testing.T) {
	env := setupGuardTest(t)

	w, envelope := env.do(t, "/api/v1/student/dashboard", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected enveloped response, got HTTP %d", w.Code)
	}
	if envelope.StatusCode != 401 {
		t.Fatalf("expected status_code 401, got %d", envelope.StatusCode)
	}
	if envelope.Data.Redirect != "/login?next=%2Fapi%2Fv1%2Fstudent%2Fdashboard" {
		t.Fatalf("unexpected redirect: %q", envelope.Data.Redirect)
	}
}

func TestGuardAnonymousBrowserRequestRedirects(t *testing.T) {
	env := setupGuardTest(t)

	w, _ := env.do(t, "/api/v1/student/dashboard", "", "text/html,application/xhtml+xml")
	if w.Code != http.StatusFound {
		t.Fatalf("expected 302 for browser request, got %d", w.Code)
	}
	if got := w.Header().Get("Location"); got != "/login?next=%2Fapi%2Fv1%2Fstudent%2Fdashboard" {
		t.Fatalf("unexpected redirect target: %q", got)
	}
}

func TestGuardStudentDeniedOnAdminArea(t *testing.T) {
	env := setupGuardTest(t)
	student := env.createUser(t, "guard-student@example.com", constants.UserRoleStudent)
	token := env.tokenFor(t, student)

	w, envelope := env.do(t, "/api/v1/admin/users", token, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected enveloped response, got HTTP %d", w.Code)
	}
	if envelope.StatusCode != 403 {
		t.Fatalf("expected status_code 403, got %d", envelope.StatusCode)
	}
	if envelope.Data.Redirect != "/student/dashboard" {
		t.Fatalf("expected redirect to own home, got %q", envelope.Data.Redirect)
	}

	wb, _ := env.do(t, "/api/v1/admin/users", token, "text/html")
	if wb.Code != http.StatusFound {
		t.Fatalf("expected 302 for browser request, got %d", wb.Code)
	}
	if got := wb.Header().Get("Location"); got != "/student/dashboard" {
		t.Fatalf("browser redirect = %q", got)
	}
}

func TestGuardAdminDeniedOnStudentArea(t *testing.T) {
	env := setupGuardTest(t)
	admin := env.createUser(t, "guard-admin@example.com", constants.UserRoleAdmin)
	token := env.tokenFor(t, admin)

	w, envelope := env.do(t, "/api/v1/student/dashboard", token, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected enveloped response, got HTTP %d", w.Code)
	}
	if envelope.StatusCode != 403 {
		t.Fatalf("expected status_code 403, got %d", envelope.StatusCode)
	}
	if envelope.Data.Redirect != "/admin/dashboard" {
		t.Fatalf("expected redirect to admin home, got %q", envelope.Data.Redirect)
	}
}

func TestGuardAllowsMatchingRole(t *testing.T) {
	env := setupGuardTest(t)
	student := env.createUser(t, "guard-ok-student@example.com", constants.UserRoleStudent)
	admin := env.createUser(t, "guard-ok-admin@example.com", constants.UserRoleAdmin)

	w, envelope := env.do(t, "/api/v1/student/dashboard", env.tokenFor(t, student), "")
	if w.Code != http.StatusOK || envelope.StatusCode != 0 {
		t.Fatalf("student dashboard denied: http=%d status_code=%d", w.Code, envelope.StatusCode)
	}

	w, envelope = env.do(t, "/api/v1/admin/users", env.tokenFor(t, admin), "")
	if w.Code != http.StatusOK || envelope.StatusCode != 0 {
		t.Fatalf("admin users denied: http=%d status_code=%d", w.Code, envelope.StatusCode)
	}
}

func TestGuardSharedAreaAcceptsBothRoles(t *testing.T) {
	env := setupGuardTest(t)
	student := env.createUser(t, "guard-me-student@example.com", constants.UserRoleStudent)
	admin := env.createUser(t, "guard-me-admin@example.com", constants.UserRoleAdmin)

	for _, user := range []*models.User{student, admin} {
		w, envelope := env.do(t, "/api/v1/me", env.tokenFor(t, user), "")
		if w.Code != http.StatusOK || envelope.StatusCode != 0 {
			t.Fatalf("me denied for %s: http=%d status_code=%d", user.Role, w.Code, envelope.StatusCode)
		}
	}
}

func TestGuardAcceptsSessionCookieToken(t *testing.T) {
	env := setupGuardTest(t)
	student := env.createUser(t, "guard-cookie@example.com", constants.UserRoleStudent)
	token := env.tokenFor(t, student)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/student/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "ea_session", Value: token})
	env.engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var envelope guardEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if envelope.StatusCode != 0 {
		t.Fatalf("cookie token denied: status_code=%d", envelope.StatusCode)
	}
}

func TestGuardRejectsSuspendedUser(t *testing.T) {
	env := setupGuardTest(t)
	student := env.createUser(t, "guard-suspended@example.com", constants.UserRoleStudent)
	token := env.tokenFor(t, student)

	if err := env.db.Model(student).Update("status", constants.UserStatusSuspended).Error; err != nil {
		t.Fatalf("suspend failed: %v", err)
	}

	_, envelope := env.do(t, "/api/v1/student/dashboard", token, "")
	if envelope.StatusCode != 401 {
		t.Fatalf("expected suspended user rejected with 401, got %d", envelope.StatusCode)
	}
}

func TestGuardRejectsRevokedToken(t *testing.T) {
	env := setupGuardTest(t)
	student := env.createUser(t, "guard-revoked@example.com", constants.UserRoleStudent)
	token := env.tokenFor(t, student)

	// 密码修改后版本号提升，旧 Token 作废
	if err := env.db.Model(student).Update("token_version", student.TokenVersion+1).Error; err != nil {
		t.Fatalf("bump token version failed: %v", err)
	}

	_, envelope := env.do(t, "/api/v1/student/dashboard", token, "")
	if envelope.StatusCode != 401 {
		t.Fatalf("expected revoked token rejected with 401, got %d", envelope.StatusCode)
	}
}

func TestGuardRejectsGarbageToken(t *testing.T) {
	env := setupGuardTest(t)

	_, envelope := env.do(t, "/api/v1/student/dashboard", "not-a-jwt", "")
	if envelope.StatusCode != 401 {
		t.Fatalf("expected garbage token rejected with 401, got %d", envelope.StatusCode)
	}
}
