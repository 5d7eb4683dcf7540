package public

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/edunext-academy/internal/config"
	"github.com/edunext-academy/internal/provider"
	"github.com/edunext-academy/internal/session"

	"github.com/gin-gonic/gin"
)

func setupAuthCallbackTest(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		Auth: config.AuthConfig{
			SessionCookieName: "ea_session",
			LoginPath:         "/login",
			AdminHomePath:     "/admin/dashboard",
			StudentHomePath:   "/student/dashboard",
		},
	}
	handler := New(&provider.Container{
		Config:       cfg,
		SessionStore: session.NewCookieStore(cfg.Auth),
	})

	engine := gin.New()
	engine.GET("/auth/callback", handler.AuthCallback)
	return engine
}

func findCookie(t *testing.T, resp *http.Response, name string) *http.Cookie {
	t.Helper()
	for _, cookie := range resp.Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func TestAuthCallbackStoresTokenAndRedirectsByRole(t *testing.T) {
	engine := setupAuthCallbackTest(t)

	tests := []struct {
		name     string
		query    string
		wantPath string
	}{
		{"student role", "token=tok-student&role=student", "/student/dashboard"},
		{"admin role", "token=tok-admin&role=admin", "/admin/dashboard"},
		{"missing role defaults to student home", "token=tok-norole", "/student/dashboard"},
		{"unknown role defaults to student home", "token=tok-weird&role=wizard", "/student/dashboard"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/auth/callback?"+tt.query, nil)
			engine.ServeHTTP(w, req)

			if w.Code != http.StatusFound {
				t.Fatalf("expected 302, got %d", w.Code)
			}
			if got := w.Header().Get("Location"); got != tt.wantPath {
				t.Fatalf("redirect = %q, want %q", got, tt.wantPath)
			}
			cookie := findCookie(t, w.Result(), "ea_session")
			if cookie == nil || cookie.Value == "" {
				t.Fatalf("expected session cookie set")
			}
			if !cookie.HttpOnly {
				t.Fatalf("session cookie must be http-only")
			}
		})
	}
}

func TestAuthCallbackErrorClearsSessionAndRedirectsToLogin(t *testing.T) {
	engine := setupAuthCallbackTest(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/callback?error=access_denied&token=should-be-ignored", nil)
	req.AddCookie(&http.Cookie{Name: "ea_session", Value: "stale-token"})
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", w.Code)
	}
	location := w.Header().Get("Location")
	if !strings.HasPrefix(location, "/login?error=") {
		t.Fatalf("expected login redirect with error, got %q", location)
	}
	if !strings.Contains(location, "access_denied") {
		t.Fatalf("expected error carried to login page, got %q", location)
	}

	cookie := findCookie(t, w.Result(), "ea_session")
	if cookie == nil || cookie.Value != "" || cookie.MaxAge >= 0 {
		t.Fatalf("expected session cookie cleared, got %+v", cookie)
	}
}

func TestAuthCallbackWithoutTokenRedirectsToLogin(t *testing.T) {
	engine := setupAuthCallbackTest(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/callback", nil)
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", w.Code)
	}
	if got := w.Header().Get("Location"); got != "/login" {
		t.Fatalf("redirect = %q, want /login", got)
	}
	if cookie := findCookie(t, w.Result(), "ea_session"); cookie != nil {
		t.Fatalf("no session cookie expected, got %+v", cookie)
	}
}
