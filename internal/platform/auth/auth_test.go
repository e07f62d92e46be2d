package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	userID := uuid.New()

	token, err := issuer.Issue(userID, "Maria Souza", "receptionist")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := issuer.Parse(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.Subject != userID.String() {
		t.Errorf("expected subject %s, got %s", userID, claims.Subject)
	}
	if claims.Role != "receptionist" {
		t.Errorf("expected role receptionist, got %s", claims.Role)
	}
	if claims.Name != "Maria Souza" {
		t.Errorf("expected name Maria Souza, got %s", claims.Name)
	}
}

func TestTokenIssuer_RejectsWrongSecret(t *testing.T) {
	token, err := NewTokenIssuer("secret-a", time.Hour).Issue(uuid.New(), "x", "student")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := NewTokenIssuer("secret-b", time.Hour).Parse(token); err == nil {
		t.Error("expected error for token signed with different secret")
	}
}

func TestTokenIssuer_RejectsExpired(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", -time.Minute)
	token, err := issuer.Issue(uuid.New(), "x", "student")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := issuer.Parse(token); err == nil {
		t.Error("expected error for expired token")
	}
}

func TestMiddleware_MissingHeader(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := Middleware(issuer)(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	err := h(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestMiddleware_ValidToken(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	userID := uuid.New()
	token, _ := issuer.Issue(userID, "João", "student")

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := Middleware(issuer)(func(c echo.Context) error {
		ctx := c.Request().Context()
		if UserIDFromContext(ctx) != userID.String() {
			t.Errorf("expected user id %s, got %s", userID, UserIDFromContext(ctx))
		}
		if RoleFromContext(ctx) != "student" {
			t.Errorf("expected role student, got %s", RoleFromContext(ctx))
		}
		return c.String(http.StatusOK, "ok")
	})

	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRequireRole(t *testing.T) {
	cases := []struct {
		name     string
		role     string
		required []string
		allowed  bool
	}{
		{"matching role", "receptionist", []string{"receptionist"}, true},
		{"admin passes any check", "admin", []string{"professor"}, true},
		{"wrong role", "student", []string{"receptionist", "professor"}, false},
		{"no role", "", []string{"student"}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			issuer := NewTokenIssuer("test-secret", time.Hour)
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.role != "" {
				token, _ := issuer.Issue(uuid.New(), "x", tc.role)
				req.Header.Set("Authorization", "Bearer "+token)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			inner := RequireRole(tc.required...)(func(c echo.Context) error {
				return c.String(http.StatusOK, "ok")
			})
			var h echo.HandlerFunc
			if tc.role != "" {
				h = Middleware(issuer)(inner)
			} else {
				h = inner
			}

			err := h(c)
			if tc.allowed && err != nil {
				t.Fatalf("expected access, got %v", err)
			}
			if !tc.allowed {
				httpErr, ok := err.(*echo.HTTPError)
				if !ok || (httpErr.Code != http.StatusForbidden && httpErr.Code != http.StatusUnauthorized) {
					t.Fatalf("expected 403 or 401, got %v", err)
				}
			}
		})
	}
}
