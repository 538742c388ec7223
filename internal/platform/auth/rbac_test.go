package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func contextWithRoles(roles ...string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := context.WithValue(req.Context(), UserRolesKey, roles)
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func TestRequireRole_Allows(t *testing.T) {
	c := contextWithRoles("recruiter")
	err := RequireRole("recruiter")(func(c echo.Context) error { return nil })(c)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRequireRole_AdminBypass(t *testing.T) {
	c := contextWithRoles("admin")
	err := RequireRole("supervisor")(func(c echo.Context) error { return nil })(c)
	if err != nil {
		t.Errorf("expected admin to pass, got %v", err)
	}
}

func TestRequireRole_Forbidden(t *testing.T) {
	c := contextWithRoles("recruiter")
	err := RequireRole("supervisor")(func(c echo.Context) error { return nil })(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected HTTPError, got %T", err)
	}
	if httpErr.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", httpErr.Code)
	}
}

func TestRequireRole_NoRoles(t *testing.T) {
	c := contextWithRoles()
	err := RequireRole("recruiter")(func(c echo.Context) error { return nil })(c)
	if err == nil {
		t.Error("expected error for user with no roles")
	}
}
