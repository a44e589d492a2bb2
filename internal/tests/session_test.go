package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"limo/internal/auth"
	"limo/internal/domain"
	"limo/internal/repository"
	"limo/internal/service"
)

// ──────────────────────────────────────────────
// 11. ADMIN TOKENS
// ──────────────────────────────────────────────

func newSessionFixture(t *testing.T) (*service.SessionService, *auth.Service) {
	t.Helper()

	tokens, err := auth.NewService("test-secret", "limo", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	users := NewMockUserRepository()
	users.AddUser(&domain.User{ID: "admin-1", TenantID: tenantID, Email: "boss@acme.example", Role: domain.UserRoleAdmin})
	users.AddUser(&domain.User{ID: "root-1", Email: "root@limo.example", Role: domain.UserRoleSuperAdmin})
	users.AddUser(&domain.User{ID: "orphan-1", Email: "orphan@limo.example", Role: domain.UserRoleAdmin})
	users.AddUser(&domain.User{ID: "user-1", TenantID: tenantID, Email: "ada@example.com", Role: domain.UserRoleEndUser, IsGuest: true})
	users.AddUser(&domain.User{ID: driverID, TenantID: tenantID, Email: "sam@acme.example", Role: domain.UserRoleDriver})

	return service.NewSessionService(users, tokens), tokens
}

func TestIssueToken_TenantAdmin(t *testing.T) {
	t.Parallel()

	sessions, tokens := newSessionFixture(t)

	token, user, err := sessions.IssueToken(context.Background(), "  Boss@Acme.example ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != "admin-1" {
		t.Errorf("expected admin-1, got %s", user.ID)
	}

	claims, err := tokens.ValidateToken(token)
	if err != nil {
		t.Fatalf("issued token must validate: %v", err)
	}
	if claims.UserID != "admin-1" || claims.Role != domain.UserRoleAdmin || claims.TenantID != tenantID {
		t.Errorf("unexpected claims %+v", claims)
	}
	if !claims.CanManageTenant(tenantID) || claims.CanManageTenant(otherID) {
		t.Error("tenant admin token must manage only its own tenant")
	}
}

func TestIssueToken_SuperAdmin(t *testing.T) {
	t.Parallel()

	sessions, tokens := newSessionFixture(t)

	token, _, err := sessions.IssueToken(context.Background(), "root@limo.example")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	claims, err := tokens.ValidateToken(token)
	if err != nil || !claims.CanManageTenant(otherID) {
		t.Errorf("super admin token must manage any tenant, got %+v, %v", claims, err)
	}
}

func TestIssueToken_Rejections(t *testing.T) {
	t.Parallel()

	sessions, _ := newSessionFixture(t)

	testCases := []struct {
		name  string
		email string
		want  error
	}{
		{"empty", "", service.ErrInvalidEmail},
		{"malformed", "not-an-email", service.ErrInvalidEmail},
		{"unknown", "ghost@acme.example", repository.ErrNotFound},
		{"customer", "ada@example.com", service.ErrNotStaff},
		{"driver", "sam@acme.example", service.ErrNotStaff},
		{"admin without tenant", "orphan@limo.example", service.ErrNotStaff},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			token, _, err := sessions.IssueToken(context.Background(), tc.email)
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
			if token != "" {
				t.Error("no token may be issued")
			}
		})
	}
}
