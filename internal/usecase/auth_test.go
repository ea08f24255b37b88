package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"baratcx/internal/domain/models"
	"baratcx/internal/service/session"
	"baratcx/pkg/cache"
	"baratcx/pkg/config"
)

func newTestAuth(t *testing.T) *Auth {
	t.Helper()
	kv := cache.NewMemoryCache()
	t.Cleanup(func() { kv.Close() })

	cfg := testConfig(config.PolicySynthetic)
	cfg.Auth.AdminEmail = "admin@baratcx.com"
	cfg.Auth.AdminPassword = "hunter22"
	cfg.Auth.TempPassword = "temp123"
	cfg.Session.TokenTTL = time.Hour

	return NewAuth(cfg, session.NewStore(kv), newTestLogger(t))
}

func TestAdminLogin(t *testing.T) {
	a := newTestAuth(t)
	ctx := context.Background()

	sess, err := a.Login(ctx, "Admin@Baratcx.com", "hunter22")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if sess.Role != models.RoleAdmin || sess.Token == "" {
		t.Fatalf("unexpected session: %+v", sess)
	}

	got, err := a.Authenticate(ctx, sess.Token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if got.UserID != sess.UserID {
		t.Fatalf("token resolved to %q", got.UserID)
	}
}

func TestAdminLoginBadPassword(t *testing.T) {
	a := newTestAuth(t)
	if _, err := a.Login(context.Background(), "admin@baratcx.com", "wrong"); !errors.Is(err, models.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestEmployeeLifecycle(t *testing.T) {
	a := newTestAuth(t)
	ctx := context.Background()

	emp, err := a.AddEmployee(ctx, &models.AddEmployeeRequest{Name: "Jane Smith", Email: "jane@baratcx.com"})
	if err != nil {
		t.Fatalf("AddEmployee: %v", err)
	}
	if !emp.IsTemporary || emp.Role != models.RoleEmployee {
		t.Fatalf("new employee flags: %+v", emp)
	}

	// Duplicate email is rejected.
	if _, err := a.AddEmployee(ctx, &models.AddEmployeeRequest{Name: "Jane II", Email: "JANE@baratcx.com"}); err == nil {
		t.Fatal("duplicate email must be rejected")
	}

	// Employees sign in with the shared temporary password.
	sess, err := a.Login(ctx, "jane@baratcx.com", "temp123")
	if err != nil {
		t.Fatalf("employee login: %v", err)
	}
	if sess.Role != models.RoleEmployee || !sess.IsTemporary {
		t.Fatalf("unexpected session: %+v", sess)
	}

	// Setting a new password clears the temporary flag.
	updated, err := a.UpdateProfile(ctx, sess, &models.UpdateProfileRequest{Name: "Jane Smith", NewPassword: "s3cret99"})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated.IsTemporary {
		t.Fatal("temporary flag must clear after password change")
	}

	if _, err := a.Login(ctx, "jane@baratcx.com", "temp123"); !errors.Is(err, models.ErrUnauthenticated) {
		t.Fatalf("old password must stop working, got %v", err)
	}
	if _, err := a.Login(ctx, "jane@baratcx.com", "s3cret99"); err != nil {
		t.Fatalf("new password login: %v", err)
	}

	if err := a.RemoveEmployee(ctx, emp.ID); err != nil {
		t.Fatalf("RemoveEmployee: %v", err)
	}
	if _, err := a.Login(ctx, "jane@baratcx.com", "s3cret99"); !errors.Is(err, models.ErrUnauthenticated) {
		t.Fatalf("removed employee must not log in, got %v", err)
	}
}

func TestRemoveUnknownEmployee(t *testing.T) {
	a := newTestAuth(t)
	if err := a.RemoveEmployee(context.Background(), "emp-missing"); err == nil {
		t.Fatal("expected error for unknown employee")
	}
}

func TestLogoutInvalidatesToken(t *testing.T) {
	a := newTestAuth(t)
	ctx := context.Background()

	sess, err := a.Login(ctx, "admin@baratcx.com", "hunter22")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := a.Logout(ctx, sess.Token); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := a.Authenticate(ctx, sess.Token); !errors.Is(err, models.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated after logout, got %v", err)
	}
}

func TestAuthenticateEmptyToken(t *testing.T) {
	a := newTestAuth(t)
	if _, err := a.Authenticate(context.Background(), ""); !errors.Is(err, models.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}
