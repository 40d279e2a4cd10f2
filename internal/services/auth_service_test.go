package services

import (
	"errors"
	"testing"

	"tableorder_backend/internal/models"
	"tableorder_backend/internal/repositories"
	"tableorder_backend/pkg/utils"
)

func newAuthService(t *testing.T) AuthService {
	t.Helper()
	utils.SetJWTSecret("test-secret")
	return NewAuthService(nil, repositories.NewMemoryStore())
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService(t)

	reg, err := svc.Register("Owner@Example.com", "secret123", models.RoleOwner)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if reg.User.Email != "owner@example.com" {
		t.Errorf("registered email = %q, want lowercased %q", reg.User.Email, "owner@example.com")
	}
	if reg.User.Role != models.RoleOwner {
		t.Errorf("registered role = %q, want %q", reg.User.Role, models.RoleOwner)
	}
	if reg.AccessToken == "" {
		t.Error("Register returned empty access token")
	}

	login, err := svc.Login("owner@example.com", "secret123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if login.User.ID != reg.User.ID {
		t.Errorf("login user ID = %d, want %d", login.User.ID, reg.User.ID)
	}

	claims, err := utils.ValidateToken(login.AccessToken)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != reg.User.ID || claims.Role != models.RoleOwner {
		t.Errorf("token claims = %+v, want user %d with role %q", claims, reg.User.ID, models.RoleOwner)
	}
}

func TestRegisterDefaultsToCustomer(t *testing.T) {
	svc := newAuthService(t)

	reg, err := svc.Register("guest@example.com", "secret123", "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if reg.User.Role != models.RoleCustomer {
		t.Errorf("default role = %q, want %q", reg.User.Role, models.RoleCustomer)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newAuthService(t)

	tests := []struct {
		name                  string
		email, password, role string
		want                  error
	}{
		{"bad email", "not-an-email", "secret123", "", ErrValidation},
		{"short password", "a@b.com", "123", "", ErrValidation},
		{"unknown role", "a@b.com", "secret123", "admin", ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Register(tt.email, tt.password, tt.role); !errors.Is(err, tt.want) {
				t.Errorf("Register(%s) error = %v, want %v", tt.name, err, tt.want)
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newAuthService(t)

	if _, err := svc.Register("dup@example.com", "secret123", ""); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if _, err := svc.Register("dup@example.com", "secret123", ""); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("second Register error = %v, want ErrEmailTaken", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newAuthService(t)

	if _, err := svc.Register("user@example.com", "secret123", ""); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := svc.Login("user@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login with wrong password: error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login("nobody@example.com", "secret123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login with unknown email: error = %v, want ErrInvalidCredentials", err)
	}
}
