package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/jobassist/internal/apperror"
	"github.com/sakif/jobassist/internal/auth"
)

func newTestAuthService(repo *mockUserRepo) *AuthService {
	tokens, err := auth.NewTokenService("test-secret-at-least-32-bytes-long!!")
	if err != nil {
		panic(err)
	}
	// Low bcrypt cost keeps the suite fast.
	return NewAuthService(repo, auth.NewPasswordServiceForTest(4), tokens, testLogger())
}

// =========================================================================
// REGISTER
// =========================================================================

func TestRegister(t *testing.T) {
	svc := newTestAuthService(newMockUserRepo())

	user, token, err := svc.Register(context.Background(), "Sam@Example.com", "Sam", "hunter2hunter2")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if user.ID == "" {
		t.Error("no ID assigned")
	}
	if user.Email != "sam@example.com" {
		t.Errorf("email not normalized: %q", user.Email)
	}
	if user.PasswordHash == "hunter2hunter2" || user.PasswordHash == "" {
		t.Error("password stored badly")
	}
	if token == "" {
		t.Error("no token issued")
	}
}

func TestRegister_Validation(t *testing.T) {
	svc := newTestAuthService(newMockUserRepo())
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"bad email", "not-an-email", "hunter2hunter2"},
		{"empty email", "", "hunter2hunter2"},
		{"short password", "sam@example.com", "short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Register(ctx, tt.email, "Sam", tt.password)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Fatalf("err = %v, want validation", err)
			}
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := newTestAuthService(newMockUserRepo())
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, "sam@example.com", "Sam", "hunter2hunter2"); err != nil {
		t.Fatal(err)
	}
	_, _, err := svc.Register(ctx, "sam@example.com", "Other", "hunter2hunter2")
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("err = %v, want conflict", err)
	}
}

// =========================================================================
// LOGIN
// =========================================================================

func TestLogin(t *testing.T) {
	svc := newTestAuthService(newMockUserRepo())
	ctx := context.Background()

	registered, _, err := svc.Register(ctx, "sam@example.com", "Sam", "hunter2hunter2")
	if err != nil {
		t.Fatal(err)
	}

	user, token, err := svc.Login(ctx, "sam@example.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if user.ID != registered.ID {
		t.Errorf("logged in as %q, registered as %q", user.ID, registered.ID)
	}
	if token == "" {
		t.Error("no token issued")
	}
}

// Wrong password and unknown email must be indistinguishable to the
// caller, so account existence can't be probed.
func TestLogin_BadCredentials(t *testing.T) {
	svc := newTestAuthService(newMockUserRepo())
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, "sam@example.com", "Sam", "hunter2hunter2"); err != nil {
		t.Fatal(err)
	}

	_, _, errWrongPass := svc.Login(ctx, "sam@example.com", "wrong-password")
	_, _, errNoUser := svc.Login(ctx, "nobody@example.com", "hunter2hunter2")

	for _, err := range []error{errWrongPass, errNoUser} {
		if !errors.Is(err, apperror.ErrUnauthorized) {
			t.Fatalf("err = %v, want unauthorized", err)
		}
	}
	if errWrongPass.Error() != errNoUser.Error() {
		t.Errorf("errors differ: %q vs %q", errWrongPass, errNoUser)
	}
}

func TestGetUser(t *testing.T) {
	svc := newTestAuthService(newMockUserRepo())
	ctx := context.Background()

	registered, _, err := svc.Register(ctx, "sam@example.com", "Sam", "hunter2hunter2")
	if err != nil {
		t.Fatal(err)
	}

	got, err := svc.GetUser(ctx, registered.ID)
	if err != nil {
		t.Fatalf("GetUser() error = %v", err)
	}
	if got.Email != "sam@example.com" {
		t.Errorf("got %+v", got)
	}

	if _, err := svc.GetUser(ctx, "nonexistent"); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}
