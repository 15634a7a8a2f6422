package services

import (
	"context"
	"errors"
	"testing"

	"github.com/greenpoint-esg/esg-backend/internal/types"
)

func newAuthService(t *testing.T) (AuthService, context.Context) {
	t.Helper()
	deps := newTestDeps(t)
	as := NewAuthService(deps.tx, deps.log, deps.userRepo)
	return as, context.Background()
}

func TestRegisterAndLogin(t *testing.T) {
	as, ctx := newAuthService(t)

	user, err := as.Register(ctx, RegisterInput{
		Email:    "jo@example.com",
		Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Role != types.RoleViewer {
		t.Fatalf("default role = %s, want viewer", user.Role)
	}
	if user.Password == "s3cret-pass" {
		t.Fatal("password must be stored hashed")
	}

	token, loggedIn, err := as.Login(ctx, "jo@example.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if loggedIn.ID != user.ID {
		t.Fatal("login returned wrong user")
	}

	claims, err := as.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserID != user.ID.String() {
		t.Fatalf("claims user = %s, want %s", claims.UserID, user.ID)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	as, ctx := newAuthService(t)
	if _, err := as.Register(ctx, RegisterInput{Email: "jo@example.com", Password: "right"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, _, err := as.Login(ctx, "jo@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("want ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := as.Login(ctx, "nobody@example.com", "x"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email: want ErrInvalidCredentials, got %v", err)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	as, ctx := newAuthService(t)
	if _, err := as.Register(ctx, RegisterInput{Email: "jo@example.com", Password: "pw"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := as.Register(ctx, RegisterInput{Email: "jo@example.com", Password: "pw2"}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("want ErrEmailTaken, got %v", err)
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	as, _ := newAuthService(t)
	if _, err := as.ParseToken("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("want ErrInvalidToken, got %v", err)
	}
}
