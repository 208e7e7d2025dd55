package service

import (
	"errors"
	"testing"
	"time"

	"quizhub_backend/internal/config"
	"quizhub_backend/internal/model"
	"quizhub_backend/internal/repository"
	"quizhub_backend/internal/util"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	cfg := testConfig()
	cfg.JWT = config.JWTConfig{Secret: "test-secret", ExpireTime: time.Hour}
	return NewAuthService(repository.NewUserRepository(newTestDB(t)), cfg)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService(t)

	user := &model.User{Name: "Alex", Email: "alex@example.com", Password: "hunter22"}
	if err := svc.Register(user); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Password == "hunter22" {
		t.Error("password stored in plaintext")
	}

	dup := &model.User{Name: "Alex2", Email: "alex@example.com", Password: "hunter22"}
	if err := svc.Register(dup); !errors.Is(err, util.ErrEmailRegistered) {
		t.Errorf("duplicate Register err = %v, want ErrEmailRegistered", err)
	}

	token, loggedIn, err := svc.Login("alex@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" {
		t.Error("Login returned empty token")
	}
	if loggedIn.LastLogin.IsZero() {
		t.Error("LastLogin not updated on login")
	}

	claims, err := util.ParseJWT(token, "test-secret")
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if claims.UserID != user.ID || claims.Email != "alex@example.com" {
		t.Errorf("claims = %+v, want user %d", claims, user.ID)
	}

	if _, _, err := svc.Login("alex@example.com", "wrong"); !errors.Is(err, util.ErrInvalidCredentials) {
		t.Errorf("wrong password err = %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := svc.Login("nobody@example.com", "hunter22"); !errors.Is(err, util.ErrInvalidCredentials) {
		t.Errorf("unknown email err = %v, want ErrInvalidCredentials", err)
	}
}
