package service

import (
	"errors"
	"exam_hub_backend/internal/config"
	"exam_hub_backend/internal/model"
	"exam_hub_backend/internal/util"
	"testing"
	"time"
)

func newAuthService(f *fixture) *AuthService {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret-that-is-long-enough-for-hs256"
	cfg.JWT.ExpireTime = time.Hour
	return NewAuthService(f.users, cfg)
}

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	auth := newAuthService(f)

	u := &model.User{
		Name:      "Alice",
		Email:     "alice@example.com",
		Password:  "s3cret",
		Role:      model.Student,
		ClassName: "3A",
	}
	if err := auth.Register(u); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Password == "s3cret" {
		t.Error("password stored in clear")
	}

	token, err := auth.Login("alice@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	claims, err := util.ParseJWT(token, "test-secret-that-is-long-enough-for-hs256")
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if claims.UserID != u.ID || claims.Role != model.Student {
		t.Errorf("claims = %+v, want user %d student", claims, u.ID)
	}

	if _, err := auth.Login("alice@example.com", "wrong"); err == nil {
		t.Error("login with wrong password succeeded")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	auth := newAuthService(f)

	first := &model.User{Name: "A", Email: "dup@example.com", Password: "x", Role: model.Student}
	if err := auth.Register(first); err != nil {
		t.Fatalf("Register: %v", err)
	}
	second := &model.User{Name: "B", Email: "dup@example.com", Password: "y", Role: model.Teacher}
	if err := auth.Register(second); !errors.Is(err, util.ErrEmailRegistered) {
		t.Errorf("err = %v, want ErrEmailRegistered", err)
	}
}

func TestLoginDisabledAccount(t *testing.T) {
	f := newFixture(t)
	auth := newAuthService(f)

	u := &model.User{Name: "C", Email: "c@example.com", Password: "pw", Role: model.Student}
	if err := auth.Register(u); err != nil {
		t.Fatalf("Register: %v", err)
	}
	u.Disabled = true
	if err := f.users.Update(u); err != nil {
		t.Fatalf("disable: %v", err)
	}

	if _, err := auth.Login("c@example.com", "pw"); err == nil {
		t.Error("disabled account logged in")
	}
}
