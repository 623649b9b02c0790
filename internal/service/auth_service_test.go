package service

import (
	"errors"
	"testing"

	"learnhub-backend/internal/models"
)

func newAuthService() (*AuthService, *fakeUserRepo) {
	users := newFakeUserRepo()
	return NewAuthService(users, "test-secret"), users
}

func TestRegisterAndLogin(t *testing.T) {
	service, _ := newAuthService()

	user, token, err := service.Register(&models.RegisterRequest{
		Username: "joao",
		Email:    "joao@example.com",
		Password: "secret123",
		FullName: "João Silva",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if token == "" {
		t.Fatal("expected a token")
	}
	if user.Password == "secret123" {
		t.Fatal("password stored in plain text")
	}
	if user.Role != "user" {
		t.Errorf("expected role user, got %q", user.Role)
	}

	loggedIn, loginToken, err := service.Login(&models.LoginRequest{Email: "joao@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if loggedIn.ID != user.ID {
		t.Errorf("expected user %d, got %d", user.ID, loggedIn.ID)
	}

	userID, err := service.ValidateToken(loginToken)
	if err != nil {
		t.Fatalf("ValidateToken returned error: %v", err)
	}
	if userID != user.ID {
		t.Errorf("token carries user %d, expected %d", userID, user.ID)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	service, _ := newAuthService()

	req := &models.RegisterRequest{Username: "joao", Email: "joao@example.com", Password: "secret123"}
	if _, _, err := service.Register(req); err != nil {
		t.Fatalf("first Register returned error: %v", err)
	}

	req.Username = "joao2"
	if _, _, err := service.Register(req); !errors.Is(err, ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestRegisterShortPassword(t *testing.T) {
	service, _ := newAuthService()

	_, _, err := service.Register(&models.RegisterRequest{Username: "joao", Email: "joao@example.com", Password: "abc"})
	if !IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err.Error() != "password must be at least 6 characters long" {
		t.Errorf("validation message altered: %q", err.Error())
	}
}

func TestLoginWrongPassword(t *testing.T) {
	service, _ := newAuthService()

	if _, _, err := service.Register(&models.RegisterRequest{Username: "joao", Email: "joao@example.com", Password: "secret123"}); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if _, _, err := service.Login(&models.LoginRequest{Email: "joao@example.com", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := service.Login(&models.LoginRequest{Email: "nobody@example.com", Password: "secret123"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	service, _ := newAuthService()

	if _, err := service.ValidateToken("not-a-token"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	service, _ := newAuthService()
	other := NewAuthService(newFakeUserRepo(), "another-secret")

	_, token, err := service.Register(&models.RegisterRequest{Username: "joao", Email: "joao@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if _, err := other.ValidateToken(token); err == nil {
		t.Fatal("expected error for token signed with a different secret")
	}
}

func TestUpdateProfileKeepsUniqueness(t *testing.T) {
	service, _ := newAuthService()

	first, _, err := service.Register(&models.RegisterRequest{Username: "joao", Email: "joao@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if _, _, err := service.Register(&models.RegisterRequest{Username: "maria", Email: "maria@example.com", Password: "secret123"}); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if _, err := service.UpdateProfile(first.ID, &models.UpdateProfileRequest{Username: "maria", Email: "joao@example.com"}); !errors.Is(err, ErrUserExists) {
		t.Fatalf("expected ErrUserExists on taken username, got %v", err)
	}

	updated, err := service.UpdateProfile(first.ID, &models.UpdateProfileRequest{Username: "joao", Email: "joao@example.com", FullName: "João Silva"})
	if err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}
	if updated.FullName != "João Silva" {
		t.Errorf("expected full name update, got %q", updated.FullName)
	}
}
