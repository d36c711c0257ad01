package service

import (
	"context"
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"tumas_backend/internal/config"
	"tumas_backend/internal/model"
)

type mockAdminRepository struct {
	getByUsernameFn func(ctx context.Context, username string) (*model.AdminAccount, error)
}

func (m *mockAdminRepository) GetByUsername(ctx context.Context, username string) (*model.AdminAccount, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(ctx, username)
	}
	return nil, model.ErrAdminNotFound
}

func (m *mockAdminRepository) Upsert(ctx context.Context, username, passwordHash string) error {
	return nil
}

func testAuthConfig() *config.Config {
	return &config.Config{
		JWTSecret:         "test-secret",
		AccessTokenMaxAge: 3600,
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	repo := &mockAdminRepository{
		getByUsernameFn: func(ctx context.Context, username string) (*model.AdminAccount, error) {
			return &model.AdminAccount{ID: 42, Username: username, PasswordHash: string(hash)}, nil
		},
	}
	svc := NewAuthService(repo, testAuthConfig())

	resp, err := svc.Login(context.Background(), model.LoginRequest{Username: "admin", Password: "correct horse"})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if resp.ExpiresInS != 3600 {
		t.Errorf("expires_in = %d, want 3600", resp.ExpiresInS)
	}

	// The token must verify with the shared secret and carry admin_id.
	token, err := jwt.Parse(resp.AccessToken, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	claims := token.Claims.(jwt.MapClaims)
	if adminID, ok := claims["admin_id"].(float64); !ok || int64(adminID) != 42 {
		t.Errorf("admin_id claim = %v, want 42", claims["admin_id"])
	}
	if claims["jti"] == "" {
		t.Error("expected a jti claim")
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	repo := &mockAdminRepository{
		getByUsernameFn: func(ctx context.Context, username string) (*model.AdminAccount, error) {
			return &model.AdminAccount{ID: 42, Username: username, PasswordHash: string(hash)}, nil
		},
	}
	svc := NewAuthService(repo, testAuthConfig())

	_, err := svc.Login(context.Background(), model.LoginRequest{Username: "admin", Password: "wrong"})
	if !errors.Is(err, model.ErrInvalidCredentials) {
		t.Errorf("error = %v, want ErrInvalidCredentials", err)
	}
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	svc := NewAuthService(&mockAdminRepository{}, testAuthConfig())

	_, err := svc.Login(context.Background(), model.LoginRequest{Username: "nobody", Password: "x"})
	// Unknown user and wrong password are indistinguishable to the
	// caller.
	if !errors.Is(err, model.ErrInvalidCredentials) {
		t.Errorf("error = %v, want ErrInvalidCredentials", err)
	}
}
