package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"tumas_backend/internal/config"
	"tumas_backend/internal/model"
	"tumas_backend/internal/repository"
)

// AuthService handles administrator authentication. The site has a
// small fixed set of admins, so tokens are short-lived and stateless;
// there is no refresh rotation.
type AuthService struct {
	adminRepo repository.AdminRepository
	config    *config.Config
}

func NewAuthService(adminRepo repository.AdminRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		adminRepo: adminRepo,
		config:    cfg,
	}
}

// Login verifies the credentials and issues an access token.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	admin, err := s.adminRepo.GetByUsername(ctx, req.Username)
	if err == model.ErrAdminNotFound {
		return nil, model.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	token, err := s.generateAccessToken(admin.ID)
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{
		AccessToken: token,
		ExpiresInS:  s.config.AccessTokenMaxAge,
	}, nil
}

func (s *AuthService) generateAccessToken(adminID int64) (string, error) {
	claims := jwt.MapClaims{
		"admin_id": adminID,
		"jti":      uuid.NewString(),
		"exp":      time.Now().Add(time.Duration(s.config.AccessTokenMaxAge) * time.Second).Unix(),
		"iat":      time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}
