package services

import (
	"context"
	"errors"

	"liveerd/internal/models"
	"liveerd/internal/repositories"
	"liveerd/internal/utils"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type AuthService struct {
	userRepo *repositories.UserRepository
}

func NewAuthService(userRepo *repositories.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

// Register creates the user and returns a token pair. Tokens are
// self-contained; there is no server-side session record.
func (s *AuthService) Register(ctx context.Context, user *models.User) (string, string, error) {
	existing, err := s.userRepo.FindUserByEmail(ctx, user.Email)
	if err != nil {
		return "", "", err
	}
	if existing != nil {
		return "", "", ErrUserExists
	}

	hashed, err := utils.Hash(user.Password)
	if err != nil {
		return "", "", err
	}
	user.PasswordHash = string(hashed)
	user.Password = ""

	if err := s.userRepo.Create(ctx, user); err != nil {
		return "", "", err
	}

	access, refresh, _, err := utils.GenerateTokens(user.ID)
	return access, refresh, err
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, string, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		return "", "", err
	}
	if user == nil {
		return "", "", ErrInvalidCredentials
	}

	if err := utils.VerifyPassword(user.PasswordHash, password); err != nil {
		return "", "", ErrInvalidCredentials
	}

	if err := s.userRepo.TouchLastLogin(ctx, user.ID); err != nil {
		return "", "", err
	}

	access, refresh, _, err := utils.GenerateTokens(user.ID)
	return access, refresh, err
}

// Refresh validates the refresh token and rotates the pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	claims, err := utils.VerifyJWT(refreshToken, utils.RefreshTokenSecret)
	if err != nil {
		return "", "", errors.New("invalid or expired refresh token")
	}

	userID, err := claims.UserID()
	if err != nil {
		return "", "", errors.New("invalid refresh token subject")
	}

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return "", "", err
	}
	if user == nil {
		return "", "", errors.New("user not found")
	}

	access, refresh, _, err := utils.GenerateTokens(user.ID)
	return access, refresh, err
}
