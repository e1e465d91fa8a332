package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"liveerd/internal/models"
	"liveerd/internal/repositories"
	"liveerd/internal/utils"
)

const googleUserinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

type GoogleAuthService struct {
	userRepo *repositories.UserRepository
	client   *http.Client
}

func NewGoogleAuthService(userRepo *repositories.UserRepository) *GoogleAuthService {
	return &GoogleAuthService{
		userRepo: userRepo,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Callback exchanges a verified Google identity for our own token pair,
// creating the user on first sign-in.
func (s *GoogleAuthService) Callback(ctx context.Context, token *oauth2.Token) (string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleUserinfoURL, nil)
	if err != nil {
		return "", "", fmt.Errorf("failed to create userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)

	response, err := s.client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("failed to get user info: %w", err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return "", "", fmt.Errorf("failed to read userinfo response: %w", err)
	}

	var googleUser struct {
		ID            string `json:"id"`
		Email         string `json:"email"`
		VerifiedEmail bool   `json:"verified_email"`
		Name          string `json:"name"`
	}
	if err := json.Unmarshal(body, &googleUser); err != nil {
		return "", "", fmt.Errorf("failed to parse user info: %w", err)
	}

	if !googleUser.VerifiedEmail {
		return "", "", fmt.Errorf("email is not verified by Google")
	}

	user, err := s.userRepo.FindUserByEmail(ctx, googleUser.Email)
	if err != nil {
		return "", "", err
	}
	if user == nil {
		user = &models.User{Email: googleUser.Email}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return "", "", fmt.Errorf("failed to create user: %w", err)
		}
	}

	access, refresh, _, err := utils.GenerateTokens(user.ID)
	return access, refresh, err
}
