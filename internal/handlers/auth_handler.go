package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"liveerd/internal/models"
	"liveerd/internal/responses"
	"liveerd/internal/services"
)

const (
	RefreshTokenCookieName = "refresh_token"
	RefreshTokenMaxAge     = 30 * 24 * 3600 // seconds
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func setRefreshCookie(c *gin.Context, token string, maxAge int) {
	c.SetCookie(RefreshTokenCookieName, token, maxAge, "/", "", true, true)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Email    string `json:"email"    binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Please provide your email and password correctly")
		return
	}

	user := &models.User{Email: req.Email, Password: req.Password}
	accessToken, refreshToken, err := h.authService.Register(c.Request.Context(), user)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, services.ErrUserExists) {
			status = http.StatusConflict
		}
		responses.Fail(c, status, err, "Could not register user")
		return
	}

	setRefreshCookie(c, refreshToken, RefreshTokenMaxAge)
	responses.Success(c, http.StatusCreated, gin.H{"access_token": accessToken}, "New user registered successfully!")
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"    binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid Format")
		return
	}

	accessToken, refreshToken, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		responses.Fail(c, http.StatusUnauthorized, err, "Failed to login")
		return
	}

	setRefreshCookie(c, refreshToken, RefreshTokenMaxAge)
	responses.Success(c, http.StatusOK, gin.H{"access_token": accessToken}, "User logged in successfully!")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	setRefreshCookie(c, "", -1)
	responses.Success(c, http.StatusOK, nil, "Logged out successfully")
}

// Refresh rotates the token pair using the HttpOnly refresh cookie.
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(RefreshTokenCookieName)
	if err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Missing refresh token")
		return
	}

	accessToken, newRefreshToken, err := h.authService.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		setRefreshCookie(c, "", -1)
		responses.Fail(c, http.StatusUnauthorized, err, "Invalid or expired refresh token")
		return
	}

	setRefreshCookie(c, newRefreshToken, RefreshTokenMaxAge)
	responses.Success(c, http.StatusOK, gin.H{"access_token": accessToken}, "Access token refreshed successfully")
}
