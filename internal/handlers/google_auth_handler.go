package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"

	"liveerd/internal/responses"
	"liveerd/internal/services"
	"liveerd/internal/utils"
)

type GoogleAuthHandler struct {
	googleAuthService *services.GoogleAuthService
	googleOauthConfig *oauth2.Config
}

func NewGoogleAuthHandler(googleAuthService *services.GoogleAuthService, oauthConfig *oauth2.Config) *GoogleAuthHandler {
	return &GoogleAuthHandler{
		googleAuthService: googleAuthService,
		googleOauthConfig: oauthConfig,
	}
}

func (h *GoogleAuthHandler) Login(c *gin.Context) {
	oauthState, err := utils.GenerateStateOauthCookie()
	if err != nil {
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to generate state")
		return
	}
	c.SetCookie("oauth_state", oauthState, 3600, "/", "", false, true)

	c.Redirect(http.StatusTemporaryRedirect, h.googleOauthConfig.AuthCodeURL(oauthState))
}

// Callback validates the state cookie, exchanges the code and issues our
// own token pair.
func (h *GoogleAuthHandler) Callback(c *gin.Context) {
	queryState := c.Query("state")
	if queryState == "" {
		responses.Fail(c, http.StatusBadRequest, nil, "Missing state parameter")
		return
	}

	cookieState, err := c.Cookie("oauth_state")
	if err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Missing state cookie")
		return
	}
	if queryState != cookieState {
		responses.Fail(c, http.StatusForbidden, nil, "State mismatch")
		return
	}
	c.SetCookie("oauth_state", "", -1, "/", "", false, true)

	code := c.Query("code")
	if code == "" {
		responses.Fail(c, http.StatusBadRequest, nil, "Missing code")
		return
	}

	token, err := h.googleOauthConfig.Exchange(c.Request.Context(), code)
	if err != nil {
		responses.Fail(c, http.StatusInternalServerError, err, "Token exchange failed")
		return
	}

	accessToken, refreshToken, err := h.googleAuthService.Callback(c.Request.Context(), token)
	if err != nil {
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to login")
		return
	}

	setRefreshCookie(c, refreshToken, RefreshTokenMaxAge)
	responses.Success(c, http.StatusOK, gin.H{"access_token": accessToken}, "User logged in successfully!")
}
