package server

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gyojincompany/home-backend/internal/auth"
)

type signupRequestPayload struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
}

type loginRequestPayload struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type refreshRequestPayload struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type authResponsePayload struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	Type         string `json:"type"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Role         string `json:"role"`
}

func authResponse(pair auth.TokenPair) authResponsePayload {
	return authResponsePayload{
		Token:        pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		Type:         "Bearer",
		Email:        pair.Email,
		Name:         pair.Name,
		Role:         string(pair.Role),
	}
}

func (h *httpHandler) handleSignup(c *gin.Context) {
	var request signupRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		respondValidationError(c, err)
		return
	}

	if err := h.auth.Signup(c.Request.Context(), request.Email, request.Password, request.Name); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "signup successful"})
}

func (h *httpHandler) handleLogin(c *gin.Context) {
	var request loginRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		respondValidationError(c, err)
		return
	}

	pair, err := h.auth.Login(c.Request.Context(), request.Email, request.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, authResponse(pair))
}

func (h *httpHandler) handleRefresh(c *gin.Context) {
	var request refreshRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		respondValidationError(c, err)
		return
	}

	pair, err := h.auth.Refresh(c.Request.Context(), request.RefreshToken)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, authResponse(pair))
}

// handleFederatedCompletion is the hook the provider handshake invokes once
// it has obtained the user's profile payload. The browser is redirected to
// the front end with both tokens as query parameters.
func (h *httpHandler) handleFederatedCompletion(c *gin.Context) {
	var payload map[string]interface{}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	provider := c.Param("provider")
	pair, err := h.auth.CompleteFederatedLogin(c.Request.Context(), provider, payload)
	if err != nil {
		h.respondError(c, err)
		return
	}

	target, err := url.Parse(h.redirectURL)
	if err != nil {
		h.logger.Error("invalid oauth redirect url", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unexpected error"})
		return
	}
	query := target.Query()
	query.Set("token", pair.AccessToken)
	query.Set("refreshToken", pair.RefreshToken)
	target.RawQuery = query.Encode()

	c.Redirect(http.StatusFound, target.String())
}
