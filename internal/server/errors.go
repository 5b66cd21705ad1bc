package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/gyojincompany/home-backend/internal/auth"
	"go.uber.org/zap"
)

// respondError maps the auth error taxonomy onto HTTP statuses. Anything
// unrecognized is logged and reported as a generic server failure.
func (h *httpHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, auth.ErrBadCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
	case errors.Is(err, auth.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	case errors.Is(err, auth.ErrDuplicateEmail):
		c.JSON(http.StatusBadRequest, gin.H{"error": "email already registered"})
	case errors.Is(err, auth.ErrTokenInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid refresh token"})
	case errors.Is(err, auth.ErrUnsupportedProvider):
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported provider"})
	case errors.Is(err, auth.ErrMissingEmail):
		c.JSON(http.StatusBadRequest, gin.H{"error": "email not provided by provider"})
	default:
		h.logger.Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unexpected error"})
	}
}

// respondValidationError renders binding failures as a field-to-message map.
func respondValidationError(c *gin.Context, err error) {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	messages := make(map[string]string, len(fieldErrors))
	for _, fieldError := range fieldErrors {
		messages[strings.ToLower(fieldError.Field())] = validationMessage(fieldError)
	}
	c.JSON(http.StatusBadRequest, messages)
}

func validationMessage(fieldError validator.FieldError) string {
	switch fieldError.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fieldError.Param())
	default:
		return "is invalid"
	}
}
