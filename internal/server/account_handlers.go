package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gyojincompany/home-backend/internal/users"
	"go.uber.org/zap"
)

type accountPayload struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	Provider  string `json:"provider"`
	CreatedAt string `json:"createdAt"`
}

func accountView(user users.User) accountPayload {
	return accountPayload{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      string(user.Role),
		Provider:  string(user.Provider),
		CreatedAt: user.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (h *httpHandler) handleProfile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, accountView(user))
}

func (h *httpHandler) handleUserDashboard(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome to User Dashboard",
		"user":    user.Name,
		"role":    string(user.Role),
	})
}

func (h *httpHandler) handleAdminDashboard(c *gin.Context) {
	admin, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	total, err := h.directory.Count(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to count accounts", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unexpected error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":    "Welcome to Admin Dashboard",
		"admin":      admin.Name,
		"totalUsers": total,
	})
}

func (h *httpHandler) handleListUsers(c *gin.Context) {
	accounts, err := h.directory.List(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list accounts", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unexpected error"})
		return
	}
	views := make([]accountPayload, 0, len(accounts))
	for _, account := range accounts {
		views = append(views, accountView(account))
	}
	c.JSON(http.StatusOK, views)
}

func (h *httpHandler) handleDeleteUser(c *gin.Context) {
	err := h.directory.Delete(c.Request.Context(), c.Param("id"))
	if errors.Is(err, users.ErrNotFound) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user not found"})
		return
	}
	if err != nil {
		h.logger.Error("failed to delete account", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unexpected error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user deleted successfully"})
}
