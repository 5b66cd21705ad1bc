package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gyojincompany/home-backend/internal/auth"
	"github.com/gyojincompany/home-backend/internal/users"
	"go.uber.org/zap"
)

var (
	errMissingAuthService = errors.New("auth service dependency required")
	errMissingTokens      = errors.New("token service dependency required")
	errMissingDirectory   = errors.New("directory dependency required")
	errMissingRedirectURL = errors.New("oauth redirect url required")
)

// TokenValidator is the slice of the token service the request gate needs.
type TokenValidator interface {
	ExtractSubject(tokenString string) (string, error)
	Validate(tokenString, expectedSubject string) bool
}

// Dependencies wires the HTTP layer to the auth subsystem.
type Dependencies struct {
	Auth             *auth.Service
	Tokens           TokenValidator
	Directory        *users.Directory
	OAuthRedirectURL string
	Logger           *zap.Logger
}

// NewHTTPHandler builds the router: public auth endpoints, the
// authentication gate, and the role-gated user and admin surfaces.
func NewHTTPHandler(deps Dependencies) (http.Handler, error) {
	if deps.Auth == nil {
		return nil, errMissingAuthService
	}
	if deps.Tokens == nil {
		return nil, errMissingTokens
	}
	if deps.Directory == nil {
		return nil, errMissingDirectory
	}
	if deps.OAuthRedirectURL == "" {
		return nil, errMissingRedirectURL
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	handler := &httpHandler{
		auth:        deps.Auth,
		tokens:      deps.Tokens,
		directory:   deps.Directory,
		redirectURL: deps.OAuthRedirectURL,
		logger:      logger,
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))
	router.Use(handler.authenticateRequest)

	router.POST("/auth/signup", handler.handleSignup)
	router.POST("/auth/login", handler.handleLogin)
	router.POST("/auth/refresh", handler.handleRefresh)
	router.POST("/auth/oauth2/:provider/complete", handler.handleFederatedCompletion)

	userRoutes := router.Group("/user")
	userRoutes.Use(handler.requireRole(users.RoleUser, users.RoleAdmin))
	userRoutes.GET("/profile", handler.handleProfile)
	userRoutes.GET("/dashboard", handler.handleUserDashboard)

	adminRoutes := router.Group("/admin")
	adminRoutes.Use(handler.requireRole(users.RoleAdmin))
	adminRoutes.GET("/dashboard", handler.handleAdminDashboard)
	adminRoutes.GET("/users", handler.handleListUsers)
	adminRoutes.DELETE("/users/:id", handler.handleDeleteUser)

	return router, nil
}

type httpHandler struct {
	auth        *auth.Service
	tokens      TokenValidator
	directory   *users.Directory
	redirectURL string
	logger      *zap.Logger
}
