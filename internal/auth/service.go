package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/gyojincompany/home-backend/internal/users"
	"go.uber.org/zap"
)

// TokenPair bundles the credentials handed to a client after a successful
// login, refresh or federated login, together with the account summary the
// HTTP layer echoes back.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	Email        string
	Name         string
	Role         users.Role
}

// ServiceConfig describes the collaborators of the auth use cases.
type ServiceConfig struct {
	Directory Directory
	Tokens    *TokenService
	Logger    *zap.Logger
}

// Service implements the public auth use cases: signup, password login,
// token refresh and federated-login completion.
type Service struct {
	directory   Directory
	tokens      *TokenService
	credentials *CredentialAuthenticator
	federation  *FederationResolver
	logger      *zap.Logger
}

// NewService wires the auth use cases.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Directory == nil {
		return nil, fmt.Errorf("auth: directory required")
	}
	if cfg.Tokens == nil {
		return nil, fmt.Errorf("auth: token service required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	credentials, err := NewCredentialAuthenticator(cfg.Directory)
	if err != nil {
		return nil, err
	}
	federation, err := NewFederationResolver(cfg.Directory)
	if err != nil {
		return nil, err
	}
	return &Service{
		directory:   cfg.Directory,
		tokens:      cfg.Tokens,
		credentials: credentials,
		federation:  federation,
		logger:      logger,
	}, nil
}

// Signup registers a local account. It returns no tokens; the user logs in
// afterwards.
func (s *Service) Signup(ctx context.Context, email, password, name string) error {
	exists, err := s.directory.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		return ErrDuplicateEmail
	}

	hash, err := HashPassword(password)
	if err != nil {
		return err
	}

	_, err = s.directory.Save(ctx, users.User{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         users.RoleUser,
		Provider:     users.ProviderLocal,
	})
	if err != nil {
		return err
	}

	s.logger.Info("account registered", zap.String("email", users.NormalizeEmail(email)))
	return nil
}

// Login verifies the credentials and issues both token kinds.
func (s *Service) Login(ctx context.Context, email, password string) (TokenPair, error) {
	user, err := s.credentials.Authenticate(ctx, email, password)
	if err != nil {
		return TokenPair{}, err
	}
	return s.issuePair(user)
}

// Refresh exchanges a valid refresh token for a fresh access token. The
// submitted refresh token is returned unchanged; refresh tokens are not
// rotated.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	subject, err := s.tokens.ExtractSubject(refreshToken)
	if err != nil {
		return TokenPair{}, err
	}

	user, err := s.directory.FindByEmail(ctx, subject)
	if errors.Is(err, users.ErrNotFound) {
		return TokenPair{}, ErrUserNotFound
	}
	if err != nil {
		return TokenPair{}, err
	}

	if !s.tokens.Validate(refreshToken, user.Email) {
		return TokenPair{}, ErrTokenInvalid
	}

	accessToken, err := s.tokens.Issue(TokenKindAccess, user.Email)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Email:        user.Email,
		Name:         user.Name,
		Role:         user.Role,
	}, nil
}

// CompleteFederatedLogin resolves the provider payload to a local account
// and issues both token kinds. Delivering the tokens to the browser is the
// caller's job.
func (s *Service) CompleteFederatedLogin(ctx context.Context, providerName string, payload map[string]interface{}) (TokenPair, error) {
	user, err := s.federation.Resolve(ctx, providerName, payload)
	if err != nil {
		return TokenPair{}, err
	}
	s.logger.Info("federated login completed",
		zap.String("provider", string(user.Provider)),
		zap.String("email", user.Email))
	return s.issuePair(user)
}

func (s *Service) issuePair(user users.User) (TokenPair, error) {
	accessToken, err := s.tokens.Issue(TokenKindAccess, user.Email)
	if err != nil {
		return TokenPair{}, err
	}
	refreshToken, err := s.tokens.Issue(TokenKindRefresh, user.Email)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Email:        user.Email,
		Name:         user.Name,
		Role:         user.Role,
	}, nil
}
