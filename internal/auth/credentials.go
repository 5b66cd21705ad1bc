package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/gyojincompany/home-backend/internal/users"
)

// Directory is the account store consumed by the auth components. The
// concrete implementation lives in internal/users; its database indexes are
// what make the check-then-save flows here safe under concurrency.
type Directory interface {
	FindByEmail(ctx context.Context, email string) (users.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	FindByProviderSubject(ctx context.Context, provider users.AuthProvider, subject string) (users.User, error)
	Save(ctx context.Context, user users.User) (users.User, error)
}

// CredentialAuthenticator verifies email and password against the directory.
type CredentialAuthenticator struct {
	directory Directory
}

// NewCredentialAuthenticator constructs the password verifier.
func NewCredentialAuthenticator(directory Directory) (*CredentialAuthenticator, error) {
	if directory == nil {
		return nil, fmt.Errorf("auth: directory required")
	}
	return &CredentialAuthenticator{directory: directory}, nil
}

// Authenticate returns the account matching the email when the password
// checks out. A missing account, a federated-only account and a wrong
// password all fail with the same ErrBadCredentials.
func (a *CredentialAuthenticator) Authenticate(ctx context.Context, email, password string) (users.User, error) {
	user, err := a.directory.FindByEmail(ctx, email)
	if errors.Is(err, users.ErrNotFound) {
		return users.User{}, ErrBadCredentials
	}
	if err != nil {
		return users.User{}, err
	}
	if !HasUsablePassword(user.PasswordHash) {
		return users.User{}, ErrBadCredentials
	}
	if err := VerifyPassword(user.PasswordHash, password); err != nil {
		return users.User{}, ErrBadCredentials
	}
	return user, nil
}
