package auth

import "errors"

var (
	// ErrBadCredentials covers a missing account, an account without a
	// usable password, and a password mismatch so that none of them leaks
	// which case occurred.
	ErrBadCredentials = errors.New("auth: invalid email or password")

	// ErrDuplicateEmail indicates the email is already registered.
	ErrDuplicateEmail = errors.New("auth: email already registered")

	// ErrUnsupportedProvider indicates an unknown federation provider name.
	ErrUnsupportedProvider = errors.New("auth: unsupported provider")

	// ErrMissingEmail indicates a federation payload without a usable email.
	ErrMissingEmail = errors.New("auth: provider payload missing email")

	// ErrTokenInvalid covers malformed, tampered and expired tokens.
	ErrTokenInvalid = errors.New("auth: invalid token")

	// ErrUserNotFound indicates a token subject that no longer resolves to
	// an account.
	ErrUserNotFound = errors.New("auth: user not found")
)
