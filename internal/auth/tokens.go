package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	defaultAccessTokenTTL  = 30 * time.Minute
	defaultRefreshTokenTTL = 7 * 24 * time.Hour
)

var errMissingSigningSecret = errors.New("auth: signing secret must be provided")

// TokenKind selects the validity duration applied to an issued token.
type TokenKind string

const (
	// TokenKindAccess is the short-lived per-request credential.
	TokenKindAccess TokenKind = "access"
	// TokenKindRefresh is the longer-lived credential used only to obtain
	// fresh access tokens.
	TokenKindRefresh TokenKind = "refresh"
)

// TokenServiceConfig configures the bearer token codec.
type TokenServiceConfig struct {
	SigningSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Clock         func() time.Time
}

// TokenService encodes, decodes and validates HS256 bearer tokens. It is a
// pure function of the signing secret and the clock; it never touches the
// network or the directory.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	clock      func() time.Time
}

// NewTokenService constructs a token service with sane defaults.
func NewTokenService(cfg TokenServiceConfig) (*TokenService, error) {
	if len(cfg.SigningSecret) == 0 {
		return nil, errMissingSigningSecret
	}
	accessTTL := cfg.AccessTTL
	if accessTTL <= 0 {
		accessTTL = defaultAccessTokenTTL
	}
	refreshTTL := cfg.RefreshTTL
	if refreshTTL <= 0 {
		refreshTTL = defaultRefreshTokenTTL
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &TokenService{
		secret:     append([]byte(nil), cfg.SigningSecret...),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		clock:      clock,
	}, nil
}

// TTL returns the validity duration configured for the token kind.
func (s *TokenService) TTL(kind TokenKind) time.Duration {
	if kind == TokenKindRefresh {
		return s.refreshTTL
	}
	return s.accessTTL
}

// Issue produces a signed token carrying the subject, the current time as
// issued-at and expiry = now + TTL(kind). The token id claim makes every
// issued token distinct even within one clock tick.
func (s *TokenService) Issue(kind TokenKind, subject string) (string, error) {
	now := s.clock().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.TTL(kind))),
		ID:        uuid.NewString(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// VerifyAndDecode checks the token signature against the configured secret
// and returns the parsed claims. Expiry is not checked here; that is the
// caller's decision via IsExpired or Validate.
func (s *TokenService) VerifyAndDecode(tokenString string) (jwt.RegisteredClaims, error) {
	claims := jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(
		tokenString,
		&claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, fmt.Errorf("%w: unexpected signing algorithm %s", ErrTokenInvalid, token.Method.Alg())
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return jwt.RegisteredClaims{}, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if parsed == nil || !parsed.Valid {
		return jwt.RegisteredClaims{}, ErrTokenInvalid
	}
	return claims, nil
}

// ExtractSubject verifies the signature and returns the subject claim.
func (s *TokenService) ExtractSubject(tokenString string) (string, error) {
	claims, err := s.VerifyAndDecode(tokenString)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// IsExpired reports whether the claims have expired. A token expiring
// exactly now is treated as expired; claims without an expiry are rejected
// outright.
func (s *TokenService) IsExpired(claims jwt.RegisteredClaims) bool {
	if claims.ExpiresAt == nil {
		return true
	}
	return !claims.ExpiresAt.Time.After(s.clock())
}

// Validate reports whether the token carries a verifiable signature, is not
// expired and names exactly the expected subject.
func (s *TokenService) Validate(tokenString, expectedSubject string) bool {
	claims, err := s.VerifyAndDecode(tokenString)
	if err != nil {
		return false
	}
	if s.IsExpired(claims) {
		return false
	}
	return claims.Subject == expectedSubject
}
