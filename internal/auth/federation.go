package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gyojincompany/home-backend/internal/users"
)

// ProviderProfile is the normalized view of a provider's profile payload.
// It is transient; it only ever populates or refreshes an account.
type ProviderProfile struct {
	Provider  users.AuthProvider
	SubjectID string
	Email     string
	Name      string
}

// ParseProviderPayload normalizes a raw provider profile payload. Google
// delivers a flat object {sub, email, name}; Naver nests the fields under a
// "response" object {response: {id, email, name}}. The provider set is
// closed; any other name fails with ErrUnsupportedProvider.
func ParseProviderPayload(providerName string, payload map[string]interface{}) (ProviderProfile, error) {
	switch strings.ToLower(strings.TrimSpace(providerName)) {
	case "google":
		return normalizeProfile(users.ProviderGoogle, payload)
	case "naver":
		nested, _ := payload["response"].(map[string]interface{})
		return normalizeProfile(users.ProviderNaver, nested)
	default:
		return ProviderProfile{}, fmt.Errorf("%w: %s", ErrUnsupportedProvider, providerName)
	}
}

func normalizeProfile(provider users.AuthProvider, attributes map[string]interface{}) (ProviderProfile, error) {
	profile := ProviderProfile{
		Provider: provider,
		Email:    users.NormalizeEmail(stringAttribute(attributes, "email")),
		Name:     strings.TrimSpace(stringAttribute(attributes, "name")),
	}
	switch provider {
	case users.ProviderGoogle:
		profile.SubjectID = stringAttribute(attributes, "sub")
	case users.ProviderNaver:
		profile.SubjectID = stringAttribute(attributes, "id")
	}
	if profile.Email == "" {
		return ProviderProfile{}, ErrMissingEmail
	}
	return profile, nil
}

func stringAttribute(attributes map[string]interface{}, key string) string {
	if attributes == nil {
		return ""
	}
	value, _ := attributes[key].(string)
	return value
}

// FederationResolver reconciles provider profiles with local accounts. It
// keys strictly on (provider, subject); two accounts sharing an email across
// providers stay distinct, and an email collision at create time surfaces as
// ErrDuplicateEmail rather than silently linking the accounts.
type FederationResolver struct {
	directory Directory
}

// NewFederationResolver constructs the resolver.
func NewFederationResolver(directory Directory) (*FederationResolver, error) {
	if directory == nil {
		return nil, fmt.Errorf("auth: directory required")
	}
	return &FederationResolver{directory: directory}, nil
}

// Resolve turns a raw provider payload into a local account, creating it on
// first login and refreshing the display name on subsequent logins.
func (r *FederationResolver) Resolve(ctx context.Context, providerName string, payload map[string]interface{}) (users.User, error) {
	profile, err := ParseProviderPayload(providerName, payload)
	if err != nil {
		return users.User{}, err
	}

	existing, err := r.directory.FindByProviderSubject(ctx, profile.Provider, profile.SubjectID)
	if err == nil {
		// Known federated account: refresh the display name only.
		existing.Name = profile.Name
		return r.directory.Save(ctx, existing)
	}
	if !errors.Is(err, users.ErrNotFound) {
		return users.User{}, err
	}

	taken, err := r.directory.ExistsByEmail(ctx, profile.Email)
	if err != nil {
		return users.User{}, err
	}
	if taken {
		return users.User{}, ErrDuplicateEmail
	}

	subject := profile.SubjectID
	return r.directory.Save(ctx, users.User{
		Email:           profile.Email,
		Name:            profile.Name,
		PasswordHash:    "",
		Role:            users.RoleUser,
		Provider:        profile.Provider,
		ProviderSubject: &subject,
	})
}
