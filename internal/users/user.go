package users

import (
	"strings"
	"time"
)

// Role labels the authority level granted to an account.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// AuthProvider records how an account authenticates.
type AuthProvider string

const (
	ProviderLocal  AuthProvider = "LOCAL"
	ProviderGoogle AuthProvider = "GOOGLE"
	ProviderNaver  AuthProvider = "NAVER"
)

// User is a local account. Accounts created through signup carry a password
// hash and ProviderLocal; accounts created on first federated login carry an
// empty hash and the provider's subject identifier instead.
type User struct {
	ID              string       `gorm:"column:id;primaryKey;size:36"`
	Email           string       `gorm:"column:email;size:320;not null;uniqueIndex"`
	PasswordHash    string       `gorm:"column:password_hash;size:128"`
	Name            string       `gorm:"column:name;size:320;not null"`
	Role            Role         `gorm:"column:role;size:16;not null"`
	Provider        AuthProvider `gorm:"column:provider;size:16;not null;uniqueIndex:idx_users_provider_subject,priority:1"`
	ProviderSubject *string      `gorm:"column:provider_subject;size:190;uniqueIndex:idx_users_provider_subject,priority:2"`
	CreatedAt       time.Time    `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time    `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName exposes the table backing local accounts.
func (User) TableName() string {
	return "users"
}

// NormalizeEmail lowercases and trims an email address. Emails are
// normalized once on the way into the directory so that token subjects and
// stored emails compare byte for byte afterwards.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
