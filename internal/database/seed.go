package database

import (
	"context"
	"time"

	"github.com/gyojincompany/home-backend/internal/auth"
	"github.com/gyojincompany/home-backend/internal/users"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type seedAccount struct {
	email    string
	password string
	name     string
	role     users.Role
}

var defaultAccounts = []seedAccount{
	{email: "admin@example.com", password: "admin123", name: "Admin User", role: users.RoleAdmin},
	{email: "user@example.com", password: "user123", name: "Regular User", role: users.RoleUser},
}

// SeedDefaultAccounts creates the bootstrap admin and user accounts when
// they are absent, so a fresh deployment always has a way to log in.
func SeedDefaultAccounts(ctx context.Context, db *gorm.DB, logger *zap.Logger) error {
	directory, err := users.NewDirectory(users.DirectoryConfig{Database: db, Clock: time.Now})
	if err != nil {
		return err
	}

	for _, account := range defaultAccounts {
		exists, err := directory.ExistsByEmail(ctx, account.email)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		hash, err := auth.HashPassword(account.password)
		if err != nil {
			return err
		}
		if _, err := directory.Save(ctx, users.User{
			Email:        account.email,
			PasswordHash: hash,
			Name:         account.name,
			Role:         account.role,
			Provider:     users.ProviderLocal,
		}); err != nil {
			return err
		}
		if logger != nil {
			logger.Info("seed account created",
				zap.String("email", account.email),
				zap.String("role", string(account.role)))
		}
	}
	return nil
}
