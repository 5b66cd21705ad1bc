package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNotFound indicates no account matched the lookup.
var ErrNotFound = errors.New("users: account not found")

// DirectoryConfig describes the dependencies required by the account directory.
type DirectoryConfig struct {
	Database *gorm.DB
	Clock    func() time.Time
}

// Directory stores and queries local accounts. Uniqueness of email and of
// (provider, provider_subject) is enforced by the database indexes, which is
// what keeps concurrent signups for the same email from both succeeding.
type Directory struct {
	db  *gorm.DB
	now func() time.Time
}

// NewDirectory constructs the account directory.
func NewDirectory(cfg DirectoryConfig) (*Directory, error) {
	if cfg.Database == nil {
		return nil, fmt.Errorf("users: database connection required")
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Directory{db: cfg.Database, now: clock}, nil
}

// FindByEmail returns the account registered under the normalized email.
func (d *Directory) FindByEmail(ctx context.Context, email string) (User, error) {
	var user User
	err := d.db.WithContext(ctx).
		Where("email = ?", NormalizeEmail(email)).
		First(&user).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	return user, nil
}

// ExistsByEmail reports whether an account is registered under the email.
func (d *Directory) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := d.db.WithContext(ctx).
		Model(&User{}).
		Where("email = ?", NormalizeEmail(email)).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindByProviderSubject returns the account linked to a federated identity.
func (d *Directory) FindByProviderSubject(ctx context.Context, provider AuthProvider, subject string) (User, error) {
	var user User
	err := d.db.WithContext(ctx).
		Where("provider = ? AND provider_subject = ?", provider, subject).
		First(&user).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	return user, nil
}

// Save persists the account, assigning a fresh identifier on first save.
func (d *Directory) Save(ctx context.Context, user User) (User, error) {
	if user.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return User{}, err
		}
		user.ID = id.String()
		user.CreatedAt = d.now()
	}
	user.Email = NormalizeEmail(user.Email)
	user.UpdatedAt = d.now()
	if err := d.db.WithContext(ctx).Save(&user).Error; err != nil {
		return User{}, err
	}
	return user, nil
}

// List returns every account ordered by creation time.
func (d *Directory) List(ctx context.Context) ([]User, error) {
	var accounts []User
	err := d.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&accounts).
		Error
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

// Count returns the number of registered accounts.
func (d *Directory) Count(ctx context.Context) (int64, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&User{}).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Delete removes the account with the given identifier.
func (d *Directory) Delete(ctx context.Context, id string) error {
	result := d.db.WithContext(ctx).Where("id = ?", id).Delete(&User{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
