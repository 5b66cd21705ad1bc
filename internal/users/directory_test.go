package users

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newDirectory(t *testing.T, name string) *Directory {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&User{}); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}
	directory, err := NewDirectory(DirectoryConfig{Database: db, Clock: time.Now})
	if err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	return directory
}

func TestSaveAssignsIdentifierAndNormalizesEmail(t *testing.T) {
	directory := newDirectory(t, "directory_save")
	ctx := context.Background()

	saved, err := directory.Save(ctx, User{
		Email:    "Ann@Example.com",
		Name:     "Ann",
		Role:     RoleUser,
		Provider: ProviderLocal,
	})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if saved.ID == "" {
		t.Fatalf("expected an identifier to be assigned")
	}
	if saved.Email != "ann@example.com" {
		t.Fatalf("expected email lowercased, got %q", saved.Email)
	}

	found, err := directory.FindByEmail(ctx, "ANN@example.COM")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if found.ID != saved.ID {
		t.Fatalf("expected lookup to return the saved account")
	}
}

func TestFindByEmailReturnsErrNotFound(t *testing.T) {
	directory := newDirectory(t, "directory_missing")

	_, err := directory.FindByEmail(context.Background(), "ghost@example.com")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestExistsByEmail(t *testing.T) {
	directory := newDirectory(t, "directory_exists")
	ctx := context.Background()

	exists, err := directory.ExistsByEmail(ctx, "ann@example.com")
	if err != nil {
		t.Fatalf("exists check failed: %v", err)
	}
	if exists {
		t.Fatalf("expected no account before save")
	}

	if _, err := directory.Save(ctx, User{Email: "ann@example.com", Name: "Ann", Role: RoleUser, Provider: ProviderLocal}); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	exists, err = directory.ExistsByEmail(ctx, "Ann@Example.com")
	if err != nil {
		t.Fatalf("exists check failed: %v", err)
	}
	if !exists {
		t.Fatalf("expected account to exist regardless of email casing")
	}
}

func TestUniqueEmailIndexRejectsSecondInsert(t *testing.T) {
	directory := newDirectory(t, "directory_unique")
	ctx := context.Background()

	if _, err := directory.Save(ctx, User{Email: "ann@example.com", Name: "Ann", Role: RoleUser, Provider: ProviderLocal}); err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	if _, err := directory.Save(ctx, User{Email: "Ann@Example.com", Name: "Other Ann", Role: RoleUser, Provider: ProviderLocal}); err == nil {
		t.Fatalf("expected unique email index to reject the second insert")
	}
}

func TestFindByProviderSubject(t *testing.T) {
	directory := newDirectory(t, "directory_provider")
	ctx := context.Background()

	subject := "goog-123"
	saved, err := directory.Save(ctx, User{
		Email:           "fed@example.com",
		Name:            "Fred",
		Role:            RoleUser,
		Provider:        ProviderGoogle,
		ProviderSubject: &subject,
	})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	found, err := directory.FindByProviderSubject(ctx, ProviderGoogle, "goog-123")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if found.ID != saved.ID {
		t.Fatalf("expected the saved account")
	}

	if _, err := directory.FindByProviderSubject(ctx, ProviderNaver, "goog-123"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for wrong provider, got %v", err)
	}
}

func TestMultipleLocalAccountsWithoutSubjectCoexist(t *testing.T) {
	directory := newDirectory(t, "directory_local_nulls")
	ctx := context.Background()

	for _, email := range []string{"a@example.com", "b@example.com"} {
		if _, err := directory.Save(ctx, User{Email: email, Name: email, Role: RoleUser, Provider: ProviderLocal}); err != nil {
			t.Fatalf("save %s failed: %v", email, err)
		}
	}

	count, err := directory.Count(ctx)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected two local accounts, got %d", count)
	}
}

func TestDeleteRemovesAccount(t *testing.T) {
	directory := newDirectory(t, "directory_delete")
	ctx := context.Background()

	saved, err := directory.Save(ctx, User{Email: "ann@example.com", Name: "Ann", Role: RoleUser, Provider: ProviderLocal})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if err := directory.Delete(ctx, saved.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := directory.Delete(ctx, saved.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
