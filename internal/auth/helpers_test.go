package auth

import (
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/gyojincompany/home-backend/internal/users"
	"gorm.io/gorm"
)

func newTestDirectory(t *testing.T, name string) *users.Directory {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&users.User{}); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}

	directory, err := users.NewDirectory(users.DirectoryConfig{
		Database: db,
		Clock:    time.Now,
	})
	if err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	return directory
}

func mustHash(t *testing.T, password string) string {
	t.Helper()

	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	return hash
}
