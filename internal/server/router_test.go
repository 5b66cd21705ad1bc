package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	sqlite "github.com/glebarez/sqlite"
	"github.com/gyojincompany/home-backend/internal/auth"
	"github.com/gyojincompany/home-backend/internal/users"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testRedirectURL = "http://localhost:3000/oauth2/redirect"

func newTestRouter(t *testing.T, name string) http.Handler {
	t.Helper()

	gin.SetMode(gin.TestMode)
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&users.User{}); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}
	directory, err := users.NewDirectory(users.DirectoryConfig{Database: db, Clock: time.Now})
	if err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	tokens, err := auth.NewTokenService(auth.TokenServiceConfig{
		SigningSecret: []byte("router-test-secret"),
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
	})
	if err != nil {
		t.Fatalf("failed to create token service: %v", err)
	}
	authService, err := auth.NewService(auth.ServiceConfig{Directory: directory, Tokens: tokens})
	if err != nil {
		t.Fatalf("failed to create auth service: %v", err)
	}
	handler, err := NewHTTPHandler(Dependencies{
		Auth:             authService,
		Tokens:           tokens,
		Directory:        directory,
		OAuthRedirectURL: testRedirectURL,
		Logger:           zap.NewNop(),
	})
	if err != nil {
		t.Fatalf("failed to build handler: %v", err)
	}
	return handler
}

func postJSON(t *testing.T, handler http.Handler, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	request := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

func TestSignupReportsFieldLevelValidationErrors(t *testing.T) {
	handler := newTestRouter(t, "router_validation")

	recorder := postJSON(t, handler, "/auth/signup", map[string]string{
		"email":    "not-an-email",
		"password": "123",
	})
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", recorder.Code)
	}

	var fields map[string]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &fields); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	for _, field := range []string{"email", "password", "name"} {
		if fields[field] == "" {
			t.Fatalf("expected a message for field %q, got %v", field, fields)
		}
	}
}

func TestSignupDuplicateEmailReturnsBadRequest(t *testing.T) {
	handler := newTestRouter(t, "router_duplicate")

	payload := map[string]string{"email": "ann@example.com", "password": "secret1", "name": "Ann"}
	if recorder := postJSON(t, handler, "/auth/signup", payload); recorder.Code != http.StatusOK {
		t.Fatalf("expected first signup to succeed, got %d: %s", recorder.Code, recorder.Body.String())
	}
	recorder := postJSON(t, handler, "/auth/signup", payload)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate email, got %d", recorder.Code)
	}
}

func TestLoginWithBadCredentialsReturnsUnauthorized(t *testing.T) {
	handler := newTestRouter(t, "router_badlogin")

	recorder := postJSON(t, handler, "/auth/login", map[string]string{
		"email":    "ghost@example.com",
		"password": "whatever",
	})
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", recorder.Code)
	}
}

func TestFederatedCompletionRedirectsWithTokens(t *testing.T) {
	handler := newTestRouter(t, "router_federated")

	recorder := postJSON(t, handler, "/auth/oauth2/google/complete", map[string]interface{}{
		"sub":   "goog-123",
		"email": "fed@example.com",
		"name":  "Fred",
	})
	if recorder.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d: %s", recorder.Code, recorder.Body.String())
	}

	location, err := url.Parse(recorder.Header().Get("Location"))
	if err != nil {
		t.Fatalf("failed to parse redirect location: %v", err)
	}
	if location.Query().Get("token") == "" || location.Query().Get("refreshToken") == "" {
		t.Fatalf("expected token query parameters, got %q", location.String())
	}
	if location.Host != "localhost:3000" || location.Path != "/oauth2/redirect" {
		t.Fatalf("unexpected redirect target %q", location.String())
	}
}

func TestFederatedCompletionRejectsUnknownProvider(t *testing.T) {
	handler := newTestRouter(t, "router_unknown_provider")

	recorder := postJSON(t, handler, "/auth/oauth2/kakao/complete", map[string]interface{}{
		"sub":   "k-1",
		"email": "x@example.com",
	})
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unsupported provider, got %d", recorder.Code)
	}
}

func TestProtectedRouteWithGarbageTokenIsRejectedDownstream(t *testing.T) {
	handler := newTestRouter(t, "router_garbage")

	request := httptest.NewRequest(http.MethodGet, "/user/profile", http.NoBody)
	request.Header.Set("Authorization", "Bearer garbage")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	// the gate degrades to anonymous; the role gate then answers 401.
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", recorder.Code)
	}
}
