package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-copilot/internal/config"
	"github.com/jonathan/job-copilot/internal/db"
	"github.com/jonathan/job-copilot/internal/types"
)

// fakeUserClient is an in-memory UserClient.
type fakeUserClient struct {
	mu    sync.Mutex
	users map[uuid.UUID]*db.User
}

func newFakeUserClient() *fakeUserClient {
	return &fakeUserClient{users: make(map[uuid.UUID]*db.User)}
}

func (f *fakeUserClient) CheckEmailExists(_ context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserClient) CreateUser(_ context.Context, email, passwordHash string) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.New()
	f.users[id] = &db.User{
		ID:           id,
		Email:        email,
		PasswordHash: passwordHash,
		Credits:      10,
		CreatedAt:    time.Now(),
	}
	return id, nil
}

func (f *fakeUserClient) GetUser(_ context.Context, id uuid.UUID) (*db.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[id], nil
}

func (f *fakeUserClient) GetUserByEmail(_ context.Context, email string) (*db.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

// setupAuthHandler creates an AuthHandler backed by the in-memory client.
func setupAuthHandler(_ *testing.T) (*AuthHandler, *fakeUserClient) {
	client := newFakeUserClient()
	passwordConfig := &config.PasswordConfig{BcryptCost: 10} // lower cost for faster tests
	jwtService := NewJWTService(&config.JWTConfig{
		Secret: "test-secret-key-for-jwt-signing-minimum-32-bytes",
		TTL:    time.Hour,
	})
	return NewAuthHandler(NewUserService(client, passwordConfig), jwtService), client
}

func postJSON(handler http.HandlerFunc, target string, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func TestRegisterAndLogin(t *testing.T) {
	handler, _ := setupAuthHandler(t)

	w := postJSON(handler.Register, "/auth/register", map[string]string{
		"email":    "jane@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var registered types.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &registered))
	assert.Equal(t, "jane@example.com", registered.User.Email)
	assert.Equal(t, 10, registered.User.Credits)
	assert.NotEmpty(t, registered.Token)

	w = postJSON(handler.Login, "/auth/login", map[string]string{
		"email":    "jane@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var loggedIn types.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loggedIn))
	assert.Equal(t, registered.User.ID, loggedIn.User.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	handler, _ := setupAuthHandler(t)
	payload := map[string]string{"email": "jane@example.com", "password": "password123"}

	w := postJSON(handler.Register, "/auth/register", payload)
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(handler.Register, "/auth/register", payload)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegisterValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]string
	}{
		{name: "missing email", payload: map[string]string{"password": "password123"}},
		{name: "invalid email", payload: map[string]string{"email": "nope", "password": "password123"}},
		{name: "password too short", payload: map[string]string{"email": "a@b.com", "password": "short"}},
		{name: "missing password", payload: map[string]string{"email": "a@b.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, _ := setupAuthHandler(t)
			w := postJSON(handler.Register, "/auth/register", tt.payload)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "validation error")
		})
	}
}

func TestRegisterInvalidJSON(t *testing.T) {
	handler, _ := setupAuthHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader([]byte("invalid json")))
	w := httptest.NewRecorder()
	handler.Register(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid request body")
}

func TestLoginWrongPassword(t *testing.T) {
	handler, _ := setupAuthHandler(t)

	w := postJSON(handler.Register, "/auth/register", map[string]string{
		"email":    "jane@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(handler.Login, "/auth/login", map[string]string{
		"email":    "jane@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginUnknownEmail(t *testing.T) {
	handler, _ := setupAuthHandler(t)

	w := postJSON(handler.Login, "/auth/login", map[string]string{
		"email":    "nobody@example.com",
		"password": "password123",
	})
	// Same status as a wrong password so the response does not leak which
	// emails are registered.
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
