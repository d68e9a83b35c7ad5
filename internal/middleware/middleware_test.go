package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jobtracker/jobtracker-go/internal/model"
	"github.com/jobtracker/jobtracker-go/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuth map[string]model.User

func (s stubAuth) Authenticate(_ context.Context, token string) (model.User, error) {
	switch token {
	case "ghost":
		return model.User{}, service.ErrUserNotFound
	case "broken-store":
		return model.User{}, errors.New("connection refused")
	}
	u, ok := s[token]
	if !ok {
		return model.User{}, service.ErrInvalidToken
	}
	return u, nil
}

var testUsers = stubAuth{
	"alice-token": {ID: "alice", Name: "Alice", PasswordHash: "secret-hash"},
	"admin-token": {ID: "root", Name: "Root", IsAdmin: true},
}

func echoUser(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusTeapot)
		return
	}
	json.NewEncoder(w).Encode(map[string]any{"id": user.ID, "hash": user.PasswordHash})
}

func TestAuthenticate(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantMsg    string
	}{
		{name: "no header", wantStatus: http.StatusUnauthorized, wantMsg: "not authorized, no token"},
		{name: "wrong scheme", header: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "empty bearer", header: "Bearer ", wantStatus: http.StatusUnauthorized},
		{name: "bad token", header: "Bearer nope", wantStatus: http.StatusUnauthorized, wantMsg: "not authorized, token failed"},
		{name: "deleted user", header: "Bearer ghost", wantStatus: http.StatusUnauthorized},
		{name: "store down", header: "Bearer broken-store", wantStatus: http.StatusInternalServerError},
		{name: "valid", header: "Bearer alice-token", wantStatus: http.StatusOK},
	}

	h := Authenticate(testUsers)(http.HandlerFunc(echoUser))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/jobs", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantMsg != "" {
				var body model.MessageResponse
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
				assert.Equal(t, tt.wantMsg, body.Message)
			}
		})
	}
}

func TestAuthenticate_StripsPasswordHash(t *testing.T) {
	h := Authenticate(testUsers)(http.HandlerFunc(echoUser))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer alice-token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "alice", body["id"])
	assert.Empty(t, body["hash"])
}

func TestRequireAdmin(t *testing.T) {
	h := Authenticate(testUsers)(RequireAdmin(http.HandlerFunc(echoUser)))

	for token, want := range map[string]int{
		"alice-token": http.StatusUnauthorized,
		"admin-token": http.StatusOK,
	} {
		req := httptest.NewRequest(http.MethodGet, "/api/auth", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Code, token)
	}

	rec := httptest.NewRecorder()
	RequireAdmin(http.HandlerFunc(echoUser)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "no user in context")
}

func TestUserIDFromContext(t *testing.T) {
	_, ok := UserIDFromContext(context.Background())
	assert.False(t, ok)

	id, ok := UserIDFromContext(WithUser(context.Background(), model.User{ID: "u1"}))
	assert.True(t, ok)
	assert.Equal(t, "u1", id)
}

func TestRateLimit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	h := RateLimit(ctx, 1, 2)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1:1234").Code)
	assert.Equal(t, http.StatusOK, do("10.0.0.1:1235").Code)
	limited := do("10.0.0.1:1236")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "1", limited.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, do("10.0.0.2:1234").Code, "other clients unaffected")
}

func TestClientLimiter_EvictIdle(t *testing.T) {
	cl := &clientLimiter{visitors: make(map[string]*visitor), limit: 1, burst: 1}
	start := time.Now()

	cl.allow("a", start)
	cl.allow("b", start.Add(9*time.Minute))
	cl.evictIdle(start.Add(11 * time.Minute))

	assert.NotContains(t, cl.visitors, "a")
	assert.Contains(t, cl.visitors, "b")
}

func TestClientLimiter_SweepStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cl := &clientLimiter{visitors: make(map[string]*visitor), limit: 1, burst: 1}

	done := make(chan struct{})
	go func() {
		cl.sweep(ctx, time.NewTicker(time.Hour))
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper still running after cancel")
	}
}

func TestCORS(t *testing.T) {
	h := CORS([]string{"http://localhost:5173"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/jobs", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/jobs", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
