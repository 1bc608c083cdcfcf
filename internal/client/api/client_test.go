package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/carhub/car-inventory/internal/car/domain"
	"github.com/carhub/car-inventory/internal/client/session"
	"github.com/carhub/car-inventory/internal/user/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *session.Session) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	sess := session.NewSession(nil)
	return NewClient(srv.URL, sess), sess
}

func TestClient_Login_StoresSession(t *testing.T) {
	client, sess := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/users/login", r.URL.Path)
		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		require.Equal(t, "ana@example.com", creds["email"])
		json.NewEncoder(w).Encode(map[string]interface{}{
			"user":  map[string]string{"id": "u1", "name": "Ana", "email": "ana@example.com"},
			"token": "tok123",
		})
	})

	p, err := client.Login(context.Background(), "ana@example.com", "s3cret")

	require.NoError(t, err)
	assert.Equal(t, "u1", p.ID)
	assert.True(t, sess.Authenticated())
	assert.Equal(t, "tok123", sess.Token())
}

func TestClient_SendsBearerToken(t *testing.T) {
	var seenAuth string
	client, sess := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seenAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]*domain.Car{})
	})
	require.NoError(t, sess.Set(&session.Principal{ID: "u1"}, "tok123"))

	_, err := client.ListAll(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Bearer tok123", seenAuth)
}

func TestClient_Logout_ClearsSession(t *testing.T) {
	client, sess := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/users/logout", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"message": "logged out"})
	})
	require.NoError(t, sess.Set(&session.Principal{ID: "u1"}, "tok123"))

	require.NoError(t, client.Logout(context.Background()))
	assert.False(t, sess.Authenticated())
}

func TestClient_Profile(t *testing.T) {
	client, sess := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/users/profile", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"id": "u1", "name": "Ana", "email": "ana@example.com"})
	})
	require.NoError(t, sess.Set(&session.Principal{ID: "u1"}, "tok123"))

	p, err := client.Profile(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Ana", p.Name)
}

func TestClient_UserNotFoundIsNotACarError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "user not found"})
	})

	_, err := client.Profile(context.Background())

	assert.ErrorIs(t, err, entity.ErrUserNotFound)
	assert.NotErrorIs(t, err, domain.ErrCarNotFound)
}

func TestClient_NotFoundMapsToDomainError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "car not found"})
	})

	_, err := client.GetOne(context.Background(), "ghost")

	assert.ErrorIs(t, err, domain.ErrCarNotFound)
}

func TestClient_UnauthorizedMapsToDomainError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "token is invalid"})
	})

	_, err := client.ListAll(context.Background())

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestClient_ValidationErrorRehydratesFields(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error":  "validation failed: title: title is required",
			"fields": map[string]string{"title": "title is required"},
		})
	})

	_, err := client.Create(context.Background(), domain.CarDraft{})

	var v *domain.ValidationError
	require.ErrorAs(t, err, &v)
	assert.Equal(t, "title is required", v.Fields["title"])
}

func TestClient_TransportFailureIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	client := NewClient(srv.URL, session.NewSession(nil))

	_, err := client.ListAll(context.Background())

	var netErr *NetworkError
	assert.ErrorAs(t, err, &netErr)
}

func TestClient_SearchEncodesQuery(t *testing.T) {
	var seenQuery string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/cars/search", r.URL.Path)
		seenQuery = r.URL.Query().Get("q")
		json.NewEncoder(w).Encode([]*domain.Car{})
	})

	_, err := client.Search(context.Background(), "red sedan")

	require.NoError(t, err)
	assert.Equal(t, "red sedan", seenQuery)
}
