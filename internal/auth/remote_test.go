package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRemoteAuthenticateSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer remote-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"sub":        "user-remote",
			"session_id": "sess-1",
		})
	}))
	defer server.Close()

	authn := NewRemoteAuthenticator(server.URL, 2*time.Second)

	identity, err := authn.Authenticate(context.Background(), "remote-token")
	require.NoError(t, err)
	require.Equal(t, "user-remote", identity.UserID)
	require.Equal(t, "sess-1", identity.SessionID)
	require.Equal(t, "remote-token", identity.SessionToken)
}

func TestRemoteAuthenticateRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid token", http.StatusUnauthorized)
	}))
	defer server.Close()

	authn := NewRemoteAuthenticator(server.URL, 2*time.Second)

	_, err := authn.Authenticate(context.Background(), "bad-token")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestRemoteAuthenticateMissingSub(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"session_id": "sess-1"})
	}))
	defer server.Close()

	authn := NewRemoteAuthenticator(server.URL, 2*time.Second)

	_, err := authn.Authenticate(context.Background(), "remote-token")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestRemoteAuthenticateEmptyToken(t *testing.T) {
	authn := NewRemoteAuthenticator("http://auth.invalid", 2*time.Second)

	_, err := authn.Authenticate(context.Background(), "")
	require.ErrorIs(t, err, ErrInvalidToken)
}
