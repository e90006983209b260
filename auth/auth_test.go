package auth

import (
	"care-thread/domain"
	"care-thread/errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

const secret = "a-test-secret-that-is-long-enough-1234"

func TestValidateToken(t *testing.T) {
	verifier := NewVerifier(secret, "care-thread")

	t.Run("should accept a token it generated", func(t *testing.T) {
		req := require.New(t)
		token, err := verifier.GenerateToken("u1", domain.RoleHealthcareWorker, time.Hour)
		req.NoError(err)

		claims, err := verifier.ValidateToken(token)
		req.NoError(err)
		req.Equal("u1", claims.UserID)
		req.Equal(string(domain.RoleHealthcareWorker), claims.Role)
	})

	t.Run("should reject an expired token", func(t *testing.T) {
		req := require.New(t)
		token, err := verifier.GenerateToken("u1", domain.RoleAdmin, -time.Minute)
		req.NoError(err)

		_, err = verifier.ValidateToken(token)
		req.ErrorIs(err, errors.ErrUnauthenticated)
	})

	t.Run("should reject a token signed with another secret", func(t *testing.T) {
		req := require.New(t)
		other := NewVerifier("another-secret-that-is-long-enough-9876", "care-thread")
		token, err := other.GenerateToken("u1", domain.RoleAdmin, time.Hour)
		req.NoError(err)

		_, err = verifier.ValidateToken(token)
		req.ErrorIs(err, errors.ErrUnauthenticated)
	})

	t.Run("should reject a token from another issuer", func(t *testing.T) {
		req := require.New(t)
		other := NewVerifier(secret, "somebody-else")
		token, err := other.GenerateToken("u1", domain.RoleAdmin, time.Hour)
		req.NoError(err)

		_, err = verifier.ValidateToken(token)
		req.ErrorIs(err, errors.ErrUnauthenticated)
	})
}

func TestMiddleware(t *testing.T) {
	verifier := NewVerifier(secret, "care-thread")
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	var seen domain.UserID
	handler := Middleware(verifier, log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("should fail when the header is missing", func(t *testing.T) {
		req := require.New(t)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/threads", nil))
		req.Equal(http.StatusUnauthorized, rec.Code)
	})

	t.Run("should fail with a garbage token", func(t *testing.T) {
		req := require.New(t)
		r := httptest.NewRequest(http.MethodGet, "/threads", nil)
		r.Header.Set("Authorization", "Bearer not-a-jwt")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, r)
		req.Equal(http.StatusUnauthorized, rec.Code)
	})

	t.Run("should inject the user id", func(t *testing.T) {
		req := require.New(t)
		token, err := verifier.GenerateToken("u42", domain.RoleHealthcareWorker, time.Hour)
		req.NoError(err)
		r := httptest.NewRequest(http.MethodGet, "/threads", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, r)
		req.Equal(http.StatusNoContent, rec.Code)
		req.Equal(domain.UserID("u42"), seen)
	})

	t.Run("should accept the token from the query string", func(t *testing.T) {
		req := require.New(t)
		token, err := verifier.GenerateToken("u7", domain.RoleHealthcareWorker, time.Hour)
		req.NoError(err)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/threads/t1/events?access_token="+token, nil))
		req.Equal(http.StatusNoContent, rec.Code)
		req.Equal(domain.UserID("u7"), seen)
	})
}
