package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestRequireAdmin(t *testing.T) {
	secret := "test-secret"
	adminID := uuid.New()

	var gotAdmin uuid.UUID
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := AdminFromContext(r.Context())
		require.True(t, ok)
		gotAdmin = id
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireAdmin([]byte(secret))(next)

	validClaims := jwt.MapClaims{
		"sub": adminID.String(),
		"exp": time.Now().Add(15 * time.Minute).Unix(),
		"iat": time.Now().Unix(),
	}

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/surveys", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, secret, validClaims))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, adminID, gotAdmin)
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/surveys", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/surveys", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, "other-secret", validClaims))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		claims := jwt.MapClaims{
			"sub": adminID.String(),
			"exp": time.Now().Add(-time.Minute).Unix(),
		}
		req := httptest.NewRequest(http.MethodGet, "/api/surveys", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, secret, claims))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("non-uuid subject", func(t *testing.T) {
		claims := jwt.MapClaims{
			"sub": "not-a-uuid",
			"exp": time.Now().Add(15 * time.Minute).Unix(),
		}
		req := httptest.NewRequest(http.MethodGet, "/api/surveys", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, secret, claims))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
