package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"dairy-farm-management/internal/platform/logger"
	"dairy-farm-management/internal/ports/auth"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
)

func fakeVerifier(tokens map[string]auth.Claims) auth.AuthVerifier {
	return auth.VerifierFunc(func(_ context.Context, token string) (auth.Claims, error) {
		c, ok := tokens[token]
		if !ok {
			return auth.Claims{}, errors.New("bad token")
		}
		return c, nil
	})
}

func TestAuthContext_SetsClaimsOnlyForValidToken(t *testing.T) {
	v := fakeVerifier(map[string]auth.Claims{"good": {UserID: "u-1", Role: "farm_owner"}})

	var got auth.Claims
	var ok bool
	h := AuthContext(v)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got, ok = GetClaims(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.True(t, ok)
	assert.Equal(t, "u-1", got.UserID)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer nope")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.False(t, ok)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic good")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.False(t, ok)
}

func TestRecover_LogsWithRequestScopedFields(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Options{Output: &buf})
	v := fakeVerifier(map[string]auth.Claims{"t": {UserID: "u-9"}})

	h := chimw.RequestID(RequestLog(log)(AuthContext(v)(Recover(log)(
		http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }),
	))))

	req := httptest.NewRequest(http.MethodGet, "/cows", nil)
	req.Header.Set("Authorization", "Bearer t")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"detail":"internal error"}`, rec.Body.String())

	out := buf.String()
	assert.Contains(t, out, `msg="panic recovered"`)
	assert.Contains(t, out, "user_id=u-9")
	assert.Contains(t, out, "request_id=")
	assert.Contains(t, out, "status=500")
}

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Authorization", "bearer  abc ")
	assert.Equal(t, "abc", BearerToken(req))

	req.Header.Set("Authorization", "abc")
	assert.Empty(t, BearerToken(req))
}
