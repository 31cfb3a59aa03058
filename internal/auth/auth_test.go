package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testConfig = Config{Secret: "test-secret", Issuer: "gymfit.test"}

func TestIssueParseRoundTrip(t *testing.T) {
	issuer := NewIssuer(testConfig, time.Hour)

	token, err := issuer.Issue("alex@gymfit.app", MemberScopes...)
	require.NoError(t, err)
	require.Equal(t, "Bearer", token.TokenType)

	claims, err := Parse(token.AccessToken, testConfig)
	require.NoError(t, err)
	require.Equal(t, "alex@gymfit.app", claims.Subject)
	require.True(t, claims.HasScope(ScopeAppRead))
	require.True(t, claims.HasScope(ScopeAppWrite))
	require.False(t, claims.HasScope("admin"))
	require.WithinDuration(t, token.ExpiresAt, claims.ExpiresAt, time.Second)
}

func TestParseRejectsBadTokens(t *testing.T) {
	_, err := Parse("  ", testConfig)
	require.ErrorIs(t, err, ErrMissingToken)

	token, err := NewIssuer(Config{Secret: "other", Issuer: testConfig.Issuer}, time.Hour).Issue("x", ScopeAppRead)
	require.NoError(t, err)
	_, err = Parse(token.AccessToken, testConfig)
	require.ErrorIs(t, err, ErrInvalidToken)

	token, err = NewIssuer(Config{Secret: testConfig.Secret, Issuer: "elsewhere"}, time.Hour).Issue("x")
	require.NoError(t, err)
	_, err = Parse(token.AccessToken, testConfig)
	require.ErrorIs(t, err, ErrInvalidToken)

	expired := NewIssuer(testConfig, time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err = expired.Issue("x")
	require.NoError(t, err)
	_, err = Parse(token.AccessToken, testConfig)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseSpaceSeparatedScopes(t *testing.T) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":    "alex",
		"iss":    testConfig.Issuer,
		"exp":    time.Now().Add(time.Minute).Unix(),
		"scopes": "app:read  app:write",
	}).SignedString([]byte(testConfig.Secret))
	require.NoError(t, err)

	claims, err := Parse(signed, testConfig)
	require.NoError(t, err)
	require.Len(t, claims.Scopes, 2)
}

func TestMiddleware(t *testing.T) {
	var seen *Claims
	handler := NewMiddleware(testConfig).Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/dashboard", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "unauthorized")

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/auth/login", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Nil(t, seen)

	token, err := NewIssuer(testConfig, time.Hour).Issue("alex", ScopeAppRead)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/v1/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, seen)
	require.Equal(t, "alex", seen.Subject)
}

func TestAuthorize(t *testing.T) {
	_, err := Authorize(context.Background(), ScopeAppRead)
	require.ErrorIs(t, err, ErrMissingToken)

	writer := &Claims{Subject: "alex", Scopes: map[string]struct{}{ScopeAppWrite: {}}}
	ctx := WithClaims(context.Background(), writer)
	claims, err := Authorize(ctx, ScopeAppRead)
	require.NoError(t, err)
	require.Equal(t, "alex", claims.Subject)

	reader := &Claims{Subject: "alex", Scopes: map[string]struct{}{ScopeAppRead: {}}}
	_, err = Authorize(WithClaims(context.Background(), reader), ScopeAppWrite)
	require.ErrorIs(t, err, ErrForbidden)

	_, ok := FromContext(WithClaims(context.Background(), nil))
	require.False(t, ok)
}
