package middleware

import (
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "donate-payment-api/services/auth"
)

func protectedHandler(t *testing.T) (http.Handler, *string) {
    t.Helper()
    var caller string
    jwtService := auth.NewJWTService("test-secret", "donate-payment-api")
    handler := AuthMiddleware(jwtService)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        caller, _ = r.Context().Value(CallerContextKey).(string)
        w.WriteHeader(http.StatusOK)
    }))
    return handler, &caller
}

func TestAuthMiddlewareRejectsMissingHeader(t *testing.T) {
    handler, _ := protectedHandler(t)

    req := httptest.NewRequest("POST", "/internal/jobs/retry", nil)
    w := httptest.NewRecorder()
    handler.ServeHTTP(w, req)

    assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareRejectsMalformedHeader(t *testing.T) {
    handler, _ := protectedHandler(t)

    req := httptest.NewRequest("POST", "/internal/jobs/retry", nil)
    req.Header.Set("Authorization", "Token abc")
    w := httptest.NewRecorder()
    handler.ServeHTTP(w, req)

    assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareRejectsBadToken(t *testing.T) {
    handler, _ := protectedHandler(t)

    req := httptest.NewRequest("POST", "/internal/jobs/retry", nil)
    req.Header.Set("Authorization", "Bearer not-a-token")
    w := httptest.NewRecorder()
    handler.ServeHTTP(w, req)

    assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewarePassesValidToken(t *testing.T) {
    handler, caller := protectedHandler(t)

    jwtService := auth.NewJWTService("test-secret", "donate-payment-api")
    token, err := jwtService.GenerateServiceToken("ops-cli")
    require.NoError(t, err)

    req := httptest.NewRequest("POST", "/internal/jobs/retry", nil)
    req.Header.Set("Authorization", "Bearer "+token)
    w := httptest.NewRecorder()
    handler.ServeHTTP(w, req)

    assert.Equal(t, http.StatusOK, w.Code)
    assert.Equal(t, "ops-cli", *caller)
}

func TestSecurityHeadersOnPaymentPaths(t *testing.T) {
    handler := SecurityHeadersMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        w.WriteHeader(http.StatusOK)
    }))

    req := httptest.NewRequest("POST", "/donate/card/single", nil)
    w := httptest.NewRecorder()
    handler.ServeHTTP(w, req)

    assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
    assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
    assert.Contains(t, w.Header().Get("Cache-Control"), "no-store")

    req = httptest.NewRequest("GET", "/health", nil)
    w = httptest.NewRecorder()
    handler.ServeHTTP(w, req)

    assert.Empty(t, w.Header().Get("Cache-Control"))
}
