package middleware

import (
    "context"
    "log"
    "net/http"
    "strings"

    "donate-payment-api/services/auth"
    "donate-payment-api/utils"
)

type contextKey string

const CallerContextKey contextKey = "caller"

// AuthMiddleware guards the internal operations endpoints with a
// bearer service token.
func AuthMiddleware(jwtService *auth.JWTService) func(http.Handler) http.Handler {
    return func(next http.Handler) http.Handler {
        return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
            authHeader := r.Header.Get("Authorization")
            if authHeader == "" {
                log.Printf("Missing Authorization header from %s", r.RemoteAddr)
                utils.SendErrorResponse(w, http.StatusUnauthorized, "Missing authorization header")
                return
            }

            parts := strings.Split(authHeader, " ")
            if len(parts) != 2 || parts[0] != "Bearer" {
                log.Printf("Invalid Authorization header format from %s", r.RemoteAddr)
                utils.SendErrorResponse(w, http.StatusUnauthorized, "Invalid authorization header format")
                return
            }

            subject, err := jwtService.ValidateToken(parts[1])
            if err != nil {
                log.Printf("Token validation failed from %s: %v", r.RemoteAddr, err)

                var message string
                switch err {
                case auth.ErrTokenExpired:
                    message = "Token expired"
                case auth.ErrInvalidToken:
                    message = "Invalid token"
                default:
                    message = "Authentication failed"
                }

                utils.SendErrorResponse(w, http.StatusUnauthorized, message)
                return
            }

            ctx := context.WithValue(r.Context(), CallerContextKey, subject)
            next.ServeHTTP(w, r.WithContext(ctx))
        })
    }
}
