package auth

import (
    "errors"
    "fmt"
    "time"

    "github.com/golang-jwt/jwt/v5"
)

const ServiceTokenDuration = 15 * time.Minute

var (
    ErrTokenExpired = errors.New("token expired")
    ErrInvalidToken = errors.New("invalid token")
)

// JWTService issues and validates the bearer tokens that protect the
// internal operations endpoints (failed-job requeue and the like).
type JWTService struct {
    secretKey []byte
    issuer    string
}

type Claims struct {
    Scope string `json:"scope"`
    jwt.RegisteredClaims
}

func NewJWTService(secretKey, issuer string) *JWTService {
    return &JWTService{
        secretKey: []byte(secretKey),
        issuer:    issuer,
    }
}

// GenerateServiceToken issues a short-lived token for an internal
// caller identified by subject.
func (j *JWTService) GenerateServiceToken(subject string) (string, error) {
    now := time.Now()
    claims := Claims{
        Scope: "internal",
        RegisteredClaims: jwt.RegisteredClaims{
            Subject:   subject,
            Issuer:    j.issuer,
            IssuedAt:  jwt.NewNumericDate(now),
            ExpiresAt: jwt.NewNumericDate(now.Add(ServiceTokenDuration)),
            NotBefore: jwt.NewNumericDate(now),
        },
    }

    token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    return token.SignedString(j.secretKey)
}

// ValidateToken checks signature, expiry and scope, returning the
// caller's subject.
func (j *JWTService) ValidateToken(tokenString string) (string, error) {
    token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
        if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
        }
        return j.secretKey, nil
    })

    if err != nil {
        if errors.Is(err, jwt.ErrTokenExpired) {
            return "", ErrTokenExpired
        }
        return "", ErrInvalidToken
    }

    claims, ok := token.Claims.(*Claims)
    if !ok || !token.Valid {
        return "", ErrInvalidToken
    }

    if claims.Scope != "internal" {
        return "", ErrInvalidToken
    }

    return claims.Subject, nil
}
