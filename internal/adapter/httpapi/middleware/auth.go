package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/carhub/car-inventory/internal/platform/logger"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// Claims is the JWT payload issued by the user usecase.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// TokenValidator reports the currently issued token for a user. A miss
// returns "" without an error.
type TokenValidator interface {
	GetToken(ctx context.Context, userID string) (string, error)
}

// JWTAuth verifies the bearer credential and injects the principal id
// into the request context. A token must both carry a valid signature
// and match the currently cached session token, so logout (which drops
// the cache entry) revokes it before its JWT expiry. Requests without a
// valid token get 401; the handlers behind this middleware can rely on
// the id being present.
func JWTAuth(jwtSecret string, tokens TokenValidator, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				unauthorized(w, "authorization token is not provided")
				return
			}

			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				unauthorized(w, "authorization token format is invalid, expected 'Bearer <token>'")
				return
			}
			tokenString := parts[1]

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil {
				log.Warn("token validation failed", zap.Error(err))
				if errors.Is(err, jwt.ErrTokenExpired) {
					unauthorized(w, "token has expired")
					return
				}
				unauthorized(w, "token is invalid")
				return
			}
			if !token.Valid || claims.UserID == "" {
				unauthorized(w, "token is invalid")
				return
			}

			cached, err := tokens.GetToken(r.Context(), claims.UserID)
			if err != nil {
				log.Error("session token lookup failed", zap.String("user_id", claims.UserID), zap.Error(err))
				unauthorized(w, "token is invalid")
				return
			}
			if cached != tokenString {
				unauthorized(w, "token has been revoked")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), claims.UserID)))
		})
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
