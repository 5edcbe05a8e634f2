package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"listings-be/internal/logger"
	"listings-be/internal/transport"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

var ErrNoSubject = errors.New("token has no subject")

// ExtractAccessToken reads the access_token cookie, falling back to a Bearer
// Authorization header.
func ExtractAccessToken(r *http.Request) string {
	if cookie, err := r.Cookie("access_token"); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// Auth resolves the caller's identity from an HS256 token's sub claim.
// Requests without a token stay anonymous; a token that fails validation is
// rejected. With an empty secret every request is anonymous.
func Auth(secret string) func(http.Handler) http.Handler {
	key := []byte(secret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := ExtractAccessToken(r)
			if tokenStr == "" || len(key) == 0 {
				next.ServeHTTP(w, r)
				return
			}

			identity, err := subject(tokenStr, key)
			if err != nil {
				logger.FromCtx(r.Context()).Info("rejected access token", zap.Error(err))
				transport.WriteJSONError(w, "invalid token", http.StatusUnauthorized)
				return
			}

			ctx := transport.WithIdentity(r.Context(), identity)
			ctx = logger.WithFields(ctx, zap.String("identity", identity))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func subject(tokenStr string, key []byte) (string, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}

	sub, err := token.Claims.GetSubject()
	if err != nil {
		return "", err
	}
	if sub == "" {
		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			if uid, ok := claims["user_id"].(float64); ok {
				return fmt.Sprintf("%d", int64(uid)), nil
			}
		}
		return "", ErrNoSubject
	}
	return sub, nil
}
