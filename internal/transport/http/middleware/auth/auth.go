package auth

import (
	"context"
	"net/http"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const userIDKey contextKey = "userID"

// Secret returns the HMAC secret tokens are verified with.
func Secret() []byte {
	return []byte(os.Getenv("SHOPMAX_JWT_SECRET"))
}

// UserID extracts the authenticated user id placed by the middleware.
func UserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

// WithUserID returns a context carrying the given user id. Used by tests to
// call handlers without a token.
func WithUserID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// NewAuthMiddleware verifies the Bearer token and stores the user id from the
// "userId" claim in the request context. The order workflows trust that value
// once it is present.
func NewAuthMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			tokenString, found := strings.CutPrefix(header, "Bearer ")
			if !found || tokenString == "" {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)

				return
			}

			token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}

				return Secret(), nil
			})
			if err != nil || !token.Valid {
				http.Error(w, "invalid token", http.StatusUnauthorized)

				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				http.Error(w, "invalid token claims", http.StatusUnauthorized)

				return
			}

			raw, ok := claims["userId"].(float64)
			if !ok {
				http.Error(w, "invalid token claims", http.StatusUnauthorized)

				return
			}

			ctx := WithUserID(r.Context(), int64(raw))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
