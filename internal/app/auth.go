package app

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// authMiddleware requires a valid HS256 bearer token signed with the configured secret.
// Without a secret every request passes.
func (a *App) authMiddleware(next http.Handler) http.Handler {
	if a.config.AuthSecret == "" {
		return next
	}

	key := []byte(a.config.AuthSecret)
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	keyfunc := func(*jwt.Token) (any, error) {
		return key, nil
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			a.logger.Warn("Missing or invalid authorization header",
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
			)
			http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
			return
		}

		tok, err := parser.Parse(strings.TrimPrefix(authHeader, "Bearer "), keyfunc)
		if err != nil || !tok.Valid {
			a.logger.Warn("Failed to validate token",
				zap.Error(err),
				zap.String("remote_addr", r.RemoteAddr),
			)
			http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
			return
		}

		subject, _ := tok.Claims.GetSubject()
		a.logger.Debug("Authenticated request",
			zap.String("subject", subject),
			zap.String("path", r.URL.Path),
		)

		next.ServeHTTP(w, r)
	})
}
