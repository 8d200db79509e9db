package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/cmlabs-hris/hris-leave-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-leave-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-leave-go/internal/pkg/jwt"
)

type sessionEmailKey struct{}

// SessionEmail requires the user_email cookie and stores its value in the
// request context.
func SessionEmail(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(jwt.SessionCookie)
		if err != nil || strings.TrimSpace(cookie.Value) == "" {
			response.HandleError(w, auth.ErrSessionRequired)
			return
		}

		ctx := context.WithValue(r.Context(), sessionEmailKey{}, strings.TrimSpace(cookie.Value))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionEmailFromContext returns the email stored by SessionEmail.
func SessionEmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(sessionEmailKey{}).(string)
	return email, ok && email != ""
}
