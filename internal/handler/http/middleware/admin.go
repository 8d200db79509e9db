package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/hris-leave-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-leave-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-leave-go/internal/handler/http/response"
)

// AdminOnly must run after AuthRequired.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		if claims.Role != string(employee.RoleAdmin) {
			response.HandleError(w, auth.ErrAdminRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
