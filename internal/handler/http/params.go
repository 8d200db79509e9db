package http

import (
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hris-leave-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-leave-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-leave-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

// currentClaims returns the identity of the authenticated caller
func currentClaims(r *http.Request) (jwt.Claims, bool) {
	return middleware.ClaimsFromContext(r.Context())
}

// idParam parses a positive int64 URL parameter
func idParam(r *http.Request, key string) (int64, bool) {
	return validator.ParseID(chi.URLParam(r, key))
}

// getIntQueryParam gets an int query parameter with a default value
func getIntQueryParam(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return intVal
}

// getInt64QueryParam gets an int64 query parameter, zero when absent or invalid
func getInt64QueryParam(r *http.Request, key string) int64 {
	val := r.URL.Query().Get(key)
	if val == "" {
		return 0
	}
	intVal, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0
	}
	return intVal
}
