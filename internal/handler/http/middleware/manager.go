package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/nomitake/timeclock-backend-go/internal/domain/auth"
	"github.com/nomitake/timeclock-backend-go/internal/handler/http/response"
)

// ManagerOnly gates the correction, approval and payroll endpoints.
func ManagerOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		role, ok := claims["role"].(string)
		if !ok || role != "manager" {
			response.HandleError(w, auth.ErrManagerRoleRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
