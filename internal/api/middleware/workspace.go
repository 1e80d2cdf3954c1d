package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/workhive/workhive/internal/workspaces"
)

// RequireMember gates workspace-scoped routes on approved membership.
// Pending members are rejected; they have no access beyond the join
// request itself.
func RequireMember(service *workspaces.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			account := chi.URLParam(r, "account")
			userID := GetUserID(r.Context())

			ok, err := service.IsMember(r.Context(), account, userID)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "Membership check failed")
				return
			}
			if !ok {
				writeError(w, http.StatusForbidden, "Not a workspace member")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin gates admin routes on an approved admin member row.
func RequireAdmin(service *workspaces.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			account := chi.URLParam(r, "account")
			userID := GetUserID(r.Context())

			ok, err := service.IsAdmin(r.Context(), account, userID)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "Membership check failed")
				return
			}
			if !ok {
				writeError(w, http.StatusForbidden, "Admin access required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireSelf restricts /user/{userID} routes to the token's owner.
func RequireSelf() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			pathID := chi.URLParam(r, "userID")
			if pathID != GetUserID(r.Context()).String() {
				writeError(w, http.StatusForbidden, "Not your account")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
