package auth

import (
	"log/slog"
	"net/http"
)

// RBACAuthorization adapts the policy table into chi route middleware.
type RBACAuthorization struct {
	logger *slog.Logger
}

func NewRBACAuthorization(logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{logger: logger}
}

// Require rejects requests whose identity is not permitted to perform op.
// Row-level scope checks still happen in the services; this gate only
// enforces the role column of the policy table.
func (ra *RBACAuthorization) Require(op Operation) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok || identity == nil {
				ra.logger.Warn("authorization check failed: identity not found in context")
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if _, err := Authorize(identity, op); err != nil {
				ra.logger.WarnContext(r.Context(), "access denied",
					"user_id", identity.ID,
					"role", identity.Role,
					"operation", op.String())
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (ra *RBACAuthorization) RequireFaculty() func(http.Handler) http.Handler {
	return ra.Require(OpCreateComplaint)
}

func (ra *RBACAuthorization) RequireMaintenance() func(http.Handler) http.Handler {
	return ra.Require(OpUpdateComplaint)
}

func (ra *RBACAuthorization) RequireAdmin() func(http.Handler) http.Handler {
	return ra.Require(OpViewStats)
}

func (ra *RBACAuthorization) RequireSuperAdmin() func(http.Handler) http.Handler {
	return ra.Require(OpManageUsers)
}
