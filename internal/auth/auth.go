package auth

import (
	"context"
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleFaculty     = "Faculty"
	RoleMaintenance = "Maintenance"
	RoleAdmin       = "Admin"
	RoleSuperAdmin  = "SuperAdmin"
)

func IsValidRole(role string) bool {
	switch role {
	case RoleFaculty, RoleMaintenance, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// Identity is the verified representation of an authenticated actor.
// Role and department always come from the stored user record; the
// role/department supplied at login is only matched against storage,
// never trusted on its own.
type Identity struct {
	ID                    int64  `json:"id"`
	Email                 string `json:"email"`
	Name                  string `json:"name"`
	Role                  string `json:"role"`
	Department            string `json:"department,omitempty"`
	RequirePasswordChange bool   `json:"require_password_change"`
}

// AuthResult is the login response payload: the signed bearer token plus
// the identity it certifies.
type AuthResult struct {
	Token string    `json:"token"`
	User  *Identity `json:"user"`
}

// Claims represents JWT token claims
type Claims struct {
	UserID     int64  `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	Department string `json:"department,omitempty"`
	jwt.RegisteredClaims
}

// TokenGenerator creates and verifies signed identity tokens.
type TokenGenerator interface {
	GenerateToken(identity *Identity) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRoleMismatch       = errors.New("invalid role for this user")
	ErrDepartmentRequired = errors.New("department is required for maintenance staff")
	ErrDepartmentMismatch = errors.New("invalid department for this user")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
)

type identityCtxKey struct{}

func ContextWithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey{}, identity)
}

func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(identityCtxKey{}).(*Identity)
	return identity, ok
}
