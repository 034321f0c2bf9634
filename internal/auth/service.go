package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/campusworks/complaint-management/internal/activity"
	"github.com/campusworks/complaint-management/internal/core/events"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// UserRecord is the stored credential row the verifier authenticates
// against. PasswordHash never leaves this package.
type UserRecord struct {
	ID                    int64
	Email                 string
	Name                  string
	PasswordHash          string
	Role                  string
	Department            string
	RequirePasswordChange bool
}

type UserRepository interface {
	GetByEmail(email string) (*UserRecord, error)
	UpdateLastLogin(userID int64, at time.Time) error
}

type ServiceAPI interface {
	Authenticate(dto LoginDTO) (*AuthResult, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
}

// Service is the credential verifier.
type Service struct {
	userRepo       UserRepository
	tokenGenerator TokenGenerator
	eventBus       *events.EventBus
	logger         *slog.Logger
}

func NewService(userRepo UserRepository, tokenGen TokenGenerator, eventBus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		userRepo:       userRepo,
		tokenGenerator: tokenGen,
		eventBus:       eventBus,
		logger:         logger,
	}
}

// Authenticate validates the email/password/role/department combination
// and returns a signed identity token. Authorization downstream is always
// recomputed from the stored record carried in the token, never from the
// client-supplied role or department hints.
func (s *Service) Authenticate(dto LoginDTO) (*AuthResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(dto.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(dto.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if dto.Role != "" && dto.Role != user.Role {
		return nil, ErrRoleMismatch
	}

	// Maintenance staff log in per department; the claimed department
	// must match the stored one.
	if user.Role == RoleMaintenance {
		if dto.Department == "" {
			return nil, ErrDepartmentRequired
		}
		if dto.Department != user.Department {
			return nil, ErrDepartmentMismatch
		}
	}

	identity := &Identity{
		ID:                    user.ID,
		Email:                 user.Email,
		Name:                  user.Name,
		Role:                  user.Role,
		Department:            user.Department,
		RequirePasswordChange: user.RequirePasswordChange,
	}

	token, err := s.tokenGenerator.GenerateToken(identity)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	// Best effort: a failed last-login stamp must not fail the login.
	if err := s.userRepo.UpdateLastLogin(user.ID, time.Now()); err != nil {
		s.logger.Error("failed to update last login", "error", err, "user_id", user.ID)
	}

	s.eventBus.Publish(context.Background(), events.NewActivityRecordedEvent(
		nil, user.ID, activity.ActionLogin, fmt.Sprintf("User %s logged in", user.Email)))

	s.logger.Info("user authenticated", "user_id", user.ID, "role", user.Role)

	return &AuthResult{Token: token, User: identity}, nil
}

// ValidateAccessToken validates a bearer token and returns its claims.
func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGenerator.ValidateToken(tokenString)
}

type JWTTokenGenerator struct {
	Secret   []byte
	TokenTTL time.Duration
}

// NewJWTTokenGenerator creates an HS256 token generator. Tokens carry the
// identity payload and a fixed validity window (24h in production config).
func NewJWTTokenGenerator(secret string, ttl time.Duration) *JWTTokenGenerator {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &JWTTokenGenerator{
		Secret:   []byte(secret),
		TokenTTL: ttl,
	}
}

func (j *JWTTokenGenerator) GenerateToken(identity *Identity) (string, error) {
	now := time.Now()

	claims := &Claims{
		UserID:     identity.ID,
		Email:      identity.Email,
		Name:       identity.Name,
		Role:       identity.Role,
		Department: identity.Department,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(j.TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   fmt.Sprintf("%d", identity.ID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.Secret)
}

func (j *JWTTokenGenerator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// IdentityFromClaims rebuilds the request identity from verified claims.
func IdentityFromClaims(claims *Claims) *Identity {
	return &Identity{
		ID:         claims.UserID,
		Email:      claims.Email,
		Name:       claims.Name,
		Role:       claims.Role,
		Department: claims.Department,
	}
}
