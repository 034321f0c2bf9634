package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/campusworks/complaint-management/internal"
	"github.com/campusworks/complaint-management/internal/activity"
	"github.com/campusworks/complaint-management/internal/auth"
	"github.com/campusworks/complaint-management/internal/core/events"
	"golang.org/x/crypto/bcrypt"
)

type Repository interface {
	GetAll() ([]*User, error)
	GetByID(id int64) (*User, error)
	Create(u *User) error
	UpdatePassword(id int64, passwordHash string, requireChange bool) error
	Delete(id int64) error
}

// Service handles user administration. Every operation requires a
// SuperAdmin actor; the policy check runs before any mutation.
type Service struct {
	repo       Repository
	eventBus   *events.EventBus
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo Repository, eventBus *events.EventBus, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		eventBus:   eventBus,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

func (s *Service) ListUsers(actor *auth.Identity) ([]*User, error) {
	if _, err := auth.Authorize(actor, auth.OpManageUsers); err != nil {
		return nil, err
	}

	users, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, internal.NewInternalError("failed to list users", err)
	}

	return users, nil
}

func (s *Service) CreateUser(dto CreateUserDTO, actor *auth.Identity) (*User, error) {
	if _, err := auth.Authorize(actor, auth.OpManageUsers); err != nil {
		return nil, err
	}

	if err := dto.Validate(); err != nil {
		s.logger.Warn("user validation failed", "error", err, "actor_id", actor.ID)
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	u := &User{
		Email:                 dto.Email,
		PasswordHash:          string(hash),
		Name:                  dto.Name,
		Role:                  dto.Role,
		CreatedBy:             &actor.ID,
		RequirePasswordChange: true,
		CreatedAt:             time.Now(),
	}
	if dto.Department != "" {
		dept := dto.Department
		u.Department = &dept
	}

	if err := s.repo.Create(u); err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			return nil, appErr
		}
		s.logger.Error("failed to create user", "error", err, "actor_id", actor.ID)
		return nil, internal.NewInternalError("failed to create user", err)
	}

	s.eventBus.Publish(context.Background(), events.NewActivityRecordedEvent(
		nil, actor.ID, activity.ActionCreateUser, fmt.Sprintf("Created user %s with role %s", u.Email, u.Role)))

	s.logger.Info("user created", "user_id", u.ID, "role", u.Role, "actor_id", actor.ID)

	return u, nil
}

func (s *Service) ResetPassword(userID int64, dto ResetPasswordDTO, actor *auth.Identity) error {
	if _, err := auth.Authorize(actor, auth.OpManageUsers); err != nil {
		return err
	}

	if err := dto.Validate(); err != nil {
		return err
	}

	target, err := s.repo.GetByID(userID)
	if err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			return internal.ErrUserNotFound
		}
		s.logger.Error("failed to fetch user", "error", err, "user_id", userID)
		return internal.NewInternalError("failed to fetch user", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.NewPassword), s.bcryptCost)
	if err != nil {
		return internal.NewInternalError("failed to hash password", err)
	}

	// A forced reset always requires the user to change the password on
	// their next login.
	if err := s.repo.UpdatePassword(userID, string(hash), true); err != nil {
		s.logger.Error("failed to reset password", "error", err, "user_id", userID)
		return internal.NewInternalError("failed to reset password", err)
	}

	s.eventBus.Publish(context.Background(), events.NewActivityRecordedEvent(
		nil, actor.ID, activity.ActionResetPassword, fmt.Sprintf("Reset password for user %s", target.Email)))

	s.logger.Info("password reset", "user_id", userID, "actor_id", actor.ID)

	return nil
}

func (s *Service) DeleteUser(userID int64, actor *auth.Identity) error {
	if _, err := auth.Authorize(actor, auth.OpManageUsers); err != nil {
		return err
	}

	if userID == actor.ID {
		return internal.ErrSelfDeletion
	}
	if userID == BootstrapUserID {
		return internal.ErrUserProtected
	}

	target, err := s.repo.GetByID(userID)
	if err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			return internal.ErrUserNotFound
		}
		s.logger.Error("failed to fetch user", "error", err, "user_id", userID)
		return internal.NewInternalError("failed to fetch user", err)
	}

	if err := s.repo.Delete(userID); err != nil {
		s.logger.Error("failed to delete user", "error", err, "user_id", userID)
		return internal.NewInternalError("failed to delete user", err)
	}

	s.eventBus.Publish(context.Background(), events.NewActivityRecordedEvent(
		nil, actor.ID, activity.ActionDeleteUser, fmt.Sprintf("Deleted user %s (%s)", target.Email, target.Role)))

	s.logger.Info("user deleted", "user_id", userID, "actor_id", actor.ID)

	return nil
}

// GetByID serves the current-user endpoint; it is not SuperAdmin-gated.
func (s *Service) GetByID(userID int64) (*User, error) {
	u, err := s.repo.GetByID(userID)
	if err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			return nil, internal.ErrUserNotFound
		}
		s.logger.Error("failed to fetch user", "error", err, "user_id", userID)
		return nil, internal.NewInternalError("failed to fetch user", err)
	}
	return u, nil
}
