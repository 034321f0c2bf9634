package complaint

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
)

type Repository interface {
	Create(c *Complaint) error
	GetByID(id int64) (*Complaint, error)
	List(filter ListFilter) ([]*Complaint, error)
	// UpdateStatus writes status, resolved_at and resolution_notes as a
	// single row update. A nil resolvedAt or notes leaves the stored
	// value untouched.
	UpdateStatus(id int64, status string, resolvedAt *time.Time, notes *string) error
}

// ActivityReader supplies the ledger entries attached to a single
// complaint fetch.
type ActivityReader interface {
	QueryByComplaint(complaintID int64) ([]*activity.EntryView, error)
}

// Service owns the complaint lifecycle: who may create, see and move a
// complaint through its statuses.
type Service struct {
	repo       Repository
	activities ActivityReader
	eventBus   *events.EventBus
	logger     *slog.Logger
}

func NewService(repo Repository, activities ActivityReader, eventBus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		activities: activities,
		eventBus:   eventBus,
		logger:     logger,
	}
}

// CreateComplaint files a new complaint for a Faculty actor. The
// reporter's name and department are frozen onto the row at this point.
func (s *Service) CreateComplaint(dto CreateComplaintDTO, actor *auth.Identity) (*CreatedComplaintResponse, error) {
	if _, err := auth.Authorize(actor, auth.OpCreateComplaint); err != nil {
		return nil, err
	}

	if err := dto.Validate(); err != nil {
		s.logger.Warn("complaint validation failed", "error", err, "user_id", actor.ID)
		return nil, err
	}

	c := &Complaint{
		Title:                DeriveTitle(dto.Description),
		Description:          dto.Description,
		ReportedBy:           actor.ID,
		ReportedByName:       actor.Name,
		ReportedByDepartment: actor.Department,
		Block:                dto.Block,
		Floor:                dto.Floor,
		Room:                 dto.Room,
		AssignedTo:           dto.AssignedTo,
		Status:               StatusNew,
		PhotoPath:            dto.PhotoPath,
		CreatedAt:            time.Now(),
	}

	if err := s.repo.Create(c); err != nil {
		s.logger.Error("failed to create complaint", "error", err, "user_id", actor.ID)
		return nil, internal.NewInternalError("failed to create complaint", err)
	}

	s.eventBus.Publish(context.Background(), events.NewActivityRecordedEvent(
		&c.ID, actor.ID, activity.ActionCreateComplaint, fmt.Sprintf("Created complaint: %s", c.Title)))

	s.logger.Info("complaint created",
		"complaint_id", c.ID,
		"user_id", actor.ID,
		"assigned_to", c.AssignedTo)

	return &CreatedComplaintResponse{
		ID:      c.ID,
		Title:   c.Title,
		Message: "Complaint submitted successfully",
	}, nil
}

// ListComplaints returns the complaints visible to the actor, newest
// first. Faculty see their own, Maintenance their department's queue,
// admins everything. The status filter applies to any role; the
// reporting-department filter is admin-only.
func (s *Service) ListComplaints(actor *auth.Identity, status, reportedByDept string) ([]*Complaint, error) {
	scope, err := auth.Authorize(actor, auth.OpListComplaints)
	if err != nil {
		return nil, err
	}

	filter := ListFilter{
		ReportedBy: scope.ReportedBy,
		AssignedTo: scope.AssignedTo,
	}
	if status != "" && status != auth.StatusFilterAll {
		filter.Status = status
	}
	if scope.AdminFilters && reportedByDept != "" {
		filter.ReportedByDepartment = reportedByDept
	}

	complaints, err := s.repo.List(filter)
	if err != nil {
		s.logger.Error("failed to list complaints", "error", err, "user_id", actor.ID)
		return nil, internal.NewInternalError("failed to list complaints", err)
	}

	return complaints, nil
}

// GetComplaint fetches one complaint with its ledger entries. A row
// outside the actor's scope yields the same not-found as a nonexistent
// id, so ids cannot be probed for existence.
func (s *Service) GetComplaint(id int64, actor *auth.Identity) (*Detail, error) {
	scope, err := auth.Authorize(actor, auth.OpReadComplaint)
	if err != nil {
		return nil, err
	}

	c, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, internal.ErrComplaintNotFound) {
			return nil, internal.ErrComplaintNotFound
		}
		s.logger.Error("failed to fetch complaint", "error", err, "complaint_id", id)
		return nil, internal.NewInternalError("failed to fetch complaint", err)
	}

	if !scope.AllowsRow(c.ReportedBy, c.AssignedTo) {
		s.logger.Warn("complaint read outside scope",
			"complaint_id", id,
			"user_id", actor.ID,
			"role", actor.Role)
		return nil, internal.ErrComplaintNotFound
	}

	entries, err := s.activities.QueryByComplaint(id)
	if err != nil {
		s.logger.Error("failed to load complaint activities", "error", err, "complaint_id", id)
		entries = []*activity.EntryView{}
	}

	return &Detail{Complaint: *c, Activities: entries}, nil
}

// UpdateComplaint moves a complaint to a new status. Only the Maintenance
// department the complaint is assigned to may update it. A Resolved
// transition stamps resolved_at with the current time every time it is
// made, including repeats; moving away from Resolved never clears the
// stamp.
func (s *Service) UpdateComplaint(id int64, dto UpdateComplaintDTO, actor *auth.Identity) error {
	scope, err := auth.Authorize(actor, auth.OpUpdateComplaint)
	if err != nil {
		return err
	}

	if err := dto.Validate(); err != nil {
		return err
	}

	c, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, internal.ErrComplaintNotFound) {
			return internal.ErrComplaintNotFound
		}
		s.logger.Error("failed to fetch complaint", "error", err, "complaint_id", id)
		return internal.NewInternalError("failed to fetch complaint", err)
	}

	if c.AssignedTo != scope.AssignedTo {
		s.logger.Warn("complaint update outside department",
			"complaint_id", id,
			"user_id", actor.ID,
			"assigned_to", c.AssignedTo,
			"actor_department", scope.AssignedTo)
		return internal.ErrNotAssigned
	}

	var resolvedAt *time.Time
	if dto.Status == StatusResolved {
		now := time.Now()
		resolvedAt = &now
	}

	if err := s.repo.UpdateStatus(id, dto.Status, resolvedAt, dto.ResolutionNotes); err != nil {
		s.logger.Error("failed to update complaint", "error", err, "complaint_id", id)
		return internal.NewInternalError("failed to update complaint", err)
	}

	details := fmt.Sprintf("Updated status to %s", dto.Status)
	if dto.ResolutionNotes != nil && *dto.ResolutionNotes != "" {
		details += ": " + *dto.ResolutionNotes
	}
	s.eventBus.Publish(context.Background(), events.NewActivityRecordedEvent(
		&id, actor.ID, activity.ActionUpdateStatus, details))

	s.logger.Info("complaint updated",
		"complaint_id", id,
		"status", dto.Status,
		"user_id", actor.ID)

	return nil
}
