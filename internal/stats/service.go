package stats

import (
	"log/slog"

	"github.com/campusworks/complaint-management/internal"
	"github.com/campusworks/complaint-management/internal/activity"
	"github.com/campusworks/complaint-management/internal/auth"
)

const recentActivityLimit = 10

type Repository interface {
	CountTotal() (int64, error)
	CountOpen() (int64, error)
	CountResolved() (int64, error)
	// AvgResolutionHours is the mean of resolved_at - created_at over
	// resolved complaints with a non-null resolved_at, rounded to the
	// nearest hour. Zero when nothing is resolved.
	AvgResolutionHours() (int64, error)
	CountByAssignedDepartment() ([]*DepartmentCount, error)
	CountByStatus() ([]*StatusCount, error)
	CountByReportingDepartment() ([]*DepartmentCount, error)
}

type ActivityReader interface {
	QueryRecent(limit int) ([]*activity.EntryView, error)
}

// Service computes read-only aggregates for admin dashboards.
type Service struct {
	repo       Repository
	activities ActivityReader
	logger     *slog.Logger
}

func NewService(repo Repository, activities ActivityReader, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		activities: activities,
		logger:     logger,
	}
}

func (s *Service) Dashboard(actor *auth.Identity) (*DashboardStats, error) {
	if _, err := auth.Authorize(actor, auth.OpViewStats); err != nil {
		return nil, err
	}

	stats := &DashboardStats{}

	var err error
	if stats.Total, err = s.repo.CountTotal(); err != nil {
		return nil, s.fail("total count", err)
	}
	if stats.Open, err = s.repo.CountOpen(); err != nil {
		return nil, s.fail("open count", err)
	}
	if stats.Resolved, err = s.repo.CountResolved(); err != nil {
		return nil, s.fail("resolved count", err)
	}
	if stats.AvgResolutionTime, err = s.repo.AvgResolutionHours(); err != nil {
		return nil, s.fail("average resolution time", err)
	}

	recent, err := s.activities.QueryRecent(recentActivityLimit)
	if err != nil {
		s.logger.Error("failed to load recent activity", "error", err)
		recent = []*activity.EntryView{}
	}
	stats.RecentActivity = recent

	return stats, nil
}

func (s *Service) ByAssignedDepartment(actor *auth.Identity) ([]*DepartmentCount, error) {
	if _, err := auth.Authorize(actor, auth.OpViewStats); err != nil {
		return nil, err
	}

	counts, err := s.repo.CountByAssignedDepartment()
	if err != nil {
		return nil, s.fail("counts by assigned department", err)
	}
	return counts, nil
}

func (s *Service) ByStatus(actor *auth.Identity) ([]*StatusCount, error) {
	if _, err := auth.Authorize(actor, auth.OpViewStats); err != nil {
		return nil, err
	}

	counts, err := s.repo.CountByStatus()
	if err != nil {
		return nil, s.fail("counts by status", err)
	}
	return counts, nil
}

func (s *Service) ByReportingDepartment(actor *auth.Identity) ([]*DepartmentCount, error) {
	if _, err := auth.Authorize(actor, auth.OpViewStats); err != nil {
		return nil, err
	}

	counts, err := s.repo.CountByReportingDepartment()
	if err != nil {
		return nil, s.fail("counts by reporting department", err)
	}
	return counts, nil
}

func (s *Service) fail(what string, err error) error {
	s.logger.Error("failed to compute "+what, "error", err)
	return internal.NewInternalError("failed to compute statistics", err)
}
