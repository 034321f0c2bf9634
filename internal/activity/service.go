package activity

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/campusworks/complaint-management/internal/core/events"
)

type Repository interface {
	Append(entry *Entry) error
	QueryRecent(limit int) ([]*EntryView, error)
	QueryByComplaint(complaintID int64) ([]*EntryView, error)
}

// Service is the activity ledger. Appends arrive through the event bus
// after the primary mutation has been applied, so a discoverable ledger
// entry always implies the mutation happened. Append failures are logged
// and dropped; they never roll back or fail the primary action.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// RegisterHandlers subscribes the ledger to activity events.
func (s *Service) RegisterHandlers(eventBus *events.EventBus) {
	eventBus.Subscribe(events.EventTypeActivityRecorded, s.handleActivityRecorded)
}

func (s *Service) handleActivityRecorded(ctx context.Context, event events.Event) error {
	activityEvent, ok := event.(*events.ActivityRecordedEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload for %s", event.EventType())
	}

	entry := &Entry{
		ComplaintID: activityEvent.ComplaintID,
		UserID:      activityEvent.UserID,
		Action:      activityEvent.Action,
		Details:     activityEvent.Details,
		Timestamp:   event.OccurredAt(),
	}

	if err := s.repo.Append(entry); err != nil {
		// Best-effort durability: a lost ledger entry is acceptable, a
		// lost primary mutation is not.
		s.logger.Error("failed to append ledger entry",
			"error", err,
			"action", entry.Action,
			"user_id", entry.UserID)
		return err
	}

	return nil
}

// Append writes an entry directly, bypassing the bus. Used by callers
// that already sit behind an asynchronous boundary.
func (s *Service) Append(complaintID *int64, userID int64, action, details string) error {
	entry := &Entry{
		ComplaintID: complaintID,
		UserID:      userID,
		Action:      action,
		Details:     details,
		Timestamp:   time.Now(),
	}
	return s.repo.Append(entry)
}

func (s *Service) QueryRecent(limit int) ([]*EntryView, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.repo.QueryRecent(limit)
}

func (s *Service) QueryByComplaint(complaintID int64) ([]*EntryView, error) {
	return s.repo.QueryByComplaint(complaintID)
}
