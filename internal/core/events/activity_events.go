package events

import (
	"time"

	"github.com/google/uuid"
)

const EventTypeActivityRecorded = "activity.recorded"

// ActivityRecordedEvent is emitted after a primary mutation has been
// applied, carrying the audit entry to append to the activity ledger.
type ActivityRecordedEvent struct {
	BaseEvent
	ComplaintID *int64 `json:"complaint_id,omitempty"`
	UserID      int64  `json:"user_id"`
	Action      string `json:"action"`
	Details     string `json:"details"`
}

func NewActivityRecordedEvent(complaintID *int64, userID int64, action, details string) *ActivityRecordedEvent {
	data := map[string]interface{}{
		"user_id": userID,
		"action":  action,
		"details": details,
	}
	if complaintID != nil {
		data["complaint_id"] = *complaintID
	}

	return &ActivityRecordedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeActivityRecorded,
			Timestamp: time.Now(),
			Data:      data,
		},
		ComplaintID: complaintID,
		UserID:      userID,
		Action:      action,
		Details:     details,
	}
}
