package activity

import "time"

// Actions recorded in the ledger.
const (
	ActionLogin           = "login"
	ActionCreateComplaint = "create_complaint"
	ActionUpdateStatus    = "update_status"
	ActionCreateUser      = "create_user"
	ActionResetPassword   = "reset_password"
	ActionDeleteUser      = "delete_user"
)

// Entry is an immutable audit record. Entries are only ever appended;
// nothing updates or deletes them.
type Entry struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	ComplaintID *int64    `json:"complaint_id,omitempty" gorm:"column:complaint_id"`
	UserID      int64     `json:"user_id" gorm:"column:user_id;not null"`
	Action      string    `json:"action" gorm:"not null"`
	Details     string    `json:"details"`
	Timestamp   time.Time `json:"timestamp" gorm:"column:timestamp"`
}

func (Entry) TableName() string {
	return "activity_log"
}

// EntryView is an entry joined with actor and complaint display fields.
type EntryView struct {
	Entry
	UserName       string `json:"user_name"`
	UserRole       string `json:"user_role"`
	ComplaintTitle string `json:"complaint_title,omitempty"`
}
