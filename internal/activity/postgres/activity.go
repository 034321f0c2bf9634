package postgres

import (
	"database/sql"

	"github.com/campusworks/complaint-management/internal/activity"
	"gorm.io/gorm"
)

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) activity.Repository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Append(entry *activity.Entry) error {
	return r.db.Create(entry).Error
}

func (r *ActivityRepository) QueryRecent(limit int) ([]*activity.EntryView, error) {
	query := `SELECT al.id, al.complaint_id, al.user_id, al.action, al.details, al.timestamp,
	                 u.name, u.role, c.title
	          FROM activity_log al
	          LEFT JOIN users u ON al.user_id = u.id
	          LEFT JOIN complaints c ON al.complaint_id = c.id
	          ORDER BY al.timestamp DESC
	          LIMIT ?`

	rows, err := r.db.Raw(query, limit).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntryViews(rows, true)
}

func (r *ActivityRepository) QueryByComplaint(complaintID int64) ([]*activity.EntryView, error) {
	query := `SELECT al.id, al.complaint_id, al.user_id, al.action, al.details, al.timestamp,
	                 u.name, u.role
	          FROM activity_log al
	          LEFT JOIN users u ON al.user_id = u.id
	          WHERE al.complaint_id = ?
	          ORDER BY al.timestamp DESC`

	rows, err := r.db.Raw(query, complaintID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntryViews(rows, false)
}

func scanEntryViews(rows *sql.Rows, withComplaintTitle bool) ([]*activity.EntryView, error) {
	views := make([]*activity.EntryView, 0)
	for rows.Next() {
		var v activity.EntryView
		var complaintID sql.NullInt64
		var userName, userRole, complaintTitle sql.NullString

		dest := []interface{}{&v.ID, &complaintID, &v.UserID, &v.Action, &v.Details, &v.Timestamp, &userName, &userRole}
		if withComplaintTitle {
			dest = append(dest, &complaintTitle)
		}

		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}

		if complaintID.Valid {
			id := complaintID.Int64
			v.ComplaintID = &id
		}
		v.UserName = userName.String
		v.UserRole = userRole.String
		v.ComplaintTitle = complaintTitle.String

		views = append(views, &v)
	}

	return views, rows.Err()
}
