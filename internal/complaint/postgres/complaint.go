package postgres

import (
	"errors"
	"time"

	"github.com/campusworks/complaint-management/internal"
	"github.com/campusworks/complaint-management/internal/complaint"
	"gorm.io/gorm"
)

type ComplaintRepository struct {
	db *gorm.DB
}

func NewComplaintRepository(db *gorm.DB) complaint.Repository {
	return &ComplaintRepository{db: db}
}

func (r *ComplaintRepository) Create(c *complaint.Complaint) error {
	return r.db.Create(c).Error
}

func (r *ComplaintRepository) GetByID(id int64) (*complaint.Complaint, error) {
	var c complaint.Complaint
	err := r.db.Where("id = ?", id).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrComplaintNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *ComplaintRepository) List(filter complaint.ListFilter) ([]*complaint.Complaint, error) {
	query := r.db.Model(&complaint.Complaint{})

	if filter.ReportedBy != 0 {
		query = query.Where("reported_by = ?", filter.ReportedBy)
	}
	if filter.AssignedTo != "" {
		query = query.Where("assigned_to = ?", filter.AssignedTo)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.ReportedByDepartment != "" {
		query = query.Where("reported_by_department = ?", filter.ReportedByDepartment)
	}

	var complaints []*complaint.Complaint
	err := query.Order("created_at DESC").Find(&complaints).Error
	return complaints, err
}

// UpdateStatus applies the status transition as one row update so no
// reader can observe status=Resolved with resolved_at still unset.
func (r *ComplaintRepository) UpdateStatus(id int64, status string, resolvedAt *time.Time, notes *string) error {
	updates := map[string]interface{}{
		"status": status,
	}
	if resolvedAt != nil {
		updates["resolved_at"] = *resolvedAt
	}
	if notes != nil {
		updates["resolution_notes"] = *notes
	}

	result := r.db.Model(&complaint.Complaint{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrComplaintNotFound
	}
	return nil
}
