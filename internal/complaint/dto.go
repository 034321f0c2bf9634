package complaint

import (
	"github.com/campusworks/complaint-management/internal"
	"github.com/campusworks/complaint-management/internal/department"
)

type CreateComplaintDTO struct {
	Description string  `json:"description"`
	Block       *string `json:"block,omitempty"`
	Floor       *string `json:"floor,omitempty"`
	Room        *string `json:"room,omitempty"`
	AssignedTo  string  `json:"assigned_to"`
	PhotoPath   *string `json:"-"`
}

func (dto CreateComplaintDTO) Validate() error {
	if dto.Description == "" {
		return internal.NewValidationError("Description is required", internal.ErrCodeInvalidDescription)
	}
	if dto.AssignedTo == "" {
		return internal.NewValidationError("Maintenance department is required", internal.ErrCodeInvalidDepartment)
	}
	if !department.IsMaintenance(dto.AssignedTo) {
		return internal.NewValidationError("Invalid maintenance department", internal.ErrCodeInvalidDepartment)
	}
	return nil
}

type UpdateComplaintDTO struct {
	Status string `json:"status"`
	// ResolutionNotes overwrites stored notes only when present; omitted
	// notes are preserved, never cleared implicitly.
	ResolutionNotes *string `json:"resolution_notes,omitempty"`
}

func (dto UpdateComplaintDTO) Validate() error {
	if dto.Status == "" {
		return internal.NewValidationError("Status is required", internal.ErrCodeInvalidStatus)
	}
	if !IsValidStatus(dto.Status) {
		return internal.NewValidationError("Invalid status", internal.ErrCodeInvalidStatus)
	}
	return nil
}

type CreatedComplaintResponse struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// ListFilter is the combination of the policy scope's row predicate and
// the caller-requested filters applied by the repository query.
type ListFilter struct {
	ReportedBy           int64
	AssignedTo           string
	Status               string
	ReportedByDepartment string
}
