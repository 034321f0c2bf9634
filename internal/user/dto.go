package user

import (
	"github.com/campusworks/complaint-management/internal"
	"github.com/campusworks/complaint-management/internal/auth"
	"github.com/campusworks/complaint-management/internal/core/common/validation"
	"github.com/campusworks/complaint-management/internal/department"
)

type CreateUserDTO struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	Department string `json:"department,omitempty"`
}

// Validate checks the creation payload. Department membership is
// role-dependent: Faculty and Maintenance draw from disjoint closed sets,
// Admin and SuperAdmin carry no department.
func (dto CreateUserDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("email", dto.Email).Required().Email()
	v.Field("password", dto.Password).Required().MinLength(8)
	v.Field("name", dto.Name).Required().MaxLength(100)
	v.Field("role", dto.Role).Required().OneOf(
		auth.RoleFaculty, auth.RoleMaintenance, auth.RoleAdmin, auth.RoleSuperAdmin)

	if appErr := v.Validate(); appErr != nil {
		return appErr
	}

	switch dto.Role {
	case auth.RoleFaculty:
		if !department.IsFaculty(dto.Department) {
			return internal.NewValidationError("Valid department is required for Faculty", internal.ErrCodeInvalidDepartment)
		}
	case auth.RoleMaintenance:
		if !department.IsMaintenance(dto.Department) {
			return internal.NewValidationError("Valid department is required for Maintenance", internal.ErrCodeInvalidDepartment)
		}
	}

	return nil
}

type ResetPasswordDTO struct {
	NewPassword string `json:"new_password"`
}

func (dto ResetPasswordDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("new_password", dto.NewPassword).Required().MinLength(8)

	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// CreatedUserResponse is returned on creation; it never carries the hash.
type CreatedUserResponse struct {
	ID         int64  `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	Department string `json:"department,omitempty"`
	Message    string `json:"message"`
}
