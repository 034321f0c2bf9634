package user

import (
	"time"
)

// BootstrapUserID is the fixed identity slot of the seed SuperAdmin
// account. It can never be deleted.
const BootstrapUserID int64 = 1

type User struct {
	ID                    int64      `json:"id" gorm:"primaryKey"`
	Email                 string     `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash          string     `json:"-" gorm:"column:password_hash;not null"`
	Name                  string     `json:"name" gorm:"not null"`
	Role                  string     `json:"role" gorm:"not null"`
	Department            *string    `json:"department,omitempty"`
	CreatedBy             *int64     `json:"created_by,omitempty" gorm:"column:created_by"`
	RequirePasswordChange bool       `json:"require_password_change" gorm:"column:require_password_change"`
	LastLogin             *time.Time `json:"last_login,omitempty" gorm:"column:last_login"`
	CreatedAt             time.Time  `json:"created_at" gorm:"column:created_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsBootstrap() bool {
	return u.ID == BootstrapUserID
}

func (u *User) DepartmentOrEmpty() string {
	if u.Department == nil {
		return ""
	}
	return *u.Department
}
