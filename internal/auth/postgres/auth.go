package postgres

import (
	"database/sql"
	"time"

	"github.com/campusworks/complaint-management/internal"
	"github.com/campusworks/complaint-management/internal/auth"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetByEmail(email string) (*auth.UserRecord, error) {
	var rec auth.UserRecord
	var department sql.NullString

	query := `SELECT id, email, name, password_hash, role, department, require_password_change
	          FROM users WHERE email = ?`

	row := r.db.Raw(query, email).Row()
	if err := row.Scan(&rec.ID, &rec.Email, &rec.Name, &rec.PasswordHash, &rec.Role, &department, &rec.RequirePasswordChange); err != nil {
		if err == sql.ErrNoRows {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	rec.Department = department.String

	return &rec, nil
}

func (r *Repository) UpdateLastLogin(userID int64, at time.Time) error {
	return r.db.Exec(`UPDATE users SET last_login = ? WHERE id = ?`, at, userID).Error
}
