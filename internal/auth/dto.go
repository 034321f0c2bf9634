package auth

import "errors"

// LoginDTO carries the login form. Role and department are optional
// client hints that must match the stored record when supplied.
type LoginDTO struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       string `json:"role,omitempty"`
	Department string `json:"department,omitempty"`
}

func (dto LoginDTO) Validate() error {
	if dto.Email == "" || dto.Password == "" {
		return errors.New("email and password are required")
	}
	return nil
}
