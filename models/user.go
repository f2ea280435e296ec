package models

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"blog-service/apperror"
	"blog-service/validation"
)

// User represents a user in the system
// Password is stored hashed (bcrypt); never return it in JSON responses
type User struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Password  string    `json:"-" db:"password"` // Hashed; omitted from JSON
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// CreateUserRequest represents the request to create a user
type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"` // Plaintext; hashed by the user service
}

// UpdateUserRequest represents the request to update a user
// Nil fields are left unchanged
type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
}

var emailPattern = regexp.MustCompile(`^\w+([\.-]?\w+)*@\w+([\.-]?\w+)*(\.\w{2,3})+$`)

// NormalizeEmail trims and lowercases an address the way it is stored.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Normalize applies the storage normalization rules in place.
func (u *User) Normalize() {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = NormalizeEmail(u.Email)
}

// Validate checks the constraints enforced at the storage boundary.
// Password must already hold the hash.
func (u *User) Validate() []apperror.FieldError {
	errs := u.ValidateProfile()
	if u.Password == "" {
		errs = append(errs, apperror.FieldError{Field: "password", Message: validation.MsgPasswordRequired})
	}
	return errs
}

// ValidateProfile checks name and email only.
func (u *User) ValidateProfile() []apperror.FieldError {
	var errs []apperror.FieldError

	switch {
	case strings.TrimSpace(u.Name) == "":
		errs = append(errs, apperror.FieldError{Field: "name", Message: validation.MsgNameRequired})
	case utf8.RuneCountInString(u.Name) < 3:
		errs = append(errs, apperror.FieldError{Field: "name", Message: validation.MsgNameMin})
	}

	switch {
	case u.Email == "":
		errs = append(errs, apperror.FieldError{Field: "email", Message: validation.MsgEmailRequired})
	case !emailPattern.MatchString(u.Email):
		errs = append(errs, apperror.FieldError{Field: "email", Message: validation.MsgEmailInvalid})
	}

	return errs
}

// ValidatePassword checks a plaintext password before it is hashed on create.
func ValidatePassword(password string) []apperror.FieldError {
	switch {
	case password == "":
		return []apperror.FieldError{{Field: "password", Message: validation.MsgPasswordRequired}}
	case utf8.RuneCountInString(password) < 6:
		return []apperror.FieldError{{Field: "password", Message: validation.MsgPasswordMin}}
	case len(password) > validation.PasswordMaxBytes:
		return []apperror.FieldError{{Field: "password", Message: validation.MsgPasswordMax}}
	}
	return nil
}
