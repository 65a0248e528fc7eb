package entity

import (
	"fmt"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
)

// User is the aggregate root for the identity domain.
// Login is the immutable key; every other field is replaced wholesale on update.
type User struct {
	Login     string    `json:"login" validate:"required,login"`
	Email     string    `json:"email" validate:"omitempty,email"`
	FirstName string    `json:"first_name" validate:"max=100"`
	LastName  string    `json:"last_name" validate:"max=100"`
	Gravatar  string    `json:"gravatar" validate:"max=255"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

var loginPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,50}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("login", ValidLogin)
	return v
}

// ValidLogin is the validator.Func behind the "login" tag.
func ValidLogin(fl validator.FieldLevel) bool {
	return IsValidLogin(fl.Field().String())
}

// IsValidLogin reports whether s can be used as a login (and as a storage key).
func IsValidLogin(s string) bool {
	return loginPattern.MatchString(s)
}

// Validate checks field constraints. Failures wrap ErrInvalidUser and the
// underlying validator.ValidationErrors.
func (u *User) Validate() error {
	if u == nil {
		return fmt.Errorf("%w: nil user", ErrInvalidUser)
	}
	if err := validate.Struct(u); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidUser, err)
	}
	return nil
}

// SameIdentity compares the user-supplied fields, ignoring timestamps.
func (u *User) SameIdentity(o *User) bool {
	if u == nil || o == nil {
		return u == o
	}
	return u.Login == o.Login &&
		u.Email == o.Email &&
		u.FirstName == o.FirstName &&
		u.LastName == o.LastName &&
		u.Gravatar == o.Gravatar
}
