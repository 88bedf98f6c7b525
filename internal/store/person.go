// Package store implements the people record store: an insertion-ordered,
// JSON-file-backed collection of person records with CRUD and pagination.
package store

import (
	"errors"
	"fmt"
	"strings"
)

// Field limits, mirrored by the API layer.
const (
	maxNameLen  = 50
	maxEmailLen = 100
	maxAge      = 150
)

var (
	// ErrNotFound is returned when no person has the requested id.
	ErrNotFound = errors.New("person not found")
	// ErrDuplicateEmail is returned when a create or update would reuse an
	// email already held by another person.
	ErrDuplicateEmail = errors.New("email already in use")
	// ErrInvalid wraps every field validation failure.
	ErrInvalid = errors.New("invalid person data")
)

// Person is one record in the store. Age and Email are optional.
type Person struct {
	ID        int     `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Age       *int    `json:"age,omitempty"`
	Email     *string `json:"email,omitempty"`
}

// Draft carries the fields for a new person, before an id is assigned.
type Draft struct {
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Age       *int    `json:"age,omitempty"`
	Email     *string `json:"email,omitempty"`
}

// Update carries a partial update. Nil fields are left untouched.
type Update struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Age       *int    `json:"age,omitempty"`
	Email     *string `json:"email,omitempty"`
}

// IsZero reports whether the update changes nothing.
func (u Update) IsZero() bool {
	return u.FirstName == nil && u.LastName == nil && u.Age == nil && u.Email == nil
}

func (d Draft) validate() error {
	if err := validateName("first_name", d.FirstName); err != nil {
		return err
	}
	if err := validateName("last_name", d.LastName); err != nil {
		return err
	}
	if d.Age != nil {
		if err := validateAge(*d.Age); err != nil {
			return err
		}
	}
	if d.Email != nil {
		if err := validateEmail(*d.Email); err != nil {
			return err
		}
	}
	return nil
}

func validateName(field, v string) error {
	if v == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalid, field)
	}
	if len(v) > maxNameLen {
		return fmt.Errorf("%w: %s exceeds %d characters", ErrInvalid, field, maxNameLen)
	}
	return nil
}

func validateAge(age int) error {
	if age < 0 || age > maxAge {
		return fmt.Errorf("%w: age must be between 0 and %d", ErrInvalid, maxAge)
	}
	return nil
}

func validateEmail(email string) error {
	if len(email) > maxEmailLen {
		return fmt.Errorf("%w: email exceeds %d characters", ErrInvalid, maxEmailLen)
	}
	if !strings.Contains(email, "@") {
		return fmt.Errorf("%w: invalid email format: %q", ErrInvalid, email)
	}
	return nil
}
