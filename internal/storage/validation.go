// Package storage provides the data persistence layer for the finance book.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/financebook/financebook/internal/model"
)

// Validation errors.
var (
	ErrNilContext      = errors.New("context cannot be nil")
	ErrEmptyString     = errors.New("string parameter cannot be empty")
	ErrNilParameter    = errors.New("parameter cannot be nil")
	ErrInvalidUser     = errors.New("invalid user")
	ErrInvalidRecord   = errors.New("invalid record")
	ErrInvalidCategory = errors.New("invalid category")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateUser validates a user before persistence.
func validateUser(user *model.User) error {
	if user == nil {
		return fmt.Errorf("%w: user", ErrNilParameter)
	}
	if strings.TrimSpace(user.Username) == "" {
		return fmt.Errorf("%w: missing username", ErrInvalidUser)
	}
	if strings.TrimSpace(user.Email) == "" {
		return fmt.Errorf("%w: missing email", ErrInvalidUser)
	}
	if user.PasswordHash == "" {
		return fmt.Errorf("%w: missing password hash", ErrInvalidUser)
	}
	return nil
}

// validateCategory validates a category before persistence.
func validateCategory(category *model.Category) error {
	if category == nil {
		return fmt.Errorf("%w: category", ErrNilParameter)
	}
	if strings.TrimSpace(category.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidCategory)
	}
	return nil
}

// validateRecord validates a record before persistence. The record type is
// checked again by the storage CHECK constraint; validating here keeps bad
// values from ever reaching a statement.
func validateRecord(record *model.Record) error {
	if record == nil {
		return fmt.Errorf("%w: record", ErrNilParameter)
	}
	if !record.Type.Valid() {
		return fmt.Errorf("%w: record_type must be income or expense", ErrInvalidRecord)
	}
	if record.Amount < 0 {
		return fmt.Errorf("%w: amount cannot be negative", ErrInvalidRecord)
	}
	if record.UserID <= 0 {
		return fmt.Errorf("%w: missing user id", ErrInvalidRecord)
	}
	if record.CategoryID <= 0 {
		return fmt.Errorf("%w: missing category id", ErrInvalidRecord)
	}
	return nil
}
