// services/errors.go - Error taxonomy shared by all services
package services

import (
	"errors"
	"fmt"

	"teamhub/models"

	"gorm.io/gorm"
)

var (
	// ErrNotFound means a requested id did not resolve.
	ErrNotFound = errors.New("not found")
	// ErrInvalidRating means a review rating fell outside [1,5].
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
	// ErrValidation means a field constraint was violated.
	ErrValidation = errors.New("validation failed")
	// ErrForbidden means the initiator may not perform the operation.
	ErrForbidden = errors.New("forbidden")
	// ErrInconsistentAssociation means the two sides of an association do not
	// agree, e.g. removing a review one side does not hold.
	ErrInconsistentAssociation = errors.New("inconsistent association")
	// ErrDuplicateEmail means another user already registered the email.
	ErrDuplicateEmail = errors.New("email already registered")
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// lookupError converts gorm.ErrRecordNotFound into ErrNotFound for the named
// entity and passes every other error through.
func lookupError(entity string, id uint, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %d: %w", entity, id, ErrNotFound)
	}
	return fmt.Errorf("load %s %d: %w", entity, id, err)
}

func validationError(err error) error {
	return fmt.Errorf("%w: %v", ErrValidation, err)
}

func validateModel(v interface{}) error {
	if err := models.Validate(v); err != nil {
		return validationError(err)
	}
	return nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}
