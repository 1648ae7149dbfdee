package journal

import (
	"errors"
	"fmt"
)

// Error classes. Callers match them with errors.Is; the REST adapter maps
// each class to one HTTP status.
var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("not authenticated")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrIntegrity    = errors.New("data integrity violation")
)

var (
	// ErrCategoryNotOwned is returned when an explicit category id does not
	// resolve to a category of the caller.
	ErrCategoryNotOwned = fmt.Errorf("%w: category not found or not owned", ErrForbidden)

	// ErrNoValidCategory means neither the user's default nor the fallback
	// category exists. Every user is created with a fallback category, so
	// this indicates corrupted setup.
	ErrNoValidCategory = fmt.Errorf("%w: no valid category", ErrIntegrity)
)
