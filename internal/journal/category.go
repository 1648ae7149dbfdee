package journal

import (
	"context"
	"errors"
	"strings"

	"trading-journal-go/internal/models"
)

// CategoryRef names the category a trade submission asks for. At most one
// of the fields is consulted: CategoryID wins over CategoryName.
type CategoryRef struct {
	CategoryID   *uint  `json:"categoryId,omitempty"`
	CategoryName string `json:"categoryName,omitempty"`
}

// IsZero reports whether neither field is set.
func (r CategoryRef) IsZero() bool {
	return r.CategoryID == nil && strings.TrimSpace(r.CategoryName) == ""
}

// ResolveCategory picks the category id for a trade of user.
//
// An explicit id must belong to the user or the call fails with
// ErrCategoryNotOwned. An unknown name falls back like an empty reference:
// first the user's default category, then the fallback category. If neither
// exists the result is ErrNoValidCategory.
func ResolveCategory(ctx context.Context, lookup CategoryLookup, user *models.User, ref CategoryRef) (uint, error) {
	if ref.CategoryID != nil {
		c, err := lookup.CategoryByID(ctx, *ref.CategoryID)
		if errors.Is(err, ErrNotFound) {
			return 0, ErrCategoryNotOwned
		}
		if err != nil {
			return 0, err
		}
		if c.UserID != user.ID {
			return 0, ErrCategoryNotOwned
		}
		return c.ID, nil
	}

	if name := strings.TrimSpace(ref.CategoryName); name != "" {
		c, err := lookup.CategoryByName(ctx, user.ID, name)
		if err == nil {
			return c.ID, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return 0, err
		}
	}

	return resolveDefaultCategory(ctx, lookup, user)
}

func resolveDefaultCategory(ctx context.Context, lookup CategoryLookup, user *models.User) (uint, error) {
	if user.DefaultCategoryID != nil {
		c, err := lookup.CategoryByID(ctx, *user.DefaultCategoryID)
		switch {
		case err == nil && c.UserID == user.ID:
			return c.ID, nil
		case err != nil && !errors.Is(err, ErrNotFound):
			return 0, err
		}
	}

	c, err := lookup.CategoryByName(ctx, user.ID, models.FallbackCategoryName)
	if errors.Is(err, ErrNotFound) {
		return 0, ErrNoValidCategory
	}
	if err != nil {
		return 0, err
	}
	return c.ID, nil
}
