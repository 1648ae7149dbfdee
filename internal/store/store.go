package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"trading-journal-go/internal/journal"
	"trading-journal-go/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore implements journal.Store on a gorm database opened with
// TranslateError enabled.
type GormStore struct {
	db *gorm.DB
}

// ensure GormStore implements the interface
var _ journal.Store = (*GormStore)(nil)

// New creates a new GormStore.
func New(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// translate maps gorm sentinels onto the journal error classes.
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %s", journal.ErrNotFound, what)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %s already exists", journal.ErrConflict, what)
	default:
		return fmt.Errorf("%s: %w", what, err)
	}
}

// --- users ---

func (s *GormStore) CreateUser(ctx context.Context, u *models.User) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(u).Error; err != nil {
			return err
		}
		fallback := models.Category{UserID: u.ID, Name: models.FallbackCategoryName}
		if err := tx.Create(&fallback).Error; err != nil {
			return err
		}
		u.DefaultCategoryID = &fallback.ID
		return tx.Model(u).Update("default_category_id", fallback.ID).Error
	})
	return translate(err, "user")
}

func (s *GormStore) UserByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, translate(err, "user")
	}
	return &u, nil
}

func (s *GormStore) UserByToken(ctx context.Context, token string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("api_token = ?", token).First(&u).Error; err != nil {
		return nil, translate(err, "user")
	}
	return &u, nil
}

func (s *GormStore) UpdateUser(ctx context.Context, u *models.User) error {
	return translate(s.db.WithContext(ctx).Save(u).Error, "user")
}

// --- categories ---

func (s *GormStore) CategoryByID(ctx context.Context, id uint) (*models.Category, error) {
	var c models.Category
	if err := s.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, translate(err, "category")
	}
	return &c, nil
}

func (s *GormStore) CategoryByName(ctx context.Context, userID uint, name string) (*models.Category, error) {
	var c models.Category
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND name = ?", userID, name).
		First(&c).Error
	if err != nil {
		return nil, translate(err, "category")
	}
	return &c, nil
}

func (s *GormStore) ListCategories(ctx context.Context, userID uint) ([]models.Category, error) {
	var categories []models.Category
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id asc").
		Find(&categories).Error
	return categories, translate(err, "categories")
}

func (s *GormStore) CreateCategory(ctx context.Context, c *models.Category) error {
	return translate(s.db.WithContext(ctx).Create(c).Error, "category")
}

func (s *GormStore) UpdateCategory(ctx context.Context, c *models.Category) error {
	return translate(s.db.WithContext(ctx).Save(c).Error, "category")
}

func (s *GormStore) DeleteCategory(ctx context.Context, c *models.Category, fallbackID uint) (int64, error) {
	var moved int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Trade{}).
			Where("category_id = ?", c.ID).
			Update("category_id", fallbackID)
		if res.Error != nil {
			return res.Error
		}
		moved = res.RowsAffected
		// Hard delete so the (user, name) pair can be reused.
		return tx.Unscoped().Delete(c).Error
	})
	return moved, translate(err, "category")
}

// --- trades ---

func (s *GormStore) CreateTrade(ctx context.Context, t *models.Trade) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Create(t).Error, "trade")
}

func (s *GormStore) UpdateTrade(ctx context.Context, t *models.Trade) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Save(t).Error, "trade")
}

func (s *GormStore) TradeByID(ctx context.Context, id string) (*models.Trade, error) {
	var t models.Trade
	err := s.db.WithContext(ctx).
		Preload("Category").
		Where("id = ?", id).
		First(&t).Error
	if err != nil {
		return nil, translate(err, "trade")
	}
	return &t, nil
}

func (s *GormStore) DeleteTrade(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Trade{})
	if res.Error != nil {
		return translate(res.Error, "trade")
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: trade", journal.ErrNotFound)
	}
	return nil
}

func (s *GormStore) ListTrades(ctx context.Context, userID uint, f journal.TradeFilter) ([]models.Trade, error) {
	q := s.db.WithContext(ctx).
		Preload("Category").
		Where("user_id = ?", userID)

	if !f.From.IsZero() {
		q = q.Where("date >= ?", f.From.UTC())
	}
	if !f.To.IsZero() {
		q = q.Where("date <= ?", f.To.UTC())
	}
	if f.Symbol != "" {
		q = q.Where("symbol = ?", strings.ToUpper(strings.TrimSpace(f.Symbol)))
	}
	if f.Side != "" {
		q = q.Where("side = ?", f.Side)
	}
	if f.CategoryID != 0 {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	if f.ExcludeDemo {
		q = q.Where("is_demo = ?", false)
	}

	// ULIDs sort by creation time, so id order is insertion order.
	trades := make([]models.Trade, 0)
	if err := q.Order("id asc").Find(&trades).Error; err != nil {
		return nil, translate(err, "trades")
	}
	return trades, nil
}

func (s *GormStore) DeleteDemoTrades(ctx context.Context, userID uint) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND is_demo = ?", userID, true).
		Delete(&models.Trade{})
	return res.RowsAffected, translate(res.Error, "demo trades")
}
