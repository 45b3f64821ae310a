package services

import (
	"context"
	"errors"
	"fmt"

	"vegoodies/models"

	"gorm.io/gorm"
)

type RecipeStore interface {
	Insert(ctx context.Context, r *models.Recipe) error
	GetAll(ctx context.Context) ([]models.Recipe, error)
	GetByID(ctx context.Context, id uint) (*models.Recipe, error)
}

// GormRecipeStore persists recipes in the recipes table. The db must be
// opened with TranslateError so unique violations map to gorm.ErrDuplicatedKey.
type GormRecipeStore struct {
	db *gorm.DB
}

func NewGormRecipeStore(db *gorm.DB) *GormRecipeStore {
	return &GormRecipeStore{db: db}
}

func (s *GormRecipeStore) Insert(ctx context.Context, r *models.Recipe) error {
	err := s.db.WithContext(ctx).Create(r).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("insert %q: %w", r.Name, ErrDuplicateRecipe)
	}
	if err != nil {
		return fmt.Errorf("insert %q: %w", r.Name, err)
	}
	return nil
}

// GetAll returns every row in store order.
func (s *GormRecipeStore) GetAll(ctx context.Context) ([]models.Recipe, error) {
	var recipes []models.Recipe
	if err := s.db.WithContext(ctx).Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	return recipes, nil
}

func (s *GormRecipeStore) GetByID(ctx context.Context, id uint) (*models.Recipe, error) {
	var r models.Recipe
	err := s.db.WithContext(ctx).First(&r, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecipeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get recipe %d: %w", id, err)
	}
	return &r, nil
}
