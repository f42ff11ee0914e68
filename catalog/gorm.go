package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"restaurant-api/models"

	"gorm.io/gorm"
)

// GormRepository is the remote catalog: menu_items and categories tables.
type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) (*GormRepository, error) {
	if err := db.AutoMigrate(&models.Category{}, &models.MenuItem{}); err != nil {
		return nil, fmt.Errorf("failed to migrate catalog: %w", err)
	}
	return &GormRepository{db: db}, nil
}

func (r *GormRepository) MenuItems(ctx context.Context) ([]models.MenuItem, error) {
	var items []models.MenuItem
	if err := r.db.WithContext(ctx).Order("created_at desc").Order("id desc").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	return items, nil
}

func (r *GormRepository) CreateMenuItem(ctx context.Context, item models.MenuItem) (models.MenuItem, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.MenuItem{}).
		Where("LOWER(name) = ?", strings.ToLower(item.Name)).Count(&count).Error
	if err != nil {
		return models.MenuItem{}, fmt.Errorf("create menu item: %w", err)
	}
	if count > 0 {
		return models.MenuItem{}, ErrDuplicateName
	}

	item.ID = 0
	if err := r.db.WithContext(ctx).Create(&item).Error; err != nil {
		return models.MenuItem{}, fmt.Errorf("create menu item: %w", err)
	}
	return item, nil
}

func (r *GormRepository) UpdateMenuItem(ctx context.Context, id int64, upd MenuItemUpdate) (models.MenuItem, error) {
	var item models.MenuItem
	if err := r.first(ctx, &item, id); err != nil {
		return models.MenuItem{}, err
	}
	if err := r.db.WithContext(ctx).Model(&item).Updates(upd.columns(time.Now())).Error; err != nil {
		return models.MenuItem{}, fmt.Errorf("update menu item %d: %w", id, err)
	}
	if err := r.first(ctx, &item, id); err != nil {
		return models.MenuItem{}, err
	}
	return item, nil
}

func (r *GormRepository) DeleteMenuItem(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&models.MenuItem{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete menu item %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepository) Categories(ctx context.Context) ([]models.Category, error) {
	var cats []models.Category
	if err := r.db.WithContext(ctx).Order("created_at desc").Order("id desc").Find(&cats).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

func (r *GormRepository) CreateCategory(ctx context.Context, c models.Category) (models.Category, error) {
	c.ID = 0
	if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
		return models.Category{}, fmt.Errorf("create category: %w", err)
	}
	return c, nil
}

func (r *GormRepository) UpdateCategory(ctx context.Context, id int64, upd CategoryUpdate) (models.Category, error) {
	var c models.Category
	if err := r.first(ctx, &c, id); err != nil {
		return models.Category{}, err
	}
	if err := r.db.WithContext(ctx).Model(&c).Updates(upd.columns(time.Now())).Error; err != nil {
		return models.Category{}, fmt.Errorf("update category %d: %w", id, err)
	}
	if err := r.first(ctx, &c, id); err != nil {
		return models.Category{}, err
	}
	return c, nil
}

func (r *GormRepository) DeleteCategory(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&models.Category{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete category %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepository) first(ctx context.Context, dest interface{}, id int64) error {
	err := r.db.WithContext(ctx).First(dest, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("load %d: %w", id, err)
	}
	return nil
}
