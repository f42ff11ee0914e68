package catalog

import (
	"context"
	"strings"

	"restaurant-api/models"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// MenuFilter narrows the public menu. Empty values match everything.
type MenuFilter struct {
	Category string `form:"category"`
	Popular  bool   `form:"popular"`
}

// Service sits in front of a Repository. Concurrent reads share one
// repository call, and the public readers fall back to the default menu
// when the repository fails.
type Service struct {
	repo   Repository
	group  singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger}
}

func (s *Service) MenuItems(ctx context.Context) ([]models.MenuItem, error) {
	v, err, _ := s.group.Do("menu", func() (interface{}, error) {
		return s.repo.MenuItems(ctx)
	})
	if err != nil {
		return nil, err
	}
	shared := v.([]models.MenuItem)
	return append([]models.MenuItem(nil), shared...), nil
}

func (s *Service) Categories(ctx context.Context) ([]models.Category, error) {
	v, err, _ := s.group.Do("categories", func() (interface{}, error) {
		return s.repo.Categories(ctx)
	})
	if err != nil {
		return nil, err
	}
	shared := v.([]models.Category)
	return append([]models.Category(nil), shared...), nil
}

func (s *Service) MenuOrDefault(ctx context.Context) []models.MenuItem {
	items, err := s.MenuItems(ctx)
	if err != nil {
		s.logger.Warn("menu unavailable, serving defaults", zap.Error(err))
		return DefaultMenuItems()
	}
	return items
}

func (s *Service) CategoriesOrDefault(ctx context.Context) []models.Category {
	cats, err := s.Categories(ctx)
	if err != nil {
		s.logger.Warn("categories unavailable, serving defaults", zap.Error(err))
		return DefaultCategories()
	}
	return cats
}

// Menu is the public listing.
func (s *Service) Menu(ctx context.Context, f MenuFilter) []models.MenuItem {
	items := s.MenuOrDefault(ctx)
	out := make([]models.MenuItem, 0, len(items))
	for _, it := range items {
		if f.Category != "" && it.Category != f.Category {
			continue
		}
		if f.Popular && !it.IsPopular {
			continue
		}
		out = append(out, it)
	}
	return out
}

// ItemByID looks the dish up in the current menu.
func (s *Service) ItemByID(ctx context.Context, id int64) (models.MenuItem, error) {
	for _, it := range s.MenuOrDefault(ctx) {
		if it.ID == id {
			return it, nil
		}
	}
	return models.MenuItem{}, ErrNotFound
}

// CreateMenuItem stores a new dish. A bare number price gets the currency
// label appended.
func (s *Service) CreateMenuItem(ctx context.Context, item models.MenuItem) (models.MenuItem, error) {
	item.Name = strings.TrimSpace(item.Name)
	item.Price = models.WithCurrency(item.Price)
	created, err := s.repo.CreateMenuItem(ctx, item)
	if err != nil {
		return models.MenuItem{}, err
	}
	s.group.Forget("menu")
	return created, nil
}

func (s *Service) UpdateMenuItem(ctx context.Context, id int64, upd MenuItemUpdate) (models.MenuItem, error) {
	if upd.Price != nil {
		p := models.WithCurrency(*upd.Price)
		upd.Price = &p
	}
	updated, err := s.repo.UpdateMenuItem(ctx, id, upd)
	if err != nil {
		return models.MenuItem{}, err
	}
	s.group.Forget("menu")
	return updated, nil
}

func (s *Service) DeleteMenuItem(ctx context.Context, id int64) error {
	if err := s.repo.DeleteMenuItem(ctx, id); err != nil {
		return err
	}
	s.group.Forget("menu")
	return nil
}

func (s *Service) CreateCategory(ctx context.Context, c models.Category) (models.Category, error) {
	c.Name = strings.TrimSpace(c.Name)
	created, err := s.repo.CreateCategory(ctx, c)
	if err != nil {
		return models.Category{}, err
	}
	s.group.Forget("categories")
	return created, nil
}

func (s *Service) UpdateCategory(ctx context.Context, id int64, upd CategoryUpdate) (models.Category, error) {
	updated, err := s.repo.UpdateCategory(ctx, id, upd)
	if err != nil {
		return models.Category{}, err
	}
	s.group.Forget("categories")
	return updated, nil
}

func (s *Service) DeleteCategory(ctx context.Context, id int64) error {
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return err
	}
	s.group.Forget("categories")
	return nil
}
