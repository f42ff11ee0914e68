package catalog

import (
	"context"
	"errors"
	"time"

	"restaurant-api/models"
)

var (
	ErrNotFound      = errors.New("catalog entry not found")
	ErrDuplicateName = errors.New("a menu item with this name already exists")
)

// Repository is the menu data service. GormRepository talks to a database;
// LocalRepository keeps everything in the key/value backend.
type Repository interface {
	MenuItems(ctx context.Context) ([]models.MenuItem, error)
	CreateMenuItem(ctx context.Context, item models.MenuItem) (models.MenuItem, error)
	UpdateMenuItem(ctx context.Context, id int64, upd MenuItemUpdate) (models.MenuItem, error)
	DeleteMenuItem(ctx context.Context, id int64) error

	Categories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, c models.Category) (models.Category, error)
	UpdateCategory(ctx context.Context, id int64, upd CategoryUpdate) (models.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}

// MenuItemUpdate is a partial update; nil fields are left alone.
type MenuItemUpdate struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Price       *string `json:"price"`
	Image       *string `json:"image"`
	Category    *string `json:"category"`
	IsPopular   *bool   `json:"isPopular"`
}

func (u MenuItemUpdate) Apply(m *models.MenuItem) {
	if u.Name != nil {
		m.Name = *u.Name
	}
	if u.Description != nil {
		m.Description = *u.Description
	}
	if u.Price != nil {
		m.Price = *u.Price
	}
	if u.Image != nil {
		m.Image = *u.Image
	}
	if u.Category != nil {
		m.Category = *u.Category
	}
	if u.IsPopular != nil {
		m.IsPopular = *u.IsPopular
	}
}

func (u MenuItemUpdate) columns(now time.Time) map[string]interface{} {
	cols := map[string]interface{}{"updated_at": now}
	if u.Name != nil {
		cols["name"] = *u.Name
	}
	if u.Description != nil {
		cols["description"] = *u.Description
	}
	if u.Price != nil {
		cols["price"] = *u.Price
	}
	if u.Image != nil {
		cols["image"] = *u.Image
	}
	if u.Category != nil {
		cols["category"] = *u.Category
	}
	if u.IsPopular != nil {
		cols["is_popular"] = *u.IsPopular
	}
	return cols
}

type CategoryUpdate struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (u CategoryUpdate) Apply(c *models.Category) {
	if u.Name != nil {
		c.Name = *u.Name
	}
	if u.Description != nil {
		c.Description = *u.Description
	}
}

func (u CategoryUpdate) columns(now time.Time) map[string]interface{} {
	cols := map[string]interface{}{"updated_at": now}
	if u.Name != nil {
		cols["name"] = *u.Name
	}
	if u.Description != nil {
		cols["description"] = *u.Description
	}
	return cols
}

// DefaultMenuItems is the sample menu served before anything is configured.
func DefaultMenuItems() []models.MenuItem {
	return []models.MenuItem{
		{
			ID:          1,
			Name:        "مشاوي مشكلة",
			Description: "مجموعة متنوعة من اللحوم المشوية مع الخضار والأرز",
			Price:       "720 جنيه مصري",
			Image:       "/assets/grilled-meat.jpg",
			Category:    "الأطباق الرئيسية",
			IsPopular:   true,
		},
		{
			ID:          2,
			Name:        "طبق عربي مميز",
			Description: "حمص، فلافل، لحم مشوي، وخضار طازجة",
			Price:       "550 جنيه مصري",
			Image:       "/assets/arabic-food.jpg",
			Category:    "الأطباق العربية",
		},
		{
			ID:          3,
			Name:        "حلويات شرقية",
			Description: "بقلاوة ومعمول وحلويات شرقية متنوعة",
			Price:       "300 جنيه مصري",
			Image:       "/assets/desserts.jpg",
			Category:    "الحلويات",
			IsPopular:   true,
		},
	}
}

func DefaultCategories() []models.Category {
	return []models.Category{
		{ID: 1, Name: "الأطباق الرئيسية", Description: "الأطباق الرئيسية واللحوم"},
		{ID: 2, Name: "الأطباق العربية", Description: "الأطباق العربية التقليدية"},
		{ID: 3, Name: "الحلويات", Description: "الحلويات الشرقية والغربية"},
	}
}
