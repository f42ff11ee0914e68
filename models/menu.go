package models

import "time"

type Category struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

func (Category) TableName() string {
	return "categories"
}

// MenuItem carries its category by name; there is no foreign key.
type MenuItem struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description"`
	Price       string    `json:"price" gorm:"not null"`
	Image       string    `json:"image"`
	Category    string    `json:"category" gorm:"index"`
	IsPopular   bool      `json:"isPopular" gorm:"default:false"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

func (MenuItem) TableName() string {
	return "menu_items"
}

// CartItem converts the menu entry into a fresh cart line with no quantity.
func (m MenuItem) CartItem() CartItem {
	return CartItem{
		ID:       m.ID,
		Name:     m.Name,
		Price:    m.Price,
		Image:    m.Image,
		Category: m.Category,
	}
}
