package orders

import (
	"errors"
	"strings"
	"time"

	"restaurant-api/cart"
	"restaurant-api/models"
)

// Order dates are rendered once at build time for display; nothing sorts on them.
const (
	DisplayLayout = "2006/01/02 15:04:05"
	dateLayout    = "2006/01/02"
)

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrMissingCustomer = errors.New("customer name, phone and address are required")
)

// Customer holds the contact fields collected at checkout.
type Customer struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone" binding:"required"`
	Address string `json:"address" binding:"required"`
}

func (c Customer) Complete() bool {
	return strings.TrimSpace(c.Name) != "" &&
		strings.TrimSpace(c.Phone) != "" &&
		strings.TrimSpace(c.Address) != ""
}

// Build turns a cart snapshot into a pending order that has not been stored
// yet. Items are copied; the result shares nothing with the input slice.
func Build(items []models.CartItem, c Customer, now time.Time) models.Order {
	lines := make([]models.OrderItem, 0, len(items))
	for _, it := range items {
		lines = append(lines, models.OrderItem{
			ID:       it.ID,
			Name:     it.Name,
			Quantity: it.Quantity,
			Price:    it.Price,
			Image:    it.Image,
			Category: it.Category,
		})
	}
	return models.Order{
		CustomerName:    c.Name,
		CustomerPhone:   c.Phone,
		CustomerAddress: c.Address,
		Items:           lines,
		TotalPrice:      cart.Total(items),
		Total:           cart.TotalMoney(items),
		Status:          models.StatusPending,
		OrderDate:       now.Format(DisplayLayout),
	}
}
