package models

import (
	"errors"
	"fmt"
	"time"
)

// OrderStatus represents all possible states of a restaurant order
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

// AllStatuses lists the enumeration in dashboard order.
var AllStatuses = []OrderStatus{
	StatusPending,
	StatusConfirmed,
	StatusPreparing,
	StatusReady,
	StatusDelivered,
	StatusCancelled,
}

var statusLabels = map[OrderStatus]string{
	StatusPending:   "في الانتظار",
	StatusConfirmed: "مؤكد",
	StatusPreparing: "قيد التحضير",
	StatusReady:     "جاهز للاستلام",
	StatusDelivered: "تم التسليم",
	StatusCancelled: "ملغي",
}

var ErrInvalidStatus = errors.New("unknown order status")

func (s OrderStatus) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label is the Arabic text shown on the admin dashboard.
func (s OrderStatus) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// InProgress reports whether the order still counts as pending work.
func (s OrderStatus) InProgress() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusReady:
		return true
	}
	return false
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	st := OrderStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return st, nil
}

// CartItem is a catalog item selected for purchase.
type CartItem struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Image    string `json:"image"`
	Category string `json:"category"`
	Quantity int    `json:"quantity"`
}

// OrderItem is a snapshot of a cart line at checkout time
type OrderItem struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
	Image    string `json:"image"`
	Category string `json:"category"`
}

type Order struct {
	ID              string      `json:"id"`
	CustomerName    string      `json:"customerName"`
	CustomerPhone   string      `json:"customerPhone"`
	CustomerAddress string      `json:"customerAddress"`
	Items           []OrderItem `json:"items"`
	TotalPrice      int64       `json:"totalPrice"`
	Total           Money       `json:"total"`
	Status          OrderStatus `json:"status"`
	OrderDate       string      `json:"orderDate"` // display only
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
	Notes           string      `json:"notes,omitempty"`
}
