package orders

import (
	"context"
	"fmt"
	"time"

	"restaurant-api/cart"
	"restaurant-api/models"

	"go.uber.org/zap"
)

// Notifier delivers a stored order to the restaurant staff.
type Notifier interface {
	SendOrder(ctx context.Context, order models.Order) bool
}

// Receipt is what the customer gets back. Delivered is false when the staff
// notification failed; the order is stored either way.
type Receipt struct {
	Order     models.Order `json:"order"`
	Delivered bool         `json:"delivered"`
}

// Checkout runs the purchase flow: build, store, notify, empty the cart.
// Storage happens first and is never undone, so an order is stored at least
// once and announced at most once.
type Checkout struct {
	ledger   *Ledger
	notifier Notifier
	now      func() time.Time
	logger   *zap.Logger
}

func NewCheckout(ledger *Ledger, notifier Notifier, now func() time.Time, logger *zap.Logger) *Checkout {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Checkout{ledger: ledger, notifier: notifier, now: now, logger: logger}
}

// PlaceOrder stores the cart as an order and sends it to the messaging channel.
func (c *Checkout) PlaceOrder(ctx context.Context, store *cart.Store, customer Customer) (Receipt, error) {
	order, err := c.commit(ctx, store, customer)
	if err != nil {
		return Receipt{}, err
	}

	delivered := c.notifier.SendOrder(ctx, order)
	if !delivered {
		c.logger.Error("order stored but notification failed", zap.String("order_id", order.ID))
	}

	c.clear(ctx, store, order.ID)
	return Receipt{Order: order, Delivered: delivered}, nil
}

// SaveOrder stores the cart as an order without notifying anyone. The legacy
// WhatsApp flow uses it and hands the customer a composer link instead.
func (c *Checkout) SaveOrder(ctx context.Context, store *cart.Store, customer Customer) (models.Order, error) {
	order, err := c.commit(ctx, store, customer)
	if err != nil {
		return models.Order{}, err
	}
	c.clear(ctx, store, order.ID)
	return order, nil
}

func (c *Checkout) commit(ctx context.Context, store *cart.Store, customer Customer) (models.Order, error) {
	if store.Len() == 0 {
		return models.Order{}, ErrEmptyCart
	}
	if !customer.Complete() {
		return models.Order{}, ErrMissingCustomer
	}

	order, err := c.ledger.Add(ctx, Build(store.Items(), customer, c.now()))
	if err != nil {
		return models.Order{}, fmt.Errorf("place order: %w", err)
	}
	c.logger.Info("order placed",
		zap.String("order_id", order.ID),
		zap.Int("items", len(order.Items)),
		zap.Int64("total", order.TotalPrice))
	return order, nil
}

// clear empties the cart after the order is stored. A failure here leaves the
// order in place and is only logged.
func (c *Checkout) clear(ctx context.Context, store *cart.Store, orderID string) {
	if err := store.Clear(ctx); err != nil {
		c.logger.Warn("failed to clear cart after checkout",
			zap.String("order_id", orderID), zap.String("cart", store.Key()), zap.Error(err))
	}
}
