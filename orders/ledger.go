package orders

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"restaurant-api/models"
	"restaurant-api/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Stats is the dashboard summary over every stored order.
type Stats struct {
	TotalOrders     int   `json:"totalOrders"`
	PendingOrders   int   `json:"pendingOrders"`
	CompletedOrders int   `json:"completedOrders"`
	TotalRevenue    int64 `json:"totalRevenue"`
	TodayOrders     int   `json:"todayOrders"`
}

// Ledger owns every order. The whole collection is loaded on each call and
// kept most-recent-first.
type Ledger struct {
	mu      sync.Mutex
	backend storage.Backend
	key     string
	now     func() time.Time
	newID   func(time.Time) string
	logger  *zap.Logger
}

type Option func(*Ledger)

func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

func WithIDGenerator(gen func(time.Time) string) Option {
	return func(l *Ledger) { l.newID = gen }
}

func WithLogger(logger *zap.Logger) Option {
	return func(l *Ledger) { l.logger = logger }
}

func NewLedger(backend storage.Backend, opts ...Option) *Ledger {
	l := &Ledger{
		backend: backend,
		key:     storage.KeyOrders,
		now:     time.Now,
		newID:   NewOrderID,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// NewOrderID joins the creation time in milliseconds with nine random
// characters. Unique enough for one restaurant, not for anything else.
func NewOrderID(t time.Time) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("order_%d_%s", t.UnixMilli(), random)
}

// Load returns the stored collection together with what the read found.
func (l *Ledger) Load(ctx context.Context) storage.Result[[]models.Order] {
	return storage.LoadJSON[[]models.Order](ctx, l.backend, l.key)
}

// All returns every order, newest first. Unreadable storage is logged and
// reads as no orders.
func (l *Ledger) All(ctx context.Context) []models.Order {
	res := l.Load(ctx)
	if res.State == storage.StateCorrupt {
		l.logger.Warn("order ledger unreadable, treating as empty", zap.Error(res.Err))
	}
	if res.Value == nil {
		return []models.Order{}
	}
	return res.OrZero()
}

func (l *Ledger) ByID(ctx context.Context, id string) *models.Order {
	for _, o := range l.All(ctx) {
		if o.ID == id {
			o := o
			return &o
		}
	}
	return nil
}

// Add stores a built order with a fresh id and timestamps and returns it.
func (l *Ledger) Add(ctx context.Context, draft models.Order) (models.Order, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	current, err := l.loadForWrite(ctx)
	if err != nil {
		return models.Order{}, err
	}

	now := l.stamp()
	order := draft
	order.ID = l.newID(now)
	order.CreatedAt = now
	order.UpdatedAt = now
	if order.Status == "" {
		order.Status = models.StatusPending
	}
	order.Items = append([]models.OrderItem(nil), draft.Items...)

	updated := make([]models.Order, 0, len(current)+1)
	updated = append(updated, order)
	updated = append(updated, current...)
	if err := l.save(ctx, updated); err != nil {
		return models.Order{}, err
	}
	return order, nil
}

// UpdateStatus sets any status on the order; no transition is refused.
// Empty notes keep the previous notes. A missing id returns nil and no error.
func (l *Ledger) UpdateStatus(ctx context.Context, id string, status models.OrderStatus, notes string) (*models.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("update order %s: %w: %q", id, models.ErrInvalidStatus, status)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	current, err := l.loadForWrite(ctx)
	if err != nil {
		return nil, err
	}
	for i := range current {
		if current[i].ID != id {
			continue
		}
		current[i].Status = status
		if notes != "" {
			current[i].Notes = notes
		}
		current[i].UpdatedAt = l.stamp()
		if err := l.save(ctx, current); err != nil {
			return nil, err
		}
		o := current[i]
		return &o, nil
	}
	return nil, nil
}

// Delete reports whether an order was actually removed.
func (l *Ledger) Delete(ctx context.Context, id string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	current, err := l.loadForWrite(ctx)
	if err != nil {
		return false, err
	}
	kept := make([]models.Order, 0, len(current))
	for _, o := range current {
		if o.ID != id {
			kept = append(kept, o)
		}
	}
	if len(kept) == len(current) {
		return false, nil
	}
	if err := l.save(ctx, kept); err != nil {
		return false, err
	}
	return true, nil
}

// Stats aggregates in one pass. Revenue counts delivered orders only.
func (l *Ledger) Stats(ctx context.Context) Stats {
	now := l.now()
	today := now.Format(dateLayout)

	var st Stats
	for _, o := range l.All(ctx) {
		st.TotalOrders++
		if orderDay(o, now.Location()) == today {
			st.TodayOrders++
		}
		if o.Status.InProgress() {
			st.PendingOrders++
		}
		if o.Status == models.StatusDelivered {
			st.CompletedOrders++
			st.TotalRevenue += o.TotalPrice
		}
	}
	return st
}

func (l *Ledger) ByStatus(ctx context.Context, status models.OrderStatus) []models.Order {
	out := []models.Order{}
	for _, o := range l.All(ctx) {
		if o.Status == status {
			out = append(out, o)
		}
	}
	return out
}

// Search matches name, address and item names case-insensitively, and the
// phone either as typed or by its digits alone.
func (l *Ledger) Search(ctx context.Context, query string) []models.Order {
	lower := strings.ToLower(query)
	qDigits := digits(query)

	out := []models.Order{}
	for _, o := range l.All(ctx) {
		if matches(o, query, lower, qDigits) {
			out = append(out, o)
		}
	}
	return out
}

func matches(o models.Order, query, lower, qDigits string) bool {
	if strings.Contains(strings.ToLower(o.CustomerName), lower) ||
		strings.Contains(strings.ToLower(o.CustomerAddress), lower) ||
		strings.Contains(o.CustomerPhone, query) {
		return true
	}
	if qDigits != "" && strings.Contains(digits(o.CustomerPhone), qDigits) {
		return true
	}
	for _, it := range o.Items {
		if strings.Contains(strings.ToLower(it.Name), lower) {
			return true
		}
	}
	return false
}

// loadForWrite refuses to build on top of an unreadable collection so a
// write never silently replaces data it could not parse.
func (l *Ledger) loadForWrite(ctx context.Context) ([]models.Order, error) {
	res := l.Load(ctx)
	if res.State == storage.StateCorrupt {
		return nil, fmt.Errorf("order ledger: %w", res.Err)
	}
	return res.Value, nil
}

func (l *Ledger) save(ctx context.Context, all []models.Order) error {
	if err := storage.SaveJSON(ctx, l.backend, l.key, all); err != nil {
		return fmt.Errorf("order ledger: %w", err)
	}
	return nil
}

// stamp is the clock reading as it will read back from storage.
func (l *Ledger) stamp() time.Time {
	return l.now().Round(0).UTC()
}

func orderDay(o models.Order, loc *time.Location) string {
	if t, err := time.ParseInLocation(DisplayLayout, o.OrderDate, loc); err == nil {
		return t.Format(dateLayout)
	}
	return o.CreatedAt.In(loc).Format(dateLayout)
}

func digits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}
