package cart

import (
	"context"
	"fmt"

	"restaurant-api/models"
	"restaurant-api/storage"
)

// Store is the shopping cart for one session. Every mutation writes the full
// item list back to the backend before returning.
type Store struct {
	backend storage.Backend
	key     string
	items   []models.CartItem
}

// New returns an empty cart bound to key without reading the backend.
func New(backend storage.Backend, key string) *Store {
	if key == "" {
		key = storage.KeyCart
	}
	return &Store{backend: backend, key: key}
}

// Open rehydrates the cart stored under key. A missing key gives an empty cart;
// unreadable data is reported and no store is returned.
func Open(ctx context.Context, backend storage.Backend, key string) (*Store, error) {
	s := New(backend, key)
	res := storage.LoadJSON[[]models.CartItem](ctx, backend, s.key)
	if res.State == storage.StateCorrupt {
		return nil, fmt.Errorf("open cart: %w", res.Err)
	}
	s.items = sanitize(res.Value)
	return s, nil
}

// SessionKey scopes the cart key-space to one visitor.
func SessionKey(sessionID string) string {
	if sessionID == "" {
		return storage.KeyCart
	}
	return storage.KeyCart + ":" + sessionID
}

func (s *Store) Key() string {
	return s.key
}

// Add puts one more unit of item in the cart.
func (s *Store) Add(ctx context.Context, item models.CartItem) error {
	if i := s.index(item.ID); i >= 0 {
		s.items[i].Quantity++
		return s.persist(ctx)
	}
	item.Quantity = 1
	s.items = append(s.items, item)
	return s.persist(ctx)
}

// UpdateQuantity sets an absolute quantity; zero or less removes the line.
func (s *Store) UpdateQuantity(ctx context.Context, id int64, quantity int) error {
	if quantity <= 0 {
		return s.Remove(ctx, id)
	}
	i := s.index(id)
	if i < 0 {
		return nil
	}
	s.items[i].Quantity = quantity
	return s.persist(ctx)
}

func (s *Store) Remove(ctx context.Context, id int64) error {
	i := s.index(id)
	if i < 0 {
		return nil
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return s.persist(ctx)
}

func (s *Store) Clear(ctx context.Context) error {
	s.items = nil
	return s.persist(ctx)
}

// Items returns a copy of the cart lines in insertion order.
func (s *Store) Items() []models.CartItem {
	out := make([]models.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) Len() int {
	return len(s.items)
}

func (s *Store) TotalItems() int {
	n := 0
	for _, it := range s.items {
		n += it.Quantity
	}
	return n
}

// TotalPrice sums quantity times the digits-only price of each line.
func (s *Store) TotalPrice() int64 {
	return Total(s.items)
}

func (s *Store) ItemQuantity(id int64) int {
	if i := s.index(id); i >= 0 {
		return s.items[i].Quantity
	}
	return 0
}

// Total applies the cart pricing rule to any list of lines.
func Total(items []models.CartItem) int64 {
	var total int64
	for _, it := range items {
		total += models.ParsePrice(it.Price) * int64(it.Quantity)
	}
	return total
}

// TotalMoney is the structured counterpart of Total. Prices with decimals
// keep their fraction here.
func TotalMoney(items []models.CartItem) models.Money {
	total := models.Money{Currency: models.DefaultCurrency}
	for _, it := range items {
		total = total.Add(models.PriceMoney(it.Price).Times(it.Quantity))
	}
	return total
}

func (s *Store) index(id int64) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) persist(ctx context.Context) error {
	items := s.items
	if items == nil {
		items = []models.CartItem{}
	}
	if err := storage.SaveJSON(ctx, s.backend, s.key, items); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

// sanitize enforces the cart invariants on rehydrated data: one line per id
// (first occurrence wins) and no line with a non-positive quantity.
func sanitize(items []models.CartItem) []models.CartItem {
	if len(items) == 0 {
		return nil
	}
	seen := make(map[int64]bool, len(items))
	out := items[:0]
	for _, it := range items {
		if it.Quantity <= 0 || seen[it.ID] {
			continue
		}
		seen[it.ID] = true
		out = append(out, it)
	}
	return out
}
