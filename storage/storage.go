package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Key-spaces shared by the stores.
const (
	KeyCart             = "cart"
	KeyOrders           = "orders"
	KeyMenuItems        = "menuItems"
	KeyCategories       = "categories"
	KeyAdminActions     = "adminActions"
	KeyTelegramSettings = "telegramSettings"
)

var (
	ErrNotFound = errors.New("key not found")
	ErrCorrupt  = errors.New("stored data is corrupt")
)

// Backend is a flat string key/value store holding JSON documents.
type Backend interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// State tells a caller what a load actually found.
type State int

const (
	StateOK State = iota
	StateEmpty
	StateCorrupt
)

func (s State) String() string {
	switch s {
	case StateOK:
		return "ok"
	case StateEmpty:
		return "empty"
	case StateCorrupt:
		return "corrupt"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Result separates "nothing stored yet" from "stored but unreadable".
type Result[T any] struct {
	Value T
	State State
	Err   error
}

// OrZero returns the value, or the zero value unless the load succeeded.
func (r Result[T]) OrZero() T {
	if r.State == StateOK {
		return r.Value
	}
	var zero T
	return zero
}

// LoadJSON reads key and decodes it into T.
func LoadJSON[T any](ctx context.Context, b Backend, key string) Result[T] {
	var res Result[T]

	raw, err := b.Get(ctx, key)
	if errors.Is(err, ErrNotFound) || (err == nil && raw == "") {
		res.State = StateEmpty
		return res
	}
	if err != nil {
		res.State = StateCorrupt
		res.Err = fmt.Errorf("read %q: %w", key, err)
		return res
	}

	if err := json.Unmarshal([]byte(raw), &res.Value); err != nil {
		res.State = StateCorrupt
		res.Err = fmt.Errorf("decode %q: %w: %v", key, ErrCorrupt, err)
		var zero T
		res.Value = zero
		return res
	}
	res.State = StateOK
	return res
}

// SaveJSON encodes v and writes it under key.
func SaveJSON(ctx context.Context, b Backend, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	if err := b.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("write %q: %w", key, err)
	}
	return nil
}
