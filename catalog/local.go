package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"restaurant-api/models"
	"restaurant-api/storage"
)

// LocalRepository keeps the catalog in the key/value backend. The first read
// of an empty key seeds the default menu.
type LocalRepository struct {
	mu      sync.Mutex
	backend storage.Backend
	now     func() time.Time
}

func NewLocalRepository(backend storage.Backend) *LocalRepository {
	return &LocalRepository{backend: backend, now: time.Now}
}

func (r *LocalRepository) MenuItems(ctx context.Context) ([]models.MenuItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.menu(ctx)
}

func (r *LocalRepository) CreateMenuItem(ctx context.Context, item models.MenuItem) (models.MenuItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.menu(ctx)
	if err != nil {
		return models.MenuItem{}, err
	}
	for _, existing := range items {
		if strings.EqualFold(existing.Name, item.Name) {
			return models.MenuItem{}, ErrDuplicateName
		}
	}

	now := r.now()
	item.ID = nextID(now, menuIDs(items))
	item.CreatedAt = now
	item.UpdatedAt = now
	items = append([]models.MenuItem{item}, items...)
	if err := storage.SaveJSON(ctx, r.backend, storage.KeyMenuItems, items); err != nil {
		return models.MenuItem{}, err
	}
	return item, nil
}

func (r *LocalRepository) UpdateMenuItem(ctx context.Context, id int64, upd MenuItemUpdate) (models.MenuItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.menu(ctx)
	if err != nil {
		return models.MenuItem{}, err
	}
	for i := range items {
		if items[i].ID != id {
			continue
		}
		upd.Apply(&items[i])
		items[i].UpdatedAt = r.now()
		if err := storage.SaveJSON(ctx, r.backend, storage.KeyMenuItems, items); err != nil {
			return models.MenuItem{}, err
		}
		return items[i], nil
	}
	return models.MenuItem{}, ErrNotFound
}

func (r *LocalRepository) DeleteMenuItem(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.menu(ctx)
	if err != nil {
		return err
	}
	kept := items[:0]
	for _, it := range items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	if len(kept) == len(items) {
		return ErrNotFound
	}
	return storage.SaveJSON(ctx, r.backend, storage.KeyMenuItems, kept)
}

func (r *LocalRepository) Categories(ctx context.Context) ([]models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.categories(ctx)
}

func (r *LocalRepository) CreateCategory(ctx context.Context, c models.Category) (models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cats, err := r.categories(ctx)
	if err != nil {
		return models.Category{}, err
	}
	ids := make([]int64, len(cats))
	for i, existing := range cats {
		ids[i] = existing.ID
	}

	now := r.now()
	c.ID = nextID(now, ids)
	c.CreatedAt = now
	c.UpdatedAt = now
	cats = append([]models.Category{c}, cats...)
	if err := storage.SaveJSON(ctx, r.backend, storage.KeyCategories, cats); err != nil {
		return models.Category{}, err
	}
	return c, nil
}

func (r *LocalRepository) UpdateCategory(ctx context.Context, id int64, upd CategoryUpdate) (models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cats, err := r.categories(ctx)
	if err != nil {
		return models.Category{}, err
	}
	for i := range cats {
		if cats[i].ID != id {
			continue
		}
		upd.Apply(&cats[i])
		cats[i].UpdatedAt = r.now()
		if err := storage.SaveJSON(ctx, r.backend, storage.KeyCategories, cats); err != nil {
			return models.Category{}, err
		}
		return cats[i], nil
	}
	return models.Category{}, ErrNotFound
}

func (r *LocalRepository) DeleteCategory(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cats, err := r.categories(ctx)
	if err != nil {
		return err
	}
	kept := cats[:0]
	for _, c := range cats {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(cats) {
		return ErrNotFound
	}
	return storage.SaveJSON(ctx, r.backend, storage.KeyCategories, kept)
}

func (r *LocalRepository) menu(ctx context.Context) ([]models.MenuItem, error) {
	res := storage.LoadJSON[[]models.MenuItem](ctx, r.backend, storage.KeyMenuItems)
	switch res.State {
	case storage.StateCorrupt:
		return nil, fmt.Errorf("menu items: %w", res.Err)
	case storage.StateEmpty:
		items := DefaultMenuItems()
		if err := storage.SaveJSON(ctx, r.backend, storage.KeyMenuItems, items); err != nil {
			return nil, err
		}
		return items, nil
	}
	return res.Value, nil
}

func (r *LocalRepository) categories(ctx context.Context) ([]models.Category, error) {
	res := storage.LoadJSON[[]models.Category](ctx, r.backend, storage.KeyCategories)
	switch res.State {
	case storage.StateCorrupt:
		return nil, fmt.Errorf("categories: %w", res.Err)
	case storage.StateEmpty:
		cats := DefaultCategories()
		if err := storage.SaveJSON(ctx, r.backend, storage.KeyCategories, cats); err != nil {
			return nil, err
		}
		return cats, nil
	}
	return res.Value, nil
}

func menuIDs(items []models.MenuItem) []int64 {
	ids := make([]int64, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}

// nextID is the creation time in milliseconds, bumped past any id already
// taken so two creates in the same millisecond stay distinct.
func nextID(now time.Time, taken []int64) int64 {
	id := now.UnixMilli()
	for _, t := range taken {
		if t >= id {
			id = t + 1
		}
	}
	return id
}
