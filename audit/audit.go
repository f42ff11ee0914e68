package audit

import (
	"context"
	"strings"
	"sync"
	"time"

	"restaurant-api/models"
	"restaurant-api/storage"

	"go.uber.org/zap"
)

// Log is the admin action history, newest first.
type Log interface {
	Record(ctx context.Context, a models.AdminAction) (models.AdminAction, error)
	Actions(ctx context.Context, limit int) ([]models.AdminAction, error)
}

// idSeq hands out unix-millisecond ids, bumped past the last one issued
// so two actions in the same millisecond never share an id.
type idSeq struct {
	mu   sync.Mutex
	last int64
}

// next returns an id greater than both floor and every id issued before.
func (s *idSeq) next(now time.Time, floor int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := max(now.UnixMilli(), floor+1, s.last+1)
	s.last = id
	return id
}

// StorageLog keeps the history as one JSON list in the key/value backend.
type StorageLog struct {
	mu      sync.Mutex
	backend storage.Backend
	max     int
	now     func() time.Time
	ids     idSeq
}

// NewStorageLog keeps at most max entries; max <= 0 keeps everything.
func NewStorageLog(backend storage.Backend, max int) *StorageLog {
	return &StorageLog{backend: backend, max: max, now: time.Now}
}

func (l *StorageLog) Record(ctx context.Context, a models.AdminAction) (models.AdminAction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	res := storage.LoadJSON[[]models.AdminAction](ctx, l.backend, storage.KeyAdminActions)
	if res.State == storage.StateCorrupt {
		return models.AdminAction{}, res.Err
	}

	now := l.now()
	var newest int64
	for _, prev := range res.Value {
		newest = max(newest, prev.ID)
	}
	a.ID = l.ids.next(now, newest)
	a.CreatedAt = now
	actions := append([]models.AdminAction{a}, res.Value...)
	if l.max > 0 && len(actions) > l.max {
		actions = actions[:l.max]
	}
	if err := storage.SaveJSON(ctx, l.backend, storage.KeyAdminActions, actions); err != nil {
		return models.AdminAction{}, err
	}
	return a, nil
}

func (l *StorageLog) Actions(ctx context.Context, limit int) ([]models.AdminAction, error) {
	res := storage.LoadJSON[[]models.AdminAction](ctx, l.backend, storage.KeyAdminActions)
	if res.State == storage.StateCorrupt {
		return nil, res.Err
	}
	actions := res.OrZero()
	if actions == nil {
		actions = []models.AdminAction{}
	}
	if limit > 0 && len(actions) > limit {
		actions = actions[:limit]
	}
	return actions, nil
}

// Recorder writes actions on behalf of the handlers. A failed write is
// logged and never fails the request that caused it.
type Recorder struct {
	log    Log
	logger *zap.Logger
}

func NewRecorder(log Log, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{log: log, logger: logger}
}

func (r *Recorder) Record(ctx context.Context, admin, actionType, description, target string) {
	if admin = strings.TrimSpace(admin); admin == "" {
		admin = "admin"
	}
	_, err := r.log.Record(ctx, models.AdminAction{
		ActionType:        actionType,
		ActionDescription: description,
		AdminUser:         admin,
		TargetItem:        target,
	})
	if err != nil {
		r.logger.Error("failed to record admin action",
			zap.String("action_type", actionType),
			zap.String("target", target),
			zap.Error(err),
		)
	}
}

func (r *Recorder) Actions(ctx context.Context, limit int) ([]models.AdminAction, error) {
	return r.log.Actions(ctx, limit)
}
