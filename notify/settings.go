package notify

import (
	"context"
	"strings"

	"restaurant-api/models"
	"restaurant-api/storage"

	"go.uber.org/zap"
)

// SettingsStore keeps the admin's Telegram override. Each empty field falls
// back to the configured default.
type SettingsStore struct {
	backend  storage.Backend
	defaults models.TelegramSettings
	logger   *zap.Logger
}

func NewSettingsStore(backend storage.Backend, defaults models.TelegramSettings, logger *zap.Logger) *SettingsStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsStore{backend: backend, defaults: defaults, logger: logger}
}

// Settings returns the effective credentials.
func (s *SettingsStore) Settings(ctx context.Context) models.TelegramSettings {
	res := storage.LoadJSON[models.TelegramSettings](ctx, s.backend, storage.KeyTelegramSettings)
	if res.State == storage.StateCorrupt {
		s.logger.Warn("telegram settings unreadable, using defaults", zap.Error(res.Err))
	}
	saved := res.OrZero()
	out := s.defaults
	if saved.BotToken != "" {
		out.BotToken = saved.BotToken
	}
	if saved.ChatID != "" {
		out.ChatID = saved.ChatID
	}
	return out
}

func (s *SettingsStore) Save(ctx context.Context, st models.TelegramSettings) error {
	st.BotToken = strings.TrimSpace(st.BotToken)
	st.ChatID = strings.TrimSpace(st.ChatID)
	return storage.SaveJSON(ctx, s.backend, storage.KeyTelegramSettings, st)
}

// Masked hides most of the token for display on the dashboard.
func Masked(st models.TelegramSettings) models.TelegramSettings {
	if n := len(st.BotToken); n > 6 {
		st.BotToken = st.BotToken[:4] + strings.Repeat("*", n-6) + st.BotToken[n-2:]
	}
	return st
}
