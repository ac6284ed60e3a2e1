package features

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/meridian-lms/backend/internal/models"
)

// FlagVideoProgressEnforcement gates the sequential-watch requirement on
// paid lectures. Enabled by default.
const FlagVideoProgressEnforcement = "video_progress_enforcement"

// SettingsStore is the persistence behind the flag service.
type SettingsStore interface {
	Get(ctx context.Context, key string) (*models.Setting, error)
	Upsert(ctx context.Context, key, value string) (*models.Setting, error)
}

// Service is a read-through accessor over the settings store. Flags can be
// flipped at runtime without a deploy.
type Service struct {
	store  SettingsStore
	logger *zap.Logger
}

// NewService creates a feature flag service.
func NewService(store SettingsStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger}
}

// IsEnabled returns the boolean value of the named flag, or def when the
// flag is absent or the store is unreachable.
func (s *Service) IsEnabled(ctx context.Context, name string, def bool) bool {
	setting, err := s.store.Get(ctx, name)
	if err != nil {
		s.logger.Warn("flag lookup failed", zap.Error(err), zap.String("flag", name))
		return def
	}
	if setting == nil {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(setting.Value)) {
	case "1", "true", "on", "yes":
		return true
	case "0", "false", "off", "no":
		return false
	default:
		return def
	}
}
