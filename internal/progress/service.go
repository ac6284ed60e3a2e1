package progress

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/meridian-lms/backend/internal/models"
)

// CompletionThreshold is the watched percentage at which a lecture counts
// as completed for sequential unlocking. Boundary inclusive: 85.0 passes.
const CompletionThreshold = 85.0

// PredecessorFinder locates the previous lecture in curriculum order.
type PredecessorFinder interface {
	GetPreviousLecture(ctx context.Context, lecture *models.Lecture) (*models.Lecture, error)
}

// ProgressStore reads and writes watch progress records.
type ProgressStore interface {
	GetPercent(ctx context.Context, userID uuid.UUID, lectureID int64) (float64, error)
	Upsert(ctx context.Context, userID uuid.UUID, lectureID int64, watchedSeconds int, percent float64) (*models.WatchProgress, error)
}

// Service enforces sequential consumption and records watch progress.
// Like the access service it fails closed on lookup errors.
type Service struct {
	catalog PredecessorFinder
	store   ProgressStore
	logger  *zap.Logger
}

// NewService creates a progress service.
func NewService(catalog PredecessorFinder, store ProgressStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{catalog: catalog, store: store, logger: logger}
}

// CanAccessNextLesson reports whether the lecture preceding the given one
// has been watched past the completion threshold. The first lecture of a
// course is always accessible.
func (s *Service) CanAccessNextLesson(ctx context.Context, userID uuid.UUID, lecture *models.Lecture) bool {
	prev, err := s.catalog.GetPreviousLecture(ctx, lecture)
	if err != nil {
		s.logger.Error("predecessor lookup failed", zap.Error(err), zap.Int64("lecture_id", lecture.ID))
		return false
	}
	if prev == nil {
		return true
	}
	pct, err := s.store.GetPercent(ctx, userID, prev.ID)
	if err != nil {
		s.logger.Error("progress lookup failed", zap.Error(err),
			zap.String("user_id", userID.String()), zap.Int64("lecture_id", prev.ID))
		return false
	}
	return pct >= CompletionThreshold
}

// Record stores watch progress for a lecture, deriving the completion
// percentage from the lecture duration. watchedSeconds past the end of the
// video caps at 100%.
func (s *Service) Record(ctx context.Context, userID uuid.UUID, lecture *models.Lecture, watchedSeconds int) (*models.WatchProgress, error) {
	if watchedSeconds < 0 {
		watchedSeconds = 0
	}
	percent := 100.0
	if lecture.DurationSeconds > 0 {
		percent = float64(watchedSeconds) / float64(lecture.DurationSeconds) * 100
		if percent > 100 {
			percent = 100
		}
	}
	return s.store.Upsert(ctx, userID, lecture.ID, watchedSeconds, percent)
}
