package access

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/meridian-lms/backend/internal/models"
	"github.com/meridian-lms/backend/pkg/kv"
)

// CourseGetter resolves courses from the catalog.
type CourseGetter interface {
	GetCourseByID(ctx context.Context, id int64) (*models.Course, error)
}

// PurchaseChecker looks up qualifying purchases in the billing records.
type PurchaseChecker interface {
	HasValidPurchase(ctx context.Context, userID uuid.UUID, courseID int64) (bool, error)
}

// Service decides whether a user is entitled to stream a lecture. It fails
// closed: any lookup error resolves to "no access" rather than propagating
// to the client.
type Service struct {
	courses   CourseGetter
	purchases PurchaseChecker
	cache     kv.Store
	cacheTTL  time.Duration
	logger    *zap.Logger
}

// NewService creates an access service. cache may be nil to disable the
// enrollment memoization entirely.
func NewService(courses CourseGetter, purchases PurchaseChecker, cache kv.Store, cacheTTL time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{courses: courses, purchases: purchases, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

func enrollmentKey(userID uuid.UUID, courseID int64) string {
	return fmt.Sprintf("enrolled:%s:%d", userID, courseID)
}

// CanAccessLecture reports whether the user may stream the lecture. Free
// preview is short-circuited by the caller before this is consulted; here
// the rules are: free course, or a completed non-refunded purchase.
//
// The enrollment cache memoizes positive and negative results for a short
// TTL so repeated manifest/segment authorizations within one playback
// session do not re-hit the billing tables. The cache is never treated as
// truth: entries expire and the next check re-reads the source.
func (s *Service) CanAccessLecture(ctx context.Context, userID uuid.UUID, lecture *models.Lecture) bool {
	course, err := s.courses.GetCourseByID(ctx, lecture.CourseID)
	if err != nil {
		s.logger.Error("course lookup failed", zap.Error(err), zap.Int64("course_id", lecture.CourseID))
		return false
	}
	if course == nil {
		return false
	}
	if course.IsFree {
		return true
	}

	key := enrollmentKey(userID, lecture.CourseID)
	if s.cache != nil {
		if raw, found, err := s.cache.Get(ctx, key); err == nil && found {
			return string(raw) == "1"
		}
	}

	entitled, err := s.purchases.HasValidPurchase(ctx, userID, lecture.CourseID)
	if err != nil {
		s.logger.Error("purchase lookup failed", zap.Error(err),
			zap.String("user_id", userID.String()), zap.Int64("course_id", lecture.CourseID))
		return false
	}

	if s.cache != nil {
		val := []byte("0")
		if entitled {
			val = []byte("1")
		}
		if err := s.cache.Set(ctx, key, val, s.cacheTTL); err != nil {
			s.logger.Warn("enrollment cache write failed", zap.Error(err))
		}
	}
	return entitled
}

// InvalidateEnrollment drops the memoized entitlement for (user, course),
// e.g. after a purchase completes, so the next check sees fresh state.
func (s *Service) InvalidateEnrollment(ctx context.Context, userID uuid.UUID, courseID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, enrollmentKey(userID, courseID)); err != nil {
		s.logger.Warn("enrollment cache invalidate failed", zap.Error(err))
	}
}
