package access

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-lms/backend/internal/models"
	"github.com/meridian-lms/backend/pkg/kv"
)

type stubCourses struct {
	course *models.Course
	err    error
	calls  int
}

func (s *stubCourses) GetCourseByID(context.Context, int64) (*models.Course, error) {
	s.calls++
	return s.course, s.err
}

type stubPurchases struct {
	entitled bool
	err      error
	calls    int
}

func (s *stubPurchases) HasValidPurchase(context.Context, uuid.UUID, int64) (bool, error) {
	s.calls++
	return s.entitled, s.err
}

func paidCourse() *models.Course { return &models.Course{ID: 3, Title: "Go Basics"} }

func sampleLecture() *models.Lecture { return &models.Lecture{ID: 10, CourseID: 3} }

func TestFreeCourseAlwaysAccessible(t *testing.T) {
	courses := &stubCourses{course: &models.Course{ID: 3, IsFree: true}}
	purchases := &stubPurchases{}
	svc := NewService(courses, purchases, nil, 0, nil)

	ok := svc.CanAccessLecture(context.Background(), uuid.New(), sampleLecture())

	assert.True(t, ok)
	assert.Zero(t, purchases.calls, "billing must not be consulted for a free course")
}

func TestPaidCourseRequiresPurchase(t *testing.T) {
	courses := &stubCourses{course: paidCourse()}

	svc := NewService(courses, &stubPurchases{entitled: true}, nil, 0, nil)
	assert.True(t, svc.CanAccessLecture(context.Background(), uuid.New(), sampleLecture()))

	svc = NewService(courses, &stubPurchases{entitled: false}, nil, 0, nil)
	assert.False(t, svc.CanAccessLecture(context.Background(), uuid.New(), sampleLecture()))
}

func TestLookupErrorsFailClosed(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	svc := NewService(&stubCourses{err: errors.New("db down")}, &stubPurchases{entitled: true}, nil, 0, nil)
	assert.False(t, svc.CanAccessLecture(ctx, userID, sampleLecture()))

	svc = NewService(&stubCourses{course: nil}, &stubPurchases{entitled: true}, nil, 0, nil)
	assert.False(t, svc.CanAccessLecture(ctx, userID, sampleLecture()), "unknown course")

	svc = NewService(&stubCourses{course: paidCourse()}, &stubPurchases{err: errors.New("db down")}, nil, 0, nil)
	assert.False(t, svc.CanAccessLecture(ctx, userID, sampleLecture()))
}

func TestEnrollmentCacheMemoizesBillingLookup(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	purchases := &stubPurchases{entitled: true}
	svc := NewService(&stubCourses{course: paidCourse()}, purchases, kv.NewMemory(), 5*time.Minute, nil)

	require.True(t, svc.CanAccessLecture(ctx, userID, sampleLecture()))
	require.True(t, svc.CanAccessLecture(ctx, userID, sampleLecture()))
	require.True(t, svc.CanAccessLecture(ctx, userID, sampleLecture()))

	assert.Equal(t, 1, purchases.calls, "repeat checks within the TTL must hit the cache")
}

func TestEnrollmentCacheMemoizesDenialToo(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	purchases := &stubPurchases{entitled: false}
	svc := NewService(&stubCourses{course: paidCourse()}, purchases, kv.NewMemory(), 5*time.Minute, nil)

	assert.False(t, svc.CanAccessLecture(ctx, userID, sampleLecture()))
	assert.False(t, svc.CanAccessLecture(ctx, userID, sampleLecture()))
	assert.Equal(t, 1, purchases.calls)
}

func TestEnrollmentCacheExpires(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	purchases := &stubPurchases{entitled: true}
	cache := kv.NewMemory()
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	cache.Now = func() time.Time { return now }
	svc := NewService(&stubCourses{course: paidCourse()}, purchases, cache, 5*time.Minute, nil)

	require.True(t, svc.CanAccessLecture(ctx, userID, sampleLecture()))
	now = now.Add(5*time.Minute + time.Second)
	require.True(t, svc.CanAccessLecture(ctx, userID, sampleLecture()))

	assert.Equal(t, 2, purchases.calls, "expired cache entry must force a fresh billing read")
}

func TestInvalidateEnrollment(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	purchases := &stubPurchases{entitled: false}
	svc := NewService(&stubCourses{course: paidCourse()}, purchases, kv.NewMemory(), 5*time.Minute, nil)

	require.False(t, svc.CanAccessLecture(ctx, userID, sampleLecture()))

	// Purchase completes; the memoized denial must not outlive it.
	purchases.entitled = true
	svc.InvalidateEnrollment(ctx, userID, 3)

	assert.True(t, svc.CanAccessLecture(ctx, userID, sampleLecture()))
	assert.Equal(t, 2, purchases.calls)
}
