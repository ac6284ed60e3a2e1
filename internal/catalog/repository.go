package catalog

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-lms/backend/internal/models"
)

// Repository provides the read side of the course catalog. Catalog writes
// belong to the admin/transcoding systems; streaming only looks lectures up.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a catalog repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const lectureColumns = `l.id, l.chapter_id, c.course_id, l.title, l.kind, l.position, l.duration_seconds,
		l.free_preview, COALESCE(l.file_path,''), COALESCE(l.hls_status,''), COALESCE(l.hls_error_message,''), l.created_at, l.updated_at`

func scanLecture(row pgx.Row) (*models.Lecture, error) {
	var l models.Lecture
	err := row.Scan(&l.ID, &l.ChapterID, &l.CourseID, &l.Title, &l.Kind, &l.Position, &l.DurationSeconds,
		&l.FreePreview, &l.FilePath, &l.HLSStatus, &l.HLSErrorMessage, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

// GetLectureByID returns a lecture with its owning course resolved, or nil
// when it does not exist.
func (r *Repository) GetLectureByID(ctx context.Context, id int64) (*models.Lecture, error) {
	q := `SELECT ` + lectureColumns + ` FROM lectures l JOIN chapters c ON c.id = l.chapter_id WHERE l.id = $1`
	return scanLecture(r.pool.QueryRow(ctx, q, id))
}

// GetPreviousLecture returns the lecture immediately before the given one in
// curriculum order (chapter position, then lecture position) within the same
// course, or nil when the given lecture is the first.
func (r *Repository) GetPreviousLecture(ctx context.Context, lecture *models.Lecture) (*models.Lecture, error) {
	q := `SELECT ` + lectureColumns + `
		FROM lectures l
		JOIN chapters c ON c.id = l.chapter_id
		WHERE c.course_id = $1
		  AND (c.position, l.position) < ($2, $3)
		ORDER BY c.position DESC, l.position DESC
		LIMIT 1`
	var chapterPos int
	err := r.pool.QueryRow(ctx, `SELECT position FROM chapters WHERE id = $1`, lecture.ChapterID).Scan(&chapterPos)
	if err != nil {
		return nil, err
	}
	return scanLecture(r.pool.QueryRow(ctx, q, lecture.CourseID, chapterPos, lecture.Position))
}

// GetCourseByID returns a course by ID, or nil when it does not exist.
func (r *Repository) GetCourseByID(ctx context.Context, id int64) (*models.Course, error) {
	const q = `SELECT id, title, is_free, created_at, updated_at FROM courses WHERE id = $1`
	var course models.Course
	err := r.pool.QueryRow(ctx, q, id).Scan(&course.ID, &course.Title, &course.IsFree, &course.CreatedAt, &course.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &course, nil
}
