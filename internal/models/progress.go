package models

import (
	"time"

	"github.com/google/uuid"
)

// WatchProgress records how far a user has watched a lecture.
type WatchProgress struct {
	UserID         uuid.UUID `json:"user_id"`
	LectureID      int64     `json:"lecture_id"`
	WatchedSeconds int       `json:"watched_seconds"`
	Percent        float64   `json:"percent"`
	UpdatedAt      time.Time `json:"updated_at"`
}
