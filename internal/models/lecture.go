package models

import "time"

// HLSStatus is the transcoding state of a lecture's HLS artifacts. Values
// come from the transcoding pipeline, which owns the lifecycle; this service
// only reads them.
type HLSStatus string

const (
	HLSStatusNone       HLSStatus = ""
	HLSStatusPending    HLSStatus = "pending"
	HLSStatusProcessing HLSStatus = "processing"
	HLSStatusReady      HLSStatus = "ready"
	HLSStatusFailed     HLSStatus = "failed"
)

// Valid reports whether s is a known status. An unknown status coming from
// the database must be treated as not-streamable, never as ready.
func (s HLSStatus) Valid() bool {
	switch s {
	case HLSStatusNone, HLSStatusPending, HLSStatusProcessing, HLSStatusReady, HLSStatusFailed:
		return true
	default:
		return false
	}
}

// LectureKind is the underlying asset type of a lecture.
type LectureKind string

const (
	LectureKindFile        LectureKind = "file"
	LectureKindExternalURL LectureKind = "external_url"
	LectureKindQuiz        LectureKind = "quiz"
	LectureKindText        LectureKind = "text"
)

// Lecture is a single curriculum item. ChapterID links it into a course via
// the chapter; CourseID is populated by the repository join.
type Lecture struct {
	ID              int64       `json:"id"`
	ChapterID       int64       `json:"chapter_id"`
	CourseID        int64       `json:"course_id"`
	Title           string      `json:"title"`
	Kind            LectureKind `json:"kind"`
	Position        int         `json:"position"`
	DurationSeconds int         `json:"duration_seconds"`
	FreePreview     bool        `json:"free_preview"`
	FilePath        string      `json:"-"` // raw uploaded asset, used for non-HLS fallback
	HLSStatus       HLSStatus   `json:"hls_status"`
	HLSErrorMessage string      `json:"-"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}
