package models

import "time"

// Course represents a sellable course. Catalog management lives outside this
// service; courses are read here only to decide streaming entitlement.
type Course struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	IsFree    bool      `json:"is_free"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Chapter groups lectures within a course. Position orders chapters in the
// curriculum.
type Chapter struct {
	ID       int64  `json:"id"`
	CourseID int64  `json:"course_id"`
	Title    string `json:"title"`
	Position int    `json:"position"`
}
