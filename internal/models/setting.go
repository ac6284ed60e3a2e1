package models

import "time"

// Setting is a key-value configuration entry. Feature flags are settings
// with boolean-ish values ("1", "true", "on").
type Setting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
