package models

import "time"

// GalleryPhoto is one activity photo owned by an intern. InternName is a
// denormalized snapshot taken at upload time.
type GalleryPhoto struct {
	ID         string    `json:"id"`
	InternID   string    `json:"intern_id"`
	InternName string    `json:"intern_name"`
	Photo      string    `json:"photo"`
	Caption    string    `json:"caption,omitempty"`
	UploadedAt time.Time `json:"uploaded_at"`
}
