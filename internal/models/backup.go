package models

import "time"

// BackupDocument is the versioned whole-store export envelope. Exports must
// round-trip losslessly through import.
type BackupDocument struct {
	Version    string         `json:"version"`
	ExportedAt time.Time      `json:"exportedAt"`
	Interns    []Intern       `json:"interns"`
	Mentors    []Mentor       `json:"mentors"`
	Gallery    []GalleryPhoto `json:"gallery"`
}
