package models

import "time"

// Mentor represents an employee who supervises interns. The NIP is the
// natural key and doubles as the login username.
type Mentor struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	NIP          string    `json:"nip"`
	Division     string    `json:"division"`
	Position     string    `json:"position"`
	Photo        string    `json:"photo"`
	TotalInterns int       `json:"total_interns"`
	PasswordHash string    `json:"password_hash,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Sanitized returns a copy safe to expose outside the service layer.
func (m Mentor) Sanitized() Mentor {
	m.PasswordHash = ""
	return m
}

// MentorFilter captures filtering options for listing mentors.
type MentorFilter struct {
	Search   string
	Division string
	Page     int
	PageSize int
}
