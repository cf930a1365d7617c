package models

import "time"

// InternStatus enumerates the intern lifecycle states. Rejection is a hard
// delete, not a stored state.
type InternStatus string

const (
	StatusPending InternStatus = "pending"
	StatusActive  InternStatus = "active"
	StatusAlumni  InternStatus = "alumni"
)

// Valid reports whether the status is one of the known states.
func (s InternStatus) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusAlumni:
		return true
	}
	return false
}

// Intern represents an internship record. Period dates are stored as
// YYYY-MM-DD strings, matching the submission forms.
type Intern struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Phone         string       `json:"phone"`
	Email         string       `json:"email"`
	Address       string       `json:"address"`
	SocialMedia   string       `json:"social_media,omitempty"`
	School        string       `json:"school"`
	Major         string       `json:"major"`
	Location      string       `json:"location"`
	Division      string       `json:"division"`
	MentorID      string       `json:"mentor_id"`
	PeriodStart   string       `json:"period_start"`
	PeriodEnd     string       `json:"period_end"`
	Impression    string       `json:"impression"`
	Message       string       `json:"message"`
	Photo         string       `json:"photo"`
	GalleryPhotos []string     `json:"gallery_photos"`
	Status        InternStatus `json:"status"`
	CreatedAt     time.Time    `json:"created_at"`
}

// PeriodEnded reports whether the internship period finished before now.
// Unparsable dates count as not ended.
func (i Intern) PeriodEnded(now time.Time) bool {
	end, err := time.Parse("2006-01-02", i.PeriodEnd)
	if err != nil {
		return false
	}
	return end.Before(now.Truncate(24 * time.Hour))
}

// InternFilter captures filtering options for listing interns.
type InternFilter struct {
	Search   string
	MentorID string
	Status   InternStatus
	Page     int
	PageSize int
}

// InternStatistics aggregates roster counts for dashboards.
type InternStatistics struct {
	Total      int            `json:"total"`
	Active     int            `json:"active"`
	Alumni     int            `json:"alumni"`
	Pending    int            `json:"pending"`
	ByDivision map[string]int `json:"by_division"`
	ByMentor   map[string]int `json:"by_mentor"`
	ByYear     []YearCount    `json:"by_year"`
}

// YearCount is one bucket of the per-year intake histogram.
type YearCount struct {
	Year  string `json:"year"`
	Count int    `json:"count"`
}
