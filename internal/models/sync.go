package models

import "time"

// SyncStatus exposes coarse persistence observability to clients:
// the last successful local write, how many mirror flushes are still
// outstanding, and whether the remote mirror is reachable.
type SyncStatus struct {
	LastSync       time.Time `json:"last_sync"`
	PendingChanges int       `json:"pending_changes"`
	IsOnline       bool      `json:"is_online"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
