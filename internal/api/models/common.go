// Package models defines the JSON response types of the FirePortal HTTP API.
package models

import "time"

// ErrorResponse is the body of every JSON failure.
//
// Domain, CID and Path name the offending input where one applies.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Domain  string `json:"domain,omitempty"`
	CID     string `json:"cid,omitempty"`
	Path    string `json:"path,omitempty"`
}

// StatusResponse is returned by GET /api/status.
type StatusResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// RefreshResponse is returned by the cache refresh endpoints.
// Timestamp is omitted on failure.
type RefreshResponse struct {
	Success   bool       `json:"success"`
	Message   string     `json:"message"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}
