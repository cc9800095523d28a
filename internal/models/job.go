package models

import (
	"time"
)

// JobStatus represents the outcome of an import
type JobStatus string

const (
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Job records one upload and what the importer made of it
type Job struct {
	ID             string     `json:"job_id" db:"id"`
	InstanceID     string     `json:"instance_id" db:"instance_id"`
	Kind           string     `json:"kind" db:"kind"`
	Status         JobStatus  `json:"status" db:"status"`
	IdempotencyKey string     `json:"idempotency_key,omitempty" db:"idempotency_key"`
	FileName       string     `json:"file_name" db:"file_name"`
	TotalRows      int        `json:"total_rows" db:"total_rows"`
	AcceptedCount  int        `json:"accepted" db:"accepted_count"`
	SkippedCount   int        `json:"skipped" db:"skipped_count"`
	DurationMs     int64      `json:"duration_ms" db:"duration_ms"`
	Message        string     `json:"message,omitempty" db:"message"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}

// ValidationError represents a single rejected row or field
type ValidationError struct {
	Line    int         `json:"line"`
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// JobResponse is the API response for job status
type JobResponse struct {
	Job
	Errors      []ValidationError `json:"errors,omitempty"`
	ErrorCount  int               `json:"error_count,omitempty"`
	ErrorReport string            `json:"error_report_url,omitempty"`
}

// ImportRequest describes one uploaded file
type ImportRequest struct {
	InstanceID     string `json:"instance_id" uri:"instance_id"`
	Kind           string `json:"kind" uri:"kind"` // guests, rooms
	FileName       string `json:"file_name"`
	Size           int64  `json:"size"`
	IdempotencyKey string `json:"-"` // From header
}

// ExportRequest represents an export request
type ExportRequest struct {
	InstanceID string `json:"instance_id" uri:"instance_id"`
	Kind       string `json:"kind" uri:"kind"`      // guests, rooms
	Format     string `json:"format" form:"format"` // csv, json, ndjson
}
