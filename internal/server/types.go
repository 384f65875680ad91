// Package server provides the HTTP surface for the media-processing job
// server: handlers, middleware, routes, and DTOs separated from domain
// types.
package server

import "github.com/maauso/mediajob-server/internal/job"

const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// JobResponse is the wire representation of a Job snapshot.
type JobResponse struct {
	ID               string  `json:"id"`
	ProcessorID      string  `json:"processor_id"`
	OriginalFilename string  `json:"original_filename"`
	Status           string  `json:"status"`
	Progress         float64 `json:"progress"`
	Message          string  `json:"message"`
	ResultExtension  string  `json:"result_extension"`
	Error            *string `json:"error"`
	CreatedAt        string  `json:"created_at"`
}

func newJobResponse(j *job.Job) JobResponse {
	return JobResponse{
		ID:               j.ID,
		ProcessorID:      j.ProcessorID,
		OriginalFilename: j.OriginalFilename,
		Status:           string(j.Status),
		Progress:         j.Progress,
		Message:          j.Message,
		ResultExtension:  j.ResultExtension,
		Error:            j.Error,
		CreatedAt:        j.CreatedAt.Format(timeLayout),
	}
}

// BatchResponse is the wire representation of a Batch snapshot.
type BatchResponse struct {
	ID          string   `json:"id"`
	JobIDs      []string `json:"job_ids"`
	ProcessorID string   `json:"processor_id"`
	CreatedAt   string   `json:"created_at"`
}

func newBatchResponse(b *job.Batch) BatchResponse {
	return BatchResponse{
		ID:          b.ID,
		JobIDs:      b.JobIDs,
		ProcessorID: b.ProcessorID,
		CreatedAt:   b.CreatedAt.Format(timeLayout),
	}
}

// BatchDetailResponse is the `/jobs/batch/{id}` payload: the batch
// snapshot plus every member job's snapshot.
type BatchDetailResponse struct {
	BatchResponse
	Jobs []JobResponse `json:"jobs"`
}

// JobSubmitResponse is returned by POST /jobs/batch when the target
// processor is a combining processor (one Job over every file).
type JobSubmitResponse struct {
	Type string `json:"type"`
	JobResponse
}

// BatchSubmitResponse is returned by POST /jobs/batch when the target
// processor fans out (one Job per file, grouped by a Batch).
type BatchSubmitResponse struct {
	Type string `json:"type"`
	BatchResponse
}

// EventResponse is the SSE payload published during processing and on
// terminal transition. Progress/Message are never omitted: a Pending
// job's zero progress and empty message are meaningful wire values, not
// absent ones.
type EventResponse struct {
	Progress float64 `json:"progress"`
	Message  string  `json:"message"`
	Status   string  `json:"status"`
}

// sseTimeoutEvent is the synthetic event emitted when the SSE liveness
// heartbeat fires with nothing to report — distinct from EventResponse
// so it never implies a progress/message value that wasn't observed.
type sseTimeoutEvent struct {
	Status string `json:"status"`
}

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HealthResponse is the GET /health payload.
type HealthResponse struct {
	Status string `json:"status"`
}

// CleanupResponse is the DELETE /cleanup payload.
type CleanupResponse struct {
	Removed int `json:"removed"`
}
