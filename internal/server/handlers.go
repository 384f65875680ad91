package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/maauso/mediajob-server/internal/executor"
	"github.com/maauso/mediajob-server/internal/filestore"
	"github.com/maauso/mediajob-server/internal/job"
	"github.com/maauso/mediajob-server/internal/metrics"
	"github.com/maauso/mediajob-server/internal/options"
	"github.com/maauso/mediajob-server/internal/processor"
	"github.com/maauso/mediajob-server/internal/reaper"
	"github.com/maauso/mediajob-server/internal/registry"
)

// resultMediaTypes maps a result extension to its Content-Type for the
// result-download handler.
var resultMediaTypes = map[string]string{
	".webp": "image/webp",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".tiff": "image/tiff",
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".webm": "video/webm",
	".avi":  "video/x-msvideo",
	".mkv":  "video/x-matroska",
	".zip":  "application/zip",
	".mp3":  "audio/mpeg",
	".aac":  "audio/aac",
	".wav":  "audio/wav",
	".flac": "audio/flac",
	".ogg":  "audio/ogg",
	".m4a":  "audio/mp4",
	".wma":  "audio/x-ms-wma",
	".pdf":  "application/pdf",
	".txt":  "text/plain",
	".json": "application/json",
}

// submission is the only field the server validates structurally on a
// multipart submission; everything else is either a file or an opaque
// options blob the processor itself validates.
type submission struct {
	ProcessorID string `validate:"required"`
}

// Handlers holds every collaborator an HTTP handler needs.
type Handlers struct {
	manager        *job.Manager
	registry       *registry.Registry
	files          *filestore.Store
	executor       *executor.Executor
	reaper         *reaper.Reaper
	metrics        *metrics.Metrics
	validator      *validator.Validate
	logger         *slog.Logger
	maxUploadBytes int64
	sseHeartbeat   time.Duration
}

// NewHandlers builds a Handlers instance. sseHeartbeat governs the
// progress-stream liveness timeout; pass 0 to use the default of 60
// seconds.
func NewHandlers(manager *job.Manager, reg *registry.Registry, files *filestore.Store, exec *executor.Executor, rpr *reaper.Reaper, m *metrics.Metrics, maxUploadBytes int64, sseHeartbeat time.Duration, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	if sseHeartbeat <= 0 {
		sseHeartbeat = defaultSSEHeartbeat
	}
	return &Handlers{
		manager:        manager,
		registry:       reg,
		files:          files,
		executor:       exec,
		reaper:         rpr,
		metrics:        m,
		validator:      validator.New(),
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
		sseHeartbeat:   sseHeartbeat,
	}
}

// Health handles GET /health.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// ListProcessors handles GET /processors.
func (h *Handlers) ListProcessors(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.registry.List())
}

// CreateJob handles POST /jobs: a single-file submission.
func (h *Handlers) CreateJob(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "could not parse multipart form: "+err.Error(), "INVALID_FORM")
		return
	}

	sub := submission{ProcessorID: r.FormValue("processor_id")}
	if err := h.validator.Struct(sub); err != nil {
		writeError(w, http.StatusBadRequest, "processor_id is required", "VALIDATION_ERROR")
		return
	}

	proc, err := h.registry.Get(sub.ProcessorID)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown processor %q", sub.ProcessorID), "UNKNOWN_PROCESSOR")
		return
	}
	desc := proc.Descriptor()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required", "MISSING_FILE")
		return
	}
	defer file.Close()

	opts, err := parseOptions(r.FormValue("options"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "MALFORMED_OPTIONS")
		return
	}

	if err := validateSubmission(desc, header.Filename, opts); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), codeFor(err))
		return
	}

	j, err := h.manager.Create(sub.ProcessorID, header.Filename)
	if err != nil {
		h.logger.Error("create job failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "failed to create job", "JOB_CREATION_FAILED")
		return
	}

	path, err := h.files.SaveUpload(j.ID, header.Filename, file)
	if err != nil {
		h.failSubmittedJob(j.ID, err)
		writeError(w, http.StatusInternalServerError, "failed to store upload", "UPLOAD_FAILED")
		return
	}

	h.metrics.JobsSubmitted.WithLabelValues(sub.ProcessorID).Inc()
	h.logger.Info("job created", slog.String("job_id", j.ID), slog.String("processor_id", sub.ProcessorID))

	go h.executor.Run(context.WithoutCancel(r.Context()), j.ID, sub.ProcessorID, path, nil, opts)

	writeJSON(w, http.StatusAccepted, newJobResponse(j))
}

// CreateBatch handles POST /jobs/batch: a multi-file submission that
// either produces one combining Job or N fanned-out Jobs plus a Batch.
func (h *Handlers) CreateBatch(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "could not parse multipart form: "+err.Error(), "INVALID_FORM")
		return
	}

	sub := submission{ProcessorID: r.FormValue("processor_id")}
	if err := h.validator.Struct(sub); err != nil {
		writeError(w, http.StatusBadRequest, "processor_id is required", "VALIDATION_ERROR")
		return
	}

	proc, err := h.registry.Get(sub.ProcessorID)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown processor %q", sub.ProcessorID), "UNKNOWN_PROCESSOR")
		return
	}
	desc := proc.Descriptor()

	var headers []*multipart.FileHeader
	if r.MultipartForm != nil {
		headers = r.MultipartForm.File["files"]
	}
	if len(headers) == 0 {
		writeError(w, http.StatusBadRequest, ErrNoFilesSubmitted.Error(), "NO_FILES")
		return
	}

	opts, err := parseOptions(r.FormValue("options"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "MALFORMED_OPTIONS")
		return
	}

	// All files are validated upfront; any failure rejects the entire
	// submission.
	for _, fh := range headers {
		if err := validateSubmission(desc, fh.Filename, opts); err != nil {
			writeError(w, http.StatusBadRequest, err.Error(), codeFor(err))
			return
		}
	}

	if desc.AcceptsMultipleFiles {
		h.submitCombining(w, r, sub.ProcessorID, headers, opts)
		return
	}
	h.submitFanOut(w, r, sub.ProcessorID, headers, opts)
}

func (h *Handlers) submitCombining(w http.ResponseWriter, r *http.Request, processorID string, headers []*multipart.FileHeader, opts map[string]any) {
	j, err := h.manager.Create(processorID, headers[0].Filename)
	if err != nil {
		h.logger.Error("create job failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "failed to create job", "JOB_CREATION_FAILED")
		return
	}

	paths, err := h.saveAll(j.ID, headers)
	if err != nil {
		h.failSubmittedJob(j.ID, err)
		writeError(w, http.StatusInternalServerError, "failed to store uploads", "UPLOAD_FAILED")
		return
	}

	h.metrics.JobsSubmitted.WithLabelValues(processorID).Inc()
	h.logger.Info("combining job created", slog.String("job_id", j.ID), slog.String("processor_id", processorID), slog.Int("file_count", len(paths)))

	go h.executor.Run(context.WithoutCancel(r.Context()), j.ID, processorID, paths[0], paths, opts)

	writeJSON(w, http.StatusAccepted, JobSubmitResponse{Type: "job", JobResponse: newJobResponse(j)})
}

func (h *Handlers) submitFanOut(w http.ResponseWriter, r *http.Request, processorID string, headers []*multipart.FileHeader, opts map[string]any) {
	jobIDs := make([]string, 0, len(headers))
	for _, fh := range headers {
		j, err := h.manager.Create(processorID, fh.Filename)
		if err != nil {
			h.logger.Error("create job failed", slog.Any("error", err))
			writeError(w, http.StatusInternalServerError, "failed to create job", "JOB_CREATION_FAILED")
			return
		}

		path, err := h.saveOne(j.ID, fh)
		if err != nil {
			h.failSubmittedJob(j.ID, err)
			continue
		}

		h.metrics.JobsSubmitted.WithLabelValues(processorID).Inc()
		jobIDs = append(jobIDs, j.ID)
		go h.executor.Run(context.WithoutCancel(r.Context()), j.ID, processorID, path, nil, opts)
	}

	b, err := h.manager.CreateBatch(processorID, jobIDs)
	if err != nil {
		h.logger.Error("create batch failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "failed to create batch", "BATCH_CREATION_FAILED")
		return
	}

	h.logger.Info("batch created", slog.String("batch_id", b.ID), slog.String("processor_id", processorID), slog.Int("job_count", len(jobIDs)))
	writeJSON(w, http.StatusAccepted, BatchSubmitResponse{Type: "batch", BatchResponse: newBatchResponse(b)})
}

func (h *Handlers) saveOne(jobID string, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("server: open upload %s: %w", fh.Filename, err)
	}
	defer f.Close()
	return h.files.SaveUpload(jobID, fh.Filename, f)
}

func (h *Handlers) saveAll(jobID string, headers []*multipart.FileHeader) ([]string, error) {
	paths := make([]string, 0, len(headers))
	for _, fh := range headers {
		path, err := h.saveOne(jobID, fh)
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// failSubmittedJob marks a just-created job Failed and publishes its
// terminal event, for the rare case a post-submission step (saving the
// upload) fails after the job already exists.
func (h *Handlers) failSubmittedJob(jobID string, cause error) {
	h.logger.Error("post-submission failure", slog.String("job_id", jobID), slog.Any("error", cause))
	if err := h.manager.MarkFailed(jobID, cause.Error()); err != nil {
		h.logger.Error("mark failed failed", slog.String("job_id", jobID), slog.Any("error", err))
	}
	if err := h.manager.Finish(jobID); err != nil {
		h.logger.Error("finish failed", slog.String("job_id", jobID), slog.Any("error", err))
	}
}

// GetJob handles GET /jobs/{id}.
func (h *Handlers) GetJob(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("id")
	j, err := h.manager.Get(jobID)
	if err != nil {
		h.writeJobLookupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newJobResponse(j))
}

// GetBatch handles GET /jobs/batch/{id}.
func (h *Handlers) GetBatch(w http.ResponseWriter, r *http.Request) {
	batchID := r.PathValue("id")
	b, err := h.manager.GetBatch(batchID)
	if err != nil {
		h.writeJobLookupError(w, err)
		return
	}

	jobs := make([]JobResponse, 0, len(b.JobIDs))
	for _, id := range b.JobIDs {
		j, err := h.manager.Get(id)
		if err != nil {
			continue
		}
		jobs = append(jobs, newJobResponse(j))
	}

	writeJSON(w, http.StatusOK, BatchDetailResponse{BatchResponse: newBatchResponse(b), Jobs: jobs})
}

// Result handles GET /jobs/{id}/result: streams the result artifact with
// its correct media type and a Content-Disposition filename of
// <original_stem><result_ext>.
func (h *Handlers) Result(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("id")
	j, err := h.manager.Get(jobID)
	if err != nil {
		h.writeJobLookupError(w, err)
		return
	}
	if j.Status != job.StatusCompleted || j.ResultPath == "" {
		writeError(w, http.StatusBadRequest, ErrMissingResult.Error(), "MISSING_RESULT")
		return
	}

	f, err := os.Open(j.ResultPath) // #nosec G304 - ResultPath is produced by the processor, not request input
	if err != nil {
		h.logger.Error("result file missing", slog.String("job_id", jobID), slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "result file is not available", "RESULT_UNAVAILABLE")
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "result file is not available", "RESULT_UNAVAILABLE")
		return
	}

	mediaType := resultMediaTypes[j.ResultExtension]
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}

	stem := strings.TrimSuffix(j.OriginalFilename, filepath.Ext(j.OriginalFilename))
	filename := stem + j.ResultExtension

	w.Header().Set("Content-Type", mediaType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	http.ServeContent(w, r, "", info.ModTime(), f)
}

// Cleanup handles DELETE /cleanup: runs one reaper pass synchronously.
func (h *Handlers) Cleanup(w http.ResponseWriter, r *http.Request) {
	removed := h.reaper.RunOnce()
	h.metrics.ReaperRemoved.Add(float64(removed))
	writeJSON(w, http.StatusOK, CleanupResponse{Removed: removed})
}

func (h *Handlers) writeJobLookupError(w http.ResponseWriter, err error) {
	if errors.Is(err, job.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found", "NOT_FOUND")
		return
	}
	h.logger.Error("lookup failed", slog.Any("error", err))
	writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
}

// parseOptions decodes the optional `options` form field (a JSON object
// string) into a plain map, or ErrMalformedOptions on invalid JSON. An
// empty field is not an error — processors apply their own defaults.
func parseOptions(raw string) (map[string]any, error) {
	if strings.TrimSpace(raw) == "" {
		return map[string]any{}, nil
	}
	var opts map[string]any
	if err := json.Unmarshal([]byte(raw), &opts); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedOptions, err.Error())
	}
	return opts, nil
}

// validateSubmission enforces the structural rules the server owns:
// accepted extension and dimension-option range.
func validateSubmission(desc processor.Descriptor, filename string, opts map[string]any) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if !desc.AcceptsExtension(ext) {
		return fmt.Errorf("%w: %q is not accepted by %s", ErrExtensionNotAccepted, ext, desc.ID)
	}
	if err := options.ValidateAll(desc.OptionsSchema, opts); err != nil {
		return err
	}
	return nil
}

func codeFor(err error) string {
	switch {
	case errors.Is(err, ErrExtensionNotAccepted):
		return "EXTENSION_NOT_ACCEPTED"
	case errors.Is(err, options.ErrDimensionOutOfRange):
		return "DIMENSION_OUT_OF_RANGE"
	default:
		return "BAD_REQUEST"
	}
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// writeError writes an error response in the standard format.
func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, ErrorResponse{Error: message, Code: code})
}
