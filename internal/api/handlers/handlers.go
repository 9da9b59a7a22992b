package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mxfin-tools/tpv-analyzer/internal/api/middleware"
	"github.com/mxfin-tools/tpv-analyzer/internal/gcsfetch"
	"github.com/mxfin-tools/tpv-analyzer/internal/jobs"
	"github.com/mxfin-tools/tpv-analyzer/internal/pipeline"
	"github.com/mxfin-tools/tpv-analyzer/internal/report"
)

// maxUploadBytes bounds one submission; statement sets are a handful of PDFs.
const maxUploadBytes = 100 << 20

// JobsHandler serves the analysis job endpoints: submission, status, result
// and report download.
type JobsHandler struct {
	store     jobs.JobStore
	publisher jobs.Publisher
	fetcher   *gcsfetch.Fetcher
	log       zerolog.Logger
}

// NewJobsHandler creates a new jobs handler. fetcher may be nil when object
// storage submission is not configured.
func NewJobsHandler(store jobs.JobStore, publisher jobs.Publisher, fetcher *gcsfetch.Fetcher, log zerolog.Logger) *JobsHandler {
	return &JobsHandler{
		store:     store,
		publisher: publisher,
		fetcher:   fetcher,
		log:       log,
	}
}

// CreateJob handles POST /api/jobs. It accepts either a multipart upload of
// PDF/ZIP files under the "documents" field, or a JSON body naming a gs://
// prefix to fetch.
func (h *JobsHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		docs      []pipeline.RawDocument
		sourceURI string
		err       error
	)
	if isMultipart(r) {
		docs, err = h.readUpload(r)
	} else {
		docs, sourceURI, err = h.fetchSubmission(r)
	}
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	expanded, err := pipeline.ExpandInputs(docs)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	job := &jobs.AnalyzeStatementsJob{
		Documents: expanded,
		SourceURI: sourceURI,
	}
	if err := h.publisher.PublishAnalyzeStatements(ctx, job); err != nil {
		h.log.Error().Err(err).Msg("Failed to enqueue analysis job")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to enqueue analysis job")
		return
	}

	h.log.Info().Str("job_id", job.JobID).Int("documents", len(expanded)).Msg("Analysis job enqueued")

	middleware.WriteJSON(w, http.StatusAccepted, map[string]interface{}{
		"job_id":    job.JobID,
		"status":    string(job.Status),
		"documents": len(expanded),
	})
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

func (h *JobsHandler) readUpload(r *http.Request) ([]pipeline.RawDocument, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, fmt.Errorf("invalid multipart upload: %v", err)
	}

	files := r.MultipartForm.File["documents"]
	if len(files) == 0 {
		return nil, fmt.Errorf("no files under the documents field")
	}

	docs := make([]pipeline.RawDocument, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("opening %s: %v", fh.Filename, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("reading %s: %v", fh.Filename, err)
		}
		docs = append(docs, pipeline.RawDocument{
			Filename: filepath.Base(fh.Filename),
			Content:  data,
		})
	}
	return docs, nil
}

func (h *JobsHandler) fetchSubmission(r *http.Request) ([]pipeline.RawDocument, string, error) {
	var req struct {
		GCSURI string `json:"gcs_uri"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, "", fmt.Errorf("invalid request body")
	}
	if req.GCSURI == "" {
		return nil, "", fmt.Errorf("gcs_uri is required")
	}
	if h.fetcher == nil {
		return nil, "", fmt.Errorf("object storage submission is not configured")
	}

	docs, err := h.fetcher.FetchPrefix(r.Context(), req.GCSURI)
	if err != nil {
		return nil, "", err
	}
	return docs, req.GCSURI, nil
}

// GetJob handles GET /api/jobs/{id}. The response carries status and timing
// but not the result payload; that has its own endpoint.
func (h *JobsHandler) GetJob(w http.ResponseWriter, r *http.Request, jobID string) {
	job, err := h.store.GetJob(r.Context(), jobID)
	if err != nil {
		middleware.WriteError(w, http.StatusNotFound, "Job not found")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"job_id":       job.JobID,
		"status":       string(job.Status),
		"created_at":   job.CreatedAt,
		"started_at":   job.StartedAt,
		"completed_at": job.CompletedAt,
		"error":        job.Error,
	})
}

// ListJobs handles GET /api/jobs
func (h *JobsHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := jobs.JobFilter{
		Status: jobs.JobStatus(query.Get("status")),
	}
	if limitStr := query.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			filter.Limit = limit
		}
	}
	if offsetStr := query.Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil {
			filter.Offset = offset
		}
	}

	jobsList, err := h.store.ListJobs(r.Context(), filter)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list jobs")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list jobs")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  jobsList,
		"count": len(jobsList),
	})
}

// GetResult handles GET /api/jobs/{id}/result
func (h *JobsHandler) GetResult(w http.ResponseWriter, r *http.Request, jobID string) {
	job, ok := h.finishedJob(w, r, jobID)
	if !ok {
		return
	}
	middleware.WriteJSON(w, http.StatusOK, job.Result)
}

// GetReport handles GET /api/jobs/{id}/report, rendering the result as an
// XLSX workbook.
func (h *JobsHandler) GetReport(w http.ResponseWriter, r *http.Request, jobID string) {
	job, ok := h.finishedJob(w, r, jobID)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "analisis-"+jobID+".xlsx"))
	if err := report.Write(w, *job.Result); err != nil {
		h.log.Error().Err(err).Str("job_id", jobID).Msg("Failed to render report")
	}
}

// finishedJob loads a job and writes the appropriate error response when it
// is missing or not done yet.
func (h *JobsHandler) finishedJob(w http.ResponseWriter, r *http.Request, jobID string) (*jobs.AnalyzeStatementsJob, bool) {
	job, err := h.store.GetJob(r.Context(), jobID)
	if err != nil {
		middleware.WriteError(w, http.StatusNotFound, "Job not found")
		return nil, false
	}
	if job.Result == nil {
		switch job.Status {
		case jobs.JobStatusFailed:
			middleware.WriteError(w, http.StatusUnprocessableEntity, "Job failed: "+job.Error)
		default:
			middleware.WriteError(w, http.StatusConflict, "Job is not finished yet")
		}
		return nil, false
	}
	return job, true
}
