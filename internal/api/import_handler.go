package api

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nayna-import-api/internal/config"
	"github.com/nayna-import-api/internal/models"
	"github.com/nayna-import-api/internal/service"
	"github.com/rs/zerolog"
)

const defaultHistoryLimit = 50

// ImportHandler handles import endpoints
type ImportHandler struct {
	services *service.Services
	cfg      *config.Config
	log      zerolog.Logger
}

// NewImportHandler creates a new ImportHandler
func NewImportHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *ImportHandler {
	return &ImportHandler{
		services: services,
		cfg:      cfg,
		log:      log.With().Str("handler", "import").Logger(),
	}
}

// CreateImport handles POST /v1/instances/:instance_id/imports/:kind
// Accepts a multipart "file" upload and replaces the instance's records
func (h *ImportHandler) CreateImport(c *gin.Context) {
	ctx := c.Request.Context()

	fileName, data, ok := h.readUpload(c)
	if !ok {
		return
	}

	req := &models.ImportRequest{
		InstanceID:     c.Param("instance_id"),
		Kind:           c.Param("kind"),
		FileName:       fileName,
		Size:           int64(len(data)),
		IdempotencyKey: c.GetHeader("Idempotency-Key"),
	}

	outcome, err := h.services.Import.Import(ctx, req, data)
	if err != nil {
		h.writeError(c, err, outcome)
		return
	}

	status := http.StatusCreated
	if outcome.Replayed {
		status = http.StatusOK
	}
	c.JSON(status, gin.H{
		"job_id":   outcome.Job.ID,
		"status":   outcome.Job.Status,
		"kind":     outcome.Job.Kind,
		"accepted": outcome.Job.AcceptedCount,
		"skipped":  outcome.Job.SkippedCount,
		"message":  outcome.Job.Message,
		"reasons":  outcome.Reasons,
		"replayed": outcome.Replayed,
	})
}

// PreviewImport handles POST /v1/imports/preview/:kind
// Parses the upload and returns the records without storing them
func (h *ImportHandler) PreviewImport(c *gin.Context) {
	fileName, data, ok := h.readUpload(c)
	if !ok {
		return
	}

	res, err := h.services.Import.Preview(c.Request.Context(), c.Param("kind"), fileName, data)
	if err != nil {
		h.writeError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, res)
}

// ListImports handles GET /v1/instances/:instance_id/imports
func (h *ImportHandler) ListImports(c *gin.Context) {
	limit := defaultHistoryLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	instanceID := c.Param("instance_id")
	jobs, err := h.services.Job.ListJobs(c.Request.Context(), instanceID, limit)
	if err != nil {
		h.log.Error().Err(err).Str("instance_id", instanceID).Msg("Failed to list jobs")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list imports"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"imports": jobs})
}

// GetImportStatus handles GET /v1/imports/:job_id
func (h *ImportHandler) GetImportStatus(c *gin.Context) {
	ctx := c.Request.Context()
	jobID := c.Param("job_id")

	job, err := h.services.Job.GetJob(ctx, jobID)
	if err != nil {
		h.log.Error().Err(err).Str("job_id", jobID).Msg("Failed to get job")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get job status"})
		return
	}
	if job == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}

	c.JSON(http.StatusOK, job)
}

// GetImportErrors handles GET /v1/imports/:job_id/errors
func (h *ImportHandler) GetImportErrors(c *gin.Context) {
	ctx := c.Request.Context()
	jobID := c.Param("job_id")

	errs, err := h.services.Job.GetJobErrors(ctx, jobID)
	if err != nil {
		h.log.Error().Err(err).Str("job_id", jobID).Msg("Failed to get job errors")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get errors"})
		return
	}

	if c.Query("format") == "csv" {
		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=errors_%s.csv", jobID))
		writer := csv.NewWriter(c.Writer)
		writer.Write([]string{"line", "field", "message", "value"})
		for _, e := range errs {
			value := ""
			if e.Value != nil {
				value = fmt.Sprintf("%v", e.Value)
			}
			writer.Write([]string{strconv.Itoa(e.Line), e.Field, e.Message, value})
		}
		writer.Flush()
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"job_id":      jobID,
		"error_count": len(errs),
		"errors":      errs,
	})
}

// readUpload reads the multipart "file" field, bounded by MaxUploadSize.
// It writes the error response itself and reports false on failure.
func (h *ImportHandler) readUpload(c *gin.Context) (string, []byte, bool) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file upload is required"})
		return "", nil, false
	}
	defer file.Close()

	limit := h.cfg.Import.MaxUploadSize
	if header.Size > limit {
		h.writeError(c, service.ErrFileTooLarge, nil)
		return "", nil, false
	}

	// One byte past the limit is enough for the service to reject it
	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		h.log.Error().Err(err).Str("file", header.Filename).Msg("Failed to read upload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read file"})
		return "", nil, false
	}

	return header.Filename, data, true
}

// writeError maps import failures onto a single user-facing message
func (h *ImportHandler) writeError(c *gin.Context, err error, outcome *service.ImportOutcome) {
	switch {
	case errors.Is(err, service.ErrUnknownKind):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotCSV):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please select a CSV file"})
	case errors.Is(err, service.ErrFileTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error": fmt.Sprintf("file too large, max size is %d MB", h.cfg.Import.MaxUploadSize/(1024*1024)),
		})
	case errors.Is(err, service.ErrImportInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNoValidRecords):
		body := gin.H{"error": err.Error()}
		if outcome != nil && outcome.Job != nil {
			body["error"] = outcome.Job.Message
			body["job_id"] = outcome.Job.ID
			body["skipped"] = outcome.Job.SkippedCount
			body["reasons"] = outcome.Reasons
		}
		c.JSON(http.StatusUnprocessableEntity, body)
	default:
		h.log.Error().Err(err).Msg("Import failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to import file"})
	}
}
