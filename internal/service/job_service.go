package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/nayna-import-api/internal/models"
	"github.com/nayna-import-api/internal/repository"
	"github.com/rs/zerolog"
)

// errorPreviewLimit bounds the skip reasons embedded in a job response
const errorPreviewLimit = 100

// jobService is the concrete implementation of JobService
type jobService struct {
	jobRepo repository.JobRepository
	log     zerolog.Logger
}

// newJobService creates a new JobService
func newJobService(jobRepo repository.JobRepository, log zerolog.Logger) *jobService {
	return &jobService{
		jobRepo: jobRepo,
		log:     log.With().Str("service", "job").Logger(),
	}
}

// GetJob retrieves a job by ID with its first skip reasons
// An id that is not a UUID cannot name a job and reports not found.
func (s *jobService) GetJob(ctx context.Context, id string) (*models.JobResponse, error) {
	if !isJobID(id) {
		return nil, nil
	}

	job, err := s.jobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, nil
	}

	errors, err := s.jobRepo.GetErrors(ctx, id, errorPreviewLimit)
	if err != nil {
		s.log.Error().Err(err).Str("job_id", id).Msg("Failed to get job errors")
	}

	response := &models.JobResponse{
		Job:        *job,
		Errors:     errors,
		ErrorCount: job.SkippedCount,
	}

	if job.SkippedCount > 0 {
		response.ErrorReport = "/v1/imports/" + job.ID + "/errors"
	}

	return response, nil
}

// GetJobByIdempotencyKey retrieves a job by idempotency key
func (s *jobService) GetJobByIdempotencyKey(ctx context.Context, key string) (*models.Job, error) {
	return s.jobRepo.GetByIdempotencyKey(ctx, key)
}

// GetJobErrors retrieves all skip reasons recorded for a job
func (s *jobService) GetJobErrors(ctx context.Context, id string) ([]models.ValidationError, error) {
	if !isJobID(id) {
		return []models.ValidationError{}, nil
	}
	return s.jobRepo.GetErrors(ctx, id, 0)
}

// ListJobs returns an instance's import history, newest first
func (s *jobService) ListJobs(ctx context.Context, instanceID string, limit int) ([]*models.Job, error) {
	return s.jobRepo.ListByInstance(ctx, instanceID, limit)
}

func isJobID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
