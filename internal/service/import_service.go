package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nayna-import-api/internal/config"
	"github.com/nayna-import-api/internal/importer"
	"github.com/nayna-import-api/internal/models"
	"github.com/nayna-import-api/internal/observability"
	"github.com/nayna-import-api/internal/repository"
	"github.com/rs/zerolog"
)

// importService is the concrete implementation of ImportService
type importService struct {
	repos *repository.Repositories
	cfg   *config.Config
	log   zerolog.Logger
	now   func() time.Time
}

// newImportService creates a new ImportService
func newImportService(repos *repository.Repositories, cfg *config.Config, log zerolog.Logger) *importService {
	return &importService{
		repos: repos,
		cfg:   cfg,
		log:   log.With().Str("service", "import").Logger(),
		now:   time.Now,
	}
}

// Import parses an uploaded file and replaces the instance's records of
// that kind with the accepted rows. Nothing is written when no row is
// accepted. A repeated idempotency key returns the first job unchanged.
func (s *importService) Import(ctx context.Context, req *models.ImportRequest, data []byte) (*ImportOutcome, error) {
	schema, err := lookupSchema(req.Kind)
	if err != nil {
		return nil, err
	}

	if req.IdempotencyKey != "" {
		existing, err := s.repos.Job.GetByIdempotencyKey(ctx, req.IdempotencyKey)
		if err != nil {
			return nil, fmt.Errorf("lookup idempotency key: %w", err)
		}
		if existing != nil {
			return s.replay(existing, req.IdempotencyKey)
		}
	}

	start := s.now()
	res, err := s.parse(schema, req.FileName, data)
	if err != nil {
		return nil, err
	}

	job := &models.Job{
		ID:             uuid.New().String(),
		InstanceID:     req.InstanceID,
		Kind:           req.Kind,
		IdempotencyKey: req.IdempotencyKey,
		FileName:       req.FileName,
		TotalRows:      len(res.Records) + res.Skipped,
		AcceptedCount:  len(res.Records),
		SkippedCount:   res.Skipped,
		CreatedAt:      start,
	}
	outcome := &ImportOutcome{Job: job, Reasons: res.Reasons}

	if res.Empty() {
		job.CompletedAt = s.completedAt()
		job.Status = models.JobStatusFailed
		job.Message = fmt.Sprintf("No valid %s data found in CSV file", importer.Noun(req.Kind))
		s.finish(ctx, job, res.Reasons, s.repos.Job.Create)
		return outcome, ErrNoValidRecords
	}

	// The job holds the idempotency key while the replace runs
	job.Status = models.JobStatusProcessing
	if err := s.repos.Job.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("record import job: %w", err)
	}

	var stored int
	switch req.Kind {
	case importer.KindGuests:
		stored, err = s.repos.Guest.ReplaceForInstance(ctx, req.InstanceID, s.guests(req.InstanceID, res.Records))
	case importer.KindRooms:
		stored, err = s.repos.Room.ReplaceForInstance(ctx, req.InstanceID, s.rooms(req.InstanceID, res.Records))
	}
	job.CompletedAt = s.completedAt()
	if err != nil {
		s.log.Error().Err(err).Str("job_id", job.ID).Str("kind", req.Kind).Msg("Failed to store imported records")
		job.Status = models.JobStatusFailed
		job.AcceptedCount = 0
		job.Message = fmt.Sprintf("Failed to save %ss", importer.Noun(req.Kind))
		// Release the key so a retry runs the import again
		job.IdempotencyKey = ""
		s.finish(ctx, job, res.Reasons, s.repos.Job.Update)
		return outcome, fmt.Errorf("store %s: %w", req.Kind, err)
	}

	job.Status = models.JobStatusCompleted
	job.AcceptedCount = stored
	job.Message = fmt.Sprintf("Successfully imported %d %ss from CSV", stored, importer.Noun(req.Kind))
	s.finish(ctx, job, res.Reasons, s.repos.Job.Update)

	return outcome, nil
}

// replay answers a repeated idempotency key with the job it first produced.
// Failed jobs only keep their key when no row was valid.
func (s *importService) replay(existing *models.Job, key string) (*ImportOutcome, error) {
	s.log.Info().
		Str("job_id", existing.ID).
		Str("idempotency_key", key).
		Str("status", string(existing.Status)).
		Msg("Returning existing import job")

	outcome := &ImportOutcome{Job: existing, Replayed: true}
	switch existing.Status {
	case models.JobStatusProcessing:
		return outcome, ErrImportInProgress
	case models.JobStatusFailed:
		return outcome, ErrNoValidRecords
	}
	return outcome, nil
}

// Preview parses an upload without storing anything
func (s *importService) Preview(ctx context.Context, kind, fileName string, data []byte) (*importer.Result, error) {
	schema, err := lookupSchema(kind)
	if err != nil {
		return nil, err
	}
	res, err := s.parse(schema, fileName, data)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// parse runs the filename check, size limit, decode and schema mapping.
// The filename is checked first so a non-CSV upload is never decoded.
func (s *importService) parse(schema *importer.Schema, fileName string, data []byte) (importer.Result, error) {
	if err := importer.CheckFilename(fileName); err != nil {
		return importer.Result{}, err
	}
	if int64(len(data)) > s.cfg.Import.MaxUploadSize {
		return importer.Result{}, fmt.Errorf("%w: %d bytes, limit %d", ErrFileTooLarge, len(data), s.cfg.Import.MaxUploadSize)
	}

	text, err := importer.Decode(data)
	if err != nil {
		return importer.Result{}, fmt.Errorf("decode %s: %w", fileName, err)
	}

	return importer.ParseWithOptions(text, schema, importer.Options{
		MaxRows:        s.cfg.Import.MaxRows,
		CollectReasons: s.cfg.Import.CollectReasons,
		MaxReasons:     s.cfg.Import.ErrorLimit,
	}), nil
}

// finish saves the job through persist with its skip reasons and records
// metrics. Storage failures here are logged; the import result itself stands.
func (s *importService) finish(ctx context.Context, job *models.Job, reasons []importer.SkipReason,
	persist func(context.Context, *models.Job) error) {
	job.DurationMs = job.CompletedAt.Sub(job.CreatedAt).Milliseconds()

	if err := persist(ctx, job); err != nil {
		s.log.Error().Err(err).Str("job_id", job.ID).Msg("Failed to record import job")
	} else if len(reasons) > 0 {
		if err := s.repos.Job.AddErrors(ctx, job.ID, reasonsToErrors(reasons)); err != nil {
			s.log.Error().Err(err).Str("job_id", job.ID).Int("count", len(reasons)).Msg("Failed to record skip reasons")
		}
	}

	observability.ObserveImport(job.Kind, string(job.Status), job.AcceptedCount, job.SkippedCount,
		job.CompletedAt.Sub(job.CreatedAt))

	event := s.log.Info()
	if job.Status == models.JobStatusFailed {
		event = s.log.Warn()
	}
	event.
		Str("job_id", job.ID).
		Str("instance_id", job.InstanceID).
		Str("kind", job.Kind).
		Str("file", job.FileName).
		Int("accepted", job.AcceptedCount).
		Int("skipped", job.SkippedCount).
		Int64("duration_ms", job.DurationMs).
		Msg(job.Message)
}

func (s *importService) completedAt() *time.Time {
	t := s.now()
	return &t
}

func (s *importService) guests(instanceID string, records []importer.Record) []*models.Guest {
	now := s.now()
	guests := make([]*models.Guest, len(records))
	for i, rec := range records {
		g := models.GuestFromRecord(rec)
		g.ID = uuid.New().String()
		g.InstanceID = instanceID
		g.CreatedAt = now
		guests[i] = g
	}
	return guests
}

func (s *importService) rooms(instanceID string, records []importer.Record) []*models.Room {
	now := s.now()
	rooms := make([]*models.Room, len(records))
	for i, rec := range records {
		r := models.RoomFromRecord(rec)
		r.ID = uuid.New().String()
		r.InstanceID = instanceID
		r.CreatedAt = now
		rooms[i] = r
	}
	return rooms
}

func reasonsToErrors(reasons []importer.SkipReason) []models.ValidationError {
	out := make([]models.ValidationError, len(reasons))
	for i, r := range reasons {
		out[i] = models.ValidationError{Line: r.Line, Field: r.Field, Message: r.Message}
	}
	return out
}
