package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/nayna-import-api/internal/config"
	"github.com/nayna-import-api/internal/importer"
	"github.com/nayna-import-api/internal/models"
	"github.com/nayna-import-api/internal/repository"
	"github.com/rs/zerolog"
)

var (
	// ErrNotCSV is returned for uploads whose filename does not end in .csv
	ErrNotCSV = importer.ErrNotCSV

	// ErrNoValidRecords is returned when an upload yields zero accepted records
	ErrNoValidRecords = errors.New("no valid records found in CSV file")

	// ErrUnknownKind is returned for a record kind with no registered schema
	ErrUnknownKind = errors.New("unknown record kind")

	// ErrFileTooLarge is returned when an upload exceeds Import.MaxUploadSize
	ErrFileTooLarge = errors.New("file exceeds upload size limit")

	// ErrImportInProgress is returned when a repeated idempotency key belongs
	// to an import that has not finished yet
	ErrImportInProgress = errors.New("import with this idempotency key is still in progress")

	// ErrUnsupportedFormat is returned for unknown export formats
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// InvalidRecordsError carries per-record validation failures from a roster save
type InvalidRecordsError struct {
	Errors []models.ValidationError
}

func (e *InvalidRecordsError) Error() string {
	return fmt.Sprintf("%d validation errors", len(e.Errors))
}

// ImportOutcome is the result of one upload
type ImportOutcome struct {
	Job      *models.Job           `json:"job"`
	Reasons  []importer.SkipReason `json:"reasons,omitempty"`
	Replayed bool                  `json:"replayed,omitempty"`
}

// ImportService defines the interface for import operations
type ImportService interface {
	Import(ctx context.Context, req *models.ImportRequest, data []byte) (*ImportOutcome, error)
	Preview(ctx context.Context, kind, fileName string, data []byte) (*importer.Result, error)
}

// ExportService defines the interface for export operations
type ExportService interface {
	Stream(ctx context.Context, w http.ResponseWriter, req *models.ExportRequest) error
	Template(kind string) ([]byte, error)
	GetCount(ctx context.Context, kind string) (int, error)
}

// JobService defines the interface for import history
type JobService interface {
	GetJob(ctx context.Context, id string) (*models.JobResponse, error)
	GetJobByIdempotencyKey(ctx context.Context, key string) (*models.Job, error)
	GetJobErrors(ctx context.Context, id string) ([]models.ValidationError, error)
	ListJobs(ctx context.Context, instanceID string, limit int) ([]*models.Job, error)
}

// RosterService defines the interface for the form-save path
type RosterService interface {
	ListGuests(ctx context.Context, instanceID string) ([]*models.Guest, error)
	ReplaceGuests(ctx context.Context, instanceID string, guests []*models.Guest) (int, error)
	ListRooms(ctx context.Context, instanceID string) ([]*models.Room, error)
	ReplaceRooms(ctx context.Context, instanceID string, rooms []*models.Room) (int, error)
}

// Services holds all service interfaces
type Services struct {
	Import ImportService
	Export ExportService
	Job    JobService
	Roster RosterService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, cfg *config.Config, log zerolog.Logger) *Services {
	return &Services{
		Import: newImportService(repos, cfg, log),
		Export: newExportService(repos, log),
		Job:    newJobService(repos.Job, log),
		Roster: newRosterService(repos, log),
	}
}

func lookupSchema(kind string) (*importer.Schema, error) {
	schema, ok := importer.Lookup(kind)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	return schema, nil
}
