package mocks

import (
	"context"
	"net/http"
	"strings"

	"github.com/nayna-import-api/internal/importer"
	"github.com/nayna-import-api/internal/models"
	"github.com/nayna-import-api/internal/service"
)

// MockImportService is a mock implementation of ImportService
type MockImportService struct {
	ImportFunc  func(ctx context.Context, req *models.ImportRequest, data []byte) (*service.ImportOutcome, error)
	PreviewFunc func(ctx context.Context, kind, fileName string, data []byte) (*importer.Result, error)
	Requests    []*models.ImportRequest
	Uploads     [][]byte
}

// Verify interface compliance
var _ service.ImportService = (*MockImportService)(nil)

func NewMockImportService() *MockImportService {
	return &MockImportService{
		Requests: make([]*models.ImportRequest, 0),
	}
}

func (m *MockImportService) Import(ctx context.Context, req *models.ImportRequest, data []byte) (*service.ImportOutcome, error) {
	m.Requests = append(m.Requests, req)
	m.Uploads = append(m.Uploads, data)
	if m.ImportFunc != nil {
		return m.ImportFunc(ctx, req, data)
	}
	return &service.ImportOutcome{Job: &models.Job{
		ID:         "test-job-id",
		InstanceID: req.InstanceID,
		Kind:       req.Kind,
		FileName:   req.FileName,
		Status:     models.JobStatusCompleted,
	}}, nil
}

func (m *MockImportService) Preview(ctx context.Context, kind, fileName string, data []byte) (*importer.Result, error) {
	if m.PreviewFunc != nil {
		return m.PreviewFunc(ctx, kind, fileName, data)
	}
	return &importer.Result{Records: []importer.Record{}}, nil
}

// MockExportService is a mock implementation of ExportService
type MockExportService struct {
	StreamFunc func(ctx context.Context, w http.ResponseWriter, req *models.ExportRequest) error
	Counts     map[string]int
	Streamed   []*models.ExportRequest
}

// Verify interface compliance
var _ service.ExportService = (*MockExportService)(nil)

func NewMockExportService() *MockExportService {
	return &MockExportService{
		Counts: map[string]int{
			importer.KindGuests: 0,
			importer.KindRooms:  0,
		},
	}
}

func (m *MockExportService) Stream(ctx context.Context, w http.ResponseWriter, req *models.ExportRequest) error {
	m.Streamed = append(m.Streamed, req)
	if m.StreamFunc != nil {
		return m.StreamFunc(ctx, w, req)
	}
	return nil
}

func (m *MockExportService) Template(kind string) ([]byte, error) {
	schema, ok := importer.Lookup(kind)
	if !ok {
		return nil, service.ErrUnknownKind
	}
	return []byte(strings.Join(schema.Headers(), ",") + "\n"), nil
}

func (m *MockExportService) GetCount(ctx context.Context, kind string) (int, error) {
	n, ok := m.Counts[kind]
	if !ok {
		return 0, service.ErrUnknownKind
	}
	return n, nil
}

// MockJobService is a mock implementation of JobService
type MockJobService struct {
	Jobs   map[string]*models.JobResponse
	Errors map[string][]models.ValidationError
}

// Verify interface compliance
var _ service.JobService = (*MockJobService)(nil)

func NewMockJobService() *MockJobService {
	return &MockJobService{
		Jobs:   make(map[string]*models.JobResponse),
		Errors: make(map[string][]models.ValidationError),
	}
}

func (m *MockJobService) GetJob(ctx context.Context, id string) (*models.JobResponse, error) {
	return m.Jobs[id], nil
}

func (m *MockJobService) GetJobByIdempotencyKey(ctx context.Context, key string) (*models.Job, error) {
	for _, job := range m.Jobs {
		if job.IdempotencyKey == key {
			return &job.Job, nil
		}
	}
	return nil, nil
}

func (m *MockJobService) GetJobErrors(ctx context.Context, id string) ([]models.ValidationError, error) {
	return m.Errors[id], nil
}

func (m *MockJobService) ListJobs(ctx context.Context, instanceID string, limit int) ([]*models.Job, error) {
	jobs := make([]*models.Job, 0)
	for _, job := range m.Jobs {
		if job.InstanceID == instanceID {
			j := job.Job
			jobs = append(jobs, &j)
		}
	}
	return jobs, nil
}

// MockRosterService is a mock implementation of RosterService
type MockRosterService struct {
	Guests       map[string][]*models.Guest
	Rooms        map[string][]*models.Room
	ReplaceError error
}

// Verify interface compliance
var _ service.RosterService = (*MockRosterService)(nil)

func NewMockRosterService() *MockRosterService {
	return &MockRosterService{
		Guests: make(map[string][]*models.Guest),
		Rooms:  make(map[string][]*models.Room),
	}
}

func (m *MockRosterService) ListGuests(ctx context.Context, instanceID string) ([]*models.Guest, error) {
	return append([]*models.Guest{}, m.Guests[instanceID]...), nil
}

func (m *MockRosterService) ReplaceGuests(ctx context.Context, instanceID string, guests []*models.Guest) (int, error) {
	if m.ReplaceError != nil {
		return 0, m.ReplaceError
	}
	m.Guests[instanceID] = guests
	return len(guests), nil
}

func (m *MockRosterService) ListRooms(ctx context.Context, instanceID string) ([]*models.Room, error) {
	return append([]*models.Room{}, m.Rooms[instanceID]...), nil
}

func (m *MockRosterService) ReplaceRooms(ctx context.Context, instanceID string, rooms []*models.Room) (int, error) {
	if m.ReplaceError != nil {
		return 0, m.ReplaceError
	}
	m.Rooms[instanceID] = rooms
	return len(rooms), nil
}
