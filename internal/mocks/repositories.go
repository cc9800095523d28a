package mocks

import (
	"context"
	"fmt"
	"sort"

	"github.com/nayna-import-api/internal/models"
	"github.com/nayna-import-api/internal/repository"
)

// Verify interface compliance
var (
	_ repository.GuestRepository = (*MockGuestRepository)(nil)
	_ repository.RoomRepository  = (*MockRoomRepository)(nil)
	_ repository.JobRepository   = (*MockJobRepository)(nil)
)

// MockGuestRepository is a mock implementation of GuestRepository
type MockGuestRepository struct {
	Guests       map[string][]*models.Guest // by instance
	ReplaceError error
	ReplaceCalls int
}

func NewMockGuestRepository() *MockGuestRepository {
	return &MockGuestRepository{
		Guests: make(map[string][]*models.Guest),
	}
}

func (m *MockGuestRepository) ReplaceForInstance(ctx context.Context, instanceID string, guests []*models.Guest) (int, error) {
	m.ReplaceCalls++
	if m.ReplaceError != nil {
		return 0, m.ReplaceError
	}
	m.Guests[instanceID] = append([]*models.Guest(nil), guests...)
	return len(guests), nil
}

func (m *MockGuestRepository) ListByInstance(ctx context.Context, instanceID string) ([]*models.Guest, error) {
	return append([]*models.Guest{}, m.Guests[instanceID]...), nil
}

func (m *MockGuestRepository) StreamByInstance(ctx context.Context, instanceID string, callback func(*models.Guest) error) error {
	for _, g := range m.Guests[instanceID] {
		if err := callback(g); err != nil {
			return err
		}
	}
	return nil
}

func (m *MockGuestRepository) Count(ctx context.Context) (int, error) {
	n := 0
	for _, guests := range m.Guests {
		n += len(guests)
	}
	return n, nil
}

// MockRoomRepository is a mock implementation of RoomRepository
type MockRoomRepository struct {
	Rooms        map[string][]*models.Room // by instance
	ReplaceError error
	ReplaceCalls int
}

func NewMockRoomRepository() *MockRoomRepository {
	return &MockRoomRepository{
		Rooms: make(map[string][]*models.Room),
	}
}

func (m *MockRoomRepository) ReplaceForInstance(ctx context.Context, instanceID string, rooms []*models.Room) (int, error) {
	m.ReplaceCalls++
	if m.ReplaceError != nil {
		return 0, m.ReplaceError
	}
	m.Rooms[instanceID] = append([]*models.Room(nil), rooms...)
	return len(rooms), nil
}

func (m *MockRoomRepository) ListByInstance(ctx context.Context, instanceID string) ([]*models.Room, error) {
	return append([]*models.Room{}, m.Rooms[instanceID]...), nil
}

func (m *MockRoomRepository) StreamByInstance(ctx context.Context, instanceID string, callback func(*models.Room) error) error {
	for _, r := range m.Rooms[instanceID] {
		if err := callback(r); err != nil {
			return err
		}
	}
	return nil
}

func (m *MockRoomRepository) Count(ctx context.Context) (int, error) {
	n := 0
	for _, rooms := range m.Rooms {
		n += len(rooms)
	}
	return n, nil
}

// MockJobRepository is a mock implementation of JobRepository
type MockJobRepository struct {
	Jobs            map[string]*models.Job
	IdempotencyJobs map[string]*models.Job
	Errors          map[string][]models.ValidationError
	CreateError     error
	UpdateError     error
	GetError        error
	UpdateCalls     int
}

func NewMockJobRepository() *MockJobRepository {
	return &MockJobRepository{
		Jobs:            make(map[string]*models.Job),
		IdempotencyJobs: make(map[string]*models.Job),
		Errors:          make(map[string][]models.ValidationError),
	}
}

func (m *MockJobRepository) Create(ctx context.Context, job *models.Job) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	if job.IdempotencyKey != "" {
		if _, taken := m.IdempotencyJobs[job.IdempotencyKey]; taken {
			return fmt.Errorf("duplicate idempotency key %q", job.IdempotencyKey)
		}
		m.IdempotencyJobs[job.IdempotencyKey] = job
	}
	m.Jobs[job.ID] = job
	return nil
}

func (m *MockJobRepository) Update(ctx context.Context, job *models.Job) error {
	m.UpdateCalls++
	if m.UpdateError != nil {
		return m.UpdateError
	}
	if _, ok := m.Jobs[job.ID]; !ok {
		return fmt.Errorf("job %s not found", job.ID)
	}
	for key, held := range m.IdempotencyJobs {
		if held.ID == job.ID && key != job.IdempotencyKey {
			delete(m.IdempotencyJobs, key)
		}
	}
	m.Jobs[job.ID] = job
	return nil
}

func (m *MockJobRepository) GetByID(ctx context.Context, id string) (*models.Job, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	return m.Jobs[id], nil
}

func (m *MockJobRepository) GetByIdempotencyKey(ctx context.Context, key string) (*models.Job, error) {
	return m.IdempotencyJobs[key], nil
}

func (m *MockJobRepository) ListByInstance(ctx context.Context, instanceID string, limit int) ([]*models.Job, error) {
	jobs := make([]*models.Job, 0)
	for _, job := range m.Jobs {
		if job.InstanceID == instanceID {
			jobs = append(jobs, job)
		}
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].CreatedAt.After(jobs[j].CreatedAt) })
	if limit > 0 && len(jobs) > limit {
		jobs = jobs[:limit]
	}
	return jobs, nil
}

func (m *MockJobRepository) AddErrors(ctx context.Context, jobID string, errors []models.ValidationError) error {
	m.Errors[jobID] = append(m.Errors[jobID], errors...)
	return nil
}

func (m *MockJobRepository) GetErrors(ctx context.Context, jobID string, limit int) ([]models.ValidationError, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	errors := m.Errors[jobID]
	if limit > 0 && len(errors) > limit {
		return errors[:limit], nil
	}
	return errors, nil
}

// NewMockRepositories wires fresh mocks into a Repositories value
func NewMockRepositories() (*repository.Repositories, *MockGuestRepository, *MockRoomRepository, *MockJobRepository) {
	guests := NewMockGuestRepository()
	rooms := NewMockRoomRepository()
	jobs := NewMockJobRepository()
	return &repository.Repositories{Guest: guests, Room: rooms, Job: jobs}, guests, rooms, jobs
}
