package repository

import (
	"context"

	"github.com/nayna-import-api/internal/database"
	"github.com/nayna-import-api/internal/models"
)

// GuestRepository defines the interface for guest list storage
type GuestRepository interface {
	ReplaceForInstance(ctx context.Context, instanceID string, guests []*models.Guest) (int, error)
	ListByInstance(ctx context.Context, instanceID string) ([]*models.Guest, error)
	StreamByInstance(ctx context.Context, instanceID string, callback func(*models.Guest) error) error
	Count(ctx context.Context) (int, error)
}

// RoomRepository defines the interface for room allocation storage
type RoomRepository interface {
	ReplaceForInstance(ctx context.Context, instanceID string, rooms []*models.Room) (int, error)
	ListByInstance(ctx context.Context, instanceID string) ([]*models.Room, error)
	StreamByInstance(ctx context.Context, instanceID string, callback func(*models.Room) error) error
	Count(ctx context.Context) (int, error)
}

// JobRepository defines the interface for import job history
type JobRepository interface {
	Create(ctx context.Context, job *models.Job) error
	Update(ctx context.Context, job *models.Job) error
	GetByID(ctx context.Context, id string) (*models.Job, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*models.Job, error)
	ListByInstance(ctx context.Context, instanceID string, limit int) ([]*models.Job, error)
	AddErrors(ctx context.Context, jobID string, errors []models.ValidationError) error
	GetErrors(ctx context.Context, jobID string, limit int) ([]models.ValidationError, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	Guest GuestRepository
	Room  RoomRepository
	Job   JobRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		Guest: NewGuestRepo(db),
		Room:  NewRoomRepo(db),
		Job:   NewJobRepo(db),
	}
}
