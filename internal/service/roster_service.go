package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nayna-import-api/internal/importer"
	"github.com/nayna-import-api/internal/models"
	"github.com/nayna-import-api/internal/repository"
	"github.com/nayna-import-api/internal/validation"
	"github.com/rs/zerolog"
)

// rosterService is the concrete implementation of RosterService
type rosterService struct {
	repos *repository.Repositories
	log   zerolog.Logger
}

// newRosterService creates a new RosterService
func newRosterService(repos *repository.Repositories, log zerolog.Logger) *rosterService {
	return &rosterService{
		repos: repos,
		log:   log.With().Str("service", "roster").Logger(),
	}
}

// ListGuests returns an instance's guests in list order
func (s *rosterService) ListGuests(ctx context.Context, instanceID string) ([]*models.Guest, error) {
	return s.repos.Guest.ListByInstance(ctx, instanceID)
}

// ReplaceGuests validates and stores a full guest list. Empty enum and
// country code fields take the same defaults an import would give them.
// The list is rejected as a whole if any guest is invalid.
func (s *rosterService) ReplaceGuests(ctx context.Context, instanceID string, guests []*models.Guest) (int, error) {
	validator := validation.NewValidator()
	var invalid []models.ValidationError
	now := time.Now()

	for i, g := range guests {
		if g == nil {
			invalid = append(invalid, nullRecord(i+1))
			continue
		}
		g.Name = strings.TrimSpace(g.Name)
		if g.CountryCode == "" {
			g.CountryCode = importer.DefaultCountryCode
		}
		if g.Side == "" {
			g.Side = models.SideBride
		}
		if g.RSVP == "" {
			g.RSVP = models.RSVPMaybe
		}

		errs := validator.ValidateGuest(g)
		invalid = appendValidation(invalid, i+1, errs)

		if g.ID == "" {
			g.ID = uuid.New().String()
		}
		g.InstanceID = instanceID
		g.CreatedAt = now
	}

	if len(invalid) > 0 {
		return 0, &InvalidRecordsError{Errors: invalid}
	}

	n, err := s.repos.Guest.ReplaceForInstance(ctx, instanceID, guests)
	if err != nil {
		return 0, err
	}
	s.log.Info().Str("instance_id", instanceID).Int("count", n).Msg("Guests saved")
	return n, nil
}

// ListRooms returns an instance's rooms in list order
func (s *rosterService) ListRooms(ctx context.Context, instanceID string) ([]*models.Room, error) {
	return s.repos.Room.ListByInstance(ctx, instanceID)
}

// ReplaceRooms validates and stores a full room list
func (s *rosterService) ReplaceRooms(ctx context.Context, instanceID string, rooms []*models.Room) (int, error) {
	validator := validation.NewValidator()
	var invalid []models.ValidationError
	now := time.Now()

	for i, r := range rooms {
		if r == nil {
			invalid = append(invalid, nullRecord(i+1))
			continue
		}
		if r.GuestIDs == nil {
			r.GuestIDs = []string{}
		}

		errs := validator.ValidateRoom(r)
		invalid = appendValidation(invalid, i+1, errs)
		if len(errs) == 0 {
			validator.AddRoom(r)
		}

		if r.ID == "" {
			r.ID = uuid.New().String()
		}
		r.InstanceID = instanceID
		r.CreatedAt = now
	}

	if len(invalid) > 0 {
		return 0, &InvalidRecordsError{Errors: invalid}
	}

	n, err := s.repos.Room.ReplaceForInstance(ctx, instanceID, rooms)
	if err != nil {
		return 0, err
	}
	s.log.Info().Str("instance_id", instanceID).Int("count", n).Msg("Rooms saved")
	return n, nil
}

// nullRecord reports a JSON null in place of a record
func nullRecord(position int) models.ValidationError {
	return models.ValidationError{Line: position, Message: "record must be an object"}
}

// appendValidation tags errs with the record's 1-based position
func appendValidation(dst []models.ValidationError, position int, errs []validation.ValidationError) []models.ValidationError {
	for _, e := range errs {
		dst = append(dst, models.ValidationError{
			Line:    position,
			Field:   e.Field,
			Message: e.Message,
			Value:   e.Value,
		})
	}
	return dst
}
