package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nayna-import-api/internal/models"
)

var (
	emailRegex       = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	countryCodeRegex = regexp.MustCompile(`^\+[0-9]{1,4}$`)
	phoneRegex       = regexp.MustCompile(`^[0-9 ()+-]{3,20}$`)
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Validator checks roster records submitted through the console forms.
// It remembers room keys it has accepted so duplicates within one
// submission are reported.
type Validator struct {
	roomKeyCache map[string]bool
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{
		roomKeyCache: make(map[string]bool),
	}
}

// AddRoom adds a room to the uniqueness cache
func (v *Validator) AddRoom(room *models.Room) {
	v.roomKeyCache[roomKey(room)] = true
}

// ValidateGuest validates a guest record
func (v *Validator) ValidateGuest(guest *models.Guest) []ValidationError {
	var errors []ValidationError

	if guest.ID != "" && !isValidUUID(guest.ID) {
		errors = append(errors, ValidationError{Field: "id", Message: "invalid UUID format", Value: guest.ID})
	}

	if strings.TrimSpace(guest.Name) == "" {
		errors = append(errors, ValidationError{Field: "name", Message: "name is required"})
	}

	if guest.Email != "" && !emailRegex.MatchString(guest.Email) {
		errors = append(errors, ValidationError{Field: "email", Message: "invalid email format", Value: guest.Email})
	}

	if guest.Phone != "" && !phoneRegex.MatchString(guest.Phone) {
		errors = append(errors, ValidationError{Field: "phone", Message: "invalid phone number", Value: guest.Phone})
	}

	if guest.CountryCode != "" && !countryCodeRegex.MatchString(guest.CountryCode) {
		errors = append(errors, ValidationError{Field: "countryCode", Message: "country code must look like +91", Value: guest.CountryCode})
	}

	if guest.Side != "" && !models.ValidSides[guest.Side] {
		errors = append(errors, ValidationError{
			Field:   "side",
			Message: "invalid side, must be one of: bride, groom",
			Value:   string(guest.Side),
		})
	}

	if guest.RSVP != "" && !models.ValidRSVP[guest.RSVP] {
		errors = append(errors, ValidationError{
			Field:   "rsvp",
			Message: "invalid rsvp, must be one of: yes, no, maybe",
			Value:   string(guest.RSVP),
		})
	}

	return errors
}

// ValidateRoom validates a room record
func (v *Validator) ValidateRoom(room *models.Room) []ValidationError {
	var errors []ValidationError

	if room.ID != "" && !isValidUUID(room.ID) {
		errors = append(errors, ValidationError{Field: "id", Message: "invalid UUID format", Value: room.ID})
	}

	if strings.TrimSpace(room.RoomNumber) == "" {
		errors = append(errors, ValidationError{Field: "roomNumber", Message: "roomNumber is required"})
	}
	if strings.TrimSpace(room.HotelName) == "" {
		errors = append(errors, ValidationError{Field: "hotelName", Message: "hotelName is required"})
	}
	if room.RoomNumber != "" && room.HotelName != "" && v.roomKeyCache[roomKey(room)] {
		errors = append(errors, ValidationError{
			Field:   "roomNumber",
			Message: fmt.Sprintf("duplicate room in %s", room.HotelName),
			Value:   room.RoomNumber,
		})
	}

	checkIn, inErr := parseOptional(dateLayout, room.CheckInDate)
	if inErr != nil {
		errors = append(errors, ValidationError{Field: "checkInDate", Message: "date must be YYYY-MM-DD", Value: room.CheckInDate})
	}
	checkOut, outErr := parseOptional(dateLayout, room.CheckOutDate)
	if outErr != nil {
		errors = append(errors, ValidationError{Field: "checkOutDate", Message: "date must be YYYY-MM-DD", Value: room.CheckOutDate})
	}
	if inErr == nil && outErr == nil && !checkIn.IsZero() && !checkOut.IsZero() && checkOut.Before(checkIn) {
		errors = append(errors, ValidationError{Field: "checkOutDate", Message: "check-out must not be before check-in", Value: room.CheckOutDate})
	}

	if _, err := parseOptional(timeLayout, room.CheckInTime); err != nil {
		errors = append(errors, ValidationError{Field: "checkInTime", Message: "time must be HH:MM", Value: room.CheckInTime})
	}
	if _, err := parseOptional(timeLayout, room.CheckOutTime); err != nil {
		errors = append(errors, ValidationError{Field: "checkOutTime", Message: "time must be HH:MM", Value: room.CheckOutTime})
	}

	for _, id := range room.GuestIDs {
		if strings.TrimSpace(id) == "" {
			errors = append(errors, ValidationError{Field: "guestIds", Message: "guest id must not be blank"})
			break
		}
	}

	return errors
}

func parseOptional(layout, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(layout, s)
}

func roomKey(room *models.Room) string {
	return strings.ToLower(strings.TrimSpace(room.HotelName)) + "\x00" + strings.ToLower(strings.TrimSpace(room.RoomNumber))
}

// isValidUUID checks if a string is a valid UUID
func isValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
