package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nayna-import-api/internal/models"
	"github.com/nayna-import-api/internal/service"
	"github.com/rs/zerolog"
)

// RosterHandler serves the guest and room lists edited in the console
type RosterHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewRosterHandler creates a new RosterHandler
func NewRosterHandler(services *service.Services, log zerolog.Logger) *RosterHandler {
	return &RosterHandler{
		services: services,
		log:      log.With().Str("handler", "roster").Logger(),
	}
}

// ListGuests handles GET /v1/instances/:instance_id/guests
func (h *RosterHandler) ListGuests(c *gin.Context) {
	guests, err := h.services.Roster.ListGuests(c.Request.Context(), c.Param("instance_id"))
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list guests")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load guests"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"guests": guests})
}

// ReplaceGuests handles PUT /v1/instances/:instance_id/guests
func (h *RosterHandler) ReplaceGuests(c *gin.Context) {
	var guests []*models.Guest
	if err := bindList(c, &guests); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body must be a JSON array of guests"})
		return
	}

	n, err := h.services.Roster.ReplaceGuests(c.Request.Context(), c.Param("instance_id"), guests)
	if err != nil {
		h.writeError(c, err, "Failed to save guests")
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": n, "message": "Guests saved"})
}

// ListRooms handles GET /v1/instances/:instance_id/rooms
func (h *RosterHandler) ListRooms(c *gin.Context) {
	rooms, err := h.services.Roster.ListRooms(c.Request.Context(), c.Param("instance_id"))
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list rooms")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load rooms"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rooms": rooms})
}

// ReplaceRooms handles PUT /v1/instances/:instance_id/rooms
func (h *RosterHandler) ReplaceRooms(c *gin.Context) {
	var rooms []*models.Room
	if err := bindList(c, &rooms); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body must be a JSON array of rooms"})
		return
	}

	n, err := h.services.Roster.ReplaceRooms(c.Request.Context(), c.Param("instance_id"), rooms)
	if err != nil {
		h.writeError(c, err, "Failed to save rooms")
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": n, "message": "Rooms saved"})
}

func (h *RosterHandler) writeError(c *gin.Context, err error, msg string) {
	var invalid *service.InvalidRecordsError
	if errors.As(err, &invalid) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "validation failed",
			"errors": invalid.Errors,
		})
		return
	}
	h.log.Error().Err(err).Str("instance_id", c.Param("instance_id")).Msg(msg)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}

// bindList decodes a JSON array body. gin's binding validator walks slice
// elements and panics on a null pointer, so the body is decoded directly and
// null entries are left for the roster service to report per record.
func bindList(c *gin.Context, dst any) error {
	return json.NewDecoder(c.Request.Body).Decode(dst)
}
