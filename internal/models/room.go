package models

import (
	"strings"
	"time"

	"github.com/nayna-import-api/internal/importer"
)

// Room represents one hotel room allocated to guests of an instance
type Room struct {
	ID           string    `json:"id" db:"id"`
	InstanceID   string    `json:"instanceId" db:"instance_id"`
	RoomNumber   string    `json:"roomNumber" db:"room_number"`
	HotelName    string    `json:"hotelName" db:"hotel_name"`
	RoomType     string    `json:"roomType" db:"room_type"`
	CheckInDate  string    `json:"checkInDate" db:"check_in_date"`
	CheckInTime  string    `json:"checkInTime" db:"check_in_time"`
	CheckOutDate string    `json:"checkOutDate" db:"check_out_date"`
	CheckOutTime string    `json:"checkOutTime" db:"check_out_time"`
	GuestIDs     []string  `json:"guestIds" db:"guest_ids"`
	Notes        string    `json:"notes" db:"notes"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// RoomFromRecord converts an imported room record
func RoomFromRecord(rec importer.Record) *Room {
	ids := rec.List(importer.RoomGuestIDs)
	if ids == nil {
		ids = []string{}
	}
	return &Room{
		RoomNumber:   rec.String(importer.RoomNumber),
		HotelName:    rec.String(importer.RoomHotelName),
		RoomType:     rec.String(importer.RoomType),
		CheckInDate:  rec.String(importer.RoomCheckInDate),
		CheckInTime:  rec.String(importer.RoomCheckInTime),
		CheckOutDate: rec.String(importer.RoomCheckOutDate),
		CheckOutTime: rec.String(importer.RoomCheckOutTime),
		GuestIDs:     ids,
		Notes:        rec.String(importer.RoomNotes),
	}
}

// Row returns the room's values in importer.RoomSchema header order
func (r *Room) Row() []string {
	return []string{
		r.RoomNumber, r.HotelName, r.RoomType,
		r.CheckInDate, r.CheckInTime, r.CheckOutDate, r.CheckOutTime,
		strings.Join(r.GuestIDs, importer.DefaultListSeparator), r.Notes,
	}
}
