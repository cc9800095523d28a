package importer

import "strings"

// Record kinds known to the console.
const (
	KindGuests = "guests"
	KindRooms  = "rooms"
)

// Noun returns the singular label of a kind for user-facing messages,
// as in "No valid guest data found".
func Noun(kind string) string {
	if len(kind) > 1 {
		return strings.TrimSuffix(kind, "s")
	}
	return kind
}

// Guest field keys.
const (
	GuestName         = "name"
	GuestEmail        = "email"
	GuestPhone        = "phone"
	GuestCountryCode  = "countryCode"
	GuestSide         = "side"
	GuestRelationship = "relationship"
	GuestRSVP         = "rsvp"
)

// Room field keys.
const (
	RoomNumber       = "roomNumber"
	RoomHotelName    = "hotelName"
	RoomType         = "roomType"
	RoomCheckInDate  = "checkInDate"
	RoomCheckInTime  = "checkInTime"
	RoomCheckOutDate = "checkOutDate"
	RoomCheckOutTime = "checkOutTime"
	RoomGuestIDs     = "guestIds"
	RoomNotes        = "notes"
)

// DefaultCountryCode is used for guests whose upload leaves the country code blank.
const DefaultCountryCode = "+1"

// GuestSchema maps guest-list uploads.
var GuestSchema = MustSchema(KindGuests,
	Field{Key: GuestName, Aliases: []string{"name"}, Required: true},
	Field{Key: GuestEmail, Aliases: []string{"email"}},
	Field{Key: GuestPhone, Aliases: []string{"phone"}},
	Field{
		Key:            GuestCountryCode,
		Aliases:        []string{"countrycode", "country_code"},
		Default:        DefaultCountryCode,
		DefaultOnEmpty: true,
	},
	Field{
		Key:        GuestSide,
		Aliases:    []string{"side"},
		Coerce:     CoerceEnum,
		EnumValues: []string{"bride", "groom"},
		Default:    "bride",
	},
	Field{Key: GuestRelationship, Aliases: []string{"relationship"}},
	Field{
		Key:        GuestRSVP,
		Aliases:    []string{"rsvp"},
		Coerce:     CoerceEnum,
		EnumValues: []string{"yes", "no", "maybe"},
		Default:    "maybe",
	},
)

// RoomSchema maps room-allocation uploads.
var RoomSchema = MustSchema(KindRooms,
	Field{Key: RoomNumber, Aliases: []string{"roomnumber", "room_number"}, Required: true},
	Field{Key: RoomHotelName, Aliases: []string{"hotelname", "hotel_name"}, Required: true},
	Field{Key: RoomType, Aliases: []string{"roomtype", "room_type"}},
	Field{Key: RoomCheckInDate, Aliases: []string{"checkindate", "check_in_date"}},
	Field{Key: RoomCheckInTime, Aliases: []string{"checkintime", "check_in_time"}},
	Field{Key: RoomCheckOutDate, Aliases: []string{"checkoutdate", "check_out_date"}},
	Field{Key: RoomCheckOutTime, Aliases: []string{"checkouttime", "check_out_time"}},
	Field{Key: RoomGuestIDs, Aliases: []string{"guestids", "guest_ids"}, Coerce: CoerceList},
	Field{Key: RoomNotes, Aliases: []string{"notes"}},
)

func init() {
	Register(GuestSchema)
	Register(RoomSchema)
}
