package models

import (
	"time"

	"github.com/nayna-import-api/internal/importer"
)

// Side is the family a guest is invited through
type Side string

const (
	SideBride Side = "bride"
	SideGroom Side = "groom"
)

// RSVPStatus represents a guest's attendance answer
type RSVPStatus string

const (
	RSVPYes   RSVPStatus = "yes"
	RSVPNo    RSVPStatus = "no"
	RSVPMaybe RSVPStatus = "maybe"
)

// ValidSides defines allowed guest sides
var ValidSides = map[Side]bool{
	SideBride: true,
	SideGroom: true,
}

// ValidRSVP defines allowed RSVP answers
var ValidRSVP = map[RSVPStatus]bool{
	RSVPYes:   true,
	RSVPNo:    true,
	RSVPMaybe: true,
}

// Guest represents one invitee of a wedding instance
type Guest struct {
	ID           string     `json:"id" db:"id"`
	InstanceID   string     `json:"instanceId" db:"instance_id"`
	Name         string     `json:"name" db:"name"`
	Email        string     `json:"email" db:"email"`
	Phone        string     `json:"phone" db:"phone"`
	CountryCode  string     `json:"countryCode" db:"country_code"`
	Side         Side       `json:"side" db:"side"`
	Relationship string     `json:"relationship" db:"relationship"`
	RSVP         RSVPStatus `json:"rsvp" db:"rsvp"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
}

// GuestFromRecord converts an imported guest record
func GuestFromRecord(rec importer.Record) *Guest {
	return &Guest{
		Name:         rec.String(importer.GuestName),
		Email:        rec.String(importer.GuestEmail),
		Phone:        rec.String(importer.GuestPhone),
		CountryCode:  rec.String(importer.GuestCountryCode),
		Side:         Side(rec.String(importer.GuestSide)),
		Relationship: rec.String(importer.GuestRelationship),
		RSVP:         RSVPStatus(rec.String(importer.GuestRSVP)),
	}
}

// Row returns the guest's values in importer.GuestSchema header order
func (g *Guest) Row() []string {
	return []string{
		g.Name, g.Email, g.Phone, g.CountryCode,
		string(g.Side), g.Relationship, string(g.RSVP),
	}
}
