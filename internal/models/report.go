package models

import "time"

// RawMessage is a single inbound chat message as delivered by the messaging channel.
type RawMessage struct {
	SenderID string
	Text     string
}

// AddressParts holds the decomposed Japanese address components of a report.
type AddressParts struct {
	Prefecture     string `json:"prefecture"`
	Municipality   string `json:"municipality"`
	District       string `json:"district"`
	AddressDetails string `json:"address_details"`
}

// ExtractedFields is what the field extractor pulls out of a message body. A nil pointer means the label line was absent.
type ExtractedFields struct {
	Tags           []string
	OccurDate      *string
	Prefecture     *string
	Municipality   *string
	District       *string
	AddressDetails *string
	Summary        *string
}

// GeoPoint is a resolved coordinate pair.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ParsedReport is a fully validated and geocoded incident report that has not been stored yet.
type ParsedReport struct {
	SenderID      string
	Tags          []string
	OccurDateTime *time.Time
	Address       AddressParts
	Location      GeoPoint
	Summary       string
}

// MaxTagSlots is the number of tag columns a stored report carries.
const MaxTagSlots = 3

// Report is a stored incident report.
type Report struct {
	ID        int64      `json:"id"`
	UserID    string     `json:"user_id"`
	Tag1      string     `json:"tag1"`
	Tag2      string     `json:"tag2"`
	Tag3      string     `json:"tag3"`
	OccurDate *time.Time `json:"occur_date"`
	AddressParts
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Summary   string    `json:"summary"`
	Created   time.Time `json:"created"`
}

// NearbyReport is a stored report together with its distance from a query point.
type NearbyReport struct {
	Report
	DistanceMeters float64 `json:"distance_meters"`
}
