package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Coordinates is a WGS-84 point.
type Coordinates struct {
	Latitude  float64 `bson:"latitude" json:"latitude"`
	Longitude float64 `bson:"longitude" json:"longitude"`
}

// LocationPoint is a named, geocoded place (name is the geocoder's formatted address).
type LocationPoint struct {
	Name        string      `bson:"name" json:"name"`
	Coordinates Coordinates `bson:"coordinates" json:"coordinates"`
}

// LocationData is an optional route attached to a journal entry.
// When present, both endpoints are always populated; a one-sided route is never persisted.
type LocationData struct {
	StartLocation LocationPoint `bson:"start_location" json:"startLocation"`
	EndLocation   LocationPoint `bson:"end_location" json:"endLocation"`
	// Distance is the human-readable summary, e.g. "6.5 km (25 mins)".
	Distance string `bson:"distance" json:"distance"`
}

// Complete reports whether both endpoints are populated.
func (l *LocationData) Complete() bool {
	return l != nil && l.StartLocation.Name != "" && l.EndLocation.Name != ""
}

// JournalEntry is one persisted travel-journal record. Entries are immutable
// once written; there is no update or delete path.
type JournalEntry struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       string             `bson:"user_id" json:"user_id"`
	Title        string             `bson:"title" json:"title"`
	Description  string             `bson:"description" json:"description"`
	Photos       []string           `bson:"photos" json:"photos"`
	LocationData *LocationData      `bson:"location_data,omitempty" json:"locationData,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}
