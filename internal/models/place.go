package models

// PlaceSearchResult is one hit from a places text search. Transient: returned
// to the client, never persisted.
type PlaceSearchResult struct {
	Name             string      `json:"name"`
	FormattedAddress string      `json:"formatted_address"`
	PlaceID          string      `json:"place_id"`
	Coordinates      Coordinates `json:"coordinates"`
	Rating           float64     `json:"rating,omitempty"`
	UserRatingsTotal int         `json:"user_ratings_total,omitempty"`
	PhotoURL         string      `json:"photo_url,omitempty"`
	Types            []string    `json:"types,omitempty"`
}

// PlaceReview is a single user review from the place details endpoint.
type PlaceReview struct {
	AuthorName              string  `json:"author_name"`
	Rating                  float64 `json:"rating"`
	Text                    string  `json:"text"`
	RelativeTimeDescription string  `json:"relative_time_description"`
}

// PlaceDetails holds the extended fields loaded lazily for one place.
type PlaceDetails struct {
	Name                 string        `json:"name"`
	FormattedAddress     string        `json:"formatted_address"`
	FormattedPhoneNumber string        `json:"formatted_phone_number,omitempty"`
	Website              string        `json:"website,omitempty"`
	Rating               float64       `json:"rating,omitempty"`
	UserRatingsTotal     int           `json:"user_ratings_total,omitempty"`
	OpeningHours         []string      `json:"opening_hours,omitempty"`
	Reviews              []PlaceReview `json:"reviews,omitempty"`
}

// RouteSummary is the distance/duration of the first leg of a computed route.
type RouteSummary struct {
	DistanceText string `json:"distance_text"`
	DurationText string `json:"duration_text"`
}
