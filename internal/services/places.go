package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/trailbook/trailbook-backend/internal/models"
	"go.uber.org/zap"
)

const (
	// MinSearchQueryLength is the threshold below which a search is not sent
	// to the provider at all.
	MinSearchQueryLength = 3
	// DefaultSearchResults caps the number of search hits returned.
	DefaultSearchResults = 5

	placePhotoMaxWidth = 400
)

var (
	// ErrPlaceNotFound means the provider returned no usable result for a
	// geocode or details lookup (status ZERO_RESULTS or similar).
	ErrPlaceNotFound = errors.New("place not found")
	// ErrNoRoute means the directions provider found no route between the
	// two points.
	ErrNoRoute = errors.New("no route found")
)

// PlacesClient is a thin client over the Google Maps geocoding, places and
// directions web APIs. Calls are stateless, idempotent reads; no caching or
// retry is performed, so every call hits the network once.
type PlacesClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	log        *zap.Logger
}

// NewPlacesClient creates a client against the public Google Maps API host.
func NewPlacesClient(apiKey string, logger *zap.Logger) *PlacesClient {
	return NewPlacesClientWithBaseURL("https://maps.googleapis.com/maps/api", apiKey, logger)
}

// NewPlacesClientWithBaseURL allows pointing the client at a different host
// (used by tests).
func NewPlacesClientWithBaseURL(baseURL, apiKey string, logger *zap.Logger) *PlacesClient {
	return &PlacesClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		log:        logger,
	}
}

type geocodeResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

type directionsResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Routes       []struct {
		Legs []struct {
			Distance struct {
				Text string `json:"text"`
			} `json:"distance"`
			Duration struct {
				Text string `json:"text"`
			} `json:"duration"`
		} `json:"legs"`
	} `json:"routes"`
}

type placeSearchResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		Name             string `json:"name"`
		FormattedAddress string `json:"formatted_address"`
		PlaceID          string `json:"place_id"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
		Rating           float64  `json:"rating"`
		UserRatingsTotal int      `json:"user_ratings_total"`
		Types            []string `json:"types"`
		Photos           []struct {
			PhotoReference string `json:"photo_reference"`
		} `json:"photos"`
	} `json:"results"`
}

type placeDetailsResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Result       struct {
		Name                 string  `json:"name"`
		FormattedAddress     string  `json:"formatted_address"`
		FormattedPhoneNumber string  `json:"formatted_phone_number"`
		Website              string  `json:"website"`
		Rating               float64 `json:"rating"`
		UserRatingsTotal     int     `json:"user_ratings_total"`
		OpeningHours         struct {
			WeekdayText []string `json:"weekday_text"`
		} `json:"opening_hours"`
		Reviews []struct {
			AuthorName              string  `json:"author_name"`
			Rating                  float64 `json:"rating"`
			Text                    string  `json:"text"`
			RelativeTimeDescription string  `json:"relative_time_description"`
		} `json:"reviews"`
	} `json:"result"`
}

func (c *PlacesClient) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	params.Set("key", c.apiKey)
	reqURL := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach maps API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("maps API returned status code %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode maps API response: %w", err)
	}
	return nil
}

// Geocode resolves a free-text place name to coordinates and the provider's
// formatted address. Returns ErrPlaceNotFound for any non-OK provider status,
// including zero results.
func (c *PlacesClient) Geocode(ctx context.Context, name string) (*models.LocationPoint, error) {
	params := url.Values{}
	params.Set("address", name)

	var data geocodeResponse
	if err := c.get(ctx, "/geocode/json", params, &data); err != nil {
		return nil, err
	}

	if data.Status != "OK" || len(data.Results) == 0 {
		c.log.Debug("geocode returned no result",
			zap.String("query", name),
			zap.String("status", data.Status))
		return nil, ErrPlaceNotFound
	}

	first := data.Results[0]
	return &models.LocationPoint{
		Name: first.FormattedAddress,
		Coordinates: models.Coordinates{
			Latitude:  first.Geometry.Location.Lat,
			Longitude: first.Geometry.Location.Lng,
		},
	}, nil
}

// Route fetches the driving route between two points and returns the first
// returned route's first leg. No retry; a failed call surfaces immediately.
func (c *PlacesClient) Route(ctx context.Context, origin, destination models.Coordinates) (*models.RouteSummary, error) {
	params := url.Values{}
	params.Set("origin", fmt.Sprintf("%f,%f", origin.Latitude, origin.Longitude))
	params.Set("destination", fmt.Sprintf("%f,%f", destination.Latitude, destination.Longitude))

	var data directionsResponse
	if err := c.get(ctx, "/directions/json", params, &data); err != nil {
		return nil, err
	}

	if data.Status != "OK" || len(data.Routes) == 0 || len(data.Routes[0].Legs) == 0 {
		return nil, ErrNoRoute
	}

	leg := data.Routes[0].Legs[0]
	return &models.RouteSummary{
		DistanceText: leg.Distance.Text,
		DurationText: leg.Duration.Text,
	}, nil
}

// SearchPlaces runs a text search. Queries shorter than MinSearchQueryLength
// return an empty result set without issuing a network call. Results are
// truncated to maxResults in provider ranking order.
func (c *PlacesClient) SearchPlaces(ctx context.Context, query string, maxResults int) ([]models.PlaceSearchResult, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < MinSearchQueryLength {
		return []models.PlaceSearchResult{}, nil
	}
	if maxResults <= 0 {
		maxResults = DefaultSearchResults
	}

	params := url.Values{}
	params.Set("query", query)

	var data placeSearchResponse
	if err := c.get(ctx, "/place/textsearch/json", params, &data); err != nil {
		return nil, err
	}

	switch data.Status {
	case "OK":
	case "ZERO_RESULTS":
		return []models.PlaceSearchResult{}, nil
	default:
		if data.ErrorMessage != "" {
			return nil, fmt.Errorf("places API error: %s: %s", data.Status, data.ErrorMessage)
		}
		return nil, fmt.Errorf("places API error: %s", data.Status)
	}

	if maxResults > len(data.Results) {
		maxResults = len(data.Results)
	}
	results := make([]models.PlaceSearchResult, 0, maxResults)
	for _, r := range data.Results {
		if len(results) >= maxResults {
			break
		}
		place := models.PlaceSearchResult{
			Name:             r.Name,
			FormattedAddress: r.FormattedAddress,
			PlaceID:          r.PlaceID,
			Coordinates: models.Coordinates{
				Latitude:  r.Geometry.Location.Lat,
				Longitude: r.Geometry.Location.Lng,
			},
			Rating:           r.Rating,
			UserRatingsTotal: r.UserRatingsTotal,
			Types:            r.Types,
		}
		if len(r.Photos) > 0 {
			place.PhotoURL = c.PhotoURL(r.Photos[0].PhotoReference, placePhotoMaxWidth)
		}
		results = append(results, place)
	}
	return results, nil
}

// PlaceDetails fetches the extended fields (hours, phone, website, reviews)
// for one place. Loaded on demand, never prefetched with search results.
func (c *PlacesClient) PlaceDetails(ctx context.Context, placeID string) (*models.PlaceDetails, error) {
	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", "name,rating,reviews,formatted_address,formatted_phone_number,opening_hours,website,user_ratings_total")

	var data placeDetailsResponse
	if err := c.get(ctx, "/place/details/json", params, &data); err != nil {
		return nil, err
	}

	if data.Status != "OK" {
		return nil, ErrPlaceNotFound
	}

	details := &models.PlaceDetails{
		Name:                 data.Result.Name,
		FormattedAddress:     data.Result.FormattedAddress,
		FormattedPhoneNumber: data.Result.FormattedPhoneNumber,
		Website:              data.Result.Website,
		Rating:               data.Result.Rating,
		UserRatingsTotal:     data.Result.UserRatingsTotal,
		OpeningHours:         data.Result.OpeningHours.WeekdayText,
	}
	for _, rev := range data.Result.Reviews {
		details.Reviews = append(details.Reviews, models.PlaceReview{
			AuthorName:              rev.AuthorName,
			Rating:                  rev.Rating,
			Text:                    rev.Text,
			RelativeTimeDescription: rev.RelativeTimeDescription,
		})
	}
	return details, nil
}

// PhotoURL builds the place-photo URL for a photo reference.
func (c *PlacesClient) PhotoURL(photoReference string, maxWidth int) string {
	params := url.Values{}
	params.Set("maxwidth", fmt.Sprintf("%d", maxWidth))
	params.Set("photo_reference", photoReference)
	params.Set("key", c.apiKey)
	return c.baseURL + "/place/photo?" + params.Encode()
}

// ResolveRoute geocodes both endpoints and fetches the route between them,
// assembling the location data attached to journal entries. The endpoint
// names in the result are the geocoder's formatted addresses, not the raw
// user-typed strings. The distance is formatted "<distance> (<duration>)".
func (c *PlacesClient) ResolveRoute(ctx context.Context, startName, endName string) (*models.LocationData, error) {
	start, err := c.Geocode(ctx, startName)
	if err != nil {
		return nil, fmt.Errorf("geocode start location %q: %w", startName, err)
	}

	end, err := c.Geocode(ctx, endName)
	if err != nil {
		return nil, fmt.Errorf("geocode end location %q: %w", endName, err)
	}

	route, err := c.Route(ctx, start.Coordinates, end.Coordinates)
	if err != nil {
		return nil, fmt.Errorf("route %q -> %q: %w", start.Name, end.Name, err)
	}

	return &models.LocationData{
		StartLocation: *start,
		EndLocation:   *end,
		Distance:      fmt.Sprintf("%s (%s)", route.DistanceText, route.DurationText),
	}, nil
}
