package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/trailbook/trailbook-backend/internal/models"
	"github.com/trailbook/trailbook-backend/internal/services"
	"go.uber.org/zap"
)

const (
	placesTimeout = 15 * time.Second

	// maxSearchLimit caps the limit query parameter so a request cannot ask
	// for (and pre-allocate) an arbitrarily large result set.
	maxSearchLimit = 20
)

type PlacesSearchResponse struct {
	Success bool                       `json:"success"`
	Message string                     `json:"message,omitempty"`
	Results []models.PlaceSearchResult `json:"results"`
	Total   int                        `json:"total"`
}

type PlaceDetailsResponse struct {
	Success bool                 `json:"success"`
	Message string               `json:"message,omitempty"`
	Details *models.PlaceDetails `json:"details,omitempty"`
}

type RouteRequest struct {
	StartLocation string `json:"start_location"`
	EndLocation   string `json:"end_location"`
}

type RouteResponse struct {
	Success      bool                 `json:"success"`
	Message      string               `json:"message,omitempty"`
	LocationData *models.LocationData `json:"location_data,omitempty"`
}

// searchLimit reads the limit query parameter, falling back to the default
// for missing or non-positive values and clamping to maxSearchLimit.
func searchLimit(r *http.Request) int {
	limit := services.DefaultSearchResults
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}
	return limit
}

// SearchPlaces runs a places text search for the query parameter. Queries
// under three characters return an empty list without hitting the provider.
// The explore flag wraps the query in "things to do in ..." the way the
// explore surface does.
func SearchPlaces(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	limit := searchLimit(r)

	searchQuery := query
	if r.URL.Query().Get("explore") == "true" && query != "" {
		searchQuery = "things to do in " + query
	}
	if utf8.RuneCountInString(query) < services.MinSearchQueryLength {
		searchQuery = query // below threshold: the client short-circuits
	}

	ctx, cancel := context.WithTimeout(r.Context(), placesTimeout)
	defer cancel()

	results, err := placesClient.SearchPlaces(ctx, searchQuery, limit)
	if err != nil {
		logger.Error("places search failed", zap.String("query", query), zap.Error(err))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(PlacesSearchResponse{
			Success: false,
			Message: "Failed to search places",
			Results: []models.PlaceSearchResult{},
		})
		return
	}

	response := PlacesSearchResponse{
		Success: true,
		Results: results,
		Total:   len(results),
	}
	if len(results) == 0 {
		response.Message = "No places found for this location."
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// GetPlaceDetails loads the extended fields for one place on demand.
func GetPlaceDetails(w http.ResponseWriter, r *http.Request) {
	placeID := strings.TrimSpace(r.URL.Query().Get("place_id"))
	if placeID == "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(PlaceDetailsResponse{
			Success: false,
			Message: "place_id is required",
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), placesTimeout)
	defer cancel()

	details, err := placesClient.PlaceDetails(ctx, placeID)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		if errors.Is(err, services.ErrPlaceNotFound) {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(PlaceDetailsResponse{
				Success: false,
				Message: "Could not fetch place details",
			})
			return
		}
		logger.Error("place details failed", zap.String("place_id", placeID), zap.Error(err))
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(PlaceDetailsResponse{
			Success: false,
			Message: "Failed to load place details",
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(PlaceDetailsResponse{
		Success: true,
		Details: details,
	})
}

// CalculateRoute is the "Calculate Distance" action: geocode both endpoints,
// fetch the route, and return the assembled location data the entry form
// attaches to its next submission.
func CalculateRoute(w http.ResponseWriter, r *http.Request) {
	var req RouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	req.StartLocation = strings.TrimSpace(req.StartLocation)
	req.EndLocation = strings.TrimSpace(req.EndLocation)
	if req.StartLocation == "" || req.EndLocation == "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(RouteResponse{
			Success: false,
			Message: "Please enter both start and end locations",
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), placesTimeout)
	defer cancel()

	locationData, err := placesClient.ResolveRoute(ctx, req.StartLocation, req.EndLocation)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case errors.Is(err, services.ErrPlaceNotFound):
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(RouteResponse{
				Success: false,
				Message: "Could not find one or both locations. Please try different names.",
			})
		case errors.Is(err, services.ErrNoRoute):
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(RouteResponse{
				Success: false,
				Message: "Unable to fetch route. Try another destination.",
			})
		default:
			logger.Error("route calculation failed",
				zap.String("start", req.StartLocation),
				zap.String("end", req.EndLocation),
				zap.Error(err))
			w.WriteHeader(http.StatusBadGateway)
			json.NewEncoder(w).Encode(RouteResponse{
				Success: false,
				Message: "Failed to calculate distance",
			})
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(RouteResponse{
		Success:      true,
		LocationData: locationData,
	})
}
