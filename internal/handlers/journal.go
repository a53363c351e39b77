package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/trailbook/trailbook-backend/internal/models"
	"github.com/trailbook/trailbook-backend/internal/services"
	"go.uber.org/zap"
)

const (
	maxEntryFormSize = 32 << 20 // 32MB across photos + fields
	entryTimeout     = 60 * time.Second
	listTimeout      = 5 * time.Second
)

type EntryResponse struct {
	Success bool                  `json:"success"`
	Message string                `json:"message,omitempty"`
	Entry   *models.JournalEntry  `json:"entry,omitempty"`
	Entries []models.JournalEntry `json:"entries,omitempty"`
	Total   int                   `json:"total"`
}

func writeEntryError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(EntryResponse{
		Success: false,
		Message: message,
		Entries: []models.JournalEntry{},
	})
}

// parseLocationData assembles the optional route from form fields. Returns
// nil unless both endpoints are fully present, so a one-sided route never
// reaches the flow.
func parseLocationData(r *http.Request) *models.LocationData {
	startName := r.FormValue("start_name")
	endName := r.FormValue("end_name")
	if startName == "" || endName == "" {
		return nil
	}

	startLat, err1 := strconv.ParseFloat(r.FormValue("start_lat"), 64)
	startLng, err2 := strconv.ParseFloat(r.FormValue("start_lng"), 64)
	endLat, err3 := strconv.ParseFloat(r.FormValue("end_lat"), 64)
	endLng, err4 := strconv.ParseFloat(r.FormValue("end_lng"), 64)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return nil
	}

	return &models.LocationData{
		StartLocation: models.LocationPoint{
			Name:        startName,
			Coordinates: models.Coordinates{Latitude: startLat, Longitude: startLng},
		},
		EndLocation: models.LocationPoint{
			Name:        endName,
			Coordinates: models.Coordinates{Latitude: endLat, Longitude: endLng},
		},
		Distance: r.FormValue("distance"),
	}
}

// CreateJournalEntry runs the add-entry flow for the authenticated user.
// Multipart form: title, description, optional route fields (start_name,
// start_lat, start_lng, end_name, end_lat, end_lng, distance) and zero or
// more "photos" files.
func CreateJournalEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(r)
	if !ok {
		writeEntryError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	if err := r.ParseMultipartForm(maxEntryFormSize); err != nil {
		writeEntryError(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}

	var photos []io.Reader
	if r.MultipartForm != nil {
		headers := r.MultipartForm.File["photos"]
		if len(headers) > 0 && photoService == nil {
			writeEntryError(w, http.StatusInternalServerError, "File upload service not available")
			return
		}
		for _, header := range headers {
			file, err := header.Open()
			if err != nil {
				writeEntryError(w, http.StatusInternalServerError, "Failed to open uploaded file")
				return
			}
			defer file.Close()
			photos = append(photos, file)
		}
	}

	input := services.NewEntryInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Photos:      photos,
		Location:    parseLocationData(r),
	}

	ctx, cancel := context.WithTimeout(r.Context(), entryTimeout)
	defer cancel()

	entry, entries, err := entryService.CreateEntry(ctx, userID, input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEntryInvalid):
			writeEntryError(w, http.StatusBadRequest, "Please add a title and description")
		case errors.Is(err, services.ErrSubmissionInFlight):
			writeEntryError(w, http.StatusConflict, "An entry is already being added. Please wait.")
		default:
			logger.Error("failed to create journal entry",
				zap.String("user_id", userID),
				zap.Error(err))
			writeEntryError(w, http.StatusInternalServerError, "Failed to add journal entry")
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(EntryResponse{
		Success: true,
		Message: "Journal entry added",
		Entry:   entry,
		Entries: entries,
		Total:   len(entries),
	})
}

// GetJournalEntries returns the authenticated user's entries, newest first.
func GetJournalEntries(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(r)
	if !ok {
		writeEntryError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), listTimeout)
	defer cancel()

	entries, err := journalService.ListForUser(ctx, userID)
	if err != nil {
		logger.Error("failed to list journal entries",
			zap.String("user_id", userID),
			zap.Error(err))
		writeEntryError(w, http.StatusInternalServerError, "Failed to load journal entries")
		return
	}
	if entries == nil {
		entries = []models.JournalEntry{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(EntryResponse{
		Success: true,
		Entries: entries,
		Total:   len(entries),
	})
}
