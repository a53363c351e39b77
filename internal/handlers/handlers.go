package handlers

import (
	"net/http"
	"strings"

	"github.com/trailbook/trailbook-backend/internal/config"
	"github.com/trailbook/trailbook-backend/internal/database"
	"github.com/trailbook/trailbook-backend/internal/services"
	"go.uber.org/zap"
)

var (
	logger         *zap.Logger
	placesClient   *services.PlacesClient
	photoService   *services.PhotoService
	journalService *services.JournalService
	entryService   *services.EntryService
)

// Init wires the handler package's services. Call after the data stores are
// connected. Photo uploads are disabled (not fatal) when Cloudinary
// credentials are missing.
func Init(cfg *config.Config, log *zap.Logger) error {
	logger = log

	placesClient = services.NewPlacesClient(cfg.GoogleMapsAPIKey, log)
	journalService = services.NewJournalService(database.DB, log)

	var uploader services.PhotoUploader
	if cfg.CloudinaryName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != "" {
		svc, err := services.NewPhotoService(cfg.CloudinaryName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, log)
		if err != nil {
			return err
		}
		photoService = svc
		uploader = svc
	} else {
		log.Warn("Cloudinary credentials not found; photo uploads will not be available")
	}

	entryService = services.NewEntryService(journalService, uploader, services.RedisSubmissionLock{}, log)
	return nil
}

// extractBearerToken pulls the token out of an Authorization header.
func extractBearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

// requireAuth validates the session and returns the authenticated user's ID.
// Returns ("", false) if not authenticated.
func requireAuth(r *http.Request) (string, bool) {
	token := extractBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		return "", false
	}
	userID, ok, err := services.ValidateSession(token)
	if err != nil || !ok {
		return "", false
	}
	return userID.String(), true
}
