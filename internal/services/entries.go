package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/trailbook/trailbook-backend/internal/database"
	"github.com/trailbook/trailbook-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var (
	// ErrEntryInvalid means the submission is missing required fields; no
	// network or storage call has been made.
	ErrEntryInvalid = errors.New("title and description are required")
	// ErrSubmissionInFlight means another entry submission for the same user
	// is still running.
	ErrSubmissionInFlight = errors.New("another entry submission is already in progress")
)

// EntryStore is the journal persistence surface the composition flow needs.
type EntryStore interface {
	Create(ctx context.Context, entry *models.JournalEntry) (string, error)
	ListForUser(ctx context.Context, userID string) ([]models.JournalEntry, error)
}

// PhotoUploader uploads a photo batch and returns URLs in input order.
type PhotoUploader interface {
	UploadAll(ctx context.Context, files []io.Reader, userID, entryID string) ([]string, error)
}

// SubmissionLocker guards against duplicate concurrent submissions per user.
type SubmissionLocker interface {
	Acquire(ctx context.Context, userID string) (bool, error)
	Release(ctx context.Context, userID string)
}

const (
	entryLockKeyPrefix = "entry_lock:"
	entryLockTTL       = 30 * time.Second
)

// RedisSubmissionLock implements SubmissionLocker on the shared Redis client.
type RedisSubmissionLock struct{}

func (RedisSubmissionLock) Acquire(ctx context.Context, userID string) (bool, error) {
	return database.RedisClient.SetNX(ctx, entryLockKeyPrefix+userID, "1", entryLockTTL).Result()
}

func (RedisSubmissionLock) Release(ctx context.Context, userID string) {
	database.RedisClient.Del(ctx, entryLockKeyPrefix+userID)
}

// NewEntryInput is one "add entry" submission. Location is attached only when
// both endpoints were geocoded beforehand by the calculate-distance action;
// the flow consumes it as-is and never geocodes itself.
type NewEntryInput struct {
	Title       string
	Description string
	Photos      []io.Reader
	Location    *models.LocationData
}

// EntryService orchestrates one "add entry" interaction:
// validate -> upload photos -> persist -> refresh the visible list.
type EntryService struct {
	store  EntryStore
	photos PhotoUploader
	locks  SubmissionLocker
	log    *zap.Logger
}

func NewEntryService(store EntryStore, photos PhotoUploader, locks SubmissionLocker, logger *zap.Logger) *EntryService {
	return &EntryService{
		store:  store,
		photos: photos,
		locks:  locks,
		log:    logger,
	}
}

// CreateEntry runs the full composition flow and returns the created entry
// together with the refreshed list of the user's entries (a full reload, not
// an incremental insert). Any upload or persistence failure aborts the flow
// before the entry is written; a failed photo batch is cleaned up by the
// uploader, so no partial entry and no orphaned photos remain.
func (s *EntryService) CreateEntry(ctx context.Context, userID string, input NewEntryInput) (*models.JournalEntry, []models.JournalEntry, error) {
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Description) == "" {
		return nil, nil, ErrEntryInvalid
	}

	acquired, err := s.locks.Acquire(ctx, userID)
	if err != nil {
		// Lock storage failing should not block journaling entirely.
		s.log.Warn("submission lock unavailable, proceeding without it", zap.Error(err))
	} else if !acquired {
		return nil, nil, ErrSubmissionInFlight
	} else {
		// Release on a fresh context: the request context may already be
		// canceled when the flow unwinds, and the lock must not linger for
		// its full TTL.
		defer func() {
			releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			s.locks.Release(releaseCtx, userID)
		}()
	}

	// The entry ID is minted up front so uploaded photos land in the
	// entry's own folder before the document exists.
	entryID := primitive.NewObjectID()

	var photoURLs []string
	if len(input.Photos) > 0 {
		photoURLs, err = s.photos.UploadAll(ctx, input.Photos, userID, entryID.Hex())
		if err != nil {
			return nil, nil, fmt.Errorf("upload photos: %w", err)
		}
	}

	location := input.Location
	if !location.Complete() {
		// Never persist a one-sided route.
		location = nil
	}

	entry := &models.JournalEntry{
		ID:           entryID,
		UserID:       userID,
		Title:        strings.TrimSpace(input.Title),
		Description:  strings.TrimSpace(input.Description),
		Photos:       photoURLs,
		LocationData: location,
	}

	if _, err := s.store.Create(ctx, entry); err != nil {
		return nil, nil, fmt.Errorf("persist entry: %w", err)
	}

	entries, err := s.store.ListForUser(ctx, userID)
	if err != nil {
		// The entry is persisted; a failed refresh degrades to showing
		// just the new entry.
		s.log.Warn("failed to refresh entry list after create",
			zap.String("user_id", userID),
			zap.Error(err))
		entries = []models.JournalEntry{*entry}
	}

	return entry, entries, nil
}
