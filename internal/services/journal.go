package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/trailbook/trailbook-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// JournalService persists journal entries as documents keyed by owner,
// ordered newest-first by creation time.
type JournalService struct {
	collection *mongo.Collection
	log        *zap.Logger
}

func NewJournalService(db *mongo.Database, logger *zap.Logger) *JournalService {
	return &JournalService{
		collection: db.Collection("journals"),
		log:        logger,
	}
}

// Create inserts a new entry and assigns the server-side creation timestamp.
// No automatic retry; a rejected write surfaces to the caller.
func (s *JournalService) Create(ctx context.Context, entry *models.JournalEntry) (string, error) {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	entry.CreatedAt = time.Now().UTC()
	if entry.Photos == nil {
		entry.Photos = []string{}
	}

	if _, err := s.collection.InsertOne(ctx, entry); err != nil {
		return "", fmt.Errorf("insert journal entry: %w", err)
	}

	s.log.Info("journal entry created",
		zap.String("entry_id", entry.ID.Hex()),
		zap.String("user_id", entry.UserID),
		zap.Int("photos", len(entry.Photos)))
	return entry.ID.Hex(), nil
}

// ListForUser returns the owner's entries newest first. The store sorts
// server-side; a client-side re-sort guards against documents with missing
// or partial timestamps, which sort as oldest.
func (s *JournalService) ListForUser(ctx context.Context, userID string) ([]models.JournalEntry, error) {
	filter := bson.M{"user_id": userID}

	findOptions := options.Find()
	findOptions.SetSort(bson.M{"created_at": -1})

	cursor, err := s.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("query journal entries: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []models.JournalEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("decode journal entries: %w", err)
	}

	SortEntriesNewestFirst(entries)
	return entries, nil
}

// SortEntriesNewestFirst orders entries by descending creation time.
// Entries lacking a timestamp sort last.
func SortEntriesNewestFirst(entries []models.JournalEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].CreatedAt, entries[j].CreatedAt
		if a.IsZero() {
			return false
		}
		if b.IsZero() {
			return true
		}
		return a.After(b)
	})
}
